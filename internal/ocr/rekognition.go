package ocr

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"github.com/gerardrbentley/url-scan/internal/errs"
	"github.com/gerardrbentley/url-scan/internal/imaging"
)

// rekognitionAPI is the subset of *rekognition.Client used here.
type rekognitionAPI interface {
	DetectText(ctx context.Context, params *rekognition.DetectTextInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectTextOutput, error)
}

// Rekognition detects text with AWS Rekognition DetectText.
type Rekognition struct {
	client  rekognitionAPI
	timeout time.Duration
}

// NewRekognition builds a client for region. When accessKey and secretKey are
// both set they are used as static credentials; otherwise the default AWS
// credential chain applies.
func NewRekognition(ctx context.Context, region, accessKey, secretKey string, timeout time.Duration) (*Rekognition, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if accessKey != "" && secretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &Rekognition{client: rekognition.NewFromConfig(cfg), timeout: timeout}, nil
}

// Detect sends image inline (it must already fit the 5 MiB payload limit) and
// converts every returned TextDetection.
func (r *Rekognition) Detect(ctx context.Context, image []byte) (*Result, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	out, err := r.client.DetectText(ctx, &rekognition.DetectTextInput{
		Image: &types.Image{Bytes: image},
	})
	if err != nil {
		return nil, errs.Service(ProviderRekognition, err)
	}

	result := &Result{
		Provider:     ProviderRekognition,
		ModelVersion: aws.ToString(out.TextModelVersion),
		Detections:   make([]Detection, 0, len(out.TextDetections)),
		Raw:          out.TextDetections,
	}
	for _, td := range out.TextDetections {
		result.Detections = append(result.Detections, fromTextDetection(td))
	}
	return result, nil
}

func fromTextDetection(td types.TextDetection) Detection {
	d := Detection{
		Text:       aws.ToString(td.DetectedText),
		Kind:       KindOther,
		Confidence: float64(aws.ToFloat32(td.Confidence)),
		ID:         int(aws.ToInt32(td.Id)),
	}

	switch td.Type {
	case types.TextTypesLine:
		d.Kind = KindLine
	case types.TextTypesWord:
		d.Kind = KindWord
	}

	if td.ParentId != nil {
		parent := int(*td.ParentId)
		d.ParentID = &parent
	}

	if td.Geometry != nil && td.Geometry.BoundingBox != nil {
		bb := td.Geometry.BoundingBox
		d.Box = imaging.NormalizedBox{
			Left:   float64(aws.ToFloat32(bb.Left)),
			Top:    float64(aws.ToFloat32(bb.Top)),
			Width:  float64(aws.ToFloat32(bb.Width)),
			Height: float64(aws.ToFloat32(bb.Height)),
		}
	}
	return d
}
