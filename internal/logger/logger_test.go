package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewWithOutput(t *testing.T) {
	tests := []struct {
		level   string
		want    logrus.Level
		wantErr bool
	}{
		{"debug", logrus.DebugLevel, false},
		{"INFO", logrus.InfoLevel, false},
		{"warn", logrus.WarnLevel, false},
		{"error", logrus.ErrorLevel, false},
		{"chatty", logrus.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			log, err := NewWithOutput(tt.level, &buf)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error: got %v, wantErr %v", err, tt.wantErr)
			}
			if log.GetLevel() != tt.want {
				t.Errorf("level: got %s, want %s", log.GetLevel(), tt.want)
			}
		})
	}
}

func TestNewWithOutput_WritesFields(t *testing.T) {
	var buf bytes.Buffer
	log, _ := NewWithOutput("info", &buf)

	log.WithField("urls", 2).Info("Found 2 URLs in 1 Lines of text!")
	log.Debug("hidden")

	out := buf.String()
	if !strings.Contains(out, "urls=2") || !strings.Contains(out, "Found 2 URLs") {
		t.Errorf("unexpected output: %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Error("debug entry written at info level")
	}
}
