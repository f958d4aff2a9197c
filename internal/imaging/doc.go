// Package imaging prepares uploaded images for text detection and draws the
// detection results back onto them.
//
// The package covers four steps of the scan pipeline:
//
//   - Normalize: decode PNG/JPEG/GIF/WebP bytes and apply EXIF orientation
//   - Compress: losslessly encode as PNG, shrinking until a byte budget is met
//   - ToPixelBox: map normalized detection boxes to pixel coordinates
//   - Annotate / Encode: outline detected boxes on a copy and serialize it
//
// # Coordinate System
//
// Pixel coordinates are 0-based with the origin at the top-left corner,
// X increasing rightward and Y increasing downward. Normalized boxes express
// the same positions as fractions of the image width and height.
//
// # Byte Budget
//
// Text-detection services limit the size of inline image payloads. Compress
// keeps the image lossless (PNG) and reduces dimensions instead of quality, so
// small text stays sharp. DefaultByteBudget is 5 MiB.
//
// # Thread Safety
//
// All functions are stateless and safe to call concurrently. Input images are
// never modified; Annotate and Compress work on copies.
//
// # Error Handling
//
// Decode failures wrap errs.ErrDecode. Compression failures wrap
// errs.ErrShrinkToZero or errs.ErrCompressionDiverged.
package imaging
