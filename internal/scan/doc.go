// Package scan runs the URL scan pipeline on one uploaded image:
//
//  1. Normalize the upload (decode, apply EXIF orientation)
//  2. Compress it losslessly under the detection byte budget
//  3. Detect text with the configured ocr.Detector
//  4. Map LINE boxes onto the normalized image and outline them
//  5. Extract URLs from the LINE texts joined by single spaces
//
// A Scanner holds only read-only collaborators and is safe for concurrent
// use; each Scan call owns its images and result.
package scan
