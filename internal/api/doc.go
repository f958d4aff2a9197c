// Package api exposes the scan pipeline over HTTP with gin.
//
// Routes:
//
//	GET  /health                        liveness and provider info
//	POST /api/v1/scan                   JSON result (?include_image=true adds the annotated PNG)
//	POST /api/v1/scan/annotated         annotated image (?format=png|webp|jpeg)
//	POST /api/v1/scan/download/urls     extracted_urls.json attachment
//	POST /api/v1/scan/download/text     extracted_text.json attachment
//
// Every POST takes a multipart form with the image in the "file" field. Only
// .png, .jpg and .jpeg uploads are accepted; anything else is rejected with
// 415 before decoding.
package api
