package http

import "errors"

var (
	ErrMalformedRequestLine = errors.New("http: malformed request line")
	ErrMalformedHeaderLine  = errors.New("http: malformed header line")
	ErrInvalidContentLength = errors.New("http: invalid content-length value")
	ErrRequestTooLarge      = errors.New("http: request body exceeds limit")
)
