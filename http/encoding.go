package http

import (
	"bytes"
	"compress/gzip"
	"strings"
)

// acceptsGzip reports whether the request's Accept-Encoding header lists
// the exact token "gzip" in its comma-separated value set.
func acceptsGzip(req *Request) bool {
	raw, found := req.HeaderValue("Accept-Encoding")
	if !found {
		return false
	}
	for _, token := range strings.Split(raw, ",") {
		if strings.TrimSpace(token) == "gzip" {
			return true
		}
	}
	return false
}

// negotiateEncoding runs after routing and before serialization. When the
// client accepts gzip and the handler produced a non-empty body, the body
// is compressed and Content-Encoding is set; Content-Length is computed
// from the compressed body at write time.
func negotiateEncoding(req *Request, res *Response) error {
	if len(res.Body) == 0 || !acceptsGzip(req) {
		return nil
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(res.Body); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}

	res.Headers["Content-Encoding"] = "gzip"
	res.Body = buf.Bytes()
	return nil
}
