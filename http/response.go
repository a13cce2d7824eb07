package http

import (
	"bufio"
	"strconv"
)

// Response is built by a handler and serialized once with Write.
type Response struct {
	Status  uint16
	Headers Headers
	Body    []byte
}

func NewResponse() Response {
	return Response{
		Status:  StatusOK,
		Headers: make(Headers),
	}
}

func (res *Response) WithStatus(status uint16) *Response {
	res.Status = status
	return res
}

func (res *Response) WithText(payload string) *Response {
	res.Headers["Content-Type"] = "text/plain"
	res.Body = []byte(payload)
	return res
}

func (res *Response) WithBody(contentType string, payload []byte) *Response {
	res.Headers["Content-Type"] = contentType
	res.Body = payload
	return res
}

// Write serializes the response: status line, headers, blank line, raw body.
// Content-Length is always computed from the body. Connections are not
// persistent, so every response carries Connection: close.
func (res *Response) Write(writer *bufio.Writer) error {
	statusLine := "HTTP/1.1 " + strconv.Itoa(int(res.Status)) + " " + StatusMessage(res.Status) + "\r\n"
	if _, err := writer.WriteString(statusLine); err != nil {
		return err
	}

	res.Headers["Content-Length"] = strconv.Itoa(len(res.Body))
	res.Headers["Connection"] = "close"

	for name, value := range res.Headers {
		if _, err := writer.WriteString(name + ": " + value + "\r\n"); err != nil {
			return err
		}
	}
	if _, err := writer.WriteString("\r\n"); err != nil {
		return err
	}
	if _, err := writer.Write(res.Body); err != nil {
		return err
	}

	return writer.Flush()
}
