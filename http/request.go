package http

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Headers maps lower-cased header names to their values. Names are unique;
// a repeated header keeps the last value seen.
type Headers map[string]string

type Request struct {
	Method  string
	Path    string
	Proto   string
	Headers Headers

	Body []byte
}

// HeaderValue looks up a header by name, case-insensitively.
func (req *Request) HeaderValue(name string) (string, bool) {
	value, found := req.Headers[strings.ToLower(name)]
	return value, found
}

// Parse reads one HTTP/1.1 request message from reader.
//
// The request line must split into exactly three whitespace-separated
// tokens. Header lines are read until a blank line; each must contain a
// name/value separator. The body is read per Content-Length, capped at
// MaxRequestSize. A request without a terminating blank line is accepted
// with whatever headers were read and an empty body.
func (req *Request) Parse(reader *bufio.Reader) error {
	requestLine, err := readLine(reader)
	if err != nil {
		return err
	}

	parts := strings.Fields(requestLine)
	if len(parts) != 3 {
		return ErrMalformedRequestLine
	}
	req.Method, req.Path, req.Proto = parts[0], parts[1], parts[2]

	req.Headers = make(Headers)
	req.Body = nil

	sawBlankLine := false
	for {
		line, err := readLine(reader)
		if err != nil {
			if err == io.EOF {
				break
			}
			return err
		}
		if line == "" {
			sawBlankLine = true
			break
		}

		i := strings.IndexByte(line, ':')
		if i <= 0 {
			return ErrMalformedHeaderLine
		}
		name := strings.ToLower(strings.TrimSpace(line[:i]))
		value := strings.TrimSpace(line[i+1:])
		req.Headers[name] = value
	}

	if !sawBlankLine {
		return nil
	}

	rawLength, found := req.Headers["content-length"]
	if !found {
		return nil
	}
	length, err := strconv.Atoi(rawLength)
	if err != nil || length < 0 {
		return ErrInvalidContentLength
	}
	if length == 0 {
		return nil
	}
	if length > MaxRequestSize {
		return ErrRequestTooLarge
	}

	body := make([]byte, length)
	n, err := io.ReadFull(reader, body)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return err
	}
	// A short read keeps whatever arrived; the body is verbatim bytes.
	req.Body = body[:n]
	return nil
}

// readLine reads up to LF and strips the trailing CRLF.
func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
