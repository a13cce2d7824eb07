// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package http

const (
	StatusOK        uint16 = 200 // RFC 7231, 6.3.1
	StatusCreated   uint16 = 201 // RFC 7231, 6.3.2
	StatusAccepted  uint16 = 202 // RFC 7231, 6.3.3
	StatusNoContent uint16 = 204 // RFC 7231, 6.3.5

	StatusMovedPermanently uint16 = 301 // RFC 7231, 6.4.2
	StatusFound            uint16 = 302 // RFC 7231, 6.4.3
	StatusNotModified      uint16 = 304 // RFC 7232, 4.1

	StatusBadRequest            uint16 = 400 // RFC 7231, 6.5.1
	StatusForbidden             uint16 = 403 // RFC 7231, 6.5.3
	StatusNotFound              uint16 = 404 // RFC 7231, 6.5.4
	StatusMethodNotAllowed      uint16 = 405 // RFC 7231, 6.5.5
	StatusRequestTimeout        uint16 = 408 // RFC 7231, 6.5.7
	StatusRequestEntityTooLarge uint16 = 413 // RFC 7231, 6.5.11

	StatusInternalServerError uint16 = 500 // RFC 7231, 6.6.1
	StatusNotImplemented      uint16 = 501 // RFC 7231, 6.6.2
	StatusServiceUnavailable  uint16 = 503 // RFC 7231, 6.6.4
)

var (
	unknownStatusCode = "Unknown Status Code"

	statusMessages = []string{
		StatusOK:        "OK",
		StatusCreated:   "Created",
		StatusAccepted:  "Accepted",
		StatusNoContent: "No Content",

		StatusMovedPermanently: "Moved Permanently",
		StatusFound:            "Found",
		StatusNotModified:      "Not Modified",

		StatusBadRequest:            "Bad Request",
		StatusForbidden:             "Forbidden",
		StatusNotFound:              "Not Found",
		StatusMethodNotAllowed:      "Method Not Allowed",
		StatusRequestTimeout:        "Request Timeout",
		StatusRequestEntityTooLarge: "Request Entity Too Large",

		StatusInternalServerError: "Internal Server Error",
		StatusNotImplemented:      "Not Implemented",
		StatusServiceUnavailable:  "Service Unavailable",
	}
)

// StatusMessage returns the reason phrase for a status code.
func StatusMessage(code uint16) string {
	if int(code) < len(statusMessages) {
		if message := statusMessages[code]; message != "" {
			return message
		}
	}
	return unknownStatusCode
}
