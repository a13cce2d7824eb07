// Package handler holds the fixed route set served by rubble.
package handler

import (
	"strings"

	"github.com/freekieb7/rubble/filesystem"
	"github.com/freekieb7/rubble/http"
)

const (
	EchoPrefix  = "/echo/"
	FilesPrefix = "/files/"
)

// Register wires the route set onto router. Registration order is the
// dispatch priority: root, user-agent, echo, files, everything else 404.
func Register(router *http.Router, store filesystem.Store) {
	router.Any(nil, "/", Root)
	router.Any(nil, "/user-agent", UserAgent)
	router.AnyPrefix(EchoPrefix, Echo)
	router.GETPrefix(FilesPrefix, FileGet(store))
	router.POSTPrefix(FilesPrefix, FilePost(store))
}

// Root answers 200 with an empty body regardless of method or headers.
func Root(req *http.Request, res *http.Response) {}

// UserAgent reflects the User-Agent header, or an empty body without one.
func UserAgent(req *http.Request, res *http.Response) {
	agent, _ := req.HeaderValue("User-Agent")
	res.WithText(agent)
}

// Echo answers with whatever follows the /echo/ prefix, verbatim.
func Echo(req *http.Request, res *http.Response) {
	res.WithText(strings.TrimPrefix(req.Path, EchoPrefix))
}

// FileGet serves a file from the store, or 404 when it cannot be opened.
func FileGet(store filesystem.Store) http.Handler {
	return func(req *http.Request, res *http.Response) {
		name := strings.TrimPrefix(req.Path, FilesPrefix)

		content, err := store.Open(name)
		if err != nil {
			res.WithStatus(http.StatusNotFound)
			return
		}

		res.WithBody("application/octet-stream", content)
	}
}

// FilePost writes the request body verbatim to the store and answers 201.
func FilePost(store filesystem.Store) http.Handler {
	return func(req *http.Request, res *http.Response) {
		name := strings.TrimPrefix(req.Path, FilesPrefix)

		if err := store.Create(name, req.Body); err != nil {
			res.WithStatus(http.StatusInternalServerError)
			return
		}

		res.WithStatus(http.StatusCreated)
	}
}
