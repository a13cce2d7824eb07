package http

import "strings"

type Route struct {
	Methods []string // empty matches any method
	Path    string
	Prefix  bool
	Handler Handler
}

func (route Route) matchPath(path string) bool {
	if route.Prefix {
		return strings.HasPrefix(path, route.Path)
	}
	return path == route.Path
}

func (route Route) matchMethod(method string) bool {
	if len(route.Methods) == 0 {
		return true
	}
	for _, m := range route.Methods {
		if m == method {
			return true
		}
	}
	return false
}

var NotFoundHandler Handler = func(req *Request, res *Response) {
	res.WithStatus(StatusNotFound)
}

var MethodNotAllowedHandler Handler = func(req *Request, res *Response) {
	res.WithStatus(StatusMethodNotAllowed)
}
