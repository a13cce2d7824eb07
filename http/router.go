package http

// Router matches requests against routes in registration order; the first
// route whose path and method both match wins. A path match without a
// method match yields 405, no path match yields 404.
type Router struct {
	Routes []Route
}

func NewRouter() *Router {
	return &Router{
		Routes: make([]Route, 0),
	}
}

func (router *Router) GET(path string, handler Handler) {
	router.Any([]string{MethodGet}, path, handler)
}

func (router *Router) POST(path string, handler Handler) {
	router.Any([]string{MethodPost}, path, handler)
}

func (router *Router) Any(methods []string, path string, handler Handler) {
	router.add(methods, path, false, handler)
}

func (router *Router) GETPrefix(prefix string, handler Handler) {
	router.add([]string{MethodGet}, prefix, true, handler)
}

func (router *Router) POSTPrefix(prefix string, handler Handler) {
	router.add([]string{MethodPost}, prefix, true, handler)
}

func (router *Router) AnyPrefix(prefix string, handler Handler) {
	router.add(nil, prefix, true, handler)
}

func (router *Router) add(methods []string, path string, prefix bool, handler Handler) {
	router.Routes = append(router.Routes, Route{
		Methods: methods,
		Path:    path,
		Prefix:  prefix,
		Handler: handler,
	})
}

func (router *Router) Handler() Handler {
	return func(req *Request, res *Response) {
		pathMatched := false
		for _, route := range router.Routes {
			if !route.matchPath(req.Path) {
				continue
			}
			pathMatched = true

			if !route.matchMethod(req.Method) {
				continue
			}

			route.Handler(req, res)
			return
		}

		if pathMatched {
			MethodNotAllowedHandler(req, res)
			return
		}
		NotFoundHandler(req, res)
	}
}
