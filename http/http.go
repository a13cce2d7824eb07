package http

const (
	DefaultAddr        = "127.0.0.1:4221"
	DefaultWorkerCount = 16
	JobQueueSize       = 2000

	DefaultReadBufferSize  = 4096            // 4kB
	DefaultWriteBufferSize = 4096            // 4kB
	MaxRequestSize         = 2 * 1024 * 1024 // 2MB
)

const (
	MethodGet  = "GET"
	MethodPost = "POST"
)

// Handler produces a Response from a parsed Request.
type Handler func(req *Request, res *Response)
