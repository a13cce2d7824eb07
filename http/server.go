package http

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type Server struct {
	Name        string
	Router      *Router
	WorkerCount int

	mu         sync.Mutex
	listener   net.Listener
	pool       *WorkerPool
	acceptDone chan struct{}

	logger *slog.Logger
	tracer trace.Tracer

	connectionsAccepted metric.Int64Counter
	requestsHandled     metric.Int64Counter
}

func NewServer(name string) *Server {
	logger := otelslog.NewLogger(name)
	tracer := otel.Tracer(name)
	meter := otel.Meter(name)

	connectionsAccepted, err := meter.Int64Counter("rubble.connections.accepted",
		metric.WithDescription("The number of accepted TCP connections"),
		metric.WithUnit("{connection}"))
	if err != nil {
		panic(err)
	}

	requestsHandled, err := meter.Int64Counter("rubble.requests.handled",
		metric.WithDescription("The number of handled requests by status code"),
		metric.WithUnit("{request}"))
	if err != nil {
		panic(err)
	}

	return &Server{
		Name:        name,
		Router:      NewRouter(),
		WorkerCount: DefaultWorkerCount,

		logger: logger,
		tracer: tracer,

		connectionsAccepted: connectionsAccepted,
		requestsHandled:     requestsHandled,
	}
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	return s.Serve(listener)
}

// Serve accepts connections until the listener is closed, handing each one
// to the worker pool. A failed accept is logged and the loop continues.
func (s *Server) Serve(listener net.Listener) error {
	s.mu.Lock()
	s.listener = listener
	if s.pool == nil {
		count := s.WorkerCount
		if count <= 0 {
			count = DefaultWorkerCount
		}
		s.pool = NewWorkerPool(count, s.logger)
	}
	pool := s.pool
	acceptDone := make(chan struct{})
	s.acceptDone = acceptDone
	s.mu.Unlock()

	defer close(acceptDone)

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.logger.Error("failed to accept connection", "error", err)
			continue
		}

		s.connectionsAccepted.Add(context.Background(), 1)
		pool.Execute(func() {
			s.ServeConn(conn)
		})
	}
}

// ServeConn handles one connection end to end: parse, route, encode, write.
// The connection is closed after a single response.
func (s *Server) ServeConn(conn net.Conn) {
	defer conn.Close()

	connID := uuid.NewString()
	reader := bufio.NewReaderSize(conn, DefaultReadBufferSize)
	writer := bufio.NewWriterSize(conn, DefaultWriteBufferSize)

	var req Request
	res := NewResponse()

	if err := req.Parse(reader); err != nil {
		if err == io.EOF {
			return
		}
		s.logger.Warn("request parse failed", "conn_id", connID, "error", err)

		res.WithStatus(StatusBadRequest)
		if err := res.Write(writer); err != nil {
			s.logger.Warn("response write failed", "conn_id", connID, "error", err)
		}
		return
	}

	ctx, span := s.tracer.Start(context.Background(), "http.request", trace.WithAttributes(
		attribute.String("http.method", req.Method),
		attribute.String("http.path", req.Path),
	))
	defer span.End()

	s.Router.Handler()(&req, &res)

	if err := negotiateEncoding(&req, &res); err != nil {
		s.logger.Error("body compression failed", "conn_id", connID, "error", err)
		res = NewResponse()
		res.WithStatus(StatusInternalServerError)
	}

	span.SetAttributes(attribute.Int("http.status_code", int(res.Status)))
	s.requestsHandled.Add(ctx, 1, metric.WithAttributes(attribute.Int("status", int(res.Status))))

	if err := res.Write(writer); err != nil {
		s.logger.Warn("response write failed", "conn_id", connID, "error", err)
		return
	}

	s.logger.Debug("request handled",
		"conn_id", connID, "method", req.Method, "path", req.Path, "status", res.Status)
}

// Shutdown stops accepting, waits for the accept loop to exit and drains
// the worker pool. It returns early with the context error on timeout.
// After a completed Shutdown the server may Serve again; a new pool is
// started for the next listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	listener := s.listener
	pool := s.pool
	acceptDone := s.acceptDone
	s.mu.Unlock()

	if listener != nil {
		listener.Close()
	}
	if acceptDone != nil {
		<-acceptDone
	}
	if pool == nil {
		return nil
	}

	drained := make(chan struct{})
	go func() {
		pool.Stop()
		close(drained)
	}()

	select {
	case <-drained:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.mu.Lock()
	s.pool = nil
	s.listener = nil
	s.acceptDone = nil
	s.mu.Unlock()

	return nil
}
