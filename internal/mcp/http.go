package mcp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

const (
	defaultHTTPPath     = "/mcp"
	defaultMaxBodyBytes = 2 << 20
	shutdownTimeout     = 5 * time.Second
	requestIDHeader     = "X-Request-ID"
)

// HTTPOptions configures the streamable HTTP transport.
type HTTPOptions struct {
	Addr         string
	Path         string
	MaxBodyBytes int64
	Logger       *zap.Logger
}

// NewHTTPHandler serves the MCP endpoint at a single POST route. Each request is
// handled by a fresh stateless session that ends with the request.
func NewHTTPHandler(s *Server, opts HTTPOptions) http.Handler {
	if opts.Path == "" {
		opts.Path = defaultHTTPPath
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	if opts.Logger == nil {
		opts.Logger = s.logger
	}

	streamable := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, &mcp.StreamableHTTPOptions{
		Stateless:    true,
		JSONResponse: true,
	})

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery(), requestID(), accessLog(opts.Logger))

	r.POST(opts.Path, limitBody(opts.MaxBodyBytes), gin.WrapH(streamable))
	return r
}

// ServeHTTP listens on opts.Addr until ctx is cancelled, then shuts down
// gracefully.
func ServeHTTP(ctx context.Context, s *Server, opts HTTPOptions) error {
	if s == nil {
		return errors.New("server is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = s.logger
	}

	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           NewHTTPHandler(s, opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving MCP over HTTP", zap.String("addr", opts.Addr), zap.String("path", pathOrDefault(opts.Path)))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		logger.Info("http server stopped")
		return nil
	}
}

func pathOrDefault(path string) string {
	if path == "" {
		return defaultHTTPPath
	}
	return path
}

func limitBody(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}

// requestID reuses an incoming X-Request-ID or assigns a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func accessLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			zap.String("request_id", c.GetString(requestIDHeader)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
