package lambda

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type route struct {
	method   string
	pattern  string
	segments []string
	handler  HandlerFunc
}

// Router dispatches requests by method and path. Patterns may contain
// {name} segments which are exposed through Request.PathParams.
type Router struct {
	routes   []route
	notFound HandlerFunc
	logger   *logrus.Logger
}

// NewRouter creates a router that answers unmatched routes with 404
func NewRouter(logger *logrus.Logger) *Router {
	if logger == nil {
		logger = logrus.New()
	}
	return &Router{
		logger: logger,
		notFound: func(ctx context.Context, req *Request) (*Response, error) {
			return Message(http.StatusNotFound, "Resource not found"), nil
		},
	}
}

// Handle registers a handler for method and pattern
func (r *Router) Handle(method, pattern string, h HandlerFunc) {
	r.routes = append(r.routes, route{
		method:   strings.ToUpper(method),
		pattern:  pattern,
		segments: splitPath(pattern),
		handler:  h,
	})
}

// NotFound replaces the handler used for unmatched routes
func (r *Router) NotFound(h HandlerFunc) {
	r.notFound = h
}

// Serve routes a request and always returns a response
func (r *Router) Serve(ctx context.Context, req *Request) (resp *Response) {
	start := time.Now()
	entry := r.logger.WithFields(logrus.Fields{
		"method":     req.Method,
		"path":       req.Path,
		"request_id": req.RequestID,
	})

	defer func() {
		if rec := recover(); rec != nil {
			entry.WithField("panic", fmt.Sprint(rec)).Error("Handler panicked")
			resp = InternalError()
		}
		entry.WithFields(logrus.Fields{
			"status":   resp.StatusCode,
			"duration": time.Since(start).String(),
		}).Info("Request completed")
	}()

	if strings.EqualFold(req.Method, http.MethodOptions) {
		return JSON(http.StatusOK, struct{}{})
	}

	handler, params := r.match(req.Method, req.Path)
	if handler == nil {
		handler = r.notFound
	}
	if req.PathParams == nil {
		req.PathParams = map[string]string{}
	}
	for k, v := range params {
		req.PathParams[k] = v
	}

	out, err := handler(ctx, req)
	if err != nil {
		entry.WithError(err).Error("Unhandled handler error")
		return InternalError()
	}
	if out == nil {
		return InternalError()
	}
	return out
}

func (r *Router) match(method, path string) (HandlerFunc, map[string]string) {
	segments := splitPath(path)
	for _, rt := range r.routes {
		if rt.method != strings.ToUpper(method) || len(rt.segments) != len(segments) {
			continue
		}
		params := map[string]string{}
		matched := true
		for i, seg := range rt.segments {
			if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
				if segments[i] == "" {
					matched = false
					break
				}
				params[seg[1:len(seg)-1]] = segments[i]
				continue
			}
			if seg != segments[i] {
				matched = false
				break
			}
		}
		if matched {
			return rt.handler, params
		}
	}
	return nil, nil
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return []string{}
	}
	return strings.Split(trimmed, "/")
}
