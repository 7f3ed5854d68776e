package harness

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/shuvava/go-enrichable-client/client"
	"golang.org/x/time/rate"

	"github.com/petclinic/petclinic-contract-tests/framework"
)

const jsonContentType = "application/json"

// requestIDMiddleware gives every request a unique X-Request-Id, so that a request in the test
// log can be found in the backend's log.
func requestIDMiddleware() client.MiddlewareFunc {
	return func(_ *http.Client, next client.Responder) client.Responder {
		return func(req *http.Request) (*http.Response, error) {
			if req.Header.Get(requestIDHeader) == "" {
				req.Header.Set(requestIDHeader, uuid.New().String())
			}
			return next(req)
		}
	}
}

// jsonHeadersMiddleware asks for JSON, and declares JSON for requests that have a body.
func jsonHeadersMiddleware() client.MiddlewareFunc {
	return func(_ *http.Client, next client.Responder) client.Responder {
		return func(req *http.Request) (*http.Response, error) {
			req.Header.Set("Accept", jsonContentType)
			if req.Body != nil && req.Body != http.NoBody {
				req.Header.Set("Content-Type", jsonContentType)
			}
			return next(req)
		}
	}
}

// rateLimitMiddleware waits for the limiter before each request. A nil limiter does nothing.
func rateLimitMiddleware(limiter *rate.Limiter) client.MiddlewareFunc {
	return func(_ *http.Client, next client.Responder) client.Responder {
		if limiter == nil {
			return next
		}
		return func(req *http.Request) (*http.Response, error) {
			if err := limiter.Wait(req.Context()); err != nil {
				return nil, fmt.Errorf("rate limiter: %w", err)
			}
			return next(req)
		}
	}
}

// loggingMiddleware logs each request and response with their bodies. The response body is
// read here and replaced with an in-memory copy.
func loggingMiddleware(logger framework.Logger) client.MiddlewareFunc {
	return func(_ *http.Client, next client.Responder) client.Responder {
		return func(req *http.Request) (*http.Response, error) {
			requestID := req.Header.Get(requestIDHeader)
			if body := requestBody(req); len(body) > 0 {
				logger.Printf(">> %s %s [%s] %s", req.Method, req.URL, requestID, string(body))
			} else {
				logger.Printf(">> %s %s [%s]", req.Method, req.URL, requestID)
			}

			resp, err := next(req)
			if err != nil {
				logger.Printf("<< %s %s [%s] failed: %s", req.Method, req.URL, requestID, err)
				return nil, err
			}
			data, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("failed to read response body: %w", err)
			}
			resp.Body = io.NopCloser(bytes.NewReader(data))
			if len(data) > 0 {
				logger.Printf("<< %d [%s] %s", resp.StatusCode, requestID, string(data))
			} else {
				logger.Printf("<< %d [%s]", resp.StatusCode, requestID)
			}
			return resp, nil
		}
	}
}

func requestBody(req *http.Request) []byte {
	if req.GetBody == nil {
		return nil
	}
	body, err := req.GetBody()
	if err != nil {
		return nil
	}
	defer body.Close()
	data, _ := io.ReadAll(body)
	return data
}
