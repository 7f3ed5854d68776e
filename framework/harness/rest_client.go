package harness

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shuvava/go-enrichable-client/client"
	"golang.org/x/time/rate"

	"github.com/petclinic/petclinic-contract-tests/framework"
)

const (
	defaultRequestTimeout = 10 * time.Second
	requestIDHeader       = "X-Request-Id"
)

// RESTClientOptions contains optional settings for NewRESTClient.
type RESTClientOptions struct {
	// Timeout applies to each request, including reading the response body. Zero means
	// defaultRequestTimeout.
	Timeout time.Duration

	// Limiter, if not nil, is waited on before every request.
	Limiter *rate.Limiter

	Logger framework.Logger

	// Transport defaults to http.DefaultTransport.
	Transport http.RoundTripper
}

// RESTClient sends JSON requests to the backend API. It never fails a test by itself: every
// response, whatever its status, is returned to the caller to make assertions about.
//
// Requests go through a middleware chain that rate-limits them, tags them with a request id,
// sets the JSON headers and logs them. Every request is sent exactly once; there is no retry
// middleware.
type RESTClient struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

func NewRESTClient(baseURL string, options RESTClientOptions) *RESTClient {
	transport := options.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	logger := options.Logger
	if logger == nil {
		logger = framework.NullLogger()
	}
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	enriched := client.NewClient(transport)
	enriched.Use(
		rateLimitMiddleware(options.Limiter),
		requestIDMiddleware(),
		jsonHeadersMiddleware(),
		loggingMiddleware(logger),
	)
	return &RESTClient{
		baseURL:    baseURL,
		httpClient: enriched.Client,
		timeout:    timeout,
	}
}

func (c *RESTClient) Get(path string) (*Response, error) {
	return c.Do(http.MethodGet, path, nil)
}

func (c *RESTClient) Post(path string, body interface{}) (*Response, error) {
	return c.Do(http.MethodPost, path, body)
}

func (c *RESTClient) Put(path string, body interface{}) (*Response, error) {
	return c.Do(http.MethodPut, path, body)
}

func (c *RESTClient) Delete(path string) (*Response, error) {
	return c.Do(http.MethodDelete, path, nil)
}

// Do sends a request to baseURL+path. If body is not nil it is sent as JSON: a []byte or
// json.RawMessage is sent as is, anything else goes through json.Marshal.
func (c *RESTClient) Do(method, path string, body interface{}) (*Response, error) {
	var data []byte
	switch b := body.(type) {
	case nil:
	case []byte:
		data = b
	case json.RawMessage:
		data = b
	default:
		var err error
		if data, err = json.Marshal(body); err != nil {
			return nil, fmt.Errorf("failed to serialize request body: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	var bodyReader io.Reader
	if data != nil {
		bodyReader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()
	respData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: failed to read response body: %w", method, path, err)
	}

	sent := req
	if resp.Request != nil {
		sent = resp.Request
	}
	return &Response{
		Method:    method,
		Path:      path,
		RequestID: sent.Header.Get(requestIDHeader),
		Status:    resp.StatusCode,
		Header:    resp.Header,
		Body:      respData,
	}, nil
}
