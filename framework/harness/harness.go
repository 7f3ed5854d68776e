// Package harness provides access to the system under test: it waits for the pet-clinic
// backend to come up, finds out which parts of the system are reachable, and hands out REST
// clients and browser contexts to the tests.
package harness

import (
	"fmt"
	"io"
	"time"

	"golang.org/x/time/rate"

	"github.com/petclinic/petclinic-contract-tests/framework"
)

const (
	// CapabilityAPI is always present: the harness does not start unless the backend responds.
	CapabilityAPI = "api"

	// CapabilityUI means the frontend responded and browser tests are enabled.
	CapabilityUI = "ui"
)

// AllCapabilities is every capability that a test run can have.
var AllCapabilities = []string{CapabilityAPI, CapabilityUI}

const frontendProbeTimeout = 5 * time.Second

// Params configures a TestHarness.
type Params struct {
	APIBaseURL    string
	StatusPath    string
	StatusTimeout time.Duration

	RequestTimeout    time.Duration
	RequestsPerSecond float64

	// UIBaseURL is the address of the frontend. If empty, browser tests are disabled.
	UIBaseURL string
	Browser   BrowserOptions
}

type TestHarness struct {
	params       Params
	capabilities framework.Capabilities
	limiter      *rate.Limiter
	logger       framework.Logger
}

// NewTestHarness creates a TestHarness instance, and verifies that the backend is responding
// by querying its status resource. If a frontend address is configured, it also checks
// whether the frontend is responding; if not, browser tests will be skipped.
func NewTestHarness(
	params Params,
	debugLogger framework.Logger,
	startupOutput io.Writer,
) (*TestHarness, error) {
	if debugLogger == nil {
		debugLogger = framework.NullLogger()
	}

	h := &TestHarness{
		params:       params,
		capabilities: framework.Capabilities{CapabilityAPI},
		logger:       debugLogger,
	}
	if params.RequestsPerSecond > 0 {
		burst := int(params.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		h.limiter = rate.NewLimiter(rate.Limit(params.RequestsPerSecond), burst)
	}

	if err := waitForService(params.APIBaseURL+params.StatusPath, params.StatusTimeout, startupOutput); err != nil {
		return nil, fmt.Errorf("backend is not available: %w", err)
	}

	if params.UIBaseURL != "" {
		if err := probeFrontend(params.UIBaseURL, frontendProbeTimeout); err != nil {
			fmt.Fprintf(startupOutput, "Frontend at %s is not available (%s); browser tests will be skipped\n",
				params.UIBaseURL, err)
		} else {
			fmt.Fprintf(startupOutput, "Frontend at %s is available\n", params.UIBaseURL)
			h.capabilities = append(h.capabilities, CapabilityUI)
		}
	}

	return h, nil
}

func (h *TestHarness) Capabilities() framework.Capabilities {
	return h.capabilities
}

func (h *TestHarness) APIBaseURL() string {
	return h.params.APIBaseURL
}

func (h *TestHarness) UIBaseURL() string {
	return h.params.UIBaseURL
}

// NewRESTClient returns a client for the backend API that logs to the given test logger. All
// clients created by the same harness share one rate limiter.
func (h *TestHarness) NewRESTClient(logger framework.Logger) *RESTClient {
	return NewRESTClient(h.params.APIBaseURL, RESTClientOptions{
		Timeout: h.params.RequestTimeout,
		Limiter: h.limiter,
		Logger:  logger,
	})
}
