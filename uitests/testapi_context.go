package uitests

import (
	"time"

	"github.com/petclinic/petclinic-contract-tests/config"
	"github.com/petclinic/petclinic-contract-tests/framework/harness"
	"github.com/petclinic/petclinic-contract-tests/framework/ldtest"
)

type UITestContext struct {
	harness       *harness.TestHarness
	baseURL       string
	waitTimeout   time.Duration
	settleDelay   time.Duration
	screenshotDir string
}

// UITestContextProvider can be implemented by a global test context that is shared with other
// test suites.
type UITestContextProvider interface {
	UITestContext() UITestContext
}

func NewUITestContext(h *harness.TestHarness, ui config.UIConfig) UITestContext {
	return UITestContext{
		harness:       h,
		baseURL:       h.UIBaseURL(),
		waitTimeout:   ui.WaitTimeout.Std(),
		settleDelay:   ui.SettleDelay.Std(),
		screenshotDir: ui.ScreenshotDir,
	}
}

func requireContext(t *ldtest.T) UITestContext {
	switch c := t.Context().(type) {
	case UITestContext:
		return c
	case UITestContextProvider:
		return c.UITestContext()
	}
	panic("UITestContext was not included in the global test configuration!" +
		" This is a basic mistake in the initialization logic.")
}
