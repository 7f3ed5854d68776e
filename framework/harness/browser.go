package harness

import (
	"context"

	"github.com/chromedp/chromedp"

	"github.com/petclinic/petclinic-contract-tests/framework"
)

// BrowserOptions controls how Chrome is launched for browser tests.
type BrowserOptions struct {
	Headless bool

	// ChromePath overrides the Chrome executable. If empty, chromedp looks in the usual places.
	ChromePath string

	WindowWidth  int
	WindowHeight int

	// NoSandbox disables Chrome's sandbox, which Chrome requires when it runs as root, as it
	// usually does in containers.
	NoSandbox bool
}

func (o BrowserOptions) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption(nil), chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", o.Headless),
		chromedp.Flag("disable-gpu", true),
	)
	if o.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	if o.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(o.ChromePath))
	}
	if o.WindowWidth > 0 && o.WindowHeight > 0 {
		opts = append(opts, chromedp.WindowSize(o.WindowWidth, o.WindowHeight))
	}
	return opts
}

// NewBrowserContext starts a new browser and returns a context for driving it with chromedp.
// Browser log output goes to the logger. The returned function closes the browser.
func NewBrowserContext(parent context.Context, options BrowserOptions, logger framework.Logger) (context.Context, func()) {
	if logger == nil {
		logger = framework.NullLogger()
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, options.allocatorOptions()...)
	browserLogger := framework.LoggerWithPrefix(logger, "[browser] ")
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(browserLogger.Printf),
		chromedp.WithErrorf(browserLogger.Printf),
	)
	return browserCtx, func() {
		if err := chromedp.Cancel(browserCtx); err != nil {
			logger.Printf("Browser did not shut down cleanly: %s", err)
		}
		cancelBrowser()
		cancelAlloc()
	}
}

// NewBrowserContext starts a browser using the harness's configured options.
func (h *TestHarness) NewBrowserContext(logger framework.Logger) (context.Context, func()) {
	return NewBrowserContext(context.Background(), h.params.Browser, logger)
}
