package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/petclinic/petclinic-contract-tests/apitests"
	"github.com/petclinic/petclinic-contract-tests/config"
	"github.com/petclinic/petclinic-contract-tests/framework"
	"github.com/petclinic/petclinic-contract-tests/framework/harness"
	"github.com/petclinic/petclinic-contract-tests/framework/ldtest"
	"github.com/petclinic/petclinic-contract-tests/uitests"
)

// suiteContext is the global test context. It gives each suite the part of the configuration
// that it needs.
type suiteContext struct {
	api apitests.APITestContext
	ui  uitests.UITestContext
}

func (c suiteContext) APITestContext() apitests.APITestContext { return c.api }
func (c suiteContext) UITestContext() uitests.UITestContext    { return c.ui }

func main() {
	var params commandParams
	if !params.Read(os.Args) {
		os.Exit(1)
	}

	cfg, err := loadConfig(params)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	for _, id := range cfg.Defects.AssumeFixed {
		if _, ok := apitests.FindDefect(id); !ok {
			fmt.Fprintf(os.Stderr, "Warning: %q is not a known defect and will be ignored\n", id)
		}
	}

	mainDebugLogger := framework.NullLogger()
	if params.debugAll {
		logger := logrus.New()
		logger.SetOutput(os.Stdout)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		logger.SetLevel(logrus.DebugLevel)
		mainDebugLogger = logger
	}

	harnessParams := harness.Params{
		APIBaseURL:        cfg.API.BaseURL,
		StatusPath:        cfg.API.StatusPath,
		StatusTimeout:     cfg.API.StatusTimeout.Std(),
		RequestTimeout:    cfg.API.RequestTimeout.Std(),
		RequestsPerSecond: cfg.API.RequestsPerSecond,
		Browser: harness.BrowserOptions{
			Headless:     cfg.UI.Headless,
			NoSandbox:    cfg.UI.NoSandbox,
			ChromePath:   cfg.UI.ChromePath,
			WindowWidth:  cfg.UI.WindowWidth,
			WindowHeight: cfg.UI.WindowHeight,
		},
	}
	if cfg.UI.Enabled {
		harnessParams.UIBaseURL = cfg.UI.BaseURL
	}

	h, err := harness.NewTestHarness(harnessParams, mainDebugLogger, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Test harness error: %s\n", err)
		os.Exit(1)
	}

	fmt.Println()
	ldtest.PrintFilterDescription(params.filters, harness.AllCapabilities, h.Capabilities())

	if cfg.Defects.Strict {
		fmt.Println("Strict mode: known defects of the backend will be reported as failures")
		fmt.Println()
	}

	fmt.Println("Running test suite")

	testLogger := ldtest.ConsoleTestLogger{
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	testConfig := ldtest.TestConfiguration{
		Filter:       params.filters.AsFilter,
		Capabilities: h.Capabilities(),
		TestLogger:   testLogger,
		Context: suiteContext{
			api: apitests.NewAPITestContext(h, cfg.Defects),
			ui:  uitests.NewUITestContext(h, cfg.UI),
		},
	}

	results := ldtest.Run(testConfig, func(t *ldtest.T) {
		t.Run("api", apitests.DoAllAPITests)
		t.Run("ui", uitests.DoAllUITests)
	})

	fmt.Println()
	ldtest.PrintResults(os.Stdout, results)
	if !results.OK() {
		fmt.Println()
		fmt.Println("To run only the failed tests:")
		fmt.Printf("  %s\n", rerunCommand(os.Args, results.Failures))
		os.Exit(1)
	}
}

func loadConfig(params commandParams) (*config.Config, error) {
	cfg, err := config.Load(params.configFile)
	if err != nil {
		return nil, err
	}
	if params.apiURL != "" {
		cfg.API.BaseURL = params.apiURL
	}
	if params.uiURL != "" {
		cfg.UI.BaseURL = params.uiURL
	}
	if params.strict {
		cfg.Defects.Strict = true
	}
	if params.noUI {
		cfg.UI.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
