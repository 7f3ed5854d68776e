package ldtest

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/petclinic/petclinic-contract-tests/framework"
)

// TestConfiguration contains the parameters for a test run.
type TestConfiguration struct {
	// Filter, if not nil, decides which tests are run. Tests that it rejects are reported as
	// skipped.
	Filter Filter

	// Capabilities is the set of optional features available in this test run.
	Capabilities framework.Capabilities

	// TestLogger receives progress notifications. If nil, nothing is reported.
	TestLogger TestLogger

	// Context is an arbitrary value that domain-specific test code can retrieve with T.Context.
	Context interface{}
}

type testEnv struct {
	config  TestConfiguration
	results Results
}

// T represents a test or subtest.
//
// It implements the same basic functionality as Go's testing.T, but in an environment that is
// outside of the Go test runner, and with some extra features such as debug logging and
// capabilities. To make test assertions, use the assert and require packages from testify,
// passing the *T as if it were a *testing.T.
type T struct {
	id          TestID
	env         *testEnv
	debugLogger framework.CapturingLogger
	failed      bool
	skipped     bool
	skipReason  string
	errors      []error
	cleanups    []func()
}

// Run starts a test run. The action receives the root-level T, which normally just calls Run
// for each top-level group of tests.
func Run(config TestConfiguration, action func(*T)) Results {
	if config.TestLogger == nil {
		config.TestLogger = nullTestLogger{}
	}
	env := &testEnv{config: config}
	t := &T{env: env}
	t.run(action)
	return env.results
}

func (t *T) run(action func(*T)) {
	defer t.finish()
	defer t.runCleanups()
	defer t.recoverFromPanic()
	action(t)
}

// recoverFromPanic ends the test body. It runs before the deferred cleanups, so that they can
// see whether the test failed.
func (t *T) recoverFromPanic() {
	r := recover()
	if r == nil || t.skipped {
		return
	}
	t.failed = true
	var addError error
	if _, ok := r.(*T); ok {
		if len(t.errors) == 0 {
			addError = errors.New("test failed with no failure message")
		}
	} else {
		addError = fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
	}
	if addError != nil {
		t.errors = append(t.errors, addError)
		t.env.config.TestLogger.TestError(t.id, addError)
	}
}

// finish records the result. The root test is only recorded if it failed, which happens when
// the top-level action itself panics or makes a failed assertion.
func (t *T) finish() {
	result := TestResult{TestID: t.id, Errors: t.errors, Skipped: t.skipped}
	if len(t.id.Path) == 0 {
		if t.failed && !t.skipped {
			t.env.results.Tests = append(t.env.results.Tests, result)
			t.env.results.Failures = append(t.env.results.Failures, result)
		}
		return
	}
	t.env.results.Tests = append(t.env.results.Tests, result)
	if t.failed && !t.skipped {
		t.env.results.Failures = append(t.env.results.Failures, result)
	}
}

func (t *T) runCleanups() {
	for len(t.cleanups) > 0 {
		last := len(t.cleanups) - 1
		f := t.cleanups[last]
		t.cleanups = t.cleanups[:last]
		t.runCleanup(f)
	}
}

func (t *T) runCleanup(f func()) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(*T); ok {
				return // FailNow inside a cleanup; the error was already recorded
			}
			t.Errorf("unexpected panic in deferred cleanup: %+v", r)
		}
	}()
	f()
}

// ID returns the identifier of this test.
func (t *T) ID() TestID {
	return t.id
}

// Run runs a subtest. This is equivalent to the Run method of testing.T. Subtests always run
// sequentially, in the order that Run is called.
func (t *T) Run(name string, action func(*T)) {
	id := t.id.Plus(name)

	t.env.config.TestLogger.TestStarted(id)
	if t.env.config.Filter != nil && !t.env.config.Filter(id) {
		t.env.config.TestLogger.TestSkipped(id, "excluded by filter parameters")
		t.env.results.Tests = append(t.env.results.Tests, TestResult{TestID: id, Skipped: true})
		return
	}
	t1 := &T{
		id:  id,
		env: t.env,
	}
	t1.run(action)
	if t1.skipped {
		t.env.config.TestLogger.TestSkipped(id, t1.skipReason)
	} else {
		t.env.config.TestLogger.TestFinished(id, t1.failed, t1.debugLogger.Output())
	}
}

// Errorf is called by assertions to log a test failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.failed = true
	err := fmt.Errorf(format, args...)
	t.errors = append(t.errors, err)
	t.env.config.TestLogger.TestError(t.id, err)
}

// FailNow is called by assertions when a test should fail and immediately exit. The methods in
// the require package call FailNow.
func (t *T) FailNow() {
	t.failed = true
	panic(t)
}

// Failed reports whether the test has failed so far.
func (t *T) Failed() bool {
	return t.failed
}

// Skip marks the test as skipped and exits it immediately.
func (t *T) Skip() {
	t.skipped = true
	panic(t)
}

func (t *T) SkipWithReason(reason string) {
	t.skipReason = reason
	t.Skip()
}

// Capabilities returns the capabilities of the current test run.
func (t *T) Capabilities() framework.Capabilities {
	return t.env.config.Capabilities
}

// RequireCapability skips this test if the capability is not available in this test run.
func (t *T) RequireCapability(capability string) {
	if !t.Capabilities().Has(capability) {
		t.SkipWithReason(fmt.Sprintf("capability %q is not available", capability))
	}
}

// Context returns the Context value from the TestConfiguration.
func (t *T) Context() interface{} {
	return t.env.config.Context
}

// Debug logs some debug output for the test. The output will be passed to the test logger at
// the end of the test.
func (t *T) Debug(message string, args ...interface{}) {
	t.debugLogger.Printf(message, args...)
}

func (t *T) DebugLogger() framework.Logger {
	return &t.debugLogger
}

// Defer schedules a function to be called at the end of the test, whether it passed or not.
// Deferred functions run in reverse order of registration. Assertions made inside them count
// against this test.
func (t *T) Defer(cleanupFn func()) {
	t.cleanups = append(t.cleanups, cleanupFn)
}
