// Package framework contains the low-level implementation of test harness infrastructure
// that can be reused for different kinds of tests. The base package contains shared
// types such as Logger; other components are in the subpackages harness and ldtest.
//
// The general model is:
//
// 1. The test harness talks to the system under test: a REST backend that it can reach with
// JSON requests, and optionally a web frontend that it can drive with a browser.
//
// 2. There is a general notion of a test context which is similar to Go's testing.T,
// allowing pieces of test logic to be associated with a test identifier and to accumulate
// success/failure results, debug output, and cleanup actions.
//
// The domain-specific code that knows what is being tested is responsible for providing
// the request bodies, the expectations, and domain-specific test APIs on top of the test
// context.
package framework
