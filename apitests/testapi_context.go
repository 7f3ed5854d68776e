package apitests

import (
	"github.com/petclinic/petclinic-contract-tests/config"
	"github.com/petclinic/petclinic-contract-tests/framework/harness"
	"github.com/petclinic/petclinic-contract-tests/framework/ldtest"
)

type APITestContext struct {
	harness *harness.TestHarness
	defects config.DefectsConfig
}

// APITestContextProvider can be implemented by a global test context that is shared with other
// test suites.
type APITestContextProvider interface {
	APITestContext() APITestContext
}

func NewAPITestContext(h *harness.TestHarness, defects config.DefectsConfig) APITestContext {
	return APITestContext{harness: h, defects: defects}
}

func requireContext(t *ldtest.T) APITestContext {
	switch c := t.Context().(type) {
	case APITestContext:
		return c
	case APITestContextProvider:
		return c.APITestContext()
	}
	panic("APITestContext was not included in the global test configuration!" +
		" This is a basic mistake in the initialization logic.")
}
