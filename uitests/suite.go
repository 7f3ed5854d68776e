package uitests

import (
	"github.com/petclinic/petclinic-contract-tests/framework/harness"
	"github.com/petclinic/petclinic-contract-tests/framework/ldtest"
)

// DoAllUITests runs the browser tests in order. Later tests use data created by earlier ones,
// so running one of them on its own only works if the data is already there.
func DoAllUITests(t *ldtest.T) {
	t.RequireCapability(harness.CapabilityUI)

	t.Run("owners", DoOwnerTests)
	t.Run("pets", DoPetTests)
	t.Run("vets", DoVetTests)
}
