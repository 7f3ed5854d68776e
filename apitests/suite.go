package apitests

import (
	"github.com/petclinic/petclinic-contract-tests/framework/harness"
	"github.com/petclinic/petclinic-contract-tests/framework/ldtest"
)

func DoAllAPITests(t *ldtest.T) {
	t.RequireCapability(harness.CapabilityAPI)

	t.Run("owners", DoOwnerTests)
	t.Run("pets", DoPetTests)
	t.Run("vets", DoVetTests)
	t.Run("relationships", DoRelationshipTests)
}
