package apitests

import (
	"github.com/petclinic/petclinic-contract-tests/framework/ldtest"
)

// Defect is a behavior of the backend that is known to be wrong. Tests that run into one expect
// the wrong status, so that the rest of the suite can still pass, unless the defect has been
// marked as fixed.
type Defect struct {
	ID             string
	Description    string
	ObservedStatus int
	CorrectStatus  int
}

var (
	DefectPetInvalidData = Defect{
		ID:             "pet-invalid-data",
		Description:    "creating a pet with invalid data returns 500 instead of 400",
		ObservedStatus: 500,
		CorrectStatus:  400,
	}
	DefectDuplicatePet = Defect{
		ID:             "duplicate-pet",
		Description:    "creating the same pet twice returns 201 instead of 409",
		ObservedStatus: 201,
		CorrectStatus:  409,
	}
	DefectOwnerWithPetsDelete = Defect{
		ID:             "owner-with-pets-delete",
		Description:    "deleting an owner that still has pets returns 404 instead of 204",
		ObservedStatus: 404,
		CorrectStatus:  204,
	}
	DefectVetIllegalSpecialty = Defect{
		ID:             "vet-illegal-specialty",
		Description:    "assigning an unknown specialty to a vet returns 500 instead of 400",
		ObservedStatus: 500,
		CorrectStatus:  400,
	}
)

var AllDefects = []Defect{
	DefectPetInvalidData,
	DefectDuplicatePet,
	DefectOwnerWithPetsDelete,
	DefectVetIllegalSpecialty,
}

// FindDefect returns the known defect with the given ID.
func FindDefect(id string) (Defect, bool) {
	for _, d := range AllDefects {
		if d.ID == id {
			return d, true
		}
	}
	return Defect{}, false
}

// defectExpected reports whether the test should expect the defective behavior.
func defectExpected(t *ldtest.T, d Defect) bool {
	if requireContext(t).defects.Expected(d.ID) {
		t.Debug("Expecting known defect %q: %s", d.ID, d.Description)
		return true
	}
	return false
}

// expectedStatus is the status a test should expect where the defect applies.
func expectedStatus(t *ldtest.T, d Defect) int {
	if defectExpected(t, d) {
		return d.ObservedStatus
	}
	return d.CorrectStatus
}
