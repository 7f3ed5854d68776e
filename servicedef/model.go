// Package servicedef contains the JSON representations of the entities exchanged with the
// pet-clinic backend. The backend owns these entities; the types here only describe how they
// are sent and received.
package servicedef

import "gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

type Owner struct {
	ID        ldvalue.OptionalInt `json:"id,omitzero"`
	FirstName string              `json:"firstName"`
	LastName  string              `json:"lastName"`
	Address   string              `json:"address"`
	City      string              `json:"city"`
	Telephone string              `json:"telephone"`
	Pets      []Pet               `json:"pets,omitempty"`
}

type Pet struct {
	ID        ldvalue.OptionalInt `json:"id,omitzero"`
	Name      string              `json:"name"`
	BirthDate string              `json:"birthDate"`
	Type      PetType             `json:"type"`
	OwnerID   ldvalue.OptionalInt `json:"ownerId,omitzero"`
	Visits    []Visit             `json:"visits,omitempty"`
}

type PetType struct {
	ID   ldvalue.OptionalInt `json:"id,omitzero"`
	Name string              `json:"name"`
}

type Vet struct {
	ID        ldvalue.OptionalInt `json:"id,omitzero"`
	FirstName string              `json:"firstName"`
	LastName  string              `json:"lastName"`

	// Specialties is always sent, even when empty; the backend treats a missing list
	// differently from an empty one.
	Specialties []Specialty `json:"specialties"`
}

type Specialty struct {
	ID   ldvalue.OptionalInt `json:"id,omitzero"`
	Name string              `json:"name"`
}

type Visit struct {
	ID          ldvalue.OptionalInt `json:"id,omitzero"`
	Date        string              `json:"date"`
	Description string              `json:"description"`
	PetID       ldvalue.OptionalInt `json:"petId,omitzero"`
}

// DateFormat is the layout of every date field, such as Pet.BirthDate and Visit.Date.
const DateFormat = "2006-01-02"
