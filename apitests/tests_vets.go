package apitests

import (
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/petclinic/petclinic-contract-tests/framework/ldtest"
	"github.com/petclinic/petclinic-contract-tests/servicedef"
)

var (
	specialtyRadiology = servicedef.Specialty{ID: ldvalue.NewOptionalInt(1), Name: "radiology"}
	specialtySurgery   = servicedef.Specialty{ID: ldvalue.NewOptionalInt(2), Name: "surgery"}
)

func DoVetTests(t *ldtest.T) {
	vets := trackFixtures(t, "/vets", 204, 404)

	t.Run("create", func(t *ldtest.T) {
		api := NewAPIClient(t)
		id := api.Post("/vets", servicedef.Vet{
			FirstName:   "John",
			LastName:    "Doe",
			Specialties: []servicedef.Specialty{specialtyRadiology},
		}).
			ExpectStatus(201).
			ExpectField("firstName", "John").
			ExpectField("lastName", "Doe").
			ID()
		vets.Add(id)

		api.Get(vetPath(id)).
			ExpectStatus(200).
			ExpectField("firstName", "John").
			ExpectField("lastName", "Doe")
	})

	t.Run("delete", func(t *ldtest.T) {
		api := NewAPIClient(t)
		id := api.Post("/vets", servicedef.Vet{
			FirstName:   "Jane",
			LastName:    "Smith",
			Specialties: []servicedef.Specialty{specialtySurgery},
		}).ExpectStatus(201).ID()

		api.Delete(vetPath(id)).ExpectStatus(204)
		api.Get(vetPath(id)).ExpectStatus(404)
	})

	t.Run("update", func(t *ldtest.T) {
		api := NewAPIClient(t)
		id := api.Post("/vets", servicedef.Vet{
			FirstName:   "Alex",
			LastName:    "Taylor",
			Specialties: []servicedef.Specialty{specialtyRadiology},
		}).ExpectStatus(201).ID()
		vets.Add(id)

		api.Put(vetPath(id), servicedef.Vet{
			ID:          ldvalue.NewOptionalInt(id),
			FirstName:   "Alexander",
			LastName:    "Taylor",
			Specialties: []servicedef.Specialty{specialtySurgery},
		}).ExpectStatus(204)

		api.Get(vetPath(id)).
			ExpectStatus(200).
			ExpectField("firstName", "Alexander").
			ExpectField("specialties[0].name", "surgery")
	})

	t.Run("non-existent vet", func(t *ldtest.T) {
		t.Run("update", func(t *ldtest.T) {
			NewAPIClient(t).Put(vetPath(nonExistentID), servicedef.Vet{
				ID:          ldvalue.NewOptionalInt(nonExistentID),
				FirstName:   "NonExistentVet",
				LastName:    "DoesNotExist",
				Specialties: []servicedef.Specialty{specialtyRadiology},
			}).ExpectStatus(404)
		})

		t.Run("delete", func(t *ldtest.T) {
			NewAPIClient(t).Delete(vetPath(nonExistentID)).ExpectStatus(404)
		})
	})

	t.Run("double delete", func(t *ldtest.T) {
		api := NewAPIClient(t)
		id := api.Post("/vets", servicedef.Vet{
			FirstName:   "Chris",
			LastName:    "Evans",
			Specialties: []servicedef.Specialty{specialtyRadiology},
		}).ExpectStatus(201).ID()
		vets.Add(id)

		api.Delete(vetPath(id)).ExpectStatus(204)
		api.Delete(vetPath(id)).ExpectStatus(404)
	})
}
