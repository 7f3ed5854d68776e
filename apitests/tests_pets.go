package apitests

import (
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/petclinic/petclinic-contract-tests/framework/ldtest"
	"github.com/petclinic/petclinic-contract-tests/servicedef"
)

// Pet types and owners that the backend's sample data always contains.
var (
	petTypeCat = servicedef.PetType{ID: ldvalue.NewOptionalInt(1), Name: "cat"}
	petTypeDog = servicedef.PetType{ID: ldvalue.NewOptionalInt(2), Name: "dog"}

	existingOwnerID      = 1
	otherExistingOwnerID = 2
)

func DoPetTests(t *ldtest.T) {
	pets := trackFixtures(t, "/pets", 204, 404)

	t.Run("create", func(t *ldtest.T) {
		api := NewAPIClient(t)
		id := api.Post("/pets", servicedef.Pet{
			Name:      "Buddy",
			BirthDate: "2023-01-01",
			Type:      petTypeDog,
			OwnerID:   ldvalue.NewOptionalInt(existingOwnerID),
		}).
			ExpectStatus(201).
			ExpectField("name", "Buddy").
			ID()
		pets.Add(id)

		api.Get(petPath(id)).
			ExpectStatus(200).
			ExpectField("name", "Buddy")
	})

	t.Run("delete", func(t *ldtest.T) {
		api := NewAPIClient(t)
		id := api.Post("/pets", servicedef.Pet{
			Name:      "Fluffy",
			BirthDate: "2023-01-01",
			Type:      petTypeCat,
			OwnerID:   ldvalue.NewOptionalInt(existingOwnerID),
		}).ExpectStatus(201).ID()

		api.Delete(petPath(id)).ExpectStatus(204)
		api.Get(petPath(id)).ExpectStatus(404)
	})

	t.Run("update", func(t *ldtest.T) {
		api := NewAPIClient(t)
		id := api.Post("/pets", servicedef.Pet{
			Name:      "Max",
			BirthDate: "2023-01-01",
			Type:      petTypeDog,
			OwnerID:   ldvalue.NewOptionalInt(existingOwnerID),
		}).ExpectStatus(201).ID()
		pets.Add(id)

		api.Put(petPath(id), servicedef.Pet{
			ID:        ldvalue.NewOptionalInt(id),
			Name:      "Maximus",
			BirthDate: "2023-02-01",
			Type:      petTypeDog,
			OwnerID:   ldvalue.NewOptionalInt(existingOwnerID),
		}).ExpectStatus(204)

		api.Get(petPath(id)).
			ExpectStatus(200).
			ExpectField("name", "Maximus")
	})

	t.Run("create pet type and assign it", func(t *ldtest.T) {
		api := NewAPIClient(t)
		typeID := api.Post("/pettypes", servicedef.PetType{Name: "hamster"}).
			ExpectStatus(201).
			ID()

		id := api.Post("/pets", servicedef.Pet{
			Name:      "Hammy",
			BirthDate: "2023-02-01",
			Type:      servicedef.PetType{ID: ldvalue.NewOptionalInt(typeID), Name: "hamster"},
			OwnerID:   ldvalue.NewOptionalInt(otherExistingOwnerID),
		}).
			ExpectStatus(201).
			ExpectField("name", "Hammy").
			ExpectField("type.id", typeID).
			ExpectField("ownerId", otherExistingOwnerID).
			ID()
		pets.Add(id)

		api.Get(petPath(id)).
			ExpectStatus(200).
			ExpectField("type.name", "hamster")
	})

	t.Run("non-existent pet", func(t *ldtest.T) {
		t.Run("get", func(t *ldtest.T) {
			NewAPIClient(t).Get(petPath(nonExistentID)).ExpectStatus(404)
		})

		t.Run("update", func(t *ldtest.T) {
			NewAPIClient(t).Put(petPath(nonExistentID), servicedef.Pet{
				ID:        ldvalue.NewOptionalInt(nonExistentID),
				Name:      "NonExistentPet",
				BirthDate: "2023-01-01",
				Type:      servicedef.PetType{ID: ldvalue.NewOptionalInt(1), Name: "dog"},
				OwnerID:   ldvalue.NewOptionalInt(existingOwnerID),
			}).ExpectStatus(404)
		})

		t.Run("delete", func(t *ldtest.T) {
			NewAPIClient(t).Delete(petPath(nonExistentID)).ExpectStatus(404)
		})
	})

	t.Run("invalid data", func(t *ldtest.T) {
		reply := NewAPIClient(t).Post("/pets", servicedef.Pet{
			Name:      "",
			BirthDate: "not-a-date",
			Type:      servicedef.PetType{ID: ldvalue.NewOptionalInt(999), Name: "something"},
			OwnerID:   ldvalue.NewOptionalInt(10000),
		})
		if reply.Status == 201 {
			pets.Add(reply.ID())
		}
		reply.ExpectStatus(expectedStatus(t, DefectPetInvalidData))
	})

	t.Run("double delete", func(t *ldtest.T) {
		api := NewAPIClient(t)
		id := api.Post("/pets", servicedef.Pet{
			Name:      "Buddy",
			BirthDate: "2023-01-01",
			Type:      servicedef.PetType{ID: ldvalue.NewOptionalInt(1), Name: "dog"},
			OwnerID:   ldvalue.NewOptionalInt(existingOwnerID),
		}).ExpectStatus(201).ID()
		pets.Add(id)

		api.Delete(petPath(id)).ExpectStatus(204)
		api.Delete(petPath(id)).ExpectStatus(404)
	})
}
