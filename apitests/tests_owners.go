package apitests

import (
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/petclinic/petclinic-contract-tests/framework/ldtest"
	"github.com/petclinic/petclinic-contract-tests/servicedef"
)

const nonExistentID = 9999

func DoOwnerTests(t *ldtest.T) {
	owners := trackFixtures(t, "/owners", 204)

	t.Run("create", func(t *ldtest.T) {
		api := NewAPIClient(t)
		id := api.Post("/owners", servicedef.Owner{
			FirstName: "John",
			LastName:  "Doe",
			Address:   "123 Main Street",
			City:      "Springfield",
			Telephone: "1234567890",
		}).
			ExpectStatus(201).
			ExpectField("firstName", "John").
			ExpectField("lastName", "Doe").
			ID()
		owners.Add(id)

		api.Get(ownerPath(id)).
			ExpectStatus(200).
			ExpectField("firstName", "John").
			ExpectField("lastName", "Doe").
			ExpectField("address", "123 Main Street").
			ExpectField("city", "Springfield").
			ExpectField("telephone", "1234567890")
	})

	t.Run("delete", func(t *ldtest.T) {
		api := NewAPIClient(t)
		id := api.Post("/owners", servicedef.Owner{
			FirstName: "Mark",
			LastName:  "Taylor",
			Address:   "101 Oak Street",
			City:      "Gotham",
			Telephone: "5566778899",
		}).ExpectStatus(201).ID()

		api.Delete(ownerPath(id)).ExpectStatus(204)
		api.Get(ownerPath(id)).ExpectStatus(404)
	})

	t.Run("update", func(t *ldtest.T) {
		api := NewAPIClient(t)
		id := api.Post("/owners", servicedef.Owner{
			FirstName: "John",
			LastName:  "Doe",
			Address:   "123 Main Street",
			City:      "Springfield",
			Telephone: "1234567890",
		}).
			ExpectStatus(201).
			ExpectField("firstName", "John").
			ExpectField("lastName", "Doe").
			ID()
		owners.Add(id)

		api.Put(ownerPath(id), servicedef.Owner{
			ID:        ldvalue.NewOptionalInt(id),
			FirstName: "Jane",
			LastName:  "Doe",
			Address:   "456 Elm Street",
			City:      "Shelbyville",
			Telephone: "9876543210",
		}).ExpectStatus(204)

		api.Get(ownerPath(id)).
			ExpectStatus(200).
			ExpectField("firstName", "Jane").
			ExpectField("address", "456 Elm Street").
			ExpectField("telephone", "9876543210")
	})

	t.Run("read", func(t *ldtest.T) {
		api := NewAPIClient(t)
		id := api.Post("/owners", servicedef.Owner{
			FirstName: "Alice",
			LastName:  "Smith",
			Address:   "789 Pine Street",
			City:      "Metropolis",
			Telephone: "1122334455",
		}).
			ExpectStatus(201).
			ExpectField("firstName", "Alice").
			ExpectField("lastName", "Smith").
			ID()
		owners.Add(id)

		api.Get(ownerPath(id)).
			ExpectStatus(200).
			ExpectField("firstName", "Alice").
			ExpectField("lastName", "Smith").
			ExpectField("address", "789 Pine Street").
			ExpectField("city", "Metropolis").
			ExpectField("telephone", "1122334455")
	})

	t.Run("validation", func(t *ldtest.T) {
		t.Run("missing names", func(t *ldtest.T) {
			createOwnerExpectingRejection(t, owners, servicedef.Owner{
				FirstName: "",
				LastName:  "",
				Address:   "123 Main Street",
				City:      "Springfield",
				Telephone: "1234567890",
			})
		})

		t.Run("invalid telephone", func(t *ldtest.T) {
			createOwnerExpectingRejection(t, owners, servicedef.Owner{
				FirstName: "John",
				LastName:  "Doe",
				Address:   "123 Main Street",
				City:      "Springfield",
				Telephone: "abc123",
			})
		})

		t.Run("illegal name", func(t *ldtest.T) {
			createOwnerExpectingRejection(t, owners, servicedef.Owner{
				FirstName: "Muad'dib",
				LastName:  "Doe",
				Address:   "123 Main Street",
				City:      "Springfield",
				Telephone: "123",
			})
		})

		t.Run("SQL injection in name", func(t *ldtest.T) {
			createOwnerExpectingRejection(t, owners, servicedef.Owner{
				FirstName: "Robert');DROP TABLE Owners;--",
				LastName:  "Doe",
				Address:   "123 Main Street",
				City:      "Springfield",
				Telephone: "1234567890",
			})
		})
	})

	t.Run("non-existent owner", func(t *ldtest.T) {
		t.Run("update", func(t *ldtest.T) {
			NewAPIClient(t).Put(ownerPath(nonExistentID), servicedef.Owner{
				ID:        ldvalue.NewOptionalInt(nonExistentID),
				FirstName: "Jane",
				LastName:  "Doe",
				Address:   "456 Elm Street",
				City:      "Shelbyville",
				Telephone: "9876543210",
			}).ExpectStatus(404)
		})

		t.Run("get", func(t *ldtest.T) {
			NewAPIClient(t).Get(ownerPath(nonExistentID)).ExpectStatus(404)
		})

		t.Run("delete", func(t *ldtest.T) {
			NewAPIClient(t).Delete(ownerPath(nonExistentID)).ExpectStatus(404)
		})
	})
}

// createOwnerExpectingRejection posts an invalid owner and expects a 400. If the backend
// accepts it anyway, the owner is tracked so that it still gets deleted.
func createOwnerExpectingRejection(t *ldtest.T, owners *fixtureTracker, owner servicedef.Owner) {
	reply := NewAPIClient(t).Post("/owners", owner)
	if reply.Status == 201 {
		if id := reply.JSON().GetByKey("id"); id.IsNumber() {
			owners.Add(id.IntValue())
		}
	}
	reply.ExpectStatus(400)
}
