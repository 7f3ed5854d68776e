package uitests

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petclinic/petclinic-contract-tests/framework/ldtest"
)

const petListSelector = "app-pet-list"

func DoPetTests(t *ldtest.T) {
	t.Run("add pet", func(t *ldtest.T) {
		p := NewPage(t)
		openOwner(p, janeDoe.fullName())
		addPet(p, "Buddy", "2023-01-01", "Dog")

		assert.Contains(t, p.TextOf(petListSelector), "Buddy")
	})

	t.Run("view pet details", func(t *ldtest.T) {
		p := NewPage(t)
		openOwner(p, janeDoe.fullName())

		pets := p.TextOf(petListSelector)
		assert.Contains(t, pets, "Buddy")
		assert.Contains(t, pets, "dog")
	})

	t.Run("update pet details", func(t *ldtest.T) {
		p := NewPage(t)
		openOwner(p, janeDoe.fullName())

		pets := p.TextOf(petListSelector)
		require.Contains(t, pets, "Buddy")
		require.Contains(t, pets, "dog")

		p.ClickButton("Edit Pet")
		p.Clear("name")
		p.Fill("name", "Buddy v2")
		p.FillByName("birthDate", "2024-01-01")
		p.Fill("type", "cat")
		p.ClickBody()
		p.ClickButton("Update Pet")

		assert.Contains(t, p.TextOf(petListSelector), "Buddy v2")

		p.ClickButton("Delete Pet")
	})

	t.Run("delete pet", func(t *ldtest.T) {
		p := NewPage(t)
		openOwner(p, janeDoe.fullName())
		addPet(p, "Buddy Junior", "2023-01-01", "Dog")
		require.Contains(t, p.TextOf(petListSelector), "Buddy Junior")

		p.ClickButton("Delete Pet")

		p.WaitForTextGone(petListSelector, "Buddy Junior")
	})
}

// addPet adds a pet from the owner details page and waits until the page shows the pet list again.
func addPet(p *Page, name, birthDate, petType string) {
	p.ClickButton("Add New Pet")

	p.Fill("name", name)
	p.FillByName("birthDate", birthDate)
	p.Fill("type", petType)
	p.ClickBody()
	p.ClickButton("Save Pet")

	p.WaitVisible(petListSelector)
}
