package uitests

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petclinic/petclinic-contract-tests/framework/ldtest"
)

type ownerForm struct {
	firstName, lastName, address, city, telephone string
}

func (o ownerForm) fullName() string { return o.firstName + " " + o.lastName }

var (
	janeDoe = ownerForm{
		firstName: "Jane",
		lastName:  "Doe",
		address:   "456 Elm Street",
		city:      "Metropolis",
		telephone: "9876543210",
	}
	joaneDoe = ownerForm{
		firstName: "Joane",
		lastName:  "Doe",
		address:   "789 Elm Street",
		city:      "Petropolis",
		telephone: "1276543210",
	}
)

const (
	ownerDetailsSelector = ".table-striped"
	updatedTelephone     = "1112223333"
)

func DoOwnerTests(t *ldtest.T) {
	t.Run("add owner", func(t *ldtest.T) {
		p := NewPage(t)
		addOwner(p, janeDoe)
		assert.Contains(t, p.SourceText(), janeDoe.fullName())
	})

	t.Run("view owner details", func(t *ldtest.T) {
		p := NewPage(t)
		addOwner(p, joaneDoe)
		assert.Contains(t, p.SourceText(), joaneDoe.fullName())

		openOwner(p, joaneDoe.fullName())
		p.WaitVisible(buttonXPath("Edit Owner"))
		details := p.TextOf(ownerDetailsSelector)
		assert.Contains(t, details, joaneDoe.fullName())
		assert.Contains(t, details, joaneDoe.address)
	})

	t.Run("update owner", func(t *ldtest.T) {
		p := NewPage(t)
		openOwner(p, janeDoe.fullName())
		p.ClickButton("Edit Owner")

		p.Clear("telephone")
		p.Fill("telephone", updatedTelephone)
		p.Submit()

		require.Contains(t, p.TextOf(ownerDetailsSelector), updatedTelephone)
	})
}

// addOwner fills in the new owner form and waits until the owner list shows the new owner.
func addOwner(p *Page, o ownerForm) {
	p.Open("/")
	p.ClickLink("OWNERS")
	p.ClickLink("ADD NEW")

	p.Fill("firstName", o.firstName)
	p.Fill("lastName", o.lastName)
	p.Fill("address", o.address)
	p.Fill("city", o.city)
	p.Fill("telephone", o.telephone)
	p.Submit()

	p.WaitForLink(o.fullName())
}

// openOwner goes to the owner list and opens the details page of the named owner.
func openOwner(p *Page, fullName string) {
	p.Open("/")
	p.ClickLink("OWNERS")
	p.ClickLink("SEARCH")
	p.ClickLink(fullName)
	p.WaitVisible(ownerDetailsSelector)
}
