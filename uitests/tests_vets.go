package uitests

import (
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/petclinic/petclinic-contract-tests/framework/ldtest"
)

const (
	vetTableSelector = ".table-striped"

	// The vet list is refreshed without any visible signal after a vet is deleted.
	vetListRefreshDelay = time.Second
)

func DoVetTests(t *ldtest.T) {
	t.Run("add vet", func(t *ldtest.T) {
		p := NewPage(t)
		addVet(p, "John", "Smith", "Radiology")

		assert.Contains(t, p.TextOf(vetTableSelector), "John Smith")
	})

	t.Run("edit vet details", func(t *ldtest.T) {
		p := NewPage(t)
		p.Open("/")
		p.ClickLink("VETERINARIANS")
		p.ClickLink("ALL")

		p.ClickButtonInRow("John Smith", "Edit Vet")
		p.SelectMatOptions("surgery", "radiology")
		p.ClickBody()
		p.ClickButton("Save Vet")

		assert.Contains(t, p.TextOf(vetTableSelector), "surgery")
	})

	t.Run("delete vet", func(t *ldtest.T) {
		p := NewPage(t)
		addVet(p, "Max", "Muster", "Radiology")
		assert.Contains(t, p.TextOf(vetTableSelector), "Max Muster")

		p.ClickButtonInRow("Max Muster", "Delete Vet")

		p.WaitVisible(vetTableSelector)
		p.Pause(vetListRefreshDelay)
		assert.NotContains(t, p.TextOf(vetTableSelector), "Max Muster")
		assert.Zero(t, p.CountRows("Max Muster"))
	})
}

func addVet(p *Page, firstName, lastName, specialty string) {
	p.Open("/")
	p.ClickLink("VETERINARIANS")
	p.ClickLink("ADD NEW")

	p.Fill("firstName", firstName)
	p.Fill("lastName", lastName)
	p.Fill("specialties", specialty)
	p.Submit()

	p.WaitVisible(vetTableSelector)
}
