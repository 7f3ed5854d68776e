package apitests

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/petclinic/petclinic-contract-tests/servicedef"
)

// standinBackend is an in-memory imitation of the pet-clinic REST API, good enough to run the
// API suites against. With fixed set to false it reproduces the known defects; with fixed set
// to true it behaves correctly in those cases.
type standinBackend struct {
	fixed bool

	// failNextVetDelete makes the next DELETE /vets/{id} return 500 without deleting anything.
	failNextVetDelete bool

	lock        sync.Mutex
	lastID      int
	petTypes    map[int]servicedef.PetType
	owners      map[int]servicedef.Owner
	pets        map[int]servicedef.Pet
	visits      map[int]servicedef.Visit
	vets        map[int]servicedef.Vet
	specialties map[int]servicedef.Specialty
}

var (
	standinNamePattern      = regexp.MustCompile(`^\p{L}+$`)
	standinTelephonePattern = regexp.MustCompile(`^[0-9]{1,10}$`)
)

func newStandinBackend(fixed bool) *standinBackend {
	b := &standinBackend{
		fixed:       fixed,
		lastID:      100,
		petTypes:    make(map[int]servicedef.PetType),
		owners:      make(map[int]servicedef.Owner),
		pets:        make(map[int]servicedef.Pet),
		visits:      make(map[int]servicedef.Visit),
		vets:        make(map[int]servicedef.Vet),
		specialties: make(map[int]servicedef.Specialty),
	}
	for i, name := range []string{"cat", "dog", "lizard", "snake", "bird", "hamster"} {
		b.petTypes[i+1] = servicedef.PetType{ID: ldvalue.NewOptionalInt(i + 1), Name: name}
	}
	for i, name := range []string{"radiology", "surgery", "dentistry"} {
		b.specialties[i+1] = servicedef.Specialty{ID: ldvalue.NewOptionalInt(i + 1), Name: name}
	}
	b.owners[1] = servicedef.Owner{ID: ldvalue.NewOptionalInt(1), FirstName: "George", LastName: "Franklin",
		Address: "110 W. Liberty St.", City: "Madison", Telephone: "6085551023"}
	b.owners[2] = servicedef.Owner{ID: ldvalue.NewOptionalInt(2), FirstName: "Betty", LastName: "Davis",
		Address: "638 Cardinal Ave.", City: "Sun Prairie", Telephone: "6085551749"}
	return b
}

func (b *standinBackend) Handler() http.Handler {
	r := chi.NewRouter()
	r.Route("/petclinic/api", func(r chi.Router) {
		r.Get("/pettypes", b.listPetTypes)
		r.Post("/pettypes", b.createPetType)

		r.Post("/owners", b.createOwner)
		r.Get("/owners/{id}", b.getOwner)
		r.Put("/owners/{id}", b.updateOwner)
		r.Delete("/owners/{id}", b.deleteOwner)

		r.Post("/pets", b.createPet)
		r.Get("/pets/{id}", b.getPet)
		r.Put("/pets/{id}", b.updatePet)
		r.Delete("/pets/{id}", b.deletePet)

		r.Post("/visits", b.createVisit)
		r.Get("/visits/{id}", b.getVisit)

		r.Post("/vets", b.createVet)
		r.Get("/vets/{id}", b.getVet)
		r.Put("/vets/{id}", b.updateVet)
		r.Delete("/vets/{id}", b.deleteVet)
		r.Put("/vets/{id}/specialties", b.addVetSpecialty)

		r.Post("/specialties", b.createSpecialty)
		r.Delete("/specialties/{id}", b.deleteSpecialty)
	})
	return r
}

func (b *standinBackend) nextID() int {
	b.lastID++
	return b.lastID
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return false
	}
	return true
}

func pathID(r *http.Request) int {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return -1
	}
	return id
}

func (b *standinBackend) listPetTypes(w http.ResponseWriter, r *http.Request) {
	b.lock.Lock()
	defer b.lock.Unlock()
	types := make([]servicedef.PetType, 0, len(b.petTypes))
	for _, pt := range b.petTypes {
		types = append(types, pt)
	}
	writeJSON(w, http.StatusOK, types)
}

func (b *standinBackend) createPetType(w http.ResponseWriter, r *http.Request) {
	var pt servicedef.PetType
	if !readJSON(w, r, &pt) {
		return
	}
	b.lock.Lock()
	defer b.lock.Unlock()
	pt.ID = ldvalue.NewOptionalInt(b.nextID())
	b.petTypes[pt.ID.IntValue()] = pt
	writeJSON(w, http.StatusCreated, pt)
}

func validOwner(o servicedef.Owner) bool {
	return standinNamePattern.MatchString(o.FirstName) &&
		standinNamePattern.MatchString(o.LastName) &&
		o.Address != "" && o.City != "" &&
		standinTelephonePattern.MatchString(o.Telephone)
}

// ownerWithPets must be called with the lock held.
func (b *standinBackend) ownerWithPets(id int) servicedef.Owner {
	o := b.owners[id]
	o.Pets = []servicedef.Pet{}
	for petID := range b.pets {
		if b.pets[petID].OwnerID.IntValue() == id {
			o.Pets = append(o.Pets, b.petWithVisits(petID))
		}
	}
	return o
}

// petWithVisits must be called with the lock held.
func (b *standinBackend) petWithVisits(id int) servicedef.Pet {
	p := b.pets[id]
	p.Visits = []servicedef.Visit{}
	for _, v := range b.visits {
		if v.PetID.IntValue() == id {
			p.Visits = append(p.Visits, v)
		}
	}
	return p
}

func (b *standinBackend) createOwner(w http.ResponseWriter, r *http.Request) {
	var o servicedef.Owner
	if !readJSON(w, r, &o) {
		return
	}
	if !validOwner(o) {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	b.lock.Lock()
	defer b.lock.Unlock()
	o.ID = ldvalue.NewOptionalInt(b.nextID())
	o.Pets = nil
	b.owners[o.ID.IntValue()] = o
	writeJSON(w, http.StatusCreated, b.ownerWithPets(o.ID.IntValue()))
}

func (b *standinBackend) getOwner(w http.ResponseWriter, r *http.Request) {
	b.lock.Lock()
	defer b.lock.Unlock()
	id := pathID(r)
	if _, ok := b.owners[id]; !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, b.ownerWithPets(id))
}

func (b *standinBackend) updateOwner(w http.ResponseWriter, r *http.Request) {
	var o servicedef.Owner
	if !readJSON(w, r, &o) {
		return
	}
	b.lock.Lock()
	defer b.lock.Unlock()
	id := pathID(r)
	if _, ok := b.owners[id]; !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if !validOwner(o) {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	o.ID = ldvalue.NewOptionalInt(id)
	o.Pets = nil
	b.owners[id] = o
	w.WriteHeader(http.StatusNoContent)
}

func (b *standinBackend) deleteOwner(w http.ResponseWriter, r *http.Request) {
	b.lock.Lock()
	defer b.lock.Unlock()
	id := pathID(r)
	if _, ok := b.owners[id]; !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	var petIDs []int
	for petID, p := range b.pets {
		if p.OwnerID.IntValue() == id {
			petIDs = append(petIDs, petID)
		}
	}
	if len(petIDs) > 0 && !b.fixed {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	for _, petID := range petIDs {
		b.removePet(petID)
	}
	delete(b.owners, id)
	w.WriteHeader(http.StatusNoContent)
}

// validPet must be called with the lock held.
func (b *standinBackend) validPet(p servicedef.Pet) bool {
	if p.Name == "" || !p.Type.ID.IsDefined() || !p.OwnerID.IsDefined() {
		return false
	}
	if _, err := time.Parse(servicedef.DateFormat, p.BirthDate); err != nil {
		return false
	}
	_, typeOK := b.petTypes[p.Type.ID.IntValue()]
	_, ownerOK := b.owners[p.OwnerID.IntValue()]
	return typeOK && ownerOK
}

// isDuplicatePet must be called with the lock held.
func (b *standinBackend) isDuplicatePet(p servicedef.Pet) bool {
	for _, existing := range b.pets {
		if existing.OwnerID == p.OwnerID && existing.Name == p.Name &&
			existing.BirthDate == p.BirthDate && existing.Type.ID == p.Type.ID {
			return true
		}
	}
	return false
}

func (b *standinBackend) createPet(w http.ResponseWriter, r *http.Request) {
	var p servicedef.Pet
	if !readJSON(w, r, &p) {
		return
	}
	b.lock.Lock()
	defer b.lock.Unlock()
	if !b.validPet(p) {
		if b.fixed {
			w.WriteHeader(http.StatusBadRequest)
		} else {
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}
	if b.fixed && b.isDuplicatePet(p) {
		w.WriteHeader(http.StatusConflict)
		return
	}
	p.ID = ldvalue.NewOptionalInt(b.nextID())
	p.Type = b.petTypes[p.Type.ID.IntValue()]
	p.Visits = nil
	b.pets[p.ID.IntValue()] = p
	writeJSON(w, http.StatusCreated, b.petWithVisits(p.ID.IntValue()))
}

func (b *standinBackend) getPet(w http.ResponseWriter, r *http.Request) {
	b.lock.Lock()
	defer b.lock.Unlock()
	id := pathID(r)
	if _, ok := b.pets[id]; !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, b.petWithVisits(id))
}

func (b *standinBackend) updatePet(w http.ResponseWriter, r *http.Request) {
	var p servicedef.Pet
	if !readJSON(w, r, &p) {
		return
	}
	b.lock.Lock()
	defer b.lock.Unlock()
	id := pathID(r)
	if _, ok := b.pets[id]; !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if !b.validPet(p) {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	p.ID = ldvalue.NewOptionalInt(id)
	p.Type = b.petTypes[p.Type.ID.IntValue()]
	p.Visits = nil
	b.pets[id] = p
	w.WriteHeader(http.StatusNoContent)
}

// removePet must be called with the lock held.
func (b *standinBackend) removePet(id int) {
	for visitID, v := range b.visits {
		if v.PetID.IntValue() == id {
			delete(b.visits, visitID)
		}
	}
	delete(b.pets, id)
}

func (b *standinBackend) deletePet(w http.ResponseWriter, r *http.Request) {
	b.lock.Lock()
	defer b.lock.Unlock()
	id := pathID(r)
	if _, ok := b.pets[id]; !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	b.removePet(id)
	w.WriteHeader(http.StatusNoContent)
}

func (b *standinBackend) createVisit(w http.ResponseWriter, r *http.Request) {
	var v servicedef.Visit
	if !readJSON(w, r, &v) {
		return
	}
	b.lock.Lock()
	defer b.lock.Unlock()
	if _, ok := b.pets[v.PetID.IntValue()]; !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	v.ID = ldvalue.NewOptionalInt(b.nextID())
	b.visits[v.ID.IntValue()] = v
	writeJSON(w, http.StatusCreated, v)
}

func (b *standinBackend) getVisit(w http.ResponseWriter, r *http.Request) {
	b.lock.Lock()
	defer b.lock.Unlock()
	v, ok := b.visits[pathID(r)]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// resolveSpecialties must be called with the lock held.
func (b *standinBackend) resolveSpecialties(in []servicedef.Specialty) ([]servicedef.Specialty, bool) {
	out := []servicedef.Specialty{}
	for _, s := range in {
		known, ok := b.specialties[s.ID.IntValue()]
		if !ok {
			return nil, false
		}
		out = append(out, known)
	}
	return out, true
}

func (b *standinBackend) createVet(w http.ResponseWriter, r *http.Request) {
	var v servicedef.Vet
	if !readJSON(w, r, &v) {
		return
	}
	b.lock.Lock()
	defer b.lock.Unlock()
	specialties, ok := b.resolveSpecialties(v.Specialties)
	if !ok || v.FirstName == "" || v.LastName == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	v.ID = ldvalue.NewOptionalInt(b.nextID())
	v.Specialties = specialties
	b.vets[v.ID.IntValue()] = v
	writeJSON(w, http.StatusCreated, v)
}

func (b *standinBackend) getVet(w http.ResponseWriter, r *http.Request) {
	b.lock.Lock()
	defer b.lock.Unlock()
	v, ok := b.vets[pathID(r)]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (b *standinBackend) updateVet(w http.ResponseWriter, r *http.Request) {
	var v servicedef.Vet
	if !readJSON(w, r, &v) {
		return
	}
	b.lock.Lock()
	defer b.lock.Unlock()
	id := pathID(r)
	if _, ok := b.vets[id]; !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	specialties, ok := b.resolveSpecialties(v.Specialties)
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	v.ID = ldvalue.NewOptionalInt(id)
	v.Specialties = specialties
	b.vets[id] = v
	w.WriteHeader(http.StatusNoContent)
}

func (b *standinBackend) deleteVet(w http.ResponseWriter, r *http.Request) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.failNextVetDelete {
		b.failNextVetDelete = false
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	id := pathID(r)
	if _, ok := b.vets[id]; !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	delete(b.vets, id)
	w.WriteHeader(http.StatusNoContent)
}

func (b *standinBackend) addVetSpecialty(w http.ResponseWriter, r *http.Request) {
	var s servicedef.Specialty
	if !readJSON(w, r, &s) {
		return
	}
	b.lock.Lock()
	defer b.lock.Unlock()
	id := pathID(r)
	v, ok := b.vets[id]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	known, ok := b.specialties[s.ID.IntValue()]
	if !ok {
		if b.fixed {
			w.WriteHeader(http.StatusBadRequest)
		} else {
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}
	v.Specialties = append(v.Specialties, known)
	b.vets[id] = v
	w.WriteHeader(http.StatusNoContent)
}

func (b *standinBackend) createSpecialty(w http.ResponseWriter, r *http.Request) {
	var s servicedef.Specialty
	if !readJSON(w, r, &s) {
		return
	}
	b.lock.Lock()
	defer b.lock.Unlock()
	s.ID = ldvalue.NewOptionalInt(b.nextID())
	b.specialties[s.ID.IntValue()] = s
	writeJSON(w, http.StatusCreated, s)
}

func (b *standinBackend) deleteSpecialty(w http.ResponseWriter, r *http.Request) {
	b.lock.Lock()
	defer b.lock.Unlock()
	id := pathID(r)
	if _, ok := b.specialties[id]; !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	for _, v := range b.vets {
		for _, s := range v.Specialties {
			if s.ID.IntValue() == id {
				w.WriteHeader(http.StatusNotFound)
				return
			}
		}
	}
	delete(b.specialties, id)
	w.WriteHeader(http.StatusNoContent)
}

// counts returns the number of owners, pets, visits, and vets, for checking that the suites
// cleaned up after themselves.
func (b *standinBackend) counts() (owners, pets, visits, vets int) {
	b.lock.Lock()
	defer b.lock.Unlock()
	return len(b.owners), len(b.pets), len(b.visits), len(b.vets)
}

func (b *standinBackend) specialtyCount() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return len(b.specialties)
}
