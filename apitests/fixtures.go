package apitests

import (
	"fmt"

	"github.com/stretchr/testify/assert"

	"github.com/petclinic/petclinic-contract-tests/framework/ldtest"
)

// fixtureTracker remembers the entities that a group of tests created, and deletes them when
// the group finishes. Trackers of one group are cleaned up in the reverse order of their
// creation, so a tracker for dependent entities (pets) should be created after the one for the
// entities they depend on (owners).
type fixtureTracker struct {
	collectionPath string
	acceptStatuses []int
	ids            []int
}

func trackFixtures(t *ldtest.T, collectionPath string, acceptStatuses ...int) *fixtureTracker {
	f := &fixtureTracker{collectionPath: collectionPath, acceptStatuses: acceptStatuses}
	t.Defer(func() { f.cleanup(t) })
	return f
}

func (f *fixtureTracker) Add(id int) {
	f.ids = append(f.ids, id)
}

func (f *fixtureTracker) cleanup(t *ldtest.T) {
	if len(f.ids) == 0 {
		return
	}
	client := requireContext(t).harness.NewRESTClient(t.DebugLogger())
	for _, id := range f.ids {
		path := fmt.Sprintf("%s/%d", f.collectionPath, id)
		resp, err := client.Delete(path)
		if !assert.NoError(t, err, "cleanup of %s", path) {
			continue
		}
		assert.Contains(t, f.acceptStatuses, resp.Status, "cleanup of %s returned unexpected status", path)
	}
	f.ids = nil
}
