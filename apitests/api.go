package apitests

import (
	"fmt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/petclinic/petclinic-contract-tests/framework/harness"
	"github.com/petclinic/petclinic-contract-tests/framework/ldtest"
)

// APIClient sends requests to the backend on behalf of a test. If a request cannot be
// completed at all, the test fails immediately; otherwise the reply is returned for the test to
// make assertions about.
type APIClient struct {
	t      *ldtest.T
	client *harness.RESTClient
}

func NewAPIClient(t *ldtest.T) *APIClient {
	return &APIClient{
		t:      t,
		client: requireContext(t).harness.NewRESTClient(t.DebugLogger()),
	}
}

func (c *APIClient) Get(path string) *Reply {
	return c.do("GET", path, nil)
}

func (c *APIClient) Post(path string, body interface{}) *Reply {
	return c.do("POST", path, body)
}

func (c *APIClient) Put(path string, body interface{}) *Reply {
	return c.do("PUT", path, body)
}

func (c *APIClient) Delete(path string) *Reply {
	return c.do("DELETE", path, nil)
}

func (c *APIClient) do(method, path string, body interface{}) *Reply {
	resp, err := c.client.Do(method, path, body)
	require.NoError(c.t, err)
	return &Reply{t: c.t, Response: resp}
}

// Reply is a response from the backend, with assertion methods that can be chained.
type Reply struct {
	t *ldtest.T
	*harness.Response
}

// ExpectStatus stops the test if the status is not one of the given values, since later steps
// of a test normally depend on earlier ones having worked.
func (r *Reply) ExpectStatus(statuses ...int) *Reply {
	for _, s := range statuses {
		if r.Status == s {
			return r
		}
	}
	if len(statuses) == 1 {
		require.Fail(r.t, "unexpected status", "%s %s: expected status %d, got %d; body: %s",
			r.Method, r.Path, statuses[0], r.Status, string(r.Body))
	}
	require.Fail(r.t, "unexpected status", "%s %s: expected one of %v, got %d; body: %s",
		r.Method, r.Path, statuses, r.Status, string(r.Body))
	return r
}

// ExpectField checks a value in the JSON body. The path syntax is described in harness.Lookup.
func (r *Reply) ExpectField(expr string, expected interface{}) *Reply {
	actual, err := r.Field(expr)
	if !assert.NoError(r.t, err) {
		return r
	}
	want := ldvalue.CopyArbitraryValue(expected)
	assert.Equal(r.t, want.JSONString(), actual.JSONString(), "%s %s: field %q", r.Method, r.Path, expr)
	return r
}

// ExpectItems checks that an array in the JSON body contains all of the given values, in any
// order, possibly along with others.
func (r *Reply) ExpectItems(expr string, items ...interface{}) *Reply {
	actual, err := r.Field(expr)
	if !assert.NoError(r.t, err) {
		return r
	}
	if !assert.Equal(r.t, ldvalue.ArrayType, actual.Type(), "%s %s: field %q is not an array", r.Method, r.Path, expr) {
		return r
	}
	var present []string
	for i := 0; i < actual.Count(); i++ {
		present = append(present, actual.GetByIndex(i).JSONString())
	}
	for _, item := range items {
		assert.Contains(r.t, present, ldvalue.CopyArbitraryValue(item).JSONString(),
			"%s %s: field %q", r.Method, r.Path, expr)
	}
	return r
}

// ID returns the id property of the JSON body, stopping the test if there isn't one.
func (r *Reply) ID() int {
	id := r.JSON().GetByKey("id")
	require.True(r.t, id.IsNumber(), "%s %s: response has no numeric id; body: %s", r.Method, r.Path, string(r.Body))
	return id.IntValue()
}

func ownerPath(id int) string     { return fmt.Sprintf("/owners/%d", id) }
func petPath(id int) string       { return fmt.Sprintf("/pets/%d", id) }
func vetPath(id int) string       { return fmt.Sprintf("/vets/%d", id) }
func visitPath(id int) string     { return fmt.Sprintf("/visits/%d", id) }
func specialtyPath(id int) string { return fmt.Sprintf("/specialties/%d", id) }
