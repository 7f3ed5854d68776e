package harness

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/petclinic/petclinic-contract-tests/framework"
)

type testOwner struct {
	FirstName string `json:"firstName"`
}

func TestRESTClientSendsJSONBody(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(201))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		client := NewRESTClient(server.URL+"/api", RESTClientOptions{})
		resp, err := client.Post("/owners", testOwner{FirstName: "John"})
		require.NoError(t, err)
		assert.Equal(t, 201, resp.Status)

		r := <-requestsCh
		assert.Equal(t, "POST", r.Request.Method)
		assert.Equal(t, "/api/owners", r.Request.URL.Path)
		assert.Equal(t, "application/json", r.Request.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Request.Header.Get("Accept"))
		assert.NotEmpty(t, r.Request.Header.Get(requestIDHeader))
		assert.JSONEq(t, `{"firstName":"John"}`, string(r.Body))
		assert.Equal(t, resp.RequestID, r.Request.Header.Get(requestIDHeader))
	})
}

func TestRESTClientSendsRawBodyUnchanged(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(400))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		client := NewRESTClient(server.URL, RESTClientOptions{})
		_, err := client.Put("/owners/1", []byte(`{"firstName":""}`))
		require.NoError(t, err)

		r := <-requestsCh
		assert.Equal(t, `{"firstName":""}`, string(r.Body))
	})
}

func TestRESTClientRequestWithoutBodyHasNoContentType(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(204))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		client := NewRESTClient(server.URL, RESTClientOptions{})
		resp, err := client.Delete("/pets/3")
		require.NoError(t, err)
		assert.Equal(t, 204, resp.Status)
		assert.Len(t, resp.Body, 0)
		assert.True(t, resp.JSON().IsNull())

		r := <-requestsCh
		assert.Equal(t, "DELETE", r.Request.Method)
		assert.Equal(t, "", r.Request.Header.Get("Content-Type"))
	})
}

func TestRESTClientReturnsErrorStatusesAsResponses(t *testing.T) {
	handler := httphelpers.HandlerWithResponse(404, nil, []byte(`{"message":"not found"}`))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		client := NewRESTClient(server.URL, RESTClientOptions{})
		resp, err := client.Get("/owners/9999")
		require.NoError(t, err)
		assert.Equal(t, 404, resp.Status)
		msg, err := resp.Field("message")
		require.NoError(t, err)
		assert.Equal(t, ldvalue.String("not found"), msg)
	})
}

func TestRESTClientParsesJSONResponse(t *testing.T) {
	handler := httphelpers.HandlerWithJSONResponse(map[string]interface{}{
		"id":   3,
		"pets": []interface{}{map[string]interface{}{"name": "Buddy"}},
	}, nil)
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		client := NewRESTClient(server.URL, RESTClientOptions{})
		resp, err := client.Get("/owners/3")
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Status)
		assert.Equal(t, 3, resp.JSON().GetByKey("id").IntValue())
		names, err := resp.Field("pets.name")
		require.NoError(t, err)
		assert.Equal(t, `["Buddy"]`, names.JSONString())
	})
}

func TestRESTClientTimeout(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
		w.WriteHeader(200)
	})
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		client := NewRESTClient(server.URL, RESTClientOptions{Timeout: 50 * time.Millisecond})
		_, err := client.Get("/owners")
		assert.Error(t, err)
	})
}

func TestRESTClientLogsRequestsAndResponses(t *testing.T) {
	handler := httphelpers.HandlerWithResponse(201, nil, []byte(`{"id":1}`))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		var logger framework.CapturingLogger
		client := NewRESTClient(server.URL, RESTClientOptions{Logger: &logger})
		_, err := client.Post("/pettypes", map[string]string{"name": "hamster"})
		require.NoError(t, err)

		output := logger.Output()
		require.Len(t, output, 2)
		assert.Contains(t, output[0].Message, "POST "+server.URL+"/pettypes")
		assert.Contains(t, output[0].Message, `{"name":"hamster"}`)
		assert.Contains(t, output[1].Message, "<< 201")
		assert.Contains(t, output[1].Message, `{"id":1}`)
	})
}
