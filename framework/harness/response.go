package harness

import (
	"fmt"
	"net/http"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Response is a complete response from the backend API.
type Response struct {
	Method    string
	Path      string
	RequestID string
	Status    int
	Header    http.Header
	Body      []byte
}

// JSON parses the body. A body that is empty or is not valid JSON gives a null value.
func (r *Response) JSON() ldvalue.Value {
	if len(r.Body) == 0 {
		return ldvalue.Null()
	}
	return ldvalue.Parse(r.Body)
}

// Field looks up a value in the JSON body with a path expression; see Lookup.
func (r *Response) Field(expr string) (ldvalue.Value, error) {
	return Lookup(r.JSON(), expr)
}

func (r *Response) String() string {
	return fmt.Sprintf("%s %s -> %d %s", r.Method, r.Path, r.Status, string(r.Body))
}
