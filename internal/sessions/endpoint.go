package sessions

import (
	"fmt"
	"net/url"
)

// Endpoint represents a single control plane endpoint. Requests should only
// be dispatched to endpoints which exist in this file i.e. they shouldn't be
// created on the fly.
type Endpoint string

const (
	// EndpointCreateSession creates a session in the given pool.
	EndpointCreateSession Endpoint = "/pools/%s/sessions"

	// EndpointSession addresses a single session.
	EndpointSession Endpoint = "/sessions/%s"

	// EndpointExecuteCode runs a code snippet inside a session.
	EndpointExecuteCode Endpoint = "/sessions/%s/execute"
)

// Format returns a new endpoint using 'fmt.Sprintf' to fill in any
// missing/required elements of the endpoint using the given arguments. All
// arguments will automatically be path escaped before being inserted into the
// endpoint.
//
// NOTE: No validation takes place to ensure the correct number of arguments
// are supplied, that's down to you...
func (e Endpoint) Format(args ...string) Endpoint {
	escaped := make([]any, len(args))
	for index, arg := range args {
		escaped[index] = url.PathEscape(arg)
	}

	return Endpoint(fmt.Sprintf(string(e), escaped...))
}
