// Package sessions is a thin client for the remote ephemeral code execution
// control plane. Each call acquires a fresh credential, performs a single
// request and maps the outcome onto the domain error kinds; retries, polling
// and session reuse policy belong to the caller.
package sessions

import (
	"encoding/json"
	"time"
)

// State is the lifecycle state of a remote session as reported by the
// control plane.
type State string

const (
	StateProvisioning State = "Provisioning"
	StateRunning      State = "Running"
	StateSucceeded    State = "Succeeded"
	StateFailed       State = "Failed"
	StateDeleted      State = "Deleted"
)

// Session describes a single remote session.
type Session struct {
	// ID is the session identifier; generated client side on creation, the
	// control plane may override it.
	ID string `json:"id"`

	// Pool is the pool the session was created in; only known for sessions
	// created through this client.
	Pool string `json:"pool,omitempty"`

	// State is the last reported lifecycle state.
	State State `json:"state"`

	// CreatedAt is when the control plane created the session, if reported.
	CreatedAt *time.Time `json:"created_at,omitempty"`

	// Raw is the control plane representation the session was decoded from,
	// kept for diagnostics.
	Raw json.RawMessage `json:"-"`
}

// SessionConfig carries the caller-supplied creation options forwarded to the
// control plane verbatim; this client attributes no meaning to the keys.
type SessionConfig map[string]any

// ExecutionResult is the synchronous outcome of running a code snippet.
type ExecutionResult struct {
	// SessionID is the session the snippet ran in.
	SessionID string `json:"session_id"`

	// Status is the control plane reported outcome of the execution.
	Status string `json:"status"`

	// Stdout/Stderr are the captured output streams.
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`

	// Result is the value produced by the snippet, if any.
	Result string `json:"result"`

	// Duration is how long the execution took, if reported.
	Duration *time.Duration `json:"duration,omitempty"`
}

// createEnvelope is the wire representation of a session creation request; the
// caller-supplied config flows into the 'properties' envelope untouched.
type createEnvelope struct {
	Name       string        `json:"name"`
	Properties SessionConfig `json:"properties,omitempty"`
}

// sessionEnvelope is the wire representation of a session.
type sessionEnvelope struct {
	Name       string            `json:"name"`
	Properties sessionProperties `json:"properties"`
}

type sessionProperties struct {
	ProvisioningState State      `json:"provisioningState"`
	CreatedTime       *time.Time `json:"createdTime"`
}

func (s *sessionEnvelope) toSession(raw []byte) *Session {
	return &Session{
		ID:        s.Name,
		State:     s.Properties.ProvisioningState,
		CreatedAt: s.Properties.CreatedTime,
		Raw:       raw,
	}
}

// executionEnvelope is the wire representation of an execution request.
type executionEnvelope struct {
	Properties executionProperties `json:"properties"`
}

type executionProperties struct {
	CodeInputType string `json:"codeInputType"`
	ExecutionType string `json:"executionType"`
	Code          string `json:"code"`
}

// resultEnvelope is the wire representation of an execution outcome.
type resultEnvelope struct {
	Properties resultProperties `json:"properties"`
}

type resultProperties struct {
	Status          string   `json:"status"`
	Stdout          string   `json:"stdout"`
	Stderr          string   `json:"stderr"`
	Result          string   `json:"result"`
	ExecutionTimeMS *float64 `json:"executionTimeInMilliseconds"`
}

func (r *resultEnvelope) toResult() *ExecutionResult {
	result := &ExecutionResult{
		Status: r.Properties.Status,
		Stdout: r.Properties.Stdout,
		Stderr: r.Properties.Stderr,
		Result: r.Properties.Result,
	}

	if r.Properties.ExecutionTimeMS != nil {
		duration := time.Duration(*r.Properties.ExecutionTimeMS * float64(time.Millisecond))
		result.Duration = &duration
	}

	return result
}
