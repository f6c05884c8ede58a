// Package credential resolves the identity used for outbound calls to Azure
// services. Resolution walks an ordered list of strategies, the first one to
// succeed wins; strategies whose configuration is absent are skipped rather
// than treated as failures.
package credential

import (
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

const (
	// ScopeStorage is the OAuth scope requested for blob storage access.
	ScopeStorage = "https://storage.azure.com/.default"

	// ScopeDynamicSessions is the OAuth scope requested for the session
	// control plane. Never shared with the storage path, the two audiences
	// are distinct even when the same identity backs both.
	ScopeDynamicSessions = "https://dynamicsessions.io/.default"
)

// Credential is the opaque authentication material produced by a strategy. It
// is owned by the resolver and its caller for the duration of a single
// operation; it must never be used past its expiry instant.
type Credential struct {
	// Token is the bearer token produced by an identity based strategy,
	// empty for shared material strategies.
	Token string

	// ExpiresOn is the instant the token expires; zero for material which
	// does not expire (connection strings, account keys).
	ExpiresOn time.Time

	// ConnectionString is set when the credential was produced by the
	// connection string strategy.
	ConnectionString string

	// SharedKey is set when the credential was produced by the static
	// account key strategy.
	SharedKey *azblob.SharedKeyCredential

	// Source names the strategy which produced this credential.
	Source string

	// Degraded indicates the credential came from a discouraged strategy;
	// the resolver logs its use.
	Degraded bool
}

// Expired returns a boolean indicating whether the credential must not be
// used at the given instant.
func (c Credential) Expired(now time.Time) bool {
	return !c.ExpiresOn.IsZero() && !now.Before(c.ExpiresOn)
}
