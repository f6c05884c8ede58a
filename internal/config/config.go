// Package config loads the process configuration from the environment.
// Every knob has a sensible default; only the storage account/endpoint and
// the session control plane endpoint genuinely need to be provided.
package config

import (
	"time"

	"github.com/tripkit/agentd/internal/errdefs"
)

// Config is the full process configuration.
type Config struct {
	// ListenAddress is the address the HTTP server binds to.
	ListenAddress string

	// LogLevel is the logrus level name used for process logging.
	LogLevel string

	// Storage configures blob access.
	Storage Storage

	// Sessions configures the session control plane client.
	Sessions Sessions

	// Identity configures the credential strategies shared by both remote
	// paths.
	Identity Identity

	// CallTimeout bounds each remote call.
	CallTimeout time.Duration
}

// Storage configures the blob access layer.
type Storage struct {
	// AccountName is the storage account.
	AccountName string

	// AccountKey is the static account key; only used when shared key
	// authentication is explicitly allowed, and always used to sign
	// delegated URLs.
	AccountKey string

	// ConnectionString enables the connection string credential strategy.
	ConnectionString string

	// Endpoint overrides the endpoint derived from the account name.
	Endpoint string

	// Container is the container used when a request doesn't name one.
	Container string

	// DelegationTTL is the validity window for delegated URLs when the
	// request doesn't specify one.
	DelegationTTL time.Duration

	// StreamRateLimit caps streamed reads in bytes per second; zero means
	// unlimited.
	StreamRateLimit int
}

// Sessions configures the session control plane client.
type Sessions struct {
	// Endpoint is the base URL of the control plane.
	Endpoint string

	// APIVersion overrides the default control plane API version.
	APIVersion string
}

// Identity configures the credential strategies.
type Identity struct {
	// ClientID enables the explicit user assigned identity strategy.
	ClientID string

	// Ambient enables the ambient platform identity strategy.
	Ambient bool

	// AllowSharedKey gates the static account key strategy.
	AllowSharedKey bool
}

// Load reads the configuration from the environment, applying defaults.
func Load() Config {
	return Config{
		ListenAddress: getString("AGENTD_LISTEN", ":8080"),
		LogLevel:      getString("AGENTD_LOG_LEVEL", "info"),
		Storage: Storage{
			AccountName:      getString("AZURE_STORAGE_ACCOUNT", ""),
			AccountKey:       getString("AZURE_STORAGE_KEY", ""),
			ConnectionString: getString("AZURE_STORAGE_CONNECTION_STRING", ""),
			Endpoint:         getString("AGENTD_BLOB_ENDPOINT", ""),
			Container:        getString("AGENTD_CONTAINER", "documents"),
			DelegationTTL:    getDuration("AGENTD_DELEGATION_TTL", time.Hour),
			StreamRateLimit:  getInt("AGENTD_STREAM_RATE_LIMIT", 0),
		},
		Sessions: Sessions{
			Endpoint:   getString("AGENTD_SESSIONS_ENDPOINT", ""),
			APIVersion: getString("AGENTD_SESSIONS_API_VERSION", ""),
		},
		Identity: Identity{
			ClientID:       getString("AZURE_CLIENT_ID", ""),
			Ambient:        getBool("AGENTD_AMBIENT_IDENTITY", true),
			AllowSharedKey: getBool("AGENTD_ALLOW_SHARED_KEY", false),
		},
		CallTimeout: getDuration("AGENTD_CALL_TIMEOUT", 30*time.Second),
	}
}

// Validate ensures the configuration is complete enough to start the
// service.
func (c Config) Validate() error {
	if c.Storage.AccountName == "" && c.Storage.Endpoint == "" && c.Storage.ConnectionString == "" {
		return errdefs.New(errdefs.KindInvalidRequest,
			"a storage account name, endpoint or connection string is required")
	}

	if c.Sessions.Endpoint == "" {
		return errdefs.New(errdefs.KindInvalidRequest, "a session control plane endpoint is required")
	}

	return nil
}
