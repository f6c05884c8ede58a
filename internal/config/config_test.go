package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	require.Equal(t, ":8080", cfg.ListenAddress)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "documents", cfg.Storage.Container)
	require.Equal(t, time.Hour, cfg.Storage.DelegationTTL)
	require.Equal(t, 30*time.Second, cfg.CallTimeout)
	require.True(t, cfg.Identity.Ambient)
	require.False(t, cfg.Identity.AllowSharedKey)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("AGENTD_LISTEN", ":9090")
	t.Setenv("AZURE_STORAGE_ACCOUNT", "testaccount")
	t.Setenv("AGENTD_SESSIONS_ENDPOINT", "https://sessions.local")
	t.Setenv("AGENTD_DELEGATION_TTL", "2h")
	t.Setenv("AGENTD_ALLOW_SHARED_KEY", "true")
	t.Setenv("AGENTD_STREAM_RATE_LIMIT", "1048576")

	cfg := Load()

	require.Equal(t, ":9090", cfg.ListenAddress)
	require.Equal(t, "testaccount", cfg.Storage.AccountName)
	require.Equal(t, "https://sessions.local", cfg.Sessions.Endpoint)
	require.Equal(t, 2*time.Hour, cfg.Storage.DelegationTTL)
	require.True(t, cfg.Identity.AllowSharedKey)
	require.Equal(t, 1048576, cfg.Storage.StreamRateLimit)
}

func TestLoadMalformedValuesFallBack(t *testing.T) {
	t.Setenv("AGENTD_DELEGATION_TTL", "soon")
	t.Setenv("AGENTD_AMBIENT_IDENTITY", "definitely")
	t.Setenv("AGENTD_STREAM_RATE_LIMIT", "fast")

	cfg := Load()

	require.Equal(t, time.Hour, cfg.Storage.DelegationTTL)
	require.True(t, cfg.Identity.Ambient)
	require.Zero(t, cfg.Storage.StreamRateLimit)
}

func TestConfigValidate(t *testing.T) {
	type test struct {
		name  string
		cfg   Config
		valid bool
	}

	tests := []*test{
		{
			name: "Complete",
			cfg: Config{
				Storage:  Storage{AccountName: "testaccount"},
				Sessions: Sessions{Endpoint: "https://sessions.local"},
			},
			valid: true,
		},
		{
			name: "ConnectionStringOnly",
			cfg: Config{
				Storage:  Storage{ConnectionString: "AccountName=testaccount"},
				Sessions: Sessions{Endpoint: "https://sessions.local"},
			},
			valid: true,
		},
		{
			name: "MissingStorage",
			cfg:  Config{Sessions: Sessions{Endpoint: "https://sessions.local"}},
		},
		{
			name: "MissingSessionsEndpoint",
			cfg:  Config{Storage: Storage{AccountName: "testaccount"}},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.cfg.Validate()
			if test.valid {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
		})
	}
}
