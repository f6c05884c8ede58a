package credential

import (
	"context"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/tripkit/agentd/internal/errdefs"
	"github.com/tripkit/agentd/internal/timeprovider"
)

type fakeStrategy struct {
	name       string
	material   Material
	configured bool
	calls      int
	resolve    func(ctx context.Context, scope string) (Credential, error)
}

func (f *fakeStrategy) Name() string       { return f.name }
func (f *fakeStrategy) Material() Material { return f.material }
func (f *fakeStrategy) Configured() bool   { return f.configured }

func (f *fakeStrategy) Resolve(ctx context.Context, scope string) (Credential, error) {
	f.calls++
	return f.resolve(ctx, scope)
}

func bearer(token string, expiresOn time.Time) func(context.Context, string) (Credential, error) {
	return func(_ context.Context, _ string) (Credential, error) {
		return Credential{Token: token, ExpiresOn: expiresOn}, nil
	}
}

func TestResolverFirstSuccessWins(t *testing.T) {
	var (
		first  = &fakeStrategy{name: "first", configured: true, resolve: bearer("t1", time.Time{})}
		second = &fakeStrategy{name: "second", configured: true, resolve: bearer("t2", time.Time{})}
	)

	resolver := NewResolver(ResolverOptions{Strategies: []Strategy{first, second}})

	cred, err := resolver.Resolve(context.Background(), ScopeStorage)
	require.NoError(t, err)
	require.Equal(t, "t1", cred.Token)
	require.Equal(t, 1, first.calls)
	require.Zero(t, second.calls)
}

func TestResolverSkipsUnconfigured(t *testing.T) {
	var (
		first  = &fakeStrategy{name: "first", configured: false}
		second = &fakeStrategy{name: "second", configured: true, resolve: bearer("t2", time.Time{})}
	)

	resolver := NewResolver(ResolverOptions{Strategies: []Strategy{first, second}})

	cred, err := resolver.Resolve(context.Background(), ScopeStorage)
	require.NoError(t, err)
	require.Equal(t, "t2", cred.Token)
	require.Zero(t, first.calls)
}

func TestResolverFallsThroughOnFailure(t *testing.T) {
	var (
		first = &fakeStrategy{name: "first", configured: true, resolve: func(
			_ context.Context, _ string) (Credential, error) {
			return Credential{}, errors.New("boom")
		}}
		second = &fakeStrategy{name: "second", configured: true, resolve: bearer("t2", time.Time{})}
	)

	resolver := NewResolver(ResolverOptions{Strategies: []Strategy{first, second}})

	cred, err := resolver.Resolve(context.Background(), ScopeStorage)
	require.NoError(t, err)
	require.Equal(t, "t2", cred.Token)
	require.Equal(t, 1, first.calls)
}

func TestResolverNoneConfigured(t *testing.T) {
	resolver := NewResolver(ResolverOptions{Strategies: []Strategy{
		&fakeStrategy{name: "first", configured: false},
		&fakeStrategy{name: "second", configured: false},
	}})

	_, err := resolver.Resolve(context.Background(), ScopeStorage)
	require.Error(t, err)
	require.True(t, errdefs.IsKind(err, errdefs.KindAuthenticationFailed))
	require.ErrorContains(t, err, "first: not configured")
	require.ErrorContains(t, err, "second: not configured")
}

func TestResolverNoStrategies(t *testing.T) {
	resolver := NewResolver(ResolverOptions{})

	_, err := resolver.Resolve(context.Background(), ScopeStorage)
	require.True(t, errdefs.IsKind(err, errdefs.KindAuthenticationFailed))
}

func TestResolverAggregatesFailures(t *testing.T) {
	fail := func(message string) func(context.Context, string) (Credential, error) {
		return func(_ context.Context, _ string) (Credential, error) {
			return Credential{}, errors.New(message)
		}
	}

	resolver := NewResolver(ResolverOptions{Strategies: []Strategy{
		&fakeStrategy{name: "first", configured: true, resolve: fail("token endpoint unreachable")},
		&fakeStrategy{name: "second", configured: true, resolve: fail("permission denied")},
	}})

	_, err := resolver.Resolve(context.Background(), ScopeStorage)
	require.True(t, errdefs.IsKind(err, errdefs.KindAuthenticationFailed))
	require.ErrorContains(t, err, "first: token endpoint unreachable")
	require.ErrorContains(t, err, "second: permission denied")
}

func TestResolverCachesUntilNearExpiry(t *testing.T) {
	provider := timeprovider.NewFakeTimeProvider(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	strategy := &fakeStrategy{
		name:       "first",
		configured: true,
		resolve:    bearer("t1", provider.Time.Add(time.Hour)),
	}

	resolver := NewResolver(ResolverOptions{Strategies: []Strategy{strategy}, TimeProvider: provider})

	for i := 0; i < 3; i++ {
		cred, err := resolver.Resolve(context.Background(), ScopeStorage)
		require.NoError(t, err)
		require.Equal(t, "t1", cred.Token)
	}

	require.Equal(t, 1, strategy.calls)

	// Within the refresh margin of expiry, the cached credential must be
	// discarded.
	provider.AdvanceTimeBy(time.Hour - 30*time.Second)

	strategy.resolve = bearer("t2", provider.Time.Add(time.Hour))

	cred, err := resolver.Resolve(context.Background(), ScopeStorage)
	require.NoError(t, err)
	require.Equal(t, "t2", cred.Token)
	require.Equal(t, 2, strategy.calls)
}

func TestResolverCachePerScope(t *testing.T) {
	strategy := &fakeStrategy{
		name:       "first",
		configured: true,
		resolve: func(_ context.Context, scope string) (Credential, error) {
			return Credential{Token: scope, ExpiresOn: time.Now().Add(time.Hour)}, nil
		},
	}

	resolver := NewResolver(ResolverOptions{Strategies: []Strategy{strategy}})

	storage, err := resolver.Resolve(context.Background(), ScopeStorage)
	require.NoError(t, err)

	sessions, err := resolver.Resolve(context.Background(), ScopeDynamicSessions)
	require.NoError(t, err)

	require.NotEqual(t, storage.Token, sessions.Token)
	require.Equal(t, 2, strategy.calls)
}

func TestResolverFirst(t *testing.T) {
	var (
		first  = &fakeStrategy{name: "first", configured: false}
		second = &fakeStrategy{name: "second", configured: true}
	)

	resolver := NewResolver(ResolverOptions{Strategies: []Strategy{first, second}})
	require.Equal(t, second, resolver.First())

	resolver = NewResolver(ResolverOptions{Strategies: []Strategy{first}})
	require.Nil(t, resolver.First())
}

func TestTokenCredentialAdapter(t *testing.T) {
	expiry := time.Now().Add(time.Hour)

	resolver := NewResolver(ResolverOptions{Strategies: []Strategy{
		&fakeStrategy{name: "first", configured: true, resolve: bearer("t1", expiry)},
	}})

	token, err := resolver.TokenCredential().GetToken(
		context.Background(),
		policy.TokenRequestOptions{Scopes: []string{ScopeStorage}},
	)
	require.NoError(t, err)
	require.Equal(t, "t1", token.Token)
	require.Equal(t, expiry, token.ExpiresOn)
}

func TestTokenCredentialAdapterNoScopes(t *testing.T) {
	resolver := NewResolver(ResolverOptions{})

	_, err := resolver.TokenCredential().GetToken(context.Background(), policy.TokenRequestOptions{})
	require.True(t, errdefs.IsKind(err, errdefs.KindAuthenticationFailed))
}

func TestTokenCredentialAdapterNonBearerMaterial(t *testing.T) {
	resolver := NewResolver(ResolverOptions{Strategies: []Strategy{
		&fakeStrategy{
			name:       "first",
			configured: true,
			material:   MaterialConnectionString,
			resolve: func(_ context.Context, _ string) (Credential, error) {
				return Credential{ConnectionString: "cs", Source: "first"}, nil
			},
		},
	}})

	_, err := resolver.TokenCredential().GetToken(
		context.Background(),
		policy.TokenRequestOptions{Scopes: []string{ScopeStorage}},
	)
	require.True(t, errdefs.IsKind(err, errdefs.KindAuthenticationFailed))
	require.ErrorContains(t, err, "first")
}
