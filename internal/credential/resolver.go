package credential

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/mdouchement/logger"
	"github.com/sirupsen/logrus"

	"github.com/tripkit/agentd/internal/errdefs"
	"github.com/tripkit/agentd/internal/timeprovider"
)

// DefaultRefreshMargin is how long before its expiry a cached credential stops
// being handed out; it keeps in-flight requests from racing the expiry
// instant.
const DefaultRefreshMargin = time.Minute

// ResolverOptions encapsulates the options available when creating a resolver.
type ResolverOptions struct {
	// Strategies are tried in order; the first configured strategy to succeed
	// wins.
	Strategies []Strategy

	// Logger used by the resolver, a discarding logger is used when omitted.
	Logger logger.Logger

	// TimeProvider used when checking cached credential expiry, defaults to
	// the real clock.
	TimeProvider timeprovider.TimeProvider

	// RefreshMargin overrides 'DefaultRefreshMargin'.
	RefreshMargin time.Duration
}

func (r *ResolverOptions) defaults() {
	if r.Logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)

		r.Logger = logger.WrapLogrus(discard)
	}

	if r.TimeProvider == nil {
		r.TimeProvider = timeprovider.CurrentTimeProvider{}
	}

	if r.RefreshMargin == 0 {
		r.RefreshMargin = DefaultRefreshMargin
	}
}

// Resolver walks an ordered list of strategies to produce a credential for a
// scope. Resolved credentials are cached per strategy/scope until they near
// expiry. Safe for concurrent use.
type Resolver struct {
	strategies   []Strategy
	logger       logger.Logger
	timeProvider timeprovider.TimeProvider
	margin       time.Duration

	lock  sync.Mutex
	cache map[cacheKey]Credential
}

type cacheKey struct {
	strategy string
	scope    string
}

// NewResolver creates a new resolver using the given options.
func NewResolver(options ResolverOptions) *Resolver {
	options.defaults()

	return &Resolver{
		strategies:   options.Strategies,
		logger:       options.Logger,
		timeProvider: options.TimeProvider,
		margin:       options.RefreshMargin,
		cache:        make(map[cacheKey]Credential),
	}
}

// First returns the highest priority configured strategy, or nil if no
// strategy is configured; used by clients to pick a construction path without
// resolving anything.
func (r *Resolver) First() Strategy {
	for _, strategy := range r.strategies {
		if strategy.Configured() {
			return strategy
		}
	}

	return nil
}

// Resolve produces a credential valid for the given scope. Strategies are
// tried strictly in order, unconfigured strategies are skipped, and the first
// success wins; when every strategy is skipped or fails the per-strategy
// outcomes are aggregated into a single authentication failure.
func (r *Resolver) Resolve(ctx context.Context, scope string) (Credential, error) {
	outcomes := &errdefs.MultiError{Separator: "; "}

	for _, strategy := range r.strategies {
		if !strategy.Configured() {
			outcomes.Add(fmt.Errorf("%s: not configured", strategy.Name()))
			continue
		}

		if cred, ok := r.cached(strategy.Name(), scope); ok {
			return cred, nil
		}

		cred, err := strategy.Resolve(ctx, scope)
		if err != nil {
			outcomes.Add(fmt.Errorf("%s: %w", strategy.Name(), err))
			continue
		}

		if cred.Degraded {
			r.logger.Warnf("[credential] resolved via '%s' which uses static account material, identity "+
				"based authentication should be preferred", strategy.Name())
		}

		r.store(strategy.Name(), scope, cred)

		return cred, nil
	}

	if len(outcomes.Errors()) == 0 {
		return Credential{}, errdefs.Newf(errdefs.KindAuthenticationFailed,
			"no credential strategies configured for scope '%s'", scope)
	}

	return Credential{}, errdefs.Wrap(errdefs.KindAuthenticationFailed, outcomes,
		"failed to resolve a credential for scope '%s': %s", scope, outcomes)
}

// cached returns the cached credential for the given strategy/scope if one
// exists and isn't about to expire.
func (r *Resolver) cached(strategy, scope string) (Credential, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()

	cred, ok := r.cache[cacheKey{strategy: strategy, scope: scope}]
	if !ok || cred.Expired(r.timeProvider.Now().Add(r.margin)) {
		return Credential{}, false
	}

	return cred, true
}

func (r *Resolver) store(strategy, scope string, cred Credential) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.cache[cacheKey{strategy: strategy, scope: scope}] = cred
}

// TokenCredential returns an adapter which satisfies the Azure SDK token
// credential interface by resolving through the receiver; it allows SDK
// clients to be constructed eagerly whilst still acquiring a fresh credential
// per call.
func (r *Resolver) TokenCredential() azcore.TokenCredential {
	return &tokenCredential{resolver: r}
}

type tokenCredential struct {
	resolver *Resolver
}

func (t *tokenCredential) GetToken(ctx context.Context, options policy.TokenRequestOptions) (azcore.AccessToken, error) {
	if len(options.Scopes) == 0 {
		return azcore.AccessToken{}, errdefs.New(errdefs.KindAuthenticationFailed, "no scope requested")
	}

	cred, err := t.resolver.Resolve(ctx, options.Scopes[0])
	if err != nil {
		return azcore.AccessToken{}, err
	}

	if cred.Token == "" {
		return azcore.AccessToken{}, errdefs.Newf(errdefs.KindAuthenticationFailed,
			"strategy '%s' does not produce bearer tokens", cred.Source)
	}

	return azcore.AccessToken{Token: cred.Token, ExpiresOn: cred.ExpiresOn}, nil
}
