package credential

import (
	"context"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/pkg/errors"
)

// Material indicates the kind of authentication material a strategy produces;
// clients use it to pick a construction path without resolving anything.
type Material int

const (
	// MaterialBearer is a short lived OAuth bearer token.
	MaterialBearer Material = iota

	// MaterialConnectionString is a storage connection string.
	MaterialConnectionString

	// MaterialSharedKey is a static account name/key pair.
	MaterialSharedKey
)

// Strategy is a single way of obtaining a credential. Implementations must be
// safe for concurrent use.
type Strategy interface {
	// Name identifies the strategy in logs and aggregated errors.
	Name() string

	// Material returns the kind of material the strategy produces.
	Material() Material

	// Configured returns a boolean indicating whether the configuration the
	// strategy requires is present; an unconfigured strategy is skipped, it's
	// not a failure.
	Configured() bool

	// Resolve attempts to produce a credential valid for the given scope.
	Resolve(ctx context.Context, scope string) (Credential, error)
}

// StrategyConfig is the static configuration the built-in strategies are
// created from.
type StrategyConfig struct {
	// ClientID is the client id of a user assigned identity; enables the
	// explicit workload/managed identity strategy.
	ClientID string

	// Ambient enables the ambient platform identity strategy.
	Ambient bool

	// ConnectionString enables the connection string strategy.
	ConnectionString string

	// AccountName/AccountKey enable the static account key strategy when
	// 'AllowSharedKey' is set.
	AccountName string
	AccountKey  string

	// AllowSharedKey gates the static account key strategy; it's disabled by
	// default.
	AllowSharedKey bool
}

// DefaultStrategies returns the built-in strategies in priority order.
func DefaultStrategies(config StrategyConfig) []Strategy {
	strategies := []Strategy{
		NewExplicitIdentity(config.ClientID),
		NewAmbientIdentity(config.Ambient),
		NewConnectionString(config.ConnectionString),
	}

	if config.AllowSharedKey {
		strategies = append(strategies, NewSharedKey(config.AccountName, config.AccountKey))
	}

	return strategies
}

// IdentityStrategies returns only the identity based strategies in priority
// order; used for audiences where shared material makes no sense.
func IdentityStrategies(config StrategyConfig) []Strategy {
	return []Strategy{
		NewExplicitIdentity(config.ClientID),
		NewAmbientIdentity(config.Ambient),
	}
}

type explicitIdentity struct {
	clientID string
	chain    azcore.TokenCredential
	err      error
}

// NewExplicitIdentity creates a strategy which acquires tokens for the user
// assigned identity with the given client id, via workload identity federation
// where available falling back to the instance metadata service. An empty
// client id leaves the strategy unconfigured.
func NewExplicitIdentity(clientID string) Strategy {
	strategy := &explicitIdentity{clientID: clientID}
	if clientID == "" {
		return strategy
	}

	var sources []azcore.TokenCredential

	workload, err := azidentity.NewWorkloadIdentityCredential(&azidentity.WorkloadIdentityCredentialOptions{
		ClientID: clientID,
	})
	if err == nil {
		sources = append(sources, workload)
	}

	managed, err := azidentity.NewManagedIdentityCredential(&azidentity.ManagedIdentityCredentialOptions{
		ID: azidentity.ClientID(clientID),
	})
	if err == nil {
		sources = append(sources, managed)
	}

	if len(sources) == 0 {
		strategy.err = errors.New("no identity sources available for the configured client id")
		return strategy
	}

	strategy.chain, strategy.err = azidentity.NewChainedTokenCredential(sources, nil)

	return strategy
}

func (e *explicitIdentity) Name() string       { return "explicit-identity" }
func (e *explicitIdentity) Material() Material { return MaterialBearer }
func (e *explicitIdentity) Configured() bool   { return e.clientID != "" }

func (e *explicitIdentity) Resolve(ctx context.Context, scope string) (Credential, error) {
	if e.err != nil {
		return Credential{}, e.err
	}

	token, err := e.chain.GetToken(ctx, policy.TokenRequestOptions{Scopes: []string{scope}})
	if err != nil {
		return Credential{}, err
	}

	return Credential{Token: token.Token, ExpiresOn: token.ExpiresOn, Source: e.Name()}, nil
}

type ambientIdentity struct {
	enabled bool
	chain   azcore.TokenCredential
	err     error
}

// NewAmbientIdentity creates a strategy which acquires tokens via whatever
// identity the platform exposes (environment, workload federation, IMDS)
// without an explicit client id.
func NewAmbientIdentity(enabled bool) Strategy {
	strategy := &ambientIdentity{enabled: enabled}
	if !enabled {
		return strategy
	}

	strategy.chain, strategy.err = azidentity.NewDefaultAzureCredential(nil)

	return strategy
}

func (a *ambientIdentity) Name() string       { return "ambient-identity" }
func (a *ambientIdentity) Material() Material { return MaterialBearer }
func (a *ambientIdentity) Configured() bool   { return a.enabled }

func (a *ambientIdentity) Resolve(ctx context.Context, scope string) (Credential, error) {
	if a.err != nil {
		return Credential{}, a.err
	}

	token, err := a.chain.GetToken(ctx, policy.TokenRequestOptions{Scopes: []string{scope}})
	if err != nil {
		return Credential{}, err
	}

	return Credential{Token: token.Token, ExpiresOn: token.ExpiresOn, Source: a.Name()}, nil
}

type connectionString struct {
	value string
}

// NewConnectionString creates a strategy which hands out the given storage
// connection string. An empty value leaves the strategy unconfigured.
func NewConnectionString(value string) Strategy {
	return &connectionString{value: value}
}

func (c *connectionString) Name() string       { return "connection-string" }
func (c *connectionString) Material() Material { return MaterialConnectionString }
func (c *connectionString) Configured() bool   { return c.value != "" }

func (c *connectionString) Resolve(_ context.Context, _ string) (Credential, error) {
	values := parseConnectionString(c.value)
	if values["accountname"] == "" {
		return Credential{}, errors.New("connection string does not contain an account name")
	}

	return Credential{ConnectionString: c.value, Source: c.Name()}, nil
}

// parseConnectionString converts a storage connection string into a map of
// its lowercased keys to values.
func parseConnectionString(value string) map[string]string {
	values := make(map[string]string)

	for _, pair := range strings.Split(value, ";") {
		key, val, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}

		values[strings.ToLower(strings.TrimSpace(key))] = val
	}

	return values
}

type sharedKey struct {
	account string
	key     string
}

// NewSharedKey creates a strategy which produces a static account key
// credential. It's last resort material, the resolver logs whenever it's
// used.
func NewSharedKey(account, key string) Strategy {
	return &sharedKey{account: account, key: key}
}

func (s *sharedKey) Name() string       { return "account-key" }
func (s *sharedKey) Material() Material { return MaterialSharedKey }
func (s *sharedKey) Configured() bool   { return s.account != "" && s.key != "" }

func (s *sharedKey) Resolve(_ context.Context, _ string) (Credential, error) {
	cred, err := azblob.NewSharedKeyCredential(s.account, s.key)
	if err != nil {
		return Credential{}, errors.Wrap(err, "failed to create shared key credential")
	}

	return Credential{SharedKey: cred, Source: s.Name(), Degraded: true}, nil
}
