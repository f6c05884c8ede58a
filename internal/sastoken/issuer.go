// Package sastoken issues short lived read-only delegation tokens for single
// blobs. Tokens are signed locally with the storage account key, no network
// round trip takes place.
package sastoken

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/sas"

	"github.com/tripkit/agentd/internal/errdefs"
	"github.com/tripkit/agentd/internal/objval"
	"github.com/tripkit/agentd/internal/timeprovider"
)

const (
	// MinTTL/MaxTTL bound the validity window callers may request.
	MinTTL = time.Hour
	MaxTTL = 24 * time.Hour
)

// IssuerOptions encapsulates the options available when creating an issuer.
type IssuerOptions struct {
	// AccountName/AccountKey sign the tokens; both are required.
	AccountName string
	AccountKey  string

	// Endpoint overrides the public blob endpoint derived from the account
	// name; useful against emulators.
	Endpoint string

	// TimeProvider used for the validity window, defaults to the real clock.
	TimeProvider timeprovider.TimeProvider
}

// Issuer signs read-only delegation tokens for single blobs. Safe for
// concurrent use.
type Issuer struct {
	credential   *azblob.SharedKeyCredential
	endpoint     *url.URL
	timeProvider timeprovider.TimeProvider
}

// NewIssuer creates a new issuer using the given options. Fails when the
// account name/key are absent or malformed; delegation is unavailable without
// signing material, there is no identity based fallback.
func NewIssuer(options IssuerOptions) (*Issuer, error) {
	if options.AccountName == "" || options.AccountKey == "" {
		return nil, errdefs.New(errdefs.KindInvalidRequest,
			"delegation requires a storage account name and key")
	}

	credential, err := azblob.NewSharedKeyCredential(options.AccountName, options.AccountKey)
	if err != nil {
		return nil, errdefs.Wrap(errdefs.KindInvalidRequest, err, "invalid storage account key")
	}

	if options.Endpoint == "" {
		options.Endpoint = fmt.Sprintf("https://%s.blob.core.windows.net", options.AccountName)
	}

	endpoint, err := url.Parse(options.Endpoint)
	if err != nil {
		return nil, errdefs.Wrap(errdefs.KindInvalidRequest, err, "invalid blob endpoint")
	}

	if options.TimeProvider == nil {
		options.TimeProvider = timeprovider.CurrentTimeProvider{}
	}

	return &Issuer{
		credential:   credential,
		endpoint:     endpoint,
		timeProvider: options.TimeProvider,
	}, nil
}

// Issue signs a read-only token for the given blob, returning the encoded
// query parameters.
func (i *Issuer) Issue(locator objval.Locator, ttl time.Duration) (string, error) {
	if locator.Container == "" || locator.Name == "" {
		return "", errdefs.New(errdefs.KindInvalidRequest, "a container and blob name are required")
	}

	if ttl < MinTTL || ttl > MaxTTL {
		return "", errdefs.Newf(errdefs.KindInvalidRequest,
			"delegation ttl %s outside the allowed range [%s, %s]", ttl, MinTTL, MaxTTL)
	}

	now := i.timeProvider.Now().UTC()
	permissions := sas.BlobPermissions{Read: true}

	values := sas.BlobSignatureValues{
		Protocol:      sas.ProtocolHTTPS,
		StartTime:     now,
		ExpiryTime:    now.Add(ttl),
		Permissions:   permissions.String(),
		ContainerName: locator.Container,
		BlobName:      locator.Name,
	}

	params, err := values.SignWithSharedKey(i.credential)
	if err != nil {
		return "", errdefs.Wrap(errdefs.KindUnexpectedRemoteError, err, "failed to sign delegation token")
	}

	return params.Encode(), nil
}

// IssueURL signs a read-only token for the given blob and returns the full
// URL a holder may fetch it from.
func (i *Issuer) IssueURL(locator objval.Locator, ttl time.Duration) (string, error) {
	token, err := i.Issue(locator, ttl)
	if err != nil {
		return "", err
	}

	target := *i.endpoint
	target.Path = fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(i.endpoint.Path, "/"), locator.Container, locator.Name)
	target.RawQuery = token

	return target.String(), nil
}
