// Package blobstore exposes read-only access to blobs stored in Azure blob
// storage: content, streams, metadata, existence checks and delegated URLs.
// The layer never caches content or metadata; it attributes no meaning to
// blob contents.
package blobstore

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/service"
	"golang.org/x/time/rate"

	"github.com/tripkit/agentd/internal/credential"
	"github.com/tripkit/agentd/internal/errdefs"
	"github.com/tripkit/agentd/internal/objval"
	"github.com/tripkit/agentd/internal/ptr"
	"github.com/tripkit/agentd/internal/ratelimit"
	"github.com/tripkit/agentd/internal/sastoken"
)

// DefaultTimeout bounds each non-streaming storage call.
const DefaultTimeout = 30 * time.Second

// ClientOptions encapsulates the options available when creating a new
// client.
type ClientOptions struct {
	// Resolver supplies the credential used for each call.
	//
	// NOTE: Required
	Resolver *credential.Resolver

	// AccountName is the storage account; used to derive the endpoint when
	// one isn't given explicitly.
	AccountName string

	// Endpoint overrides the public endpoint derived from the account name.
	Endpoint string

	// Container is the container used for locators which don't name one.
	Container string

	// Issuer signs delegated URLs; delegation is unavailable when omitted.
	Issuer *sastoken.Issuer

	// StreamLimit throttles streamed reads when set.
	StreamLimit *rate.Limiter

	// Timeout bounds each non-streaming call, defaults to 'DefaultTimeout'.
	// Streaming reads are bounded by the caller's context instead.
	Timeout time.Duration
}

// Client provides read-only access to blobs. Construction performs no
// network I/O; credential and connectivity failures surface on the first
// call. Safe for concurrent use.
type Client struct {
	serviceAPI  serviceAPI
	container   string
	issuer      *sastoken.Issuer
	streamLimit *rate.Limiter
	timeout     time.Duration
}

// NewClient creates a new client using the given options. The construction
// path follows the highest priority configured credential strategy: identity
// based strategies authenticate per call via the resolver, shared material
// strategies hand their material to the SDK directly.
func NewClient(options ClientOptions) (*Client, error) {
	if options.Resolver == nil {
		return nil, errdefs.New(errdefs.KindInvalidRequest, "a credential resolver is required")
	}

	if options.Endpoint == "" && options.AccountName != "" {
		options.Endpoint = fmt.Sprintf("https://%s.blob.core.windows.net", options.AccountName)
	}

	if options.Timeout == 0 {
		options.Timeout = DefaultTimeout
	}

	svc, err := newServiceClient(options)
	if err != nil {
		return nil, err
	}

	return &Client{
		serviceAPI:  &serviceClient{client: svc},
		container:   options.Container,
		issuer:      options.Issuer,
		streamLimit: options.StreamLimit,
		timeout:     options.Timeout,
	}, nil
}

func newServiceClient(options ClientOptions) (*service.Client, error) {
	strategy := options.Resolver.First()

	// No configured strategy still yields a usable client; resolution fails
	// with an authentication error on the first call rather than here.
	if strategy == nil || strategy.Material() == credential.MaterialBearer {
		if options.Endpoint == "" {
			return nil, errdefs.New(errdefs.KindInvalidRequest,
				"a storage account name or endpoint is required")
		}

		return service.NewClient(options.Endpoint, options.Resolver.TokenCredential(), nil)
	}

	// Shared material strategies resolve without network I/O.
	cred, err := options.Resolver.Resolve(context.Background(), credential.ScopeStorage)
	if err != nil {
		return nil, err
	}

	if strategy.Material() == credential.MaterialConnectionString {
		return service.NewClientFromConnectionString(cred.ConnectionString, nil)
	}

	if options.Endpoint == "" {
		return nil, errdefs.New(errdefs.KindInvalidRequest,
			"a storage account name or endpoint is required")
	}

	return service.NewClientWithSharedKeyCredential(options.Endpoint, cred.SharedKey, nil)
}

func (c *Client) blobAPI(locator objval.Locator) blobAPI {
	container := c.serviceAPI.NewContainerClient(locator.Container)
	return container.NewBlobClient(locator.Name)
}

func (c *Client) resolve(locator objval.Locator) (objval.Locator, error) {
	locator = locator.InContainer(c.container)

	if locator.Container == "" || locator.Name == "" {
		return objval.Locator{}, errdefs.New(errdefs.KindInvalidRequest,
			"a container and blob name are required")
	}

	return locator, nil
}

// GetContent downloads the entire blob into memory.
func (c *Client) GetContent(ctx context.Context, locator objval.Locator) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	object, err := c.GetStream(ctx, locator, nil)
	if err != nil {
		return nil, err
	}
	defer object.Body.Close()

	content, err := io.ReadAll(object.Body)
	if err != nil {
		return nil, errdefs.FromTransport(err, "read blob content")
	}

	return content, nil
}

// GetStream begins downloading the blob, returning its attributes and a
// stream of its content. The stream's lifetime is bounded by the given
// context, not by the client timeout; the caller must close the body.
func (c *Client) GetStream(ctx context.Context, locator objval.Locator, br *objval.ByteRange) (*objval.Object, error) {
	if err := br.Valid(); err != nil {
		return nil, errdefs.Wrap(errdefs.KindInvalidRequest, err, "invalid byte range")
	}

	locator, err := c.resolve(locator)
	if err != nil {
		return nil, err
	}

	var offset, length int64 = 0, blob.CountToEnd
	if br != nil {
		offset, length = br.ToOffsetLength(length)
	}

	resp, err := c.blobAPI(locator).DownloadStream(
		ctx, &blob.DownloadStreamOptions{Range: blob.HTTPRange{Offset: offset, Count: length}},
	)
	if err != nil {
		return nil, errdefs.FromAzure(locator.Container, locator.Name, err)
	}

	body := resp.Body
	if c.streamLimit != nil {
		body = ratelimit.NewRateLimitedReadCloser(ctx, body, c.streamLimit)
	}

	object := &objval.Object{
		Metadata: objval.Metadata{
			Name:         locator.Name,
			Container:    locator.Container,
			Size:         ptr.From(resp.ContentLength),
			ContentType:  ptr.From(resp.ContentType),
			ETag:         string(ptr.From(resp.ETag)),
			LastModified: resp.LastModified,
		},
		Body: body,
	}

	return object, nil
}

// GetMetadata fetches the blob's attributes without its content.
func (c *Client) GetMetadata(ctx context.Context, locator objval.Locator) (*objval.Metadata, error) {
	locator, err := c.resolve(locator)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.blobAPI(locator).GetProperties(ctx, &blob.GetPropertiesOptions{})
	if err != nil {
		return nil, errdefs.FromAzure(locator.Container, locator.Name, err)
	}

	metadata := &objval.Metadata{
		Name:         locator.Name,
		Container:    locator.Container,
		Size:         ptr.From(resp.ContentLength),
		ContentType:  ptr.From(resp.ContentType),
		ETag:         string(ptr.From(resp.ETag)),
		LastModified: resp.LastModified,
		CreatedAt:    resp.CreationTime,
		Tags:         flattenTags(resp.Metadata),
	}

	return metadata, nil
}

// Exists reports whether the blob exists. Absence is a normal outcome, not an
// error; authentication/authorization failures still propagate.
func (c *Client) Exists(ctx context.Context, locator objval.Locator) (bool, error) {
	_, err := c.GetMetadata(ctx, locator)
	if err == nil {
		return true, nil
	}

	if errdefs.IsKind(err, errdefs.KindNotFound) {
		return false, nil
	}

	return false, err
}

// GetDelegatedURL returns a URL carrying a read-only delegation token for the
// blob. Signing is local, the blob's existence is not checked.
func (c *Client) GetDelegatedURL(locator objval.Locator, ttl time.Duration) (string, error) {
	if c.issuer == nil {
		return "", errdefs.New(errdefs.KindInvalidRequest,
			"delegation is not configured: no account signing material")
	}

	locator, err := c.resolve(locator)
	if err != nil {
		return "", err
	}

	return c.issuer.IssueURL(locator, ttl)
}

// flattenTags converts the SDK's pointer valued metadata map, dropping nil
// values.
func flattenTags(tags map[string]*string) map[string]string {
	if len(tags) == 0 {
		return nil
	}

	flattened := make(map[string]string, len(tags))

	for key, value := range tags {
		if value != nil {
			flattened[key] = *value
		}
	}

	return flattened
}
