package blobstore

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	gomock "github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/tripkit/agentd/internal/credential"
	"github.com/tripkit/agentd/internal/errdefs"
	"github.com/tripkit/agentd/internal/objval"
	"github.com/tripkit/agentd/internal/ptr"
	"github.com/tripkit/agentd/internal/sastoken"
)

func newTestClient(t *testing.T) (*Client, *MockcontainerAPI, *MockblobAPI) {
	var (
		ctrl = gomock.NewController(t)
		sAPI = NewMockserviceAPI(ctrl)
		cAPI = NewMockcontainerAPI(ctrl)
		bAPI = NewMockblobAPI(ctrl)
	)

	sAPI.EXPECT().NewContainerClient("documents").Return(cAPI).AnyTimes()
	cAPI.EXPECT().NewBlobClient("report.txt").Return(bAPI).AnyTimes()

	client := &Client{serviceAPI: sAPI, container: "documents", timeout: DefaultTimeout}

	return client, cAPI, bAPI
}

func notFoundError() error {
	return &azcore.ResponseError{ErrorCode: string(bloberror.BlobNotFound), StatusCode: 404}
}

func TestNewClientRequiresResolver(t *testing.T) {
	_, err := NewClient(ClientOptions{})
	require.True(t, errdefs.IsKind(err, errdefs.KindInvalidRequest))
}

func TestNewClientBearerRequiresEndpoint(t *testing.T) {
	resolver := credential.NewResolver(credential.ResolverOptions{Strategies: credential.IdentityStrategies(
		credential.StrategyConfig{Ambient: true},
	)})

	_, err := NewClient(ClientOptions{Resolver: resolver})
	require.True(t, errdefs.IsKind(err, errdefs.KindInvalidRequest))

	_, err = NewClient(ClientOptions{Resolver: resolver, AccountName: "testaccount"})
	require.NoError(t, err)
}

func TestNewClientConnectionString(t *testing.T) {
	resolver := credential.NewResolver(credential.ResolverOptions{Strategies: credential.DefaultStrategies(
		credential.StrategyConfig{
			ConnectionString: "DefaultEndpointsProtocol=https;AccountName=testaccount;" +
				"AccountKey=dGVzdGFjY291bnRrZXk=;EndpointSuffix=core.windows.net",
		},
	)})

	client, err := NewClient(ClientOptions{Resolver: resolver, Container: "documents"})
	require.NoError(t, err)
	require.NotNil(t, client)
}

func TestNewClientSharedKey(t *testing.T) {
	resolver := credential.NewResolver(credential.ResolverOptions{Strategies: credential.DefaultStrategies(
		credential.StrategyConfig{
			AccountName:    "testaccount",
			AccountKey:     "dGVzdGFjY291bnRrZXk=",
			AllowSharedKey: true,
		},
	)})

	client, err := NewClient(ClientOptions{Resolver: resolver, AccountName: "testaccount"})
	require.NoError(t, err)
	require.NotNil(t, client)
}

func TestNewClientNoConfiguredStrategies(t *testing.T) {
	resolver := credential.NewResolver(credential.ResolverOptions{})

	// Construction succeeds, the authentication failure surfaces on first use.
	client, err := NewClient(ClientOptions{Resolver: resolver, AccountName: "testaccount"})
	require.NoError(t, err)
	require.NotNil(t, client)
}

func TestClientGetStream(t *testing.T) {
	client, _, bAPI := newTestClient(t)

	output := blob.DownloadStreamResponse{}
	output.Body = io.NopCloser(strings.NewReader("value"))
	output.ContentLength = ptr.To[int64](5)
	output.ContentType = ptr.To("text/plain")
	output.ETag = ptr.To(azcore.ETag(`"etag"`))
	output.LastModified = ptr.To((time.Time{}).Add(24 * time.Hour))

	bAPI.
		EXPECT().
		DownloadStream(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, options *blob.DownloadStreamOptions) (blob.DownloadStreamResponse, error) {
			require.Equal(t, blob.HTTPRange{Offset: 0, Count: blob.CountToEnd}, options.Range)
			return output, nil
		})

	object, err := client.GetStream(context.Background(), objval.Locator{Name: "report.txt"}, nil)
	require.NoError(t, err)

	require.Equal(t, "report.txt", object.Name)
	require.Equal(t, "documents", object.Container)
	require.Equal(t, int64(5), object.Size)
	require.Equal(t, "text/plain", object.ContentType)
	require.Equal(t, `"etag"`, object.ETag)
	require.Equal(t, ptr.To((time.Time{}).Add(24*time.Hour)), object.LastModified)

	content, err := io.ReadAll(object.Body)
	require.NoError(t, err)
	require.Equal(t, []byte("value"), content)
	require.NoError(t, object.Body.Close())
}

func TestClientGetStreamWithByteRange(t *testing.T) {
	client, _, bAPI := newTestClient(t)

	output := blob.DownloadStreamResponse{}
	output.Body = io.NopCloser(strings.NewReader("lue"))
	output.ContentLength = ptr.To[int64](3)

	bAPI.
		EXPECT().
		DownloadStream(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, options *blob.DownloadStreamOptions) (blob.DownloadStreamResponse, error) {
			require.Equal(t, blob.HTTPRange{Offset: 64, Count: 65}, options.Range)
			return output, nil
		})

	_, err := client.GetStream(
		context.Background(),
		objval.Locator{Name: "report.txt"},
		&objval.ByteRange{Start: 64, End: 128},
	)
	require.NoError(t, err)
}

func TestClientGetStreamInvalidByteRange(t *testing.T) {
	client, _, _ := newTestClient(t)

	_, err := client.GetStream(
		context.Background(),
		objval.Locator{Name: "report.txt"},
		&objval.ByteRange{Start: 128, End: 64},
	)
	require.True(t, errdefs.IsKind(err, errdefs.KindInvalidRequest))
}

func TestClientGetStreamNotFound(t *testing.T) {
	client, _, bAPI := newTestClient(t)

	bAPI.
		EXPECT().
		DownloadStream(gomock.Any(), gomock.Any()).
		Return(blob.DownloadStreamResponse{}, notFoundError())

	_, err := client.GetStream(context.Background(), objval.Locator{Name: "report.txt"}, nil)
	require.True(t, errdefs.IsKind(err, errdefs.KindNotFound))
	require.ErrorContains(t, err, "report.txt")
}

func TestClientGetContent(t *testing.T) {
	client, _, bAPI := newTestClient(t)

	output := blob.DownloadStreamResponse{}
	output.Body = io.NopCloser(strings.NewReader("value"))
	output.ContentLength = ptr.To[int64](5)

	bAPI.
		EXPECT().
		DownloadStream(gomock.Any(), gomock.Any()).
		Return(output, nil)

	content, err := client.GetContent(context.Background(), objval.Locator{Name: "report.txt"})
	require.NoError(t, err)
	require.Equal(t, []byte("value"), content)
}

func TestClientGetContentRequiresName(t *testing.T) {
	client, _, _ := newTestClient(t)

	_, err := client.GetContent(context.Background(), objval.Locator{})
	require.True(t, errdefs.IsKind(err, errdefs.KindInvalidRequest))
}

func TestClientGetMetadata(t *testing.T) {
	client, _, bAPI := newTestClient(t)

	output := blob.GetPropertiesResponse{
		ContentLength: ptr.To[int64](42),
		ContentType:   ptr.To("application/pdf"),
		ETag:          ptr.To(azcore.ETag(`"etag"`)),
		LastModified:  ptr.To((time.Time{}).Add(48 * time.Hour)),
		CreationTime:  ptr.To((time.Time{}).Add(24 * time.Hour)),
		Metadata:      map[string]*string{"owner": ptr.To("agent"), "empty": nil},
	}

	bAPI.
		EXPECT().
		GetProperties(gomock.Any(), gomock.Any()).
		Return(output, nil)

	metadata, err := client.GetMetadata(context.Background(), objval.Locator{Name: "report.txt"})
	require.NoError(t, err)

	expected := &objval.Metadata{
		Name:         "report.txt",
		Container:    "documents",
		Size:         42,
		ContentType:  "application/pdf",
		ETag:         `"etag"`,
		LastModified: ptr.To((time.Time{}).Add(48 * time.Hour)),
		CreatedAt:    ptr.To((time.Time{}).Add(24 * time.Hour)),
		Tags:         map[string]string{"owner": "agent"},
	}

	require.Equal(t, expected, metadata)
}

func TestClientGetMetadataNotFound(t *testing.T) {
	client, _, bAPI := newTestClient(t)

	bAPI.
		EXPECT().
		GetProperties(gomock.Any(), gomock.Any()).
		Return(blob.GetPropertiesResponse{}, notFoundError())

	_, err := client.GetMetadata(context.Background(), objval.Locator{Name: "report.txt"})
	require.True(t, errdefs.IsKind(err, errdefs.KindNotFound))
}

func TestClientExists(t *testing.T) {
	client, _, bAPI := newTestClient(t)

	bAPI.
		EXPECT().
		GetProperties(gomock.Any(), gomock.Any()).
		Return(blob.GetPropertiesResponse{}, nil)

	exists, err := client.Exists(context.Background(), objval.Locator{Name: "report.txt"})
	require.NoError(t, err)
	require.True(t, exists)
}

func TestClientExistsNotFound(t *testing.T) {
	client, _, bAPI := newTestClient(t)

	bAPI.
		EXPECT().
		GetProperties(gomock.Any(), gomock.Any()).
		Return(blob.GetPropertiesResponse{}, notFoundError())

	exists, err := client.Exists(context.Background(), objval.Locator{Name: "report.txt"})
	require.NoError(t, err)
	require.False(t, exists)
}

func TestClientExistsAuthenticationFailurePropagates(t *testing.T) {
	client, _, bAPI := newTestClient(t)

	bAPI.
		EXPECT().
		GetProperties(gomock.Any(), gomock.Any()).
		Return(
			blob.GetPropertiesResponse{},
			&azcore.ResponseError{ErrorCode: string(bloberror.AuthenticationFailed), StatusCode: 403},
		)

	_, err := client.Exists(context.Background(), objval.Locator{Name: "report.txt"})
	require.True(t, errdefs.IsKind(err, errdefs.KindAuthenticationFailed))
}

func TestClientGetDelegatedURL(t *testing.T) {
	client, _, _ := newTestClient(t)

	issuer, err := sastoken.NewIssuer(sastoken.IssuerOptions{
		AccountName: "testaccount",
		AccountKey:  "dGVzdGFjY291bnRrZXk=",
	})
	require.NoError(t, err)

	client.issuer = issuer

	url, err := client.GetDelegatedURL(objval.Locator{Name: "report.txt"}, time.Hour)
	require.NoError(t, err)
	require.Contains(t, url, "https://testaccount.blob.core.windows.net/documents/report.txt?")
	require.Contains(t, url, "sig=")
}

func TestClientGetDelegatedURLNoIssuer(t *testing.T) {
	client, _, _ := newTestClient(t)

	_, err := client.GetDelegatedURL(objval.Locator{Name: "report.txt"}, time.Hour)
	require.True(t, errdefs.IsKind(err, errdefs.KindInvalidRequest))
}

func TestClientGetDelegatedURLInvalidTTL(t *testing.T) {
	client, _, _ := newTestClient(t)

	issuer, err := sastoken.NewIssuer(sastoken.IssuerOptions{
		AccountName: "testaccount",
		AccountKey:  "dGVzdGFjY291bnRrZXk=",
	})
	require.NoError(t, err)

	client.issuer = issuer

	_, err = client.GetDelegatedURL(objval.Locator{Name: "report.txt"}, 25*time.Hour)
	require.True(t, errdefs.IsKind(err, errdefs.KindInvalidRequest))
}
