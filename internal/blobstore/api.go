package blobstore

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/service"
)

//go:generate mockgen -source api.go -destination mock_api.go -package blobstore

// serviceAPI is a service level interface which allows interactions with the Azure blob storage service.
type serviceAPI interface {
	NewContainerClient(container string) containerAPI
}

// serviceClient implements the 'serviceAPI' interface and encapsulates the Azure SDK into a unit testable interface.
type serviceClient struct {
	client *service.Client
}

func (s *serviceClient) NewContainerClient(container string) containerAPI {
	return &containerClient{client: s.client.NewContainerClient(container)}
}

// containerAPI is a container level interface which allows interactions with an Azure blob storage container.
type containerAPI interface {
	NewBlobClient(name string) blobAPI
}

// containerClient implements the 'containerAPI' interface and encapsulates the Azure SDK into a unit testable
// interface.
type containerClient struct {
	client *container.Client
}

func (c *containerClient) NewBlobClient(name string) blobAPI {
	return &blobClient{client: c.client.NewBlobClient(name)}
}

// blobAPI is a blob level interface which allows interactions with a single blob.
type blobAPI interface {
	DownloadStream(ctx context.Context, options *blob.DownloadStreamOptions) (blob.DownloadStreamResponse, error)
	GetProperties(ctx context.Context, options *blob.GetPropertiesOptions) (blob.GetPropertiesResponse, error)
}

// blobClient implements the 'blobAPI' interface and encapsulates the Azure SDK into a unit testable interface.
type blobClient struct {
	client *blob.Client
}

func (b *blobClient) DownloadStream(
	ctx context.Context,
	options *blob.DownloadStreamOptions,
) (blob.DownloadStreamResponse, error) {
	return b.client.DownloadStream(ctx, options)
}

func (b *blobClient) GetProperties(
	ctx context.Context,
	options *blob.GetPropertiesOptions,
) (blob.GetPropertiesResponse, error) {
	return b.client.GetProperties(ctx, options)
}
