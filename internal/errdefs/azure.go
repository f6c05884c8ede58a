package errdefs

import (
	"errors"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

// FromAzure converts an error returned by the Azure storage SDK into a domain
// error. Mapping is driven purely by SDK error codes and response status
// codes, never by message text.
func FromAzure(container, name string, err error) error {
	if err == nil {
		return nil
	}

	if bloberror.HasCode(err, bloberror.AuthenticationFailed, bloberror.InvalidAuthenticationInfo,
		bloberror.NoAuthenticationInformation) {
		return Wrap(KindAuthenticationFailed, err, "failed to authenticate against the storage service, check that "+
			"valid credentials have been provided")
	}

	if bloberror.HasCode(err, bloberror.AuthorizationFailure, bloberror.AuthorizationPermissionMismatch,
		bloberror.InsufficientAccountPermissions) {
		return Wrap(KindAuthorizationDenied, err, "authenticated identity does not have permission to access this "+
			"resource")
	}

	if bloberror.HasCode(err, bloberror.BlobNotFound) {
		// This shouldn't trigger but may aid in debugging in the future
		if name == "" {
			name = "<empty blob name>"
		}

		return Wrap(KindNotFound, err, "blob '%s' not found in container '%s'", name, container)
	}

	if bloberror.HasCode(err, bloberror.ContainerNotFound) {
		// This shouldn't trigger but may aid in debugging in the future
		if container == "" {
			container = "<empty container name>"
		}

		return Wrap(KindNotFound, err, "container '%s' not found", container)
	}

	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		return fromAzureStatus(container, name, respErr)
	}

	return FromTransport(err, "storage request failed")
}

// fromAzureStatus maps an Azure response with an unrecognized error code using
// only its status code class.
func fromAzureStatus(container, name string, err *azcore.ResponseError) error {
	switch {
	case err.StatusCode == http.StatusNotFound:
		return Wrap(KindNotFound, err, "blob '%s' not found in container '%s'", name, container)
	case err.StatusCode == http.StatusUnauthorized:
		return Wrap(KindAuthenticationFailed, err, "failed to authenticate against the storage service, check that "+
			"valid credentials have been provided")
	case err.StatusCode == http.StatusForbidden:
		return Wrap(KindAuthorizationDenied, err, "authenticated identity does not have permission to access this "+
			"resource")
	case err.StatusCode >= http.StatusInternalServerError:
		return Wrap(KindRemoteUnavailable, err, "storage service unavailable (status %d)", err.StatusCode)
	}

	return Wrap(KindUnexpectedRemoteError, err, "unexpected response from the storage service (status %d, code %q)",
		err.StatusCode, err.ErrorCode)
}
