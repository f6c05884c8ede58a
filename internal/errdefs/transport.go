package errdefs

import (
	"context"
	"errors"
	"net"
)

// FromTransport converts a transport level failure (timeout, refused
// connection, DNS resolution failure) into a domain error. Errors which are
// already domain errors are returned unmodified.
func FromTransport(err error, op string) error {
	if err == nil {
		return nil
	}

	var domainErr *Error
	if errors.As(err, &domainErr) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return Wrap(KindRemoteUnavailable, err, "%s: request timed out", op)
	}

	if errors.Is(err, context.Canceled) {
		return Wrap(KindRemoteUnavailable, err, "%s: request canceled", op)
	}

	var dnsError *net.DNSError
	if errors.As(err, &dnsError) && dnsError.IsNotFound {
		return Wrap(KindRemoteUnavailable, err, "%s: endpoint domain name resolution failed, check the configured "+
			"endpoint is valid", op)
	}

	var netError net.Error
	if errors.As(err, &netError) {
		return Wrap(KindRemoteUnavailable, err, "%s: %s", op, netError)
	}

	return Wrap(KindUnexpectedRemoteError, err, "%s: %s", op, err)
}
