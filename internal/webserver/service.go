package webserver

import (
	"context"
	"time"

	"github.com/tripkit/agentd/internal/objval"
	"github.com/tripkit/agentd/internal/sessions"
)

// BlobService is the read-only blob surface exposed over HTTP.
type BlobService interface {
	GetContent(ctx context.Context, locator objval.Locator) ([]byte, error)
	GetStream(ctx context.Context, locator objval.Locator, br *objval.ByteRange) (*objval.Object, error)
	GetMetadata(ctx context.Context, locator objval.Locator) (*objval.Metadata, error)
	Exists(ctx context.Context, locator objval.Locator) (bool, error)
	GetDelegatedURL(locator objval.Locator, ttl time.Duration) (string, error)
}

// SessionService is the session lifecycle surface exposed over HTTP.
type SessionService interface {
	CreateSession(ctx context.Context, pool string, config sessions.SessionConfig) (*sessions.Session, error)
	GetStatus(ctx context.Context, id string) (*sessions.Session, error)
	ExecuteCode(ctx context.Context, id, code string) (*sessions.ExecutionResult, error)
	DeleteSession(ctx context.Context, id string) error
}
