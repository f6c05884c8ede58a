// Package objval exposes the value types shared by the blob access service
// and the delegation token issuer.
package objval

import (
	"fmt"
	"io"
	"time"
)

// Locator addresses a single blob as a (container, name) pair. The container
// may be empty, in which case the process wide default container is used.
//
// Locator is an immutable value; it carries no ownership semantics beyond the
// scope of the call it is passed to.
type Locator struct {
	// Container is the name of the container holding the blob.
	Container string

	// Name is the name of the blob within the container.
	Name string
}

// InContainer returns a copy of the locator with the given fallback container
// applied if none is set.
func (l Locator) InContainer(fallback string) Locator {
	if l.Container == "" {
		l.Container = fallback
	}

	return l
}

// Metadata represents the attributes attached to a blob. It is produced fresh
// on every metadata call and never cached by this layer.
type Metadata struct {
	// Name is the name of the blob within the container.
	Name string `json:"name"`

	// Container is the name of the container holding the blob.
	Container string `json:"container"`

	// Size is the content length of the blob in bytes.
	Size int64 `json:"size"`

	// ContentType is the MIME type the blob was uploaded with.
	ContentType string `json:"content_type"`

	// ETag is the HTTP entity tag for the blob.
	ETag string `json:"etag"`

	// LastModified is the time the blob was last updated (or created).
	LastModified *time.Time `json:"last_modified"`

	// CreatedAt is the time the blob was created.
	CreatedAt *time.Time `json:"creation_time"`

	// Tags are the custom key/value pairs attached to the blob.
	Tags map[string]string `json:"metadata"`
}

// Object associates a blob's metadata with a stream of its content. The body
// is owned by the caller and must be closed once consumed.
type Object struct {
	Metadata

	Body io.ReadCloser `json:"-"`
}

// ByteRange is a half-open range of bytes to fetch from a blob; an End of
// zero means "to the end of the blob".
type ByteRange struct {
	Start int64
	End   int64
}

// Valid returns an error if the byte range is malformed; a <nil> byte range
// is valid, it means "the whole blob".
func (b *ByteRange) Valid() error {
	if b == nil {
		return nil
	}

	if b.Start < 0 || (b.End != 0 && b.End < b.Start) {
		return fmt.Errorf("invalid byte range %d-%d", b.Start, b.End)
	}

	return nil
}

// ToOffsetLength returns the offset/length representation of this byte range,
// using the given length when the range is open ended.
func (b *ByteRange) ToOffsetLength(length int64) (int64, int64) {
	offset := b.Start

	if b.End != 0 {
		length = b.End - offset + 1
	}

	return offset, length
}
