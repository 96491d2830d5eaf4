package store

import (
	"context"
	"errors"
)

// BlobStore holds opaque byte blobs under string keys. It is the durable
// storage behind the local store; it knows nothing about users or entities.
type BlobStore interface {
	// Get returns ErrItemNotFound when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	// Delete is a no-op for absent keys.
	Delete(ctx context.Context, key string) error
	// PutMany writes every blob or none of them.
	PutMany(ctx context.Context, blobs map[string][]byte) error
	Close() error
}

var ErrItemNotFound = errors.New("item does not exist")
