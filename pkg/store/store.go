package store

import (
	"context"
	"errors"
)

// Keys written by the dashboard into the durable client store.
const (
	KeyAuth           = "auth"
	KeyAutoSavedAsset = "autoSavedAsset"
)

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("store: key not found")

// KVStore is the durable client-side key/value storage.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
