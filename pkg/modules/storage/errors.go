package storage

import "github.com/shuldan/nativebridge/pkg/errors"

var newStorageCode = errors.WithPrefix("STORAGE")

var (
	ErrUnsupportedDriver = newStorageCode().New("unsupported storage driver {{.driver}}")
	ErrInvalidTable      = newStorageCode().New("invalid storage table name {{.table}}")
	ErrInvalidRedisURL   = newStorageCode().New("invalid redis url")
	ErrOpen              = newStorageCode().New("failed to open {{.driver}} storage")
	ErrNotOpen           = newStorageCode().New("storage backend is not open")
	ErrQuery             = newStorageCode().New("storage {{.op}} failed")
	ErrNotInitialized    = newStorageCode().New("storage is not initialized")
	ErrInvalidated       = newStorageCode().New("storage has been invalidated")
	ErrEmptyKey          = newStorageCode().New("storage key must not be empty")
)
