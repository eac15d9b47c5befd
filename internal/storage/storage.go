package storage

import (
	"context"
	"io"
)

// Package storage holds the object-store client used by the archive command
// to snapshot document blobs out of the database. Implementations stream;
// they never spool to local disk.

// PutOptions carries optional upload parameters. Size is the exact byte
// count when known, -1 otherwise.
type PutOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key  string
	Size int64
	ETag string
}

// Storage is an S3-compatible object sink.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, opt PutOptions) (ObjectInfo, error)
}
