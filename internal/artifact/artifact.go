// Package artifact provides the opaque blob store behind certificate
// uploads. The core never interprets artifact contents; it stores bytes,
// gets back an opaque ref, and records content hashes for file uploads.
package artifact

import (
	"context"
	"crypto/md5" //nolint:gosec // legacy content fingerprint, not authentication
	"crypto/sha256"
	"encoding/hex"

	"housepoints/internal/domain"
)

// Store persists and retrieves opaque certificate artifacts.
type Store interface {
	Store(ctx context.Context, data []byte) (ref string, err error)
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// Hash computes the content digests recorded on file uploads.
func Hash(data []byte) domain.ContentHashes {
	md5Sum := md5.Sum(data) //nolint:gosec
	shaSum := sha256.Sum256(data)
	return domain.ContentHashes{
		MD5:    hex.EncodeToString(md5Sum[:]),
		SHA256: hex.EncodeToString(shaSum[:]),
	}
}
