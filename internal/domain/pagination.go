package domain

import (
	"encoding/base64"
	"strconv"
)

// DefaultMaxResults is the page size applied when a list request does not
// ask for one.
const DefaultMaxResults = 100

// MaxMaxResults caps the page size a caller may request.
const MaxMaxResults = 1000

// PageRequest carries the pagination parameters of a list operation. The
// token is opaque to callers; internally it encodes the row offset.
type PageRequest struct {
	MaxResults int
	PageToken  string
}

// Offset decodes the page token. Empty and malformed tokens both mean the
// first page.
func (p PageRequest) Offset() int {
	if p.PageToken == "" {
		return 0
	}
	decoded, err := base64.StdEncoding.DecodeString(p.PageToken)
	if err != nil {
		return 0
	}
	offset, err := strconv.Atoi(string(decoded))
	if err != nil {
		return 0
	}
	return offset
}

// Limit returns the effective page size, clamped to [1, MaxMaxResults].
func (p PageRequest) Limit() int {
	switch {
	case p.MaxResults <= 0:
		return DefaultMaxResults
	case p.MaxResults > MaxMaxResults:
		return MaxMaxResults
	default:
		return p.MaxResults
	}
}

// EncodePageToken builds the opaque token for an offset. Offset 0 encodes
// to the empty token (the first page needs no token).
func EncodePageToken(offset int) string {
	if offset <= 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}

// NextPageToken returns the token for the page after the current window,
// or "" when the window already reaches total.
func NextPageToken(offset, limit int, total int64) string {
	next := offset + limit
	if int64(next) >= total {
		return ""
	}
	return EncodePageToken(next)
}
