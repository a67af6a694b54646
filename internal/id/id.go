package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New returns a ULID string, sortable by creation time. Used for request IDs.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
