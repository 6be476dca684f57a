// Package ops implements the operations shared by the CLI, the MCP server
// and the web UI. Each operation takes an input struct and returns an output
// struct ready to be encoded as JSON.
package ops

import (
	"context"
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/lectern/internal/errors"
	"github.com/hpungsan/lectern/internal/llm"
)

// Pagination limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// BackendFactory builds a fresh generation backend. Narrate calls it once
// per pass, so concurrent passes never share a backend.
type BackendFactory func(ctx context.Context) (llm.Backend, error)

// newRunID generates a ULID for a new run.
func newRunID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", errors.NewInternal(err)
	}
	return id.String(), nil
}

// requireID trims and checks a run id argument.
func requireID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", errors.NewInvalidRequest("id is required")
	}
	return id, nil
}

// clampPage applies limit defaults and bounds.
func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return limit, max(offset, 0)
}
