// Package session stores in-flight conversation state keyed by
// conversant id. Two backends exist: a process-local map and Redis.
// Turn-level mutual exclusion per conversant is provided separately by
// KeyedLocker so that both backends share the same serialization
// behavior.
package session

import (
	"context"
	"errors"

	"bloodhelp-bot/pkg"
)

// ErrNotFound is returned when no conversation state exists for a
// conversant id.
var ErrNotFound = errors.New("session: conversation not found")

// Store is the keyed conversation-state store. Implementations must be
// safe for concurrent use across different keys; callers serialize
// access to the same key with a KeyedLocker.
type Store interface {
	// Get returns the state for conversantID, or ErrNotFound.
	Get(ctx context.Context, conversantID string) (*pkg.ConversationState, error)
	// Put creates or replaces the state for its conversant id.
	Put(ctx context.Context, state *pkg.ConversationState) error
	// Delete removes the state; deleting a missing key is not an error.
	Delete(ctx context.Context, conversantID string) error
}
