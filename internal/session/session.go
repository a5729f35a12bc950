// Package session maps a WhatsApp user to the opaque conversation handle
// issued by the LLM provider.
//
// Handles are created lazily on first contact and never replaced. Two
// concurrent first messages from the same user may both miss the lookup and
// each create an upstream session; the later write wins and the other
// session is leaked.
package session

import (
	"context"
	"fmt"

	errx "github.com/Chative-core-poc-v1/wa-assistant/internal/core/error"
	logx "github.com/Chative-core-poc-v1/wa-assistant/pkg/logger"
)

// Store persists user → handle mappings.
type Store interface {
	Get(ctx context.Context, userID string) (handle string, found bool, err error)
	Put(ctx context.Context, userID, handle string) error
}

// Issuer requests a new session handle from the upstream provider.
type Issuer interface {
	NewSession(ctx context.Context) (string, error)
}

// Manager resolves handles, creating them on a miss.
type Manager struct {
	store     Store
	issuer    Issuer
	onCreated func()
}

type Option func(*Manager)

// WithCreatedHook runs fn after each new session is persisted.
func WithCreatedHook(fn func()) Option {
	return func(m *Manager) { m.onCreated = fn }
}

func NewManager(store Store, issuer Issuer, opts ...Option) *Manager {
	m := &Manager{store: store, issuer: issuer}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ResolveOrCreate returns the user's handle, creating and persisting one on
// first contact. Failures are not retried.
func (m *Manager) ResolveOrCreate(ctx context.Context, userID string) (string, error) {
	handle, found, err := m.store.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	if found {
		logx.Debug().Str("wa_id", userID).Str("session", handle).Msg("Retrieving existing session")
		return handle, nil
	}

	logx.Info().Str("wa_id", userID).Msg("Creating a new session")
	handle, err = m.issuer.NewSession(ctx)
	if err != nil {
		if errx.KindOf(err) == errx.KindUnknown {
			err = errx.Upstream(err)
		}
		return "", fmt.Errorf("new session for %s: %w", userID, err)
	}
	if err := m.store.Put(ctx, userID, handle); err != nil {
		return "", fmt.Errorf("store session for %s: %w", userID, err)
	}
	if m.onCreated != nil {
		m.onCreated()
	}
	return handle, nil
}
