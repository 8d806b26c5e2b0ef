// Package presign mints time-bounded direct-download URLs from the object store.
package presign

import (
	"context"
	"fmt"
	"time"

	"docexchange/internal/errs"
)

// DefaultTTL applies when neither the caller nor the configuration sets one.
const DefaultTTL = time.Hour

// Signer is the object-store capability the minter wraps.
type Signer interface {
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// Minter produces presigned GET URLs for storage keys.
type Minter struct {
	signer     Signer
	defaultTTL time.Duration
}

// NewMinter returns a Minter. A non-positive defaultTTL falls back to DefaultTTL.
func NewMinter(signer Signer, defaultTTL time.Duration) *Minter {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &Minter{signer: signer, defaultTTL: defaultTTL}
}

// DefaultTTL reports the lifetime used when Mint is called with ttl <= 0.
func (m *Minter) DefaultTTL() time.Duration { return m.defaultTTL }

// Mint returns a URL valid for ttl. Provider failures wrap errs.ErrStorageUnavailable.
func (m *Minter) Mint(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if key == "" {
		return "", fmt.Errorf("mint: empty key: %w", errs.ErrValidation)
	}
	if ttl <= 0 {
		ttl = m.defaultTTL
	}
	u, err := m.signer.PresignGet(ctx, key, ttl)
	if err != nil {
		return "", fmt.Errorf("%w: presign %s: %v", errs.ErrStorageUnavailable, key, err)
	}
	return u, nil
}
