// Package auth implements the local PIN gate: a 4-digit PIN whose bcrypt
// hash lives in the settings collection, and the session tokens issued once
// the PIN is verified. It is a convenience lock for a single-user app, not a
// substitute for real authentication.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/santoshphuyala/multimanager/internal/storage"
)

var (
	ErrMalformedPIN = errors.New("PIN must be exactly 4 digits")
	ErrInvalidPIN   = errors.New("incorrect PIN")
	ErrPINNotSet    = errors.New("no PIN configured")
)

// pinRecordID is the fixed settings-record key for the PIN hash.
const pinRecordID = "pin"

type pinRecord struct {
	ID   string `json:"id"`
	Hash string `json:"hash"`
}

// PINGate owns the PIN lifecycle: set, verify, disable, and the enabled
// check the middleware consults on every request.
type PINGate struct {
	store    storage.Store
	sessions *SessionManager
}

// NewPINGate creates a PIN gate backed by the given store and session
// manager.
func NewPINGate(store storage.Store, sessions *SessionManager) *PINGate {
	return &PINGate{store: store, sessions: sessions}
}

// validatePIN checks the 4-digit format.
func validatePIN(pin string) error {
	if len(pin) != 4 {
		return ErrMalformedPIN
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return ErrMalformedPIN
		}
	}
	return nil
}

// Enabled reports whether a PIN is currently configured.
func (g *PINGate) Enabled(ctx context.Context) (bool, error) {
	_, err := g.store.Get(ctx, storage.CollectionSettings, pinRecordID)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Set hashes and stores a new PIN, replacing any existing one.
func (g *PINGate) Set(ctx context.Context, pin string) error {
	if err := validatePIN(pin); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash PIN: %w", err)
	}

	data, err := json.Marshal(pinRecord{ID: pinRecordID, Hash: string(hash)})
	if err != nil {
		return fmt.Errorf("failed to encode PIN record: %w", err)
	}

	rec := &storage.Record{ID: pinRecordID, Data: data}
	if err := g.store.Update(ctx, storage.CollectionSettings, rec); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("failed to store PIN: %w", err)
		}
		if err := g.store.Add(ctx, storage.CollectionSettings, rec); err != nil {
			return fmt.Errorf("failed to store PIN: %w", err)
		}
	}

	return nil
}

// Verify checks the PIN against the stored hash and issues a session token
// on success.
func (g *PINGate) Verify(ctx context.Context, pin string) (string, error) {
	rec, err := g.store.Get(ctx, storage.CollectionSettings, pinRecordID)
	if errors.Is(err, storage.ErrNotFound) {
		return "", ErrPINNotSet
	}
	if err != nil {
		return "", err
	}

	var stored pinRecord
	if err := json.Unmarshal(rec.Data, &stored); err != nil {
		return "", fmt.Errorf("failed to decode PIN record: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(stored.Hash), []byte(pin)); err != nil {
		return "", ErrInvalidPIN
	}

	return g.sessions.Issue()
}

// Disable removes PIN protection. The current PIN must be supplied.
func (g *PINGate) Disable(ctx context.Context, pin string) error {
	if _, err := g.Verify(ctx, pin); err != nil {
		return err
	}
	return g.store.Delete(ctx, storage.CollectionSettings, pinRecordID)
}
