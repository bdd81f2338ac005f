package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content digests.
// Version suffix enables future algorithm migration.
const (
	DomainSnapshot = "tally/snapshot/v" + SnapshotVersion
	DomainGame     = "tally/game/v" + SnapshotVersion
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// SnapshotDigest returns a stable digest of the full game state.
// Two states with the same canonical JSON always share a digest.
func SnapshotDigest(s GameState) (string, error) {
	canonical, err := MarshalCanonical(s)
	if err != nil {
		return "", fmt.Errorf("SnapshotDigest: %w", err)
	}
	return hashWithDomain(DomainSnapshot, canonical), nil
}

// GameDigest returns a stable digest of a single game.
func GameDigest(g Game) (string, error) {
	canonical, err := MarshalCanonical(g)
	if err != nil {
		return "", fmt.Errorf("GameDigest: %w", err)
	}
	return hashWithDomain(DomainGame, canonical), nil
}

// MustSnapshotDigest is like SnapshotDigest but panics on error.
// Use only in tests or when the state is known to be encodable.
func MustSnapshotDigest(s GameState) string {
	d, err := SnapshotDigest(s)
	if err != nil {
		panic(err)
	}
	return d
}
