package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Hasher turns a plaintext password into a stored digest and checks a
// supplied password against one.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(digest, plaintext string) bool
}

// digestRecognizer is implemented by hashers that can tell their own digest
// format apart from others.
type digestRecognizer interface {
	Recognizes(digest string) bool
}

const (
	HasherSHA256 = "sha256"
	HasherBcrypt = "bcrypt"
)

// MaxPasswordBytes is the longest password, in bytes, that every hasher
// accepts. bcrypt refuses anything longer.
const MaxPasswordBytes = 72

// NewHasher builds the password hasher named by the configuration. The
// returned hasher always verifies both digest formats so that switching the
// primary does not lock out existing accounts.
func NewHasher(name string, bcryptCost int) (Hasher, error) {
	legacy := NewSHA256Hasher()
	slow := NewBcryptHasher(bcryptCost)

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", HasherSHA256:
		return NewMigratingHasher(legacy, slow), nil
	case HasherBcrypt:
		return NewMigratingHasher(slow, legacy), nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", name)
	}
}

// VerifyCredential reports whether supplied matches the stored digest.
// Login goes through here rather than comparing digests directly.
func VerifyCredential(h Hasher, stored, supplied string) bool {
	if stored == "" {
		return false
	}
	return h.Verify(stored, supplied)
}

// ── SHA-256 ──────────────────────────────────────────────────────────────────

// sha256Hasher is the legacy deterministic digest: lowercase hex SHA-256,
// unsalted. It offers no brute-force resistance.
type sha256Hasher struct{}

func NewSHA256Hasher() Hasher {
	return sha256Hasher{}
}

func (sha256Hasher) Hash(plaintext string) (string, error) {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:]), nil
}

func (h sha256Hasher) Verify(digest, plaintext string) bool {
	want, _ := h.Hash(plaintext)
	return subtle.ConstantTimeCompare([]byte(digest), []byte(want)) == 1
}

func (sha256Hasher) Recognizes(digest string) bool {
	if len(digest) != sha256.Size*2 {
		return false
	}
	for _, c := range digest {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// ── bcrypt ───────────────────────────────────────────────────────────────────

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a salted bcrypt hasher. Costs outside bcrypt's
// range fall back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (b *bcryptHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hash), nil
}

func (b *bcryptHasher) Verify(digest, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

func (b *bcryptHasher) Recognizes(digest string) bool {
	return strings.HasPrefix(digest, "$2a$") ||
		strings.HasPrefix(digest, "$2b$") ||
		strings.HasPrefix(digest, "$2y$")
}

// ── migration ────────────────────────────────────────────────────────────────

// MigratingHasher hashes new passwords with its primary and verifies digests
// produced by the primary or any of the accepted legacy hashers.
type MigratingHasher struct {
	primary  Hasher
	accepted []Hasher
}

func NewMigratingHasher(primary Hasher, legacy ...Hasher) *MigratingHasher {
	return &MigratingHasher{
		primary:  primary,
		accepted: append([]Hasher{primary}, legacy...),
	}
}

func (m *MigratingHasher) Hash(plaintext string) (string, error) {
	return m.primary.Hash(plaintext)
}

func (m *MigratingHasher) Verify(digest, plaintext string) bool {
	for _, h := range m.accepted {
		if r, ok := h.(digestRecognizer); ok && !r.Recognizes(digest) {
			continue
		}
		return h.Verify(digest, plaintext)
	}
	return false
}
