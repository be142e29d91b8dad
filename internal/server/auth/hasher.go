package auth

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/validate"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch is returned by Compare when the password does not match.
var ErrMismatch = errors.New("password mismatch")

// Hasher turns passwords into one-way, salted hashes and checks them.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

const (
	HasherBcrypt = "bcrypt"
	HasherArgon2 = "argon2"
)

// MaxPasswordLen is the longest password bcrypt accepts, in bytes. It is
// enforced for every hasher so switching algorithms never strands a password.
const MaxPasswordLen = 72

// NewHasher returns the hasher registered under name. An empty name means bcrypt.
func NewHasher(name string, bcryptCost int) (Hasher, error) {
	switch strings.ToLower(name) {
	case "", HasherBcrypt:
		return BcryptHasher{Cost: bcryptCost}, nil
	case HasherArgon2, "argon2id":
		return DefaultArgon2(), nil
	}
	return nil, fmt.Errorf("unknown password hasher %q", name)
}

// CompareAny checks password against a hash produced by any supported hasher,
// so stored hashes keep verifying after the configured algorithm changes.
func CompareAny(hash, password string) error {
	if strings.HasPrefix(hash, "$argon2id$") {
		return DefaultArgon2().Compare(hash, password)
	}
	return BcryptHasher{}.Compare(hash, password)
}

type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", &validate.LengthError{Name: "password", Max: MaxPasswordLen}
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h BcryptHasher) Compare(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	return err
}

// Argon2Hasher produces argon2id hashes in the PHC string format
// $argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<key>.
type Argon2Hasher struct {
	Time    uint32
	Memory  uint32
	Threads uint8
	KeyLen  uint32
	SaltLen int
}

func DefaultArgon2() Argon2Hasher {
	return Argon2Hasher{Time: 1, Memory: 64 * 1024, Threads: 4, KeyLen: 32, SaltLen: 16}
}

var b64 = base64.RawStdEncoding

func (h Argon2Hasher) Hash(password string) (string, error) {
	salt := common.GenerateRandByteArray(h.SaltLen)
	key := argon2.IDKey([]byte(password), salt, h.Time, h.Memory, h.Threads, h.KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.Memory, h.Time, h.Threads, b64.EncodeToString(salt), b64.EncodeToString(key)), nil
}

// Compare takes its parameters from the hash itself, not from h.
func (h Argon2Hasher) Compare(hash, password string) error {
	parts := strings.Split(hash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return fmt.Errorf("malformed argon2 hash")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return fmt.Errorf("unsupported argon2 version %q", parts[2])
	}

	var memory, iterations uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return fmt.Errorf("malformed argon2 params: %w", err)
	}
	if memory == 0 || iterations == 0 || threads == 0 {
		return fmt.Errorf("malformed argon2 params %q", parts[3])
	}

	salt, err := b64.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("malformed argon2 salt: %w", err)
	}
	want, err := b64.DecodeString(parts[5])
	if err != nil {
		return fmt.Errorf("malformed argon2 key: %w", err)
	}

	got := argon2.IDKey([]byte(password), salt, iterations, memory, threads, uint32(len(want)))
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return ErrMismatch
	}
	return nil
}
