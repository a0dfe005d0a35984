package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/argon2"
)

var (
	ErrPasswordMismatch = errors.New("cryptox: password does not match")
	ErrInvalidHash      = errors.New("cryptox: invalid argon2id hash")
)

// Argon2Params are the argon2id cost parameters.
type Argon2Params struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	KeyLength   uint32
	SaltLength  int
}

// DefaultArgon2Params follow the OWASP minimum for argon2id.
var DefaultArgon2Params = Argon2Params{
	Memory:      19 * 1024,
	Iterations:  2,
	Parallelism: 1,
	KeyLength:   32,
	SaltLength:  16,
}

// HashPassword hashes password with DefaultArgon2Params and returns a PHC
// string: $argon2id$v=19$m=..,t=..,p=..$salt$hash
func HashPassword(password string) (string, error) {
	return HashPasswordWith(password, DefaultArgon2Params)
}

func HashPasswordWith(password string, p Argon2Params) (string, error) {
	pep, err := GetPepper()
	if err != nil {
		return "", fmt.Errorf("cryptox: pepper: %w", err)
	}

	salt := make([]byte, p.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey([]byte(password+pep), salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Iterations, p.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

type decodedHash struct {
	params Argon2Params
	salt   []byte
	hash   []byte
}

func decodeHash(encoded string) (decodedHash, error) {
	// ["", "argon2id", "v=19", "m=X,t=Y,p=Z", "salt", "hash"]
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return decodedHash{}, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return decodedHash{}, fmt.Errorf("%w: unsupported version", ErrInvalidHash)
	}

	var d decodedHash
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &d.params.Memory, &d.params.Iterations, &d.params.Parallelism); err != nil {
		return decodedHash{}, fmt.Errorf("%w: parameters: %v", ErrInvalidHash, err)
	}

	var err error
	if d.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return decodedHash{}, fmt.Errorf("%w: salt: %v", ErrInvalidHash, err)
	}
	if d.hash, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(d.hash) == 0 {
		return decodedHash{}, fmt.Errorf("%w: hash", ErrInvalidHash)
	}
	d.params.SaltLength = len(d.salt)
	d.params.KeyLength = uint32(len(d.hash)) // #nosec G115 - bounded by the decoded string
	return d, nil
}

// VerifyPassword checks password against a PHC string produced by
// HashPassword. It returns ErrPasswordMismatch or ErrInvalidHash on failure.
func VerifyPassword(password, encodedHash string) error {
	d, err := decodeHash(encodedHash)
	if err != nil {
		return err
	}
	pep, err := GetPepper()
	if err != nil {
		return fmt.Errorf("cryptox: pepper: %w", err)
	}

	computed := argon2.IDKey([]byte(password+pep), d.salt,
		d.params.Iterations, d.params.Memory, d.params.Parallelism, d.params.KeyLength)
	if subtle.ConstantTimeCompare(computed, d.hash) == 1 {
		return nil
	}
	return ErrPasswordMismatch
}

// NeedsRehash reports whether encoded was produced with parameters other
// than p, so a successful login can upgrade it.
func NeedsRehash(encodedHash string, p Argon2Params) bool {
	d, err := decodeHash(encodedHash)
	if err != nil {
		return true
	}
	return d.params.Memory != p.Memory ||
		d.params.Iterations != p.Iterations ||
		d.params.Parallelism != p.Parallelism ||
		d.params.KeyLength != p.KeyLength
}

// GeneratePassword returns a random alphanumeric password of length n.
func GeneratePassword(n int) (string, error) {
	const charset = "abcdefghijkmnopqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	if n <= 0 {
		return "", fmt.Errorf("cryptox: password length must be positive, got %d", n)
	}
	out := make([]byte, n)
	limit := big.NewInt(int64(len(charset)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("cryptox: generate password: %w", err)
		}
		out[i] = charset[idx.Int64()]
	}
	return string(out), nil
}
