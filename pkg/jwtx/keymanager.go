package jwtx

import (
	"crypto/ed25519"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/aussiebroadwan/hoaportal/pkg/cryptox"
)

// KeyManager owns the session signing keys of a portal instance and the
// verifier that checks tokens against them.
type KeyManager struct {
	keyset   *KeySet
	verifier Verifier

	mu      sync.RWMutex
	signers []Signer
}

type KeyManagerOptions struct {
	Issuer   string
	Audience []string
	Leeway   time.Duration

	// KeyFile, when set, holds a PEM Ed25519 key that is created on first
	// start and reused afterwards, so sessions survive restarts. When empty
	// NumKeys ephemeral keys are generated instead.
	KeyFile string

	// NumKeys is the number of ephemeral signing keys, 1 to 10. Default 3.
	NumKeys int
}

// NewKeyManager builds a KeyManager from opts.
func NewKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	if opts.Issuer == "" {
		return nil, fmt.Errorf("jwtx: Issuer is required")
	}

	km := &KeyManager{keyset: NewKeySet()}
	km.verifier = NewVerifier(km.keyset, VerifyOptions{
		Issuer:   opts.Issuer,
		Audience: opts.Audience,
		Leeway:   opts.Leeway,
	})

	if opts.KeyFile != "" {
		pemKey, err := cryptox.LoadOrCreateSecretFile(opts.KeyFile, cryptox.GenerateEd25519Key)
		if err != nil {
			return nil, fmt.Errorf("jwtx: signing key file: %w", err)
		}
		signer, err := signerFromPEM(pemKey)
		if err != nil {
			return nil, err
		}
		if err := km.AddSigner(signer); err != nil {
			return nil, err
		}
		return km, nil
	}

	n := min(max(opts.NumKeys, 1), 10)
	if opts.NumKeys <= 0 {
		n = 3
	}
	for i := range n {
		pemKey, err := cryptox.GenerateEd25519Key()
		if err != nil {
			return nil, fmt.Errorf("jwtx: generate key %d: %w", i+1, err)
		}
		kid, err := cryptox.GenerateToken(cryptox.TokenSize128)
		if err != nil {
			return nil, fmt.Errorf("jwtx: generate kid: %w", err)
		}
		signer, err := NewSigner("portal-"+kid, pemKey)
		if err != nil {
			return nil, err
		}
		if err := km.AddSigner(signer); err != nil {
			return nil, err
		}
	}
	return km, nil
}

// signerFromPEM derives the kid from the public key, so a reloaded key keeps
// its identifier.
func signerFromPEM(pemKey []byte) (*EdDSASigner, error) {
	loaded, err := NewSigner("pending", pemKey)
	if err != nil {
		return nil, err
	}
	pub := loaded.key.Public().(ed25519.PublicKey)
	kid := "portal-" + cryptox.FingerprintToken(string(pub))[:16]
	return NewSignerFromKey(kid, loaded.key)
}

// AddSigner makes signer available for signing and publishes its key.
func (km *KeyManager) AddSigner(signer Signer) error {
	if signer == nil {
		return fmt.Errorf("jwtx: signer cannot be nil")
	}
	if err := km.keyset.AddSigner(signer); err != nil {
		return fmt.Errorf("jwtx: add signer to keyset: %w", err)
	}

	km.mu.Lock()
	defer km.mu.Unlock()
	km.signers = append(km.signers, signer)
	return nil
}

// Signer returns one of the active signers at random.
func (km *KeyManager) Signer() Signer {
	km.mu.RLock()
	defer km.mu.RUnlock()

	switch len(km.signers) {
	case 0:
		return nil
	case 1:
		return km.signers[0]
	default:
		return km.signers[rand.IntN(len(km.signers))]
	}
}

// Sign signs claims with a randomly chosen active key.
func (km *KeyManager) Sign(claims Claims) (string, error) {
	s := km.Signer()
	if s == nil {
		return "", fmt.Errorf("jwtx: no signing key")
	}
	return s.Sign(claims)
}

func (km *KeyManager) Verifier() Verifier { return km.verifier }
func (km *KeyManager) KeySet() *KeySet     { return km.keyset }
func (km *KeyManager) IsReady() bool       { return km.keyset.IsReady() }

func (km *KeyManager) NumSigners() int {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return len(km.signers)
}
