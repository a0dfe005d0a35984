package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
)

const pepperLength = 32

var (
	pepperMu   sync.RWMutex
	pepper     string
	pepperFile string
)

// SetPepperPath sets where the pepper is kept. The file is created on first
// use.
func SetPepperPath(file string) {
	pepperMu.Lock()
	defer pepperMu.Unlock()
	pepperFile = file
	pepper = ""
}

// SetPepper installs a pepper directly, bypassing the file. Tests use it.
func SetPepper(p string) {
	pepperMu.Lock()
	defer pepperMu.Unlock()
	pepper = p
}

// GetPepper returns the server-wide pepper mixed into every password hash.
// With no path configured a process-local pepper is generated, which makes
// stored hashes unverifiable after a restart.
func GetPepper() (string, error) {
	pepperMu.RLock()
	p := pepper
	pepperMu.RUnlock()
	if p != "" {
		return p, nil
	}

	pepperMu.Lock()
	defer pepperMu.Unlock()
	if pepper != "" {
		return pepper, nil
	}

	if pepperFile == "" {
		generated, err := generatePepper()
		if err != nil {
			return "", err
		}
		pepper = string(generated)
		return pepper, nil
	}

	data, err := LoadOrCreateSecretFile(pepperFile, generatePepper)
	if err != nil {
		return "", err
	}
	pepper = string(data)
	return pepper, nil
}

func generatePepper() ([]byte, error) {
	b := make([]byte, pepperLength)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return []byte(base64.RawURLEncoding.EncodeToString(b)), nil
}
