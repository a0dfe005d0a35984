package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/hoaportal/pkg/jwtx"
)

// InitSessionKeys creates the KeyManager that signs and verifies session
// tokens.
//
// With SigningKeyFile set a single Ed25519 key is loaded from (or created
// in) that file, so sessions survive restarts. Otherwise NumKeys ephemeral
// keys are generated and every session ends when the process does.
func InitSessionKeys(cfg Config, logger *slog.Logger) (*jwtx.KeyManager, error) {
	keyManager, err := jwtx.NewKeyManager(jwtx.KeyManagerOptions{
		Issuer:  cfg.Issuer,
		KeyFile: cfg.SigningKeyFile,
		NumKeys: cfg.NumKeys,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session keys: %w", err)
	}

	if cfg.SigningKeyFile != "" {
		logger.Info("session signing key loaded",
			"key_file", cfg.SigningKeyFile,
			"issuer", cfg.Issuer,
		)
		return keyManager, nil
	}

	logger.Info("generated ephemeral signing keys",
		"num_keys", keyManager.NumSigners(),
		"issuer", cfg.Issuer,
	)
	logger.Warn("sessions issued before this start are no longer valid; set PORTAL_SIGNING_KEY_FILE to keep them")

	return keyManager, nil
}
