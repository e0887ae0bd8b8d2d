package config

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/gagliardetto/solana-go"

	"openbook-trader/internal/errors"
)

// LoadKeypair reads an owner keypair from disk. Both formats the Solana
// tooling produces are accepted: a JSON byte array (solana-keygen) and a
// bare base58 string.
func LoadKeypair(path string) (solana.PrivateKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrKeypairInvalid, "read %s: %v", path, err)
	}

	text := strings.TrimSpace(string(raw))
	if text == "" {
		return nil, errors.Wrapf(errors.ErrKeypairInvalid, "empty keypair file %s", path)
	}

	var key solana.PrivateKey
	if strings.HasPrefix(text, "[") {
		var bytes []byte
		if err := json.Unmarshal([]byte(text), &bytes); err != nil {
			return nil, errors.Wrapf(errors.ErrKeypairInvalid, "parse %s: %v", path, err)
		}
		key = solana.PrivateKey(bytes)
	} else {
		key, err = solana.PrivateKeyFromBase58(text)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrKeypairInvalid, "parse %s: %v", path, err)
		}
	}

	if len(key) != 64 {
		return nil, errors.Wrapf(errors.ErrKeypairInvalid, "keypair in %s has %d bytes, want 64", path, len(key))
	}
	return key, nil
}
