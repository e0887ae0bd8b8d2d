package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"

	"openbook-trader/internal/errors"
)

func writeTempKeypair(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "id.json")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write keypair: %v", err)
	}
	return path
}

func TestLoadKeypairJSONArray(t *testing.T) {
	want := solana.NewWallet().PrivateKey
	ints := make([]int, len(want))
	for i, b := range want {
		ints[i] = int(b)
	}
	raw, err := json.Marshal(ints)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	path := writeTempKeypair(t, string(raw))

	got, err := LoadKeypair(path)
	if err != nil {
		t.Fatalf("LoadKeypair: %v", err)
	}
	if !got.PublicKey().Equals(want.PublicKey()) {
		t.Errorf("public key = %s, want %s", got.PublicKey(), want.PublicKey())
	}
}

func TestLoadKeypairBase58(t *testing.T) {
	want := solana.NewWallet().PrivateKey
	path := writeTempKeypair(t, want.String()+"\n")

	got, err := LoadKeypair(path)
	if err != nil {
		t.Fatalf("LoadKeypair: %v", err)
	}
	if !got.PublicKey().Equals(want.PublicKey()) {
		t.Errorf("public key = %s, want %s", got.PublicKey(), want.PublicKey())
	}
}

func TestLoadKeypairErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"bad json", "[1, 2,"},
		{"wrong length", "[1, 2, 3]"},
		{"bad base58", "not-base58-0OIl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempKeypair(t, tt.content)
			_, err := LoadKeypair(path)
			if !errors.Is(err, errors.ErrKeypairInvalid) {
				t.Fatalf("error = %v, want ErrKeypairInvalid", err)
			}
		})
	}
}

func TestLoadKeypairMissingFile(t *testing.T) {
	_, err := LoadKeypair(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, errors.ErrKeypairInvalid) {
		t.Fatalf("error = %v, want ErrKeypairInvalid", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{}
	cfg.RPC.URL = "https://api.mainnet-beta.solana.com"
	cfg.RPC.Commitment = "confirmed"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	cfg.RPC.Commitment = "eventually"
	if !errors.Is(cfg.Validate(), errors.ErrConfigInvalid) {
		t.Error("expected ErrConfigInvalid for bad commitment")
	}

	cfg.RPC.Commitment = "confirmed"
	cfg.RPC.URL = ""
	if !errors.Is(cfg.Validate(), errors.ErrConfigInvalid) {
		t.Error("expected ErrConfigInvalid for missing url")
	}

	cfg.RPC.URL = "https://api.mainnet-beta.solana.com"
	cfg.Trading.AccountName = "this-name-is-far-too-long-for-the-field"
	if !errors.Is(cfg.Validate(), errors.ErrConfigInvalid) {
		t.Error("expected ErrConfigInvalid for oversized account name")
	}
}
