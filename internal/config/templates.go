package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# OpenBook Trader Configuration

[rpc]
# Solana JSON-RPC endpoint
url = "https://api.mainnet-beta.solana.com"
# Commitment level: processed, confirmed, finalized
commitment = "confirmed"

[trading]
# OpenBook v2 program address (leave empty for mainnet default)
program_id = ""
# Market account address to trade on
market = ""
# Path to the owner keypair file (JSON byte array or base58)
keypair_path = ""
# Open-orders account address; leave empty to discover or create one
open_orders = ""
# Logical name for the open-orders account
account_name = "default"

[journal]
# Record placed and cancelled orders locally
enabled = true
# SQLite database path; defaults to <config dir>/journal.db
path = ""

[logging]
# Log level: debug, info, warn, error
level = "info"
# Log to the console
console = true
# Log to a rotating file
file = true
# Log file path; defaults to <config dir>/logs/trader.log
file_path = ""
# Maximum log file size in megabytes before rotation
max_size = 100
# Number of rotated files to keep
max_backups = 7
# Maximum age of rotated files in days
max_age = 30
`

func createTemplateConfig(configDir, name string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, name+".toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return fmt.Errorf("config file not found, created template at %s", path)
}
