package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# TraderGym Configuration

[journal]
# Account used when --account is not passed
default_account = ""
# SQLite database location (defaults to the config directory)
database_path = ""
# Evaluation profit goal used by the projection dashboard
challenge_goal = 0.0

[risk]
# Fallback risk profile for accounts without their own settings
max_daily_risk = 100.0
max_trades_per_day = 1
max_contracts_per_trade = 1
# Sizing mode: "fixedContracts" or "fixedSL"
calc_mode = "fixedContracts"
# Target mode: "fixedRR" or "fixedTargetPoints"
target_mode = "fixedRR"
rr_ratio = 2.0
fixed_sl_points = 0.0
fixed_target_points = 0.0
# Round-turn commission is charged per side
comm_per_contract = 1.5
preferred_instrument = "MNQ"

[ui]
# Enable colored output
color_enabled = true
# Date format
date_format = "2006-01-02"

[notifications]
# Enable notifications
enabled = false
# Notification level: all, alerts_only
level = "alerts_only"

[notifications.webhook]
enabled = false
url = ""

[notifications.telegram]
enabled = false
bot_token = ""
chat_id = ""

[parser]
# LLM model used for free-text journal parsing
model = "gpt-4o"
temperature = 0.2
max_tokens = 2048
# Client-side throttle for parser calls
rate_per_minute = 20
`

const credentialsTemplate = `# TraderGym Credentials
# WARNING: Keep this file secure! Do not commit to version control.

[openai]
api_key = ""
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

func createTemplateCredentials(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "credentials.toml")
	// Restricted permissions, the file holds an API key
	if err := os.WriteFile(path, []byte(credentialsTemplate), 0600); err != nil {
		return fmt.Errorf("writing credentials template: %w", err)
	}

	return fmt.Errorf("credentials file not found, created template at %s", path)
}
