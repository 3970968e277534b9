// Package config loads stockpile's settings.
//
// # Resolution Order
//
//  1. Built-in defaults (Default)
//  2. TOML file, ~/.config/stockpile/config.toml unless a path is given
//  3. .env file loaded into the environment with godotenv
//  4. STOCKPILE_* environment variables
//
// Command-line flags are applied by the caller on top of the result.
// A missing config or env file is not an error.
//
// # TOML Format
//
//	api_url = "http://localhost:5000/api"
//	poll_seconds = 2
//	request_timeout_seconds = 5
//	export_dir = "~/Documents/stockpile"
//	export_schedule = "0 18 * * *"   # cron; empty disables
//	log_path = "~/.local/share/stockpile/stockpile.log"
//	debug = false
//
// Every field is optional. Tilde expansion is applied to paths.
//
// # Environment
//
//	STOCKPILE_API_URL, STOCKPILE_POLL_SECONDS, STOCKPILE_REQUEST_TIMEOUT_SECONDS,
//	STOCKPILE_EXPORT_DIR, STOCKPILE_EXPORT_SCHEDULE, STOCKPILE_LOG_PATH,
//	STOCKPILE_DEBUG
//
// Blank variables are ignored. Malformed numbers or booleans are errors.
package config
