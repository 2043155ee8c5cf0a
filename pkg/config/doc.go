// Package config loads the feedbox service settings.
//
// Values come from built-in defaults, then the YAML file at
// $FEEDBOX_CONFIG_PATH/feedbox.yml, then FEEDBOX_* environment variables.
// Each attribute remembers which source set it, which is what
// "feedboxctl configuration show" prints.
//
// Secrets are not part of this package: DATABASE_URL, FEEDBOX_DATA_KEY and
// FEEDBOX_TOKEN_SECRET are read by the command that starts the server.
package config
