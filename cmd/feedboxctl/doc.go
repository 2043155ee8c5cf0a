// Command feedboxctl runs the Feedbox feedback collection server and its
// administration tasks.
//
// Users sign up, create projects, add forms to their projects and collect
// anonymous feedback records submitted to those forms.
//
// # Quick Start
//
//	# Generate the keys
//	export FEEDBOX_DATA_KEY=$(feedboxctl data-key generate)
//	export FEEDBOX_TOKEN_SECRET=$(feedboxctl data-key generate)
//
//	# Run database migrations
//	feedboxctl db migrate
//
//	# Start the server
//	feedboxctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string, or sqlite://<path> for an embedded database
//   - FEEDBOX_DATA_KEY: Base64-encoded 256-bit key sealing client secrets
//   - FEEDBOX_TOKEN_SECRET: signing key of bearer tokens (at least 32 bytes)
//   - FEEDBOX_CONFIG_PATH: directory holding feedbox.yml
//   - FEEDBOX_LOG_LEVEL: Log level (debug, info, warn, error)
//   - FEEDBOX_AUDIT_ENABLED: set to false to silence audit lines
//   - AUDIT_DATABASE_URL: PostgreSQL database receiving audit messages
//   - PORT: Server port (default: 8000)
package main
