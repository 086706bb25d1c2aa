// Package config defines the runtime configuration types shared by the mock
// server instance, the control service, and the CLI: TLS and CORS settings,
// per-instance timeouts and capture limits, and the YAML shape accepted by
// the CLI's start subcommand via --config.
package config
