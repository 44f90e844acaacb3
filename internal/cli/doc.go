// Package cli implements the glspy command-line interface.
//
// Each Cobra command builds an app from the global flags (see newApp) and
// hands it to the package that does the work:
//
//	glspy             - interactive dashboard (monitor)
//	glspy snapshot    - print the online list once (web renderers)
//	glspy serve       - HTTP responder (web)
//	glspy init        - write glspy.yaml
//	glspy config      - show the effective configuration
//	glspy doctor      - diagnose the config and the glftpd install (doctor)
//	glspy version     - version information
//	glspy completion  - shell completion scripts
//
// # Flag Handling
//
// Global flags (--config, --from, --show-all, --refresh, --no-color,
// --log-file, --verbose) live on the root command. They override the
// config file after loading and before validation, so a bad flag value is
// reported like a bad config value.
//
// The dashboard owns the terminal, so it logs only to --log-file. The other
// commands log to stderr.
package cli
