// Package config loads, validates, and defaults the TOML configuration for
// the scraper. Every behavior toggle of the reconciliation engine lives here;
// CLI flags override individual fields after Load.
package config
