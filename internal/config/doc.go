// Package config resolves runtime configuration for gworkspace-mcp.
//
// Configuration is read from environment variables using env struct tags,
// after loading optional .env files from the working directory and from the
// installation root. The installation root defaults to an XDG data directory
// and holds the single credential record of the installation.
package config
