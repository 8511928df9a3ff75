// Package resources provides MCP resources for exposing session data.
// Resources are read-only data sources that MCP clients can fetch. The
// authorization status resource lets a client find out which scopes are
// granted before it calls a tool that would start the consent flow.
package resources
