// Package common provides the tool model shared by every tool package and
// the Dispatcher that executes tool invocations.
//
// A Tool declares its parameters, the API surface it talks to and a
// Handler. Dispatch validates arguments against the declared parameters,
// obtains a valid credential for the tool's scopes, asks the client
// factory for the surface client and calls the handler. Every failure is
// reduced to a *toolerr.Error; nothing escapes as a panic.
//
// RegisterMCP exposes the registered tools on an mcp-go server.
package common
