// Package google owns the credential lifecycle of an installation.
//
// A single Grant (access token, refresh token, scopes, expiry and client id)
// is persisted by a CredentialStore: a JSON file, a SQLite row or process
// memory. The Authorizer is the only component that reads or writes the
// store. It hands out grants that cover the scopes a caller needs,
// refreshing expiring access tokens and running the interactive
// ConsentFlow when no usable grant exists. At most one refresh or consent
// sequence runs at a time.
package google
