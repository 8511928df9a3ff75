package google

import (
	"time"

	"golang.org/x/oauth2"
)

// RefreshMargin is how long before expiry an access token is already treated as expired.
const RefreshMargin = 60 * time.Second

// Grant is a delegated user authorization together with the client identity
// it was issued under. It is the only thing persisted by a CredentialStore.
type Grant struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
	Scopes       ScopeSet  `json:"scopes"`
	ClientID     string    `json:"client_id"`
}

// NewGrant builds a Grant from a token endpoint response. If the response
// names the granted scopes those are recorded, otherwise requested is used.
func NewGrant(tok *oauth2.Token, requested ScopeSet, clientID string) *Grant {
	scopes := requested
	if raw, ok := tok.Extra("scope").(string); ok && raw != "" {
		scopes = ParseScopes(raw)
	}
	return &Grant{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		Expiry:       tok.Expiry,
		Scopes:       scopes,
		ClientID:     clientID,
	}
}

// Token converts the grant into an oauth2 token.
func (g *Grant) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  g.AccessToken,
		RefreshToken: g.RefreshToken,
		TokenType:    g.TokenType,
		Expiry:       g.Expiry,
	}
}

// Covers reports whether the grant holds every scope in required.
func (g *Grant) Covers(required ScopeSet) bool {
	return g != nil && g.Scopes.Covers(required)
}

// NeedsRefresh reports whether the access token is missing or expires within RefreshMargin of now.
func (g *Grant) NeedsRefresh(now time.Time) bool {
	if g.AccessToken == "" {
		return true
	}
	if g.Expiry.IsZero() {
		return false
	}
	return !now.Add(RefreshMargin).Before(g.Expiry)
}

// CanRefresh reports whether a refresh token is available.
func (g *Grant) CanRefresh() bool {
	return g.RefreshToken != ""
}

// usable reports whether the record holds anything worth keeping.
func (g *Grant) usable() bool {
	return g != nil && (g.AccessToken != "" || g.RefreshToken != "")
}

// refreshed returns a copy of g carrying the new access token. The refresh
// token is kept when the token endpoint does not rotate it.
func (g *Grant) refreshed(tok *oauth2.Token) *Grant {
	next := *g
	next.AccessToken = tok.AccessToken
	next.Expiry = tok.Expiry
	if tok.TokenType != "" {
		next.TokenType = tok.TokenType
	}
	if tok.RefreshToken != "" {
		next.RefreshToken = tok.RefreshToken
	}
	if raw, ok := tok.Extra("scope").(string); ok && raw != "" {
		next.Scopes = ParseScopes(raw)
	}
	return &next
}

func (g *Grant) clone() *Grant {
	if g == nil {
		return nil
	}
	c := *g
	c.Scopes = append(ScopeSet(nil), g.Scopes...)
	return &c
}
