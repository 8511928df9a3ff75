package google

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ClientIdentity is the OAuth client (application id and secret) of an installation.
type ClientIdentity struct {
	ClientID     string
	ClientSecret string
	// SecretsFile is a Google "installed" client secrets JSON file. When set
	// it takes precedence over ClientID and ClientSecret.
	SecretsFile string
}

// NewOAuthConfig returns the oauth2 configuration for the installed
// application flow against Google's endpoints. The redirect URL is filled in
// by the consent flow once its loopback listener is bound.
func NewOAuthConfig(id ClientIdentity, scopes ScopeSet) (*oauth2.Config, error) {
	if id.SecretsFile != "" {
		data, err := os.ReadFile(id.SecretsFile)
		if err != nil {
			return nil, fmt.Errorf("read client secrets: %w", err)
		}
		conf, err := google.ConfigFromJSON(data, scopes...)
		if err != nil {
			return nil, fmt.Errorf("parse client secrets: %w", err)
		}
		return conf, nil
	}

	if id.ClientID == "" {
		return nil, fmt.Errorf("no OAuth client configured: set GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET or GWORKSPACE_MCP_CLIENT_SECRETS")
	}
	return &oauth2.Config{
		ClientID:     id.ClientID,
		ClientSecret: id.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       scopes,
	}, nil
}

// NewHTTPClient returns an HTTP client that authorizes requests with ts.
// Unless ctx carries its own client under oauth2.HTTPClient, HTTP/2 is
// disabled on the base transport to avoid stream errors seen with some
// Google endpoints.
func NewHTTPClient(ctx context.Context, ts oauth2.TokenSource) *http.Client {
	client := oauth2.NewClient(ctx, ts)
	if _, custom := ctx.Value(oauth2.HTTPClient).(*http.Client); custom {
		return client
	}
	if transport, ok := client.Transport.(*oauth2.Transport); ok {
		transport.Base = &http.Transport{
			Proxy:             http.ProxyFromEnvironment,
			ForceAttemptHTTP2: false,
		}
	}
	return client
}
