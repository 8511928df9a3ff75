package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/oauth2"

	"github.com/teemow/gworkspace-mcp/internal/logging"
	"github.com/teemow/gworkspace-mcp/internal/toolerr"
)

// DefaultMaxRefreshAttempts bounds the retries of a refresh failing with a transient error.
const DefaultMaxRefreshAttempts = 3

// Result labels passed to AuthMetrics.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultRevoked = "revoked"
)

var errRefreshRevoked = errors.New("refresh token revoked or expired")

// Consenter obtains a new token through an interactive consent flow.
// *ConsentFlow is the production implementation.
type Consenter interface {
	Run(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error)
}

// AuthMetrics receives counters about the credential lifecycle.
type AuthMetrics interface {
	RecordOAuthTokenRefresh(ctx context.Context, result string)
	RecordOAuthConsent(ctx context.Context, result string)
	RecordCredentialStoreOperation(ctx context.Context, operation, status string)
}

// AuthorizerConfig configures an Authorizer.
type AuthorizerConfig struct {
	Store CredentialStore
	// OAuth carries the client identity and token endpoint. Its Scopes are
	// ignored, every consent requests the scopes needed at that point.
	OAuth *oauth2.Config
	// Consent runs the interactive flow. When nil the Authorizer never
	// prompts and fails with an auth error instead.
	Consent            Consenter
	Logger             *slog.Logger
	Metrics            AuthMetrics
	MaxRefreshAttempts uint
	// NewBackOff returns the backoff policy between refresh attempts.
	NewBackOff func() backoff.BackOff
	// Now is used for expiry checks.
	Now func() time.Time
}

// Authorizer produces valid credentials. It owns the credential store and
// serializes every refresh or re-authorization of the installation grant.
type Authorizer struct {
	store       CredentialStore
	oauth       *oauth2.Config
	consent     Consenter
	logger      *slog.Logger
	metrics     AuthMetrics
	maxAttempts uint
	newBackOff  func() backoff.BackOff
	now         func() time.Time

	// mu is held for the whole produce-a-credential sequence.
	mu sync.Mutex

	cacheMu sync.RWMutex
	cached  *Grant
}

// NewAuthorizer validates cfg and returns an Authorizer.
func NewAuthorizer(cfg AuthorizerConfig) (*Authorizer, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("credential store is required")
	}
	if cfg.OAuth == nil {
		return nil, fmt.Errorf("oauth config is required")
	}

	a := &Authorizer{
		store:       cfg.Store,
		oauth:       cfg.OAuth,
		consent:     cfg.Consent,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
		maxAttempts: cfg.MaxRefreshAttempts,
		newBackOff:  cfg.NewBackOff,
		now:         cfg.Now,
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.maxAttempts == 0 {
		a.maxAttempts = DefaultMaxRefreshAttempts
	}
	if a.newBackOff == nil {
		a.newBackOff = defaultBackOff
	}
	if a.now == nil {
		a.now = time.Now
	}
	return a, nil
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 250 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	return b
}

// Interactive reports whether the Authorizer may run the consent flow.
func (a *Authorizer) Interactive() bool {
	return a.consent != nil
}

// GetValidCredential returns a grant covering required whose access token
// is not about to expire. It refreshes or re-authorizes as needed and
// persists any new grant before returning it. Errors are *toolerr.Error of
// kind auth_error or storage_error.
func (a *Authorizer) GetValidCredential(ctx context.Context, required ScopeSet) (*Grant, error) {
	if g := a.fresh(required); g != nil {
		return g, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	// Another caller may have produced a credential while we waited.
	if g := a.fresh(required); g != nil {
		return g, nil
	}

	g, err := a.load(ctx)
	if err != nil {
		return nil, err
	}

	if g == nil || !g.Covers(required) {
		if g != nil {
			a.logger.Info("stored grant lacks required scopes, re-authorizing",
				logging.Scopes(g.Scopes.Missing(required)))
		}
		return a.reauthorize(ctx, required, g)
	}

	if g.NeedsRefresh(a.now()) {
		if !g.CanRefresh() {
			return a.reauthorize(ctx, required, g)
		}

		next, err := a.refresh(ctx, g)
		switch {
		case err == nil:
			if err := a.save(ctx, next); err != nil {
				return nil, err
			}
			if !next.Covers(required) {
				a.logger.Info("refreshed grant lost required scopes, re-authorizing",
					logging.Scopes(next.Scopes.Missing(required)))
				return a.reauthorize(ctx, required, next)
			}
			a.setCached(next)
			return next.clone(), nil
		case errors.Is(err, errRefreshRevoked):
			a.logger.Warn("refresh token rejected, discarding stored grant", logging.Err(err))
			if err := a.clear(ctx); err != nil {
				return nil, err
			}
			return a.reauthorize(ctx, required, g)
		default:
			return nil, toolerr.Auth(err, "refresh access token: %v", err)
		}
	}

	a.setCached(g)
	return g.clone(), nil
}

// Login runs the consent flow unconditionally for scopes plus any scopes the
// stored grant already holds, and persists the result.
func (a *Authorizer) Login(ctx context.Context, scopes ScopeSet) (*Grant, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	prev, err := a.load(ctx)
	if err != nil {
		return nil, err
	}
	return a.reauthorize(ctx, scopes, prev)
}

// Status returns the stored grant without refreshing it, or nil if there is none.
func (a *Authorizer) Status(ctx context.Context) (*Grant, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.load(ctx)
}

// Reset discards the stored grant.
func (a *Authorizer) Reset(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.clear(ctx)
}

// CheckStore reports whether the credential store can be read. It does not
// wait for a refresh or consent in progress.
func (a *Authorizer) CheckStore(ctx context.Context) error {
	_, err := a.load(ctx)
	return err
}

func (a *Authorizer) fresh(required ScopeSet) *Grant {
	a.cacheMu.RLock()
	defer a.cacheMu.RUnlock()
	if a.cached == nil || !a.cached.Covers(required) || a.cached.NeedsRefresh(a.now()) {
		return nil
	}
	return a.cached.clone()
}

func (a *Authorizer) setCached(g *Grant) {
	a.cacheMu.Lock()
	a.cached = g.clone()
	a.cacheMu.Unlock()
}

// load reads the stored grant. A grant issued under another client id is
// treated as absent, it cannot be refreshed with the current client.
func (a *Authorizer) load(ctx context.Context) (*Grant, error) {
	g, err := a.store.Load(ctx)
	if err != nil {
		a.recordStore(ctx, "load", err)
		return nil, toolerr.Storage(err, "load credential: %v", err)
	}
	a.recordStore(ctx, "load", nil)

	if g != nil && g.ClientID != "" && g.ClientID != a.oauth.ClientID {
		a.logger.Warn("stored grant was issued to a different OAuth client, ignoring it")
		return nil, nil
	}
	return g, nil
}

func (a *Authorizer) save(ctx context.Context, g *Grant) error {
	err := a.store.Save(ctx, g)
	a.recordStore(ctx, "save", err)
	if err != nil {
		return toolerr.Storage(err, "save credential: %v", err)
	}
	return nil
}

func (a *Authorizer) clear(ctx context.Context) error {
	a.cacheMu.Lock()
	a.cached = nil
	a.cacheMu.Unlock()

	err := a.store.Clear(ctx)
	a.recordStore(ctx, "clear", err)
	if err != nil {
		return toolerr.Storage(err, "clear credential: %v", err)
	}
	return nil
}

// reauthorize runs the consent flow. Scopes never shrink: the new grant is
// requested for required plus whatever prev already held.
func (a *Authorizer) reauthorize(ctx context.Context, required ScopeSet, prev *Grant) (*Grant, error) {
	scopes := required
	if prev != nil {
		scopes = scopes.Union(prev.Scopes)
	}

	if a.consent == nil {
		return nil, toolerr.Auth(nil,
			"no usable Google credential for scopes %s; run `gworkspace-mcp auth login`", scopes)
	}

	conf := *a.oauth
	conf.Scopes = scopes

	a.logger.Info("starting Google consent flow", logging.Scopes(scopes))
	tok, err := a.consent.Run(ctx, &conf)
	if err != nil {
		a.recordConsent(ctx, ResultFailure)
		return nil, toolerr.Auth(err, "authorization not completed: %v", err)
	}
	a.recordConsent(ctx, ResultSuccess)

	g := NewGrant(tok, scopes, conf.ClientID)
	if err := a.save(ctx, g); err != nil {
		return nil, err
	}
	a.setCached(g)

	if missing := g.Scopes.Missing(required); len(missing) > 0 {
		return nil, toolerr.Auth(nil, "consent granted only part of the required scopes, missing %v", missing)
	}
	return g.clone(), nil
}

func (a *Authorizer) refresh(ctx context.Context, g *Grant) (*Grant, error) {
	op := func() (*oauth2.Token, error) {
		// An empty access token forces the token source to hit the token endpoint.
		tok, err := a.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: g.RefreshToken}).Token()
		if err == nil {
			return tok, nil
		}
		switch {
		case isRevoked(err):
			return nil, backoff.Permanent(fmt.Errorf("%w: %w", errRefreshRevoked, err))
		case !isTransient(ctx, err):
			return nil, backoff.Permanent(err)
		}
		a.logger.Debug("transient refresh failure", logging.Err(err))
		return nil, err
	}

	tok, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(a.newBackOff()),
		backoff.WithMaxTries(a.maxAttempts),
	)
	if err != nil {
		if errors.Is(err, errRefreshRevoked) {
			a.recordRefresh(ctx, ResultRevoked)
		} else {
			a.recordRefresh(ctx, ResultFailure)
		}
		return nil, err
	}
	a.recordRefresh(ctx, ResultSuccess)
	a.logger.Debug("access token refreshed", "access_token", logging.SanitizeToken(tok.AccessToken))
	return g.refreshed(tok), nil
}

// isRevoked reports whether the token endpoint rejected the refresh token itself.
func isRevoked(err error) bool {
	var re *oauth2.RetrieveError
	if !errors.As(err, &re) {
		return false
	}
	switch re.ErrorCode {
	case "invalid_grant", "unauthorized_client":
		return true
	}
	return re.Response != nil &&
		(re.Response.StatusCode == http.StatusBadRequest || re.Response.StatusCode == http.StatusUnauthorized)
}

// isTransient reports whether a refresh failure is worth retrying.
func isTransient(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		if re.Response == nil {
			return true
		}
		code := re.Response.StatusCode
		return code == http.StatusTooManyRequests || code >= 500
	}
	// Anything else comes from the HTTP round trip.
	return true
}

func (a *Authorizer) recordRefresh(ctx context.Context, result string) {
	if a.metrics != nil {
		a.metrics.RecordOAuthTokenRefresh(ctx, result)
	}
}

func (a *Authorizer) recordConsent(ctx context.Context, result string) {
	if a.metrics != nil {
		a.metrics.RecordOAuthConsent(ctx, result)
	}
}

func (a *Authorizer) recordStore(ctx context.Context, op string, err error) {
	if a.metrics == nil {
		return
	}
	status := logging.StatusSuccess
	if err != nil {
		status = logging.StatusError
	}
	a.metrics.RecordCredentialStoreOperation(ctx, op, status)
}
