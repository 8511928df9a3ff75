package google

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	"golang.org/x/oauth2"
)

// DefaultConsentTimeout bounds how long the consent flow waits for the operator.
const DefaultConsentTimeout = 5 * time.Minute

const callbackPath = "/callback"

var (
	// ErrConsentTimeout is returned when the operator did not complete consent in time.
	ErrConsentTimeout = errors.New("consent not completed before timeout")
	// ErrConsentDenied is returned when the operator declined the consent screen.
	ErrConsentDenied = errors.New("consent denied")
)

// Prompter presents the consent URL to the operator out of band.
type Prompter interface {
	Prompt(ctx context.Context, authURL string) error
}

// PrompterFunc adapts a function to the Prompter interface.
type PrompterFunc func(ctx context.Context, authURL string) error

func (f PrompterFunc) Prompt(ctx context.Context, authURL string) error { return f(ctx, authURL) }

// TerminalPrompter writes the consent URL to Out (normally stderr, since
// stdout carries the stdio transport) and optionally opens a browser.
type TerminalPrompter struct {
	Out         io.Writer
	OpenBrowser bool
	Logger      *slog.Logger
}

func (p *TerminalPrompter) Prompt(_ context.Context, authURL string) error {
	if _, err := fmt.Fprintf(p.Out, "\nGoogle authorization required. Open this URL in a browser:\n\n  %s\n\n", authURL); err != nil {
		return fmt.Errorf("write consent prompt: %w", err)
	}
	if p.OpenBrowser {
		if err := openBrowser(authURL); err != nil && p.Logger != nil {
			p.Logger.Debug("could not open browser", "error", err)
		}
	}
	return nil
}

func openBrowser(url string) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("xdg-open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		return exec.Command("open", url).Start()
	default:
		return fmt.Errorf("unsupported platform %s", runtime.GOOS)
	}
}

// ConsentFlow runs the installed application authorization code flow with a
// loopback redirect listener.
type ConsentFlow struct {
	// Port for the loopback listener, 0 picks a free port.
	Port     int
	Timeout  time.Duration
	Prompter Prompter
	Logger   *slog.Logger
}

type callbackResult struct {
	code string
	err  error
}

// Run presents the consent URL and blocks until the operator completes the
// flow, ctx is cancelled, or the timeout elapses. The returned token has
// been exchanged with conf's token endpoint.
func (f *ConsentFlow) Run(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error) {
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = DefaultConsentTimeout
	}
	logger := f.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if f.Prompter == nil {
		return nil, fmt.Errorf("no consent prompter configured")
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", f.Port))
	if err != nil {
		return nil, fmt.Errorf("listen for consent callback: %w", err)
	}

	state, err := generateState()
	if err != nil {
		_ = ln.Close()
		return nil, err
	}

	c := *conf
	c.RedirectURL = fmt.Sprintf("http://%s%s", ln.Addr().String(), callbackPath)

	results := make(chan callbackResult, 1)
	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("state") != state {
			logger.Warn("consent callback with unexpected state")
			http.Error(w, "invalid state", http.StatusBadRequest)
			return
		}
		var res callbackResult
		switch {
		case q.Get("error") != "":
			res.err = fmt.Errorf("%w: %s", ErrConsentDenied, q.Get("error"))
			http.Error(w, "Authorization was not granted. You can close this window.", http.StatusForbidden)
		case q.Get("code") == "":
			res.err = fmt.Errorf("consent callback without code")
			http.Error(w, "missing code", http.StatusBadRequest)
		default:
			res.code = q.Get("code")
			_, _ = io.WriteString(w, "Authorization complete. You can close this window.")
		}
		select {
		case results <- res:
		default:
		}
	})

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("consent callback server failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
		defer done()
		_ = srv.Shutdown(shutdownCtx)
	}()

	authURL := c.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	if err := f.Prompter.Prompt(ctx, authURL); err != nil {
		return nil, err
	}
	logger.Info("waiting for Google consent", "timeout", timeout.String())

	var res callbackResult
	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrConsentTimeout
		}
		return nil, ctx.Err()
	case res = <-results:
	}
	if res.err != nil {
		return nil, res.err
	}

	tok, err := c.Exchange(ctx, res.code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	return tok, nil
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
