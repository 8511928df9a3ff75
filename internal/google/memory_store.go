package google

import (
	"context"
	"sync"
	"time"

	"github.com/giantswarm/mcp-oauth/storage"
	"github.com/giantswarm/mcp-oauth/storage/memory"
	"golang.org/x/oauth2"
)

// installationKey is the single user id under which the grant is kept.
const installationKey = "installation"

// MemoryStore keeps the grant in process memory using the mcp-oauth token
// store. Scopes, expiry and client id are kept next to it.
type MemoryStore struct {
	mu       sync.Mutex
	tokens   storage.TokenStore
	stop     func()
	scopes   ScopeSet
	expiry   time.Time
	clientID string
}

// NewMemoryStore returns an empty MemoryStore. Call Close to stop its
// background cleanup.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{}
	s.reset()
	return s
}

func (s *MemoryStore) reset() {
	if s.stop != nil {
		s.stop()
	}
	mem := memory.New()
	s.tokens = mem
	s.stop = mem.Stop
	s.scopes = nil
	s.expiry = time.Time{}
	s.clientID = ""
}

func (s *MemoryStore) Load(ctx context.Context) (*Grant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok, err := s.tokens.GetToken(ctx, installationKey)
	if err != nil || tok == nil {
		return nil, nil
	}
	g := &Grant{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		Expiry:       s.expiry,
		Scopes:       append(ScopeSet(nil), s.scopes...),
		ClientID:     s.clientID,
	}
	if !g.usable() {
		return nil, nil
	}
	return g, nil
}

func (s *MemoryStore) Save(ctx context.Context, g *Grant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// The token is stored without expiry so the store's cleanup never
	// evicts a grant that can still be refreshed.
	tok := &oauth2.Token{
		AccessToken:  g.AccessToken,
		RefreshToken: g.RefreshToken,
		TokenType:    g.TokenType,
	}
	if err := s.tokens.SaveToken(ctx, installationKey, tok); err != nil {
		return err
	}
	s.scopes = append(ScopeSet(nil), g.Scopes...)
	s.expiry = g.Expiry
	s.clientID = g.ClientID
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	return nil
}

// Close stops the underlying token store.
func (s *MemoryStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
}
