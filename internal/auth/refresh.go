package auth

import (
	"context"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// expiryLeeway refreshes tokens slightly before they actually expire so
// an in-flight request never carries a stale one.
const expiryLeeway = time.Minute

// TokenSource is an oauth2.TokenSource that persists refreshed tokens
// through a callback. Safe for concurrent use.
type TokenSource struct {
	mu        sync.Mutex
	config    *oauth2.Config
	token     *oauth2.Token
	onRefresh func(*oauth2.Token) error
}

func NewTokenSource(cfg *oauth2.Config, token *oauth2.Token, onRefresh func(*oauth2.Token) error) *TokenSource {
	return &TokenSource{config: cfg, token: token, onRefresh: onRefresh}
}

// Token returns the cached token, refreshing and persisting it first
// when it is within the expiry leeway.
func (ts *TokenSource) Token() (*oauth2.Token, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if time.Until(ts.token.Expiry) > expiryLeeway {
		return ts.token, nil
	}

	refreshed, err := ts.config.TokenSource(context.Background(), ts.token).Token()
	if err != nil {
		return nil, err
	}
	if ts.onRefresh != nil {
		if err := ts.onRefresh(refreshed); err != nil {
			return nil, err
		}
	}
	ts.token = refreshed
	return refreshed, nil
}
