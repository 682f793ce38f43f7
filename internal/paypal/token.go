package paypal

import (
	"context"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// tokenCache holds the client-credentials token between calls so warm
// invocations skip the token round trip
type tokenCache struct {
	mu         sync.Mutex
	cfg        clientcredentials.Config
	httpClient *http.Client
	token      *oauth2.Token
}

func newTokenCache(baseURL, clientID, secret string, httpClient *http.Client) *tokenCache {
	return &tokenCache{
		cfg: clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: secret,
			TokenURL:     baseURL + "/v1/oauth2/token",
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		httpClient: httpClient,
	}
}

// AccessToken returns a valid bearer token, fetching a new one when needed
func (c *tokenCache) AccessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token.Valid() {
		return c.token.AccessToken, nil
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	tok, err := c.cfg.Token(ctx)
	if err != nil {
		return "", tokenError(err)
	}
	if tok.AccessToken == "" {
		return "", ErrMissingAccessToken
	}

	c.token = tok
	return tok.AccessToken, nil
}

// Invalidate drops the cached token
func (c *tokenCache) Invalidate() {
	c.mu.Lock()
	c.token = nil
	c.mu.Unlock()
}
