package fcm

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// messagingScope is the only scope this client ever requests.
const messagingScope = "https://www.googleapis.com/auth/firebase.messaging"

const (
	jwtBearerGrantType = "urn:ietf:params:oauth:grant-type:jwt-bearer"
	assertionLifetime  = time.Hour
	// tokenExpiryMargin is subtracted from the reported lifetime so a token is
	// never presented moments before the provider stops accepting it.
	tokenExpiryMargin = 60 * time.Second
)

// AccessToken is a short-lived bearer credential for the messaging API.
type AccessToken struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Valid reports whether the token can still be presented at the given time,
// honouring the safety margin.
func (t AccessToken) Valid(now time.Time) bool {
	return t.Value != "" && now.Before(t.ExpiresAt.Add(-tokenExpiryMargin))
}

// TokenSource yields a valid access token for a service account, refreshing
// transparently. Implementations must be safe for concurrent use.
type TokenSource interface {
	Token(ctx context.Context, account *ServiceAccount) (AccessToken, error)
}

// TokenProvider exchanges a signed JWT-bearer assertion for an access token
// at the credential's token endpoint and caches the result until near expiry.
type TokenProvider struct {
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time

	// refreshMu serialises exchanges: one caller refreshes, latecomers block
	// and then pick up the cached result. stateMu guards only the cache fields.
	refreshMu sync.Mutex
	stateMu   sync.Mutex
	cached    AccessToken
	cachedFor string
}

func NewTokenProvider(httpClient *http.Client, logger *slog.Logger) *TokenProvider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &TokenProvider{
		httpClient: httpClient,
		logger:     logger.With("component", "TokenProvider"),
		now:        time.Now,
	}
}

// Token returns a cached token while it remains valid; otherwise it performs
// one exchange, no matter how many callers arrive concurrently. No retry at
// this layer.
func (p *TokenProvider) Token(ctx context.Context, account *ServiceAccount) (AccessToken, error) {
	if tok, ok := p.cachedToken(account.ClientEmail); ok {
		return tok, nil
	}

	p.refreshMu.Lock()
	defer p.refreshMu.Unlock()

	// Re-check: a concurrent caller may have refreshed while we waited.
	if tok, ok := p.cachedToken(account.ClientEmail); ok {
		return tok, nil
	}

	tok, err := p.exchange(ctx, account)
	if err != nil {
		return AccessToken{}, err
	}

	p.stateMu.Lock()
	p.cached = tok
	p.cachedFor = account.ClientEmail
	p.stateMu.Unlock()

	return tok, nil
}

func (p *TokenProvider) cachedToken(clientEmail string) (AccessToken, bool) {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()
	if p.cachedFor == clientEmail && p.cached.Valid(p.now()) {
		return p.cached, true
	}
	return AccessToken{}, false
}

func (p *TokenProvider) exchange(ctx context.Context, account *ServiceAccount) (AccessToken, error) {
	assertion, err := p.signAssertion(account)
	if err != nil {
		return AccessToken{}, &AuthError{Kind: AuthSigning, Err: err}
	}

	form := url.Values{
		"grant_type": {jwtBearerGrantType},
		"assertion":  {assertion},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, account.TokenURI, strings.NewReader(form.Encode()))
	if err != nil {
		return AccessToken{}, &AuthError{Kind: AuthNetwork, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return AccessToken{}, &AuthError{Kind: AuthNetwork, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return AccessToken{}, &AuthError{Kind: AuthNetwork, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return AccessToken{}, &AuthError{Kind: AuthTokenEndpoint, Status: resp.StatusCode, Detail: string(body)}
	}

	var parsed struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return AccessToken{}, &AuthError{Kind: AuthTokenEndpoint, Status: resp.StatusCode, Detail: "unparseable token response", Err: err}
	}
	if parsed.AccessToken == "" {
		return AccessToken{}, &AuthError{Kind: AuthTokenEndpoint, Status: resp.StatusCode, Detail: "token response missing access_token"}
	}

	tok := AccessToken{
		Value:     parsed.AccessToken,
		ExpiresAt: p.now().Add(time.Duration(parsed.ExpiresIn) * time.Second),
	}
	p.logger.Debug("access token refreshed", "client_email", account.ClientEmail, "expires_at", tok.ExpiresAt)
	return tok, nil
}

func (p *TokenProvider) signAssertion(account *ServiceAccount) (string, error) {
	key, err := account.SigningKey()
	if err != nil {
		return "", err
	}

	now := p.now()
	claims := jwt.MapClaims{
		"iss":   account.ClientEmail,
		"scope": messagingScope,
		"aud":   account.TokenURI,
		"iat":   now.Unix(),
		"exp":   now.Add(assertionLifetime).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	// The kid header lets the endpoint pick the right verification key.
	if account.PrivateKeyID != "" {
		token.Header["kid"] = account.PrivateKeyID
	}
	return token.SignedString(key)
}
