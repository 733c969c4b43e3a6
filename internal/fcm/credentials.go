// Package fcm implements the FCM HTTP v1 dispatch client: service-account
// credential loading, OAuth2 JWT-bearer token acquisition with caching,
// payload construction, and delivery with a mock bypass for non-production
// endpoints.
package fcm

import (
	"crypto/rsa"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenURI is Google's OAuth2 token endpoint, used when the credential
// file does not name one.
const DefaultTokenURI = "https://oauth2.googleapis.com/token"

// fallbackCredentialsPath is checked when the configured path is absent.
// Deployment platforms commonly mount secrets there.
const fallbackCredentialsPath = "/etc/secrets/firebase_credentials.json"

// ServiceAccount mirrors the downloadable Google service-account key file.
type ServiceAccount struct {
	Type         string `json:"type"`
	ProjectID    string `json:"project_id"`
	PrivateKeyID string `json:"private_key_id"`
	PrivateKey   string `json:"private_key"`
	ClientEmail  string `json:"client_email"`
	ClientID     string `json:"client_id"`
	TokenURI     string `json:"token_uri"`
}

// SigningKey parses the credential's PEM private key.
func (sa *ServiceAccount) SigningKey() (*rsa.PrivateKey, error) {
	return jwt.ParseRSAPrivateKeyFromPEM([]byte(sa.PrivateKey))
}

// CredentialStore loads the service-account credential from an ordered list
// of candidate file locations. The first existing, well-formed file wins.
type CredentialStore struct {
	paths  []string
	logger *slog.Logger
}

func NewCredentialStore(primaryPath string, logger *slog.Logger) *CredentialStore {
	var paths []string
	if primaryPath != "" {
		paths = append(paths, primaryPath)
	}
	paths = append(paths, fallbackCredentialsPath)
	return &CredentialStore{
		paths:  paths,
		logger: logger.With("component", "CredentialStore"),
	}
}

// Load reads and validates the credential. The private key is normalized
// (literal `\n` sequences become real newlines, the key is frequently
// transported through env layers that escape them) and must parse as an RSA
// key before the credential is returned.
func (s *CredentialStore) Load() (*ServiceAccount, error) {
	for _, path := range s.paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, &CredentialError{Kind: CredentialUnreadable, Path: path, Err: err}
		}
		return s.parse(raw, path)
	}
	return nil, &CredentialError{Kind: CredentialNotFound, Path: strings.Join(s.paths, ", ")}
}

func (s *CredentialStore) parse(raw []byte, path string) (*ServiceAccount, error) {
	var account ServiceAccount
	if err := json.Unmarshal(raw, &account); err != nil {
		return nil, &CredentialError{Kind: CredentialMalformed, Path: path, Err: err}
	}
	if account.ClientEmail == "" {
		return nil, &CredentialError{Kind: CredentialMalformed, Path: path, Err: errors.New("client_email is missing")}
	}
	if account.PrivateKey == "" {
		return nil, &CredentialError{Kind: CredentialMalformed, Path: path, Err: errors.New("private_key is missing")}
	}

	account.PrivateKey = strings.ReplaceAll(account.PrivateKey, `\n`, "\n")

	if _, err := account.SigningKey(); err != nil {
		// The parse error is safe to surface; it never echoes key bytes.
		return nil, &CredentialError{Kind: CredentialBadKey, Path: path, Err: err}
	}
	if account.TokenURI == "" {
		account.TokenURI = DefaultTokenURI
	}

	s.logger.Debug("credentials loaded", "path", path, "client_email", account.ClientEmail)
	return &account, nil
}
