package fcm_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testKeyPEM generates a throwaway RSA key in PEM form, the way the real
// credential files carry one.
func testKeyPEM(t *testing.T) string {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	block := &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}
	return string(pem.EncodeToMemory(block))
}

// credentialJSON builds a service-account file body. Overrides replace
// default fields; a nil override value removes the field.
func credentialJSON(t *testing.T, keyPEM string, overrides map[string]any) []byte {
	t.Helper()
	fields := map[string]any{
		"type":           "service_account",
		"project_id":     "caseline-dev",
		"private_key_id": "key-1",
		"private_key":    keyPEM,
		"client_email":   "dispatch@caseline-dev.iam.gserviceaccount.com",
	}
	for k, v := range overrides {
		if v == nil {
			delete(fields, k)
			continue
		}
		fields[k] = v
	}
	raw, err := json.Marshal(fields)
	require.NoError(t, err)
	return raw
}

func writeCredentialFile(t *testing.T, contents []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "firebase_credentials.json")
	require.NoError(t, os.WriteFile(path, contents, 0o600))
	return path
}
