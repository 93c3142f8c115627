package identity

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	cfgpkg "github.com/fatflowers/playgate/pkg/config"
)

const testProject = "demo-project"

type testSigner struct {
	key     *rsa.PrivateKey
	certPEM string
}

func newTestSigner(t *testing.T) *testSigner {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "securetoken test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	return &testSigner{key: key, certPEM: string(certPEM)}
}

func (s *testSigner) sign(t *testing.T, kid string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(s.key)
	require.NoError(t, err)
	return signed
}

func validClaims() jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"aud": testProject,
		"iss": "https://securetoken.google.com/" + testProject,
		"sub": "user-1",
		"iat": now.Add(-time.Minute).Unix(),
		"exp": now.Add(time.Hour).Unix(),
	}
}

func newTestVerifier(t *testing.T, signer *testSigner) (*Verifier, *int) {
	t.Helper()
	fetches := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fetches++
		w.Header().Set("Cache-Control", "public, max-age=3600, must-revalidate")
		_ = json.NewEncoder(w).Encode(map[string]string{"kid-1": signer.certPEM})
	}))
	t.Cleanup(srv.Close)

	cfg := &cfgpkg.Config{}
	cfg.Identity.ProjectID = testProject
	cfg.Identity.CertsURL = srv.URL
	return New(cfg, zap.NewNop().Sugar()), &fetches
}

func TestVerify_ValidToken(t *testing.T) {
	signer := newTestSigner(t)
	v, _ := newTestVerifier(t, signer)

	userID, err := v.Verify(context.Background(), signer.sign(t, "kid-1", validClaims()))
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestVerify_CachesCertificates(t *testing.T) {
	signer := newTestSigner(t)
	v, fetches := newTestVerifier(t, signer)

	for i := 0; i < 3; i++ {
		_, err := v.Verify(context.Background(), signer.sign(t, "kid-1", validClaims()))
		require.NoError(t, err)
	}
	assert.Equal(t, 1, *fetches, "certs are fetched once within max-age")
}

func TestVerify_RejectsBadTokens(t *testing.T) {
	signer := newTestSigner(t)
	v, _ := newTestVerifier(t, signer)

	expired := validClaims()
	expired["exp"] = time.Now().Add(-time.Hour).Unix()

	wrongAud := validClaims()
	wrongAud["aud"] = "other-project"

	wrongIss := validClaims()
	wrongIss["iss"] = "https://accounts.example.com"

	noSub := validClaims()
	delete(noSub, "sub")

	otherKey := newTestSigner(t)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "not a JWT", token: "garbage"},
		{name: "expired", token: signer.sign(t, "kid-1", expired)},
		{name: "wrong audience", token: signer.sign(t, "kid-1", wrongAud)},
		{name: "wrong issuer", token: signer.sign(t, "kid-1", wrongIss)},
		{name: "empty subject", token: signer.sign(t, "kid-1", noSub)},
		{name: "unknown kid", token: signer.sign(t, "kid-2", validClaims())},
		{name: "wrong signing key", token: otherKey.sign(t, "kid-1", validClaims())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), tt.token)
			require.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestVerify_NotConfigured(t *testing.T) {
	signer := newTestSigner(t)
	v := New(&cfgpkg.Config{}, zap.NewNop().Sugar())

	_, err := v.Verify(context.Background(), signer.sign(t, "kid-1", validClaims()))
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestCertsTTL(t *testing.T) {
	assert.Equal(t, 3600*time.Second, certsTTL("public, max-age=3600, must-revalidate"))
	assert.Equal(t, defaultCertsTTL, certsTTL(""))
	assert.Equal(t, defaultCertsTTL, certsTTL("no-cache"))
	assert.Equal(t, defaultCertsTTL, certsTTL("max-age=bogus"))
}
