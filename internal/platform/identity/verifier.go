package identity

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt"
	"go.uber.org/fx"
	"go.uber.org/zap"

	cfgpkg "github.com/fatflowers/playgate/pkg/config"
)

var (
	// ErrInvalidToken means a token was presented but rejected: expired,
	// wrong audience or issuer, unknown key, or signature failure.
	ErrInvalidToken = errors.New("invalid identity token")
	// ErrNotConfigured means the verifier has no project ID bound and is
	// disabled for the process lifetime.
	ErrNotConfigured = errors.New("identity verifier is not configured")
)

const defaultCertsTTL = 5 * time.Minute

// Verifier checks Google secure-token ID tokens (RS256) against the public
// x509 certificates published for the token-signing service account. Only the
// certificates are cached, per their Cache-Control max-age; verification
// results never are.
type Verifier struct {
	cfg  *cfgpkg.Config
	log  *zap.SugaredLogger
	http *http.Client

	mu      sync.RWMutex
	keys    map[string]*rsa.PublicKey
	refresh time.Time
}

func New(cfg *cfgpkg.Config, log *zap.SugaredLogger) *Verifier {
	return &Verifier{
		cfg:  cfg,
		log:  log,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// Verify validates a raw ID token and returns the stable user identifier
// (the token subject).
func (v *Verifier) Verify(ctx context.Context, idToken string) (string, error) {
	if v.cfg.Identity.ProjectID == "" {
		return "", ErrNotConfigured
	}
	if idToken == "" {
		return "", ErrInvalidToken
	}

	token, err := jwt.Parse(idToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		kid, ok := t.Header["kid"].(string)
		if !ok || kid == "" {
			return nil, fmt.Errorf("token has no kid header")
		}
		return v.publicKey(ctx, kid)
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	project := v.cfg.Identity.ProjectID
	if !claims.VerifyAudience(project, true) {
		return "", fmt.Errorf("%w: audience mismatch", ErrInvalidToken)
	}
	if !claims.VerifyIssuer("https://securetoken.google.com/"+project, true) {
		return "", fmt.Errorf("%w: issuer mismatch", ErrInvalidToken)
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", fmt.Errorf("%w: empty subject", ErrInvalidToken)
	}
	return sub, nil
}

func (v *Verifier) publicKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	v.mu.RLock()
	key, fresh := v.keys[kid], time.Now().Before(v.refresh)
	v.mu.RUnlock()
	if key != nil && fresh {
		return key, nil
	}

	if err := v.refreshKeys(ctx); err != nil {
		// A stale key is still better than none when the cert endpoint is
		// briefly unreachable.
		if key != nil {
			v.log.Warnw("identity cert refresh failed, using cached key", "err", err)
			return key, nil
		}
		return nil, err
	}

	v.mu.RLock()
	key = v.keys[kid]
	v.mu.RUnlock()
	if key == nil {
		return nil, fmt.Errorf("no certificate for kid %q", kid)
	}
	return key, nil
}

func (v *Verifier) refreshKeys(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.cfg.Identity.CertsURL, nil)
	if err != nil {
		return err
	}
	resp, err := v.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch identity certs: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("identity cert endpoint returned %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var pems map[string]string
	if err := json.Unmarshal(body, &pems); err != nil {
		return fmt.Errorf("failed to decode identity certs: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(pems))
	for kid, certPEM := range pems {
		key, err := parseCertPublicKey(certPEM)
		if err != nil {
			v.log.Warnw("skipping unparsable identity cert", "kid", kid, "err", err)
			continue
		}
		keys[kid] = key
	}
	if len(keys) == 0 {
		return fmt.Errorf("identity cert endpoint returned no usable keys")
	}

	v.mu.Lock()
	v.keys = keys
	v.refresh = time.Now().Add(certsTTL(resp.Header.Get("Cache-Control")))
	v.mu.Unlock()
	return nil
}

func parseCertPublicKey(certPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(certPEM))
	if block == nil {
		return nil, errors.New("certificate couldn't be decoded")
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, err
	}
	key, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("unexpected public key type %T", cert.PublicKey)
	}
	return key, nil
}

// certsTTL extracts max-age from a Cache-Control header, falling back to a
// short default.
func certsTTL(cacheControl string) time.Duration {
	for _, part := range strings.Split(cacheControl, ",") {
		part = strings.TrimSpace(part)
		if v, ok := strings.CutPrefix(part, "max-age="); ok {
			if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
				return time.Duration(secs) * time.Second
			}
		}
	}
	return defaultCertsTTL
}

var Module = fx.Options(
	fx.Provide(New),
)
