package googleplay

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/awa/go-iap/playstore"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"google.golang.org/api/androidpublisher/v3"
	"google.golang.org/api/googleapi"

	cfgpkg "github.com/fatflowers/playgate/pkg/config"
)

var (
	// ErrUnavailable covers transport and auth failures against the Android
	// Publisher API, including a missing service-account credential.
	ErrUnavailable = errors.New("billing provider unavailable")
	// ErrNotFound means the subscription/token pair is unknown to the provider.
	ErrNotFound = errors.New("subscription not found at provider")
	// ErrMalformedResponse means the provider answered without a usable
	// expiry timestamp.
	ErrMalformedResponse = errors.New("malformed provider response")
)

// Client wraps the Android Publisher subscriptions API. The underlying
// service-account client is built once per process on first use; when the
// credential is absent or unparsable the client stays disabled for the
// process lifetime and every call reports ErrUnavailable.
type Client struct {
	cfg *cfgpkg.Config
	log *zap.SugaredLogger

	once   sync.Once
	client *playstore.Client
	err    error
}

func New(cfg *cfgpkg.Config, log *zap.SugaredLogger) *Client {
	return &Client{cfg: cfg, log: log}
}

func (c *Client) get() (*playstore.Client, error) {
	c.once.Do(func() {
		jsonKey, err := c.cfg.PlayCredentials()
		if err != nil {
			c.log.Warnw("google play client disabled", "err", err)
			c.err = fmt.Errorf("%w: %v", ErrUnavailable, err)
			return
		}
		client, err := playstore.New(jsonKey)
		if err != nil {
			c.log.Errorw("failed to init google play client", "err", err)
			c.err = fmt.Errorf("%w: %v", ErrUnavailable, err)
			return
		}
		c.client = client
	})
	return c.client, c.err
}

// FetchSubscription returns the authoritative subscription state for a
// purchase token.
func (c *Client) FetchSubscription(ctx context.Context, subscriptionID, purchaseToken string) (*androidpublisher.SubscriptionPurchase, error) {
	client, err := c.get()
	if err != nil {
		return nil, err
	}
	if c.cfg.GooglePlay.PackageName == "" {
		return nil, fmt.Errorf("%w: package name is not configured", ErrUnavailable)
	}

	sub, err := client.VerifySubscription(ctx, c.cfg.GooglePlay.PackageName, subscriptionID, purchaseToken)
	if err != nil {
		return nil, mapAPIError(err)
	}
	if sub == nil || sub.ExpiryTimeMillis == 0 {
		return nil, ErrMalformedResponse
	}
	return sub, nil
}

func mapAPIError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusNotFound, http.StatusGone:
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		case http.StatusBadRequest:
			// The publisher API reports unknown tokens on this path too.
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		}
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

var Module = fx.Options(
	fx.Provide(New),
)
