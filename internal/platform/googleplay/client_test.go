package googleplay

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"

	cfgpkg "github.com/fatflowers/playgate/pkg/config"
)

func TestFetchSubscription_DisabledWithoutCredentials(t *testing.T) {
	c := New(&cfgpkg.Config{}, zap.NewNop().Sugar())

	_, err := c.FetchSubscription(context.Background(), "premium_monthly", "tok-1")
	require.ErrorIs(t, err, ErrUnavailable)

	// The failure is sticky for the process lifetime.
	_, err = c.FetchSubscription(context.Background(), "premium_monthly", "tok-1")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestFetchSubscription_RejectsUnparsableCredentials(t *testing.T) {
	cfg := &cfgpkg.Config{}
	cfg.GooglePlay.CredentialsJSON = "not json"
	cfg.GooglePlay.PackageName = "com.fatflowers.app"
	c := New(cfg, zap.NewNop().Sugar())

	_, err := c.FetchSubscription(context.Background(), "premium_monthly", "tok-1")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestMapAPIError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "404", err: &googleapi.Error{Code: 404}, want: ErrNotFound},
		{name: "410", err: &googleapi.Error{Code: 410}, want: ErrNotFound},
		{name: "400", err: &googleapi.Error{Code: 400}, want: ErrNotFound},
		{name: "401", err: &googleapi.Error{Code: 401}, want: ErrUnavailable},
		{name: "500", err: &googleapi.Error{Code: 500}, want: ErrUnavailable},
		{name: "transport", err: fmt.Errorf("dial tcp: connection refused"), want: ErrUnavailable},
		{name: "wrapped api error", err: fmt.Errorf("call failed: %w", &googleapi.Error{Code: 404}), want: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapAPIError(tt.err), tt.want)
		})
	}
}
