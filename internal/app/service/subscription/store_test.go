package subscription

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fatflowers/playgate/internal/models"
	"github.com/fatflowers/playgate/internal/platform/db"
	cfgpkg "github.com/fatflowers/playgate/pkg/config"
)

func TestSnapshotColumns_NeverClobberOwnership(t *testing.T) {
	assert.NotContains(t, snapshotColumns, "user_id", "reconciliation must not overwrite linking")
	assert.NotContains(t, snapshotColumns, "created_at", "created_at is insert-only")
	assert.Contains(t, snapshotColumns, "updated_at")
	assert.Contains(t, snapshotColumns, "expiry_time_millis")
	assert.Contains(t, snapshotColumns, "is_active")
}

func TestService_InputValidation(t *testing.T) {
	svc := NewService(db.New(zap.NewNop().Sugar(), &cfgpkg.Config{}), zap.NewNop().Sugar())
	ctx := context.Background()

	require.Error(t, svc.ApplySnapshot(ctx, nil))
	require.Error(t, svc.ApplySnapshot(ctx, &models.SubscriptionRecord{}))
	require.Error(t, svc.LinkUser(ctx, "", "user-1"))
	require.Error(t, svc.LinkUser(ctx, "tok-1", ""))

	_, err := svc.ScanRecords(ctx, nil)
	require.Error(t, err)
}

func TestService_StoreUnavailableIsSticky(t *testing.T) {
	// An empty DSN disables the store for the process lifetime; every store
	// operation reports the same sentinel rather than crashing startup.
	svc := NewService(db.New(zap.NewNop().Sugar(), &cfgpkg.Config{}), zap.NewNop().Sugar())
	ctx := context.Background()

	err := svc.ApplySnapshot(ctx, &models.SubscriptionRecord{PurchaseToken: "tok-1"})
	require.ErrorIs(t, err, db.ErrUnavailable)

	err = svc.LinkUser(ctx, "tok-1", "user-1")
	require.ErrorIs(t, err, db.ErrUnavailable)

	_, err = svc.FindEntitled(ctx, "tok-1", "user-1", time.Now())
	require.ErrorIs(t, err, db.ErrUnavailable)

	_, err = svc.ScanRecords(ctx, &ScanRecordsRequest{})
	require.ErrorIs(t, err, db.ErrUnavailable)
}
