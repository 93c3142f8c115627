package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fatflowers/playgate/internal/models"
	"github.com/fatflowers/playgate/internal/platform/db"
	"github.com/fatflowers/playgate/pkg/logctx"
	"github.com/fatflowers/playgate/pkg/tool"
	"github.com/fatflowers/playgate/pkg/types"
)

// Manager is the store surface for subscription records. All writes are
// atomic upserts keyed by purchase token; that upsert is the only concurrency
// control in the system, so concurrent reconciliations for the same token
// serialize to whichever write commits last.
type Manager interface {
	// ApplySnapshot merges reconciled billing state onto the record for
	// rec.PurchaseToken, creating it when absent. It never touches user_id
	// and sets created_at on insert only.
	ApplySnapshot(ctx context.Context, rec *models.SubscriptionRecord) error
	// LinkUser associates a purchase token with a user, creating a bare
	// record when the token has never been reconciled. Relinking the same
	// pair is a no-op in effect.
	LinkUser(ctx context.Context, purchaseToken, userID string) error
	// FindEntitled returns the record matching all of: purchase token, owner,
	// cached active flag, and expiry in the future — or nil when no such
	// record exists.
	FindEntitled(ctx context.Context, purchaseToken, userID string, now time.Time) (*models.SubscriptionRecord, error)
	// ScanRecords implements paginated admin listing with filters.
	ScanRecords(ctx context.Context, req *ScanRecordsRequest) (*ScanRecordsResponse, error)
}

type Service struct {
	db  *db.DB
	log *zap.SugaredLogger
}

func NewService(d *db.DB, log *zap.SugaredLogger) Manager {
	return &Service{db: d, log: log}
}

// snapshotColumns are the fields a reconciliation is allowed to overwrite.
// user_id and created_at are deliberately absent: linking owns the former and
// the latter is insert-only.
var snapshotColumns = []string{
	"subscription_id",
	"expiry_time_millis",
	"is_active",
	"auto_renewing",
	"payment_state",
	"kind",
	"order_id",
	"country_code",
	"price_currency_code",
	"price_amount_micros",
	"snapshot",
	"updated_at",
}

func (s *Service) ApplySnapshot(ctx context.Context, rec *models.SubscriptionRecord) error {
	if rec == nil || rec.PurchaseToken == "" {
		return fmt.Errorf("purchase token is required")
	}
	gdb, err := s.db.Get(ctx)
	if err != nil {
		return err
	}
	if rec.ID == "" {
		rec.ID = tool.GenerateUUIDV7()
	}
	err = gdb.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "purchase_token"}},
		DoUpdates: clause.AssignmentColumns(snapshotColumns),
	}).Create(rec).Error
	if err != nil {
		return fmt.Errorf("failed to upsert subscription record: %w", err)
	}
	logctx.FromCtx(ctx, s.log).Infow("subscription_snapshot_applied",
		"purchase_token", rec.PurchaseToken,
		"subscription_id", rec.SubscriptionID,
		"is_active", rec.IsActive,
	)
	return nil
}

func (s *Service) LinkUser(ctx context.Context, purchaseToken, userID string) error {
	if purchaseToken == "" || userID == "" {
		return fmt.Errorf("purchase token and user id are required")
	}
	gdb, err := s.db.Get(ctx)
	if err != nil {
		return err
	}
	rec := &models.SubscriptionRecord{
		ID:            tool.GenerateUUIDV7(),
		PurchaseToken: purchaseToken,
		UserID:        &userID,
	}
	err = gdb.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "purchase_token"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "updated_at"}),
	}).Create(rec).Error
	if err != nil {
		return fmt.Errorf("failed to link subscription record: %w", err)
	}
	logctx.FromCtx(ctx, s.log).Infow("subscription_linked", "purchase_token", purchaseToken, "user_id", userID)
	return nil
}

func (s *Service) FindEntitled(ctx context.Context, purchaseToken, userID string, now time.Time) (*models.SubscriptionRecord, error) {
	gdb, err := s.db.Get(ctx)
	if err != nil {
		return nil, err
	}
	var rec models.SubscriptionRecord
	err = gdb.
		Where("purchase_token = ? AND user_id = ? AND is_active = ? AND expiry_time_millis > ?",
			purchaseToken, userID, true, now.UnixMilli()).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query subscription record: %w", err)
	}
	return &rec, nil
}

type ScanRecordsRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type ScanRecordsResponse struct {
	Items []*models.SubscriptionRecord `json:"items"`
	Total int64                        `json:"total"`
}

// filtersAnd combines multiple CommonFilter into a single clause.Expression.
type filtersAnd struct{ filters []*types.CommonFilter }

func (w filtersAnd) Build(builder clause.Builder) {
	if len(w.filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	exprs := make([]clause.Expression, 0, len(w.filters))
	for _, f := range w.filters {
		exprs = append(exprs, f)
	}
	clause.And(exprs...).Build(builder)
}

func (s *Service) ScanRecords(ctx context.Context, req *ScanRecordsRequest) (*ScanRecordsResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	if req.Size <= 0 {
		req.Size = 10
	}
	if req.From < 0 {
		req.From = 0
	}

	gdb, err := s.db.Get(ctx)
	if err != nil {
		return nil, err
	}

	tx := gdb.Model(&models.SubscriptionRecord{})
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{filtersAnd{filters: req.Filters}}})
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count subscription records: %w", err)
	}

	var rows []*models.SubscriptionRecord
	q := tx.Limit(req.Size)
	if req.From > 0 {
		q = q.Offset(req.From)
	}
	if req.SortBy != "" {
		q = q.Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: req.SortBy}, Desc: req.SortOrder != "asc"}}})
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscription records: %w", err)
	}

	return &ScanRecordsResponse{Items: rows, Total: total}, nil
}
