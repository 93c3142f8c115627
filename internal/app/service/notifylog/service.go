package notifylog

import (
	"context"

	"go.uber.org/zap"

	"github.com/fatflowers/playgate/internal/models"
	"github.com/fatflowers/playgate/internal/platform/db"
	"github.com/fatflowers/playgate/pkg/logctx"
	"github.com/fatflowers/playgate/pkg/tool"
)

type Service struct {
	db  *db.DB
	log *zap.SugaredLogger
}

func New(d *db.DB, log *zap.SugaredLogger) *Service { return &Service{db: d, log: log} }

// Save asynchronously persists a play notification audit row. Nil input is
// ignored; failures are logged and never surfaced to the webhook path.
func (s *Service) Save(ctx context.Context, row *models.PlayNotificationLog) {
	go func() {
		if row == nil {
			return
		}
		if row.ID == "" {
			row.ID = tool.GenerateUUIDV7()
		}
		gdb, err := s.db.Get(context.Background())
		if err != nil {
			logctx.FromCtx(ctx, s.log).Warnw("notification log skipped, store unavailable", "err", err)
			return
		}
		if err := gdb.Save(row).Error; err != nil {
			logctx.FromCtx(ctx, s.log).Errorf("failed to save notification log: %v", err)
		}
	}()
}
