package db

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/fatflowers/playgate/internal/models"
	cfgpkg "github.com/fatflowers/playgate/pkg/config"
	gormzap "github.com/fatflowers/playgate/pkg/gormlog"
)

// ErrUnavailable is returned when the store cannot be opened, either because
// no DSN was configured or the initial connection failed. The failure is
// sticky for the process lifetime.
var ErrUnavailable = errors.New("subscription store unavailable")

// DB owns the process-wide gorm handle. The connection is opened lazily on
// first use and reused afterwards; a failed open disables the store for the
// remainder of the process lifetime rather than crashing startup.
type DB struct {
	cfg *cfgpkg.Config
	log *zap.SugaredLogger

	once sync.Once
	gdb  *gorm.DB
	err  error
}

func New(l *zap.SugaredLogger, cfg *cfgpkg.Config) *DB {
	return &DB{cfg: cfg, log: l}
}

// Get returns the shared gorm handle, opening it on first call.
func (d *DB) Get(ctx context.Context) (*gorm.DB, error) {
	d.once.Do(func() {
		d.gdb, d.err = d.open(ctx)
	})
	if d.err != nil {
		return nil, d.err
	}
	return d.gdb.WithContext(ctx), nil
}

func (d *DB) open(ctx context.Context) (*gorm.DB, error) {
	if d.cfg.Database.DSN == "" {
		d.log.Error("database DSN is empty")
		return nil, ErrUnavailable
	}
	gdb, err := gorm.Open(postgres.Open(d.cfg.Database.DSN), &gorm.Config{Logger: gormzap.New(d.log)})
	if err != nil {
		d.log.Errorf("failed to connect database: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	sqlDB.SetMaxOpenConns(d.cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(d.cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxIdleTime(d.cfg.Database.ConnMaxIdleTime)

	if err := autoMigrate(gdb); err != nil {
		d.log.Errorf("automigrate failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	d.log.Infow("connected to postgres via DSN",
		"max_open_conns", d.cfg.Database.MaxOpenConns,
		"max_idle_conns", d.cfg.Database.MaxIdleConns,
	)
	return gdb, nil
}

func autoMigrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.SubscriptionRecord{},
		&models.PlayNotificationLog{},
	)
}

// registerDBClose ensures the underlying *sql.DB is closed on shutdown when
// the lazy open ever happened.
func registerDBClose(lc fx.Lifecycle, l *zap.SugaredLogger, d *DB) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if d.gdb == nil {
				return nil
			}
			sqlDB, err := d.gdb.DB()
			if err != nil {
				l.Warnw("gorm: get sql.DB failed", "err", err)
				return nil
			}
			l.Infow("closing postgres connection pool")
			return sqlDB.Close()
		},
	})
}

var Module = fx.Options(
	fx.Provide(New),
	fx.Invoke(registerDBClose),
)
