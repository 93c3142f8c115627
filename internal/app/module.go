package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/fatflowers/playgate/internal/app/api/server"
	"github.com/fatflowers/playgate/internal/app/service/notifylog"
	"github.com/fatflowers/playgate/internal/app/service/reconcile"
	"github.com/fatflowers/playgate/internal/app/service/subscription"
	"github.com/fatflowers/playgate/internal/platform/db"
	"github.com/fatflowers/playgate/internal/platform/googleplay"
	"github.com/fatflowers/playgate/internal/platform/identity"
	"github.com/fatflowers/playgate/pkg/config"
	"github.com/fatflowers/playgate/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	identity.Module,
	googleplay.Module,
	server.Module,
	subscription.Module,
	notifylog.Module,
	reconcile.Module,
)
