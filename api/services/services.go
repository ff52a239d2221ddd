package services

import (
	"github.com/firewatch-geo/firewatch-services/db"
	"github.com/firewatch-geo/firewatch-services/internal/appconfig"
	"github.com/firewatch-geo/firewatch-services/internal/authn"
	"github.com/firewatch-geo/firewatch-services/internal/events"
)

// Service contains all shared dependencies for handlers.
type Service struct {
	Config    *appconfig.Config
	DB        *db.GeoportalDB
	Codec     *authn.TokenCodec
	Publisher events.Notifier
}
