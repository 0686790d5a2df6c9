package api

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/gorm"

	"github.com/dentadmin/backend/internal/cache"
	"github.com/dentadmin/backend/internal/config"
)

// Handler carries the shared dependencies of every HTTP handler. DB serves
// the raw-SQL repo functions; Pool serves the user/login repo and the
// connection test.
type Handler struct {
	DB    *gorm.DB
	Pool  *pgxpool.Pool
	Cfg   *config.Config
	Cache *cache.TTL
}
