package rdb

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spokeops/spokeops/internal/naming"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newID generates a prefixed record ID. Compact IDs sort chronologically,
// which keeps default listings in creation order.
func newID(prefix string) string {
	id, err := naming.NewCompactID()
	if err != nil {
		id = uuid.NewString()
	}
	return prefix + "-" + id
}

// OpenFromURL opens a GORM DB based on a simple db-url string.
// Supported:
//   - sqlite:<dsn>   e.g., sqlite:./spokeops.db or sqlite::memory:
//   - sqlite3:<dsn>  alias of sqlite
func OpenFromURL(dbURL string) (*gorm.DB, error) {
	switch {
	case strings.HasPrefix(dbURL, "sqlite:"):
		dsn := strings.TrimPrefix(dbURL, "sqlite:")
		if dsn == "" {
			dsn = "./spokeops.db"
		}
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	case strings.HasPrefix(dbURL, "sqlite3:"):
		dsn := strings.TrimPrefix(dbURL, "sqlite3:")
		if dsn == "" {
			dsn = "./spokeops.db"
		}
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported db scheme: %s", dbURL)
	}
}

// AutoMigrate applies schema migrations for all RDB models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&ProviderRecord{}, &HubRecord{}, &SpokeRecord{}, &AppRecord{})
}
