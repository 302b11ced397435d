// Package store selects a repository backend from a db-url.
//
// Two schemes are supported: "file:" loads a spokeops.yml into an
// in-memory store (the default, stateless mode), and "sqlite:" opens a
// persistent SQLite database via GORM.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/spokeops/spokeops/adapters/store/inmem"
	"github.com/spokeops/spokeops/adapters/store/rdb"
	"github.com/spokeops/spokeops/config/spokeopscfg"
	"github.com/spokeops/spokeops/domain"
)

// DefaultDBURL is used when neither flag, environment, nor config set one.
const DefaultDBURL = "file:spokeops.yml"

// New builds the repository set for dbURL.
//
// For "file:" URLs the configuration seeds an in-memory store; cfg takes
// precedence over the URL's path so an already loaded config is not read
// twice. For "sqlite:" URLs the database is opened and migrated, and cfg
// seeds it only when the database holds no providers yet.
func New(ctx context.Context, dbURL string, cfg *spokeopscfg.Root) (*domain.Repositories, error) {
	if dbURL == "" {
		dbURL = DefaultDBURL
	}

	switch {
	case strings.HasPrefix(dbURL, "file:"):
		if cfg == nil {
			path := strings.TrimPrefix(dbURL, "file:")
			if path == "" {
				return nil, fmt.Errorf("file path is required for file: URL")
			}
			loaded, err := spokeopscfg.Load(path)
			if err != nil {
				return nil, fmt.Errorf("load config from %s: %w", path, err)
			}
			cfg = loaded
		}
		st := inmem.NewStore()
		if err := st.LoadFromConfig(ctx, cfg); err != nil {
			return nil, fmt.Errorf("load config into store: %w", err)
		}
		return &domain.Repositories{
			Provider: st.ProviderRepository,
			Hub:      st.HubRepository,
			Spoke:    st.SpokeRepository,
			App:      st.AppRepository,
		}, nil

	case strings.HasPrefix(dbURL, "sqlite:") || strings.HasPrefix(dbURL, "sqlite3:"):
		db, err := rdb.OpenFromURL(dbURL)
		if err != nil {
			return nil, err
		}
		if err := rdb.AutoMigrate(db); err != nil {
			return nil, err
		}
		repos := &domain.Repositories{
			Provider: rdb.NewProviderRepository(db),
			Hub:      rdb.NewHubRepository(db),
			Spoke:    rdb.NewSpokeRepository(db),
			App:      rdb.NewAppRepository(db),
		}
		if cfg != nil {
			if err := seedIfEmpty(ctx, repos, cfg); err != nil {
				return nil, fmt.Errorf("seed database: %w", err)
			}
		}
		return repos, nil

	default:
		return nil, fmt.Errorf("unsupported db scheme: %s", dbURL)
	}
}

// seedIfEmpty loads the configuration into a fresh database. A database
// that already holds providers is left untouched so persisted state, such
// as spoke kubeconfigs, survives restarts.
func seedIfEmpty(ctx context.Context, repos *domain.Repositories, cfg *spokeopscfg.Root) error {
	providers, err := repos.Provider.List(ctx)
	if err != nil {
		return err
	}
	if len(providers) > 0 {
		return nil
	}

	provider, hub, spokes, app, err := cfg.ToModels()
	if err != nil {
		return err
	}
	if err := repos.Provider.Create(ctx, provider); err != nil {
		return err
	}
	if err := repos.Hub.Create(ctx, hub); err != nil {
		return err
	}
	for _, spoke := range spokes {
		if err := repos.Spoke.Create(ctx, spoke); err != nil {
			return err
		}
	}
	return repos.App.Create(ctx, app)
}
