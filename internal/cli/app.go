package cli

import (
	"context"
	"fmt"

	"github.com/SscSPs/ledger_integrity/internal/adapters/keys"
	"github.com/SscSPs/ledger_integrity/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_integrity/internal/core/ports/services"
	"github.com/SscSPs/ledger_integrity/internal/core/services"
	"github.com/SscSPs/ledger_integrity/internal/platform/config"
	"github.com/SscSPs/ledger_integrity/internal/repositories/database/pgsql"
	"github.com/SscSPs/ledger_integrity/pkg/database"
)

// app is what a database-backed command works with.
type app struct {
	cfg      *config.Config
	services *portssvc.ServiceContainer
	close    func()
}

// openApp loads configuration and wires the services against PostgreSQL.
// A missing signing key is tolerated; sealing then reports a configuration error.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return nil, err
	}

	repos, err := pgsql.NewRepositoryProvider(pool, cfg.ChartCacheSize)
	if err != nil {
		database.ClosePgxPool(pool)
		return nil, err
	}

	var signer portssvc.Signer
	if cfg.SigningKeyPath != "" {
		s, err := keys.LoadSignerFromFile(cfg.SigningKeyPath, cfg.SigningKeyPassphrase)
		if err != nil {
			database.ClosePgxPool(pool)
			return nil, err
		}
		signer = s
	}

	return &app{
		cfg:      cfg,
		services: services.NewServiceContainer(cfg, repos, signer),
		close:    func() { database.ClosePgxPool(pool) },
	}, nil
}

func cliActor() domain.Actor {
	return domain.Actor{ID: actorID, UserAgent: "ledgerctl/" + rootCmd.Version}
}
