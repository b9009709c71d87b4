// Command provision seeds or rotates staff identities from a JSON file.
// It is the single administrative path for credential management; the API
// exposes no registration or reset endpoints.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/spec-kit/repair-tracker/internal/config"
	"github.com/spec-kit/repair-tracker/internal/observability"
	"github.com/spec-kit/repair-tracker/internal/persistence"
	"github.com/spec-kit/repair-tracker/internal/repository"
	"github.com/spec-kit/repair-tracker/internal/service"
)

type identityRecord struct {
	Username    string `json:"username"`
	Secret      string `json:"secret"`
	DisplayName string `json:"display_name"`
}

func main() {
	file := flag.String("file", "identities.json", "path to the identities JSON file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	pg := persistence.NewPostgres(cfg.Postgres, logger)
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	records, err := readIdentities(*file)
	if err != nil {
		logger.Fatal("failed to read identities file", zap.String("file", *file), zap.Error(err))
	}

	authService := service.NewAuthService(cfg.Auth, repository.NewIdentityRepository(pg))

	for _, record := range records {
		if record.Username == "" || record.Secret == "" || record.DisplayName == "" {
			logger.Fatal("identity record requires username, secret and display_name",
				zap.String("username", record.Username))
		}
		identity, err := authService.Provision(ctx, record.Username, record.Secret, record.DisplayName)
		if err != nil {
			logger.Fatal("failed to provision identity", zap.String("username", record.Username), zap.Error(err))
		}
		logger.Info("identity provisioned",
			zap.String("id", identity.ID),
			zap.String("username", identity.Username))
	}

	logger.Info("provisioning complete", zap.Int("count", len(records)))
}

func readIdentities(path string) ([]identityRecord, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []identityRecord
	if err := json.Unmarshal(content, &records); err != nil {
		return nil, err
	}
	return records, nil
}
