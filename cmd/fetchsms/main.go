package main

import (
	"context"
	"flag"

	"github.com/caarlos0/env/v10"
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/imroc/req/v3"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mpesadash/smsgateway/pkg/database"
	"github.com/mpesadash/smsgateway/pkg/fetcher"
	"github.com/mpesadash/smsgateway/pkg/ingest"
	"github.com/mpesadash/smsgateway/pkg/parser"
	"github.com/mpesadash/smsgateway/pkg/repo"
)

type config struct {
	PostgresDSN string `env:"POSTGRES_CONNECTION_STRING"`

	Gateway fetcher.Config
}

// One-shot inbox sync for cron usage. Pulls gateway messages newer than the
// latest stored one and runs them through ingestion.
func main() {
	onlyUnread := flag.Bool("onlyunread", false, "fetch only unread messages")
	deviceID := flag.String("device", "", "gateway device identifier")
	full := flag.Bool("full", false, "ignore the stored high-water mark and fetch the whole inbox page")
	flag.Parse()

	_ = godotenv.Load()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to parse config")
	}

	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get postgres")
	}

	m := gormigrate.New(db, &gormigrate.Options{
		TableName:                 "gorm_migrations",
		IDColumnName:              "id",
		IDColumnSize:              255,
		UseTransaction:            false,
		ValidateUnknownMigrations: false,
	}, database.Migrations())

	if err = m.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate")
	}

	store := repo.NewStore(db)
	ingestSvc := ingest.NewService(store, parser.NewParser())
	inboxFetcher := fetcher.NewFetcher(cfg.Gateway, req.DefaultClient())

	ctx := log.Logger.WithContext(context.Background())

	request := fetcher.Request{
		OnlyUnread: *onlyUnread,
		DeviceID:   *deviceID,
	}

	if !*full {
		request.AfterUnix, err = store.LatestReceivedUnix(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to get latest received timestamp")
		}
	}

	payloads, err := inboxFetcher.Fetch(ctx, request)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to fetch inbox")
	}

	batch := ingestSvc.IngestBatch(ctx, payloads)

	log.Info().
		Int("fetched", len(payloads)).
		Int("stored", batch.Stored).
		Int("duplicates", batch.Duplicates).
		Int("parsed", batch.Parsed).
		Int("errors", len(batch.Errors)).
		Msg("inbox sync finished")

	if len(batch.Errors) > 0 {
		for _, ingestErr := range batch.Errors {
			log.Error().Err(ingestErr).Msg("ingest error")
		}

		log.Fatal().Msg("inbox sync finished with errors")
	}
}
