package main

import (
	"net/http"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/gorilla/mux"
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

func main() {
	_ = godotenv.Load()

	var cfg Config
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

	log.Info().Msg("[Db] start migrations")

	if err = m.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate")
	}

	store := repo.NewStore(db)
	ingestSvc := ingest.NewService(store, parser.NewParser())
	inboxFetcher := fetcher.NewFetcher(cfg.Gateway, req.DefaultClient())

	r := mux.NewRouter()

	handle := NewHandler(ingestSvc, inboxFetcher, store, cfg.APIKey, log.Logger)
	handle.Register(r)

	listenAddr := cfg.ListenAddr
	if val, ok := os.LookupEnv("FUNCTIONS_CUSTOMHANDLER_PORT"); ok {
		listenAddr = ":" + val
	}

	srv := &http.Server{
		Handler:      r,
		Addr:         listenAddr,
		WriteTimeout: 60 * time.Second,
		ReadTimeout:  60 * time.Second,
	}

	log.Info().Str("addr", listenAddr).Msg("listening")

	panic(srv.ListenAndServe())
}
