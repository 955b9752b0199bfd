package main

import (
	"github.com/mpesadash/smsgateway/pkg/fetcher"
)

type Config struct {
	ListenAddr  string `env:"LISTEN_ADDR" envDefault:":8080"`
	APIKey      string `env:"API_KEY"`
	PostgresDSN string `env:"POSTGRES_CONNECTION_STRING"`

	Gateway fetcher.Config
}

type webhookResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
	Parsed    bool   `json:"parsed"`
}

type fetchResponse struct {
	Fetched    int      `json:"fetched"`
	Stored     int      `json:"stored"`
	Duplicates int      `json:"duplicates"`
	Parsed     int      `json:"parsed"`
	Errors     []string `json:"errors,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}
