package main

import (
	"fmt"
	"os"
	"strings"
)

type appConfig struct {
	Env         string
	Addr        string
	DatasetPath string
	EsAddresses []string
	EsUser      string
	EsPassword  string
	PgConnStr   string
}

func loadConfig() (appConfig, error) {
	cfg := appConfig{
		Env:         getEnv("APP_ENV", "local"),
		Addr:        getEnv("API_ADDR", ":8080"),
		DatasetPath: getEnv("DATASET_PATH", "configs/datasets/example.yaml"),
		EsUser:      os.Getenv("ES_USERNAME"),
		EsPassword:  os.Getenv("ES_PASSWORD"),
		PgConnStr:   os.Getenv("PG_CONN_STR"),
	}

	addresses := getEnv("ES_ADDRESSES", "http://localhost:9200")
	for _, a := range strings.Split(addresses, ",") {
		if a = strings.TrimSpace(a); a != "" {
			cfg.EsAddresses = append(cfg.EsAddresses, a)
		}
	}
	if len(cfg.EsAddresses) == 0 {
		return cfg, fmt.Errorf("ES_ADDRESSES must name at least one address")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
