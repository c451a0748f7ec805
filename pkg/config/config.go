package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/zwmuam/Genomic-analyses-of-Chelidonium-majus/logger"
)

// Prefix of every environment variable read by the tools.
const EnvPrefix = "OGTOOLS_"

// Environment variable names (without prefix)
const (
	LogLevel = "LOG_LEVEL"

	GFF               = "GFF"
	WorkingDir        = "WORKING_DIR"
	DomainID          = "DOMAIN_ID"
	Database          = "DATABASE"
	DomainOut         = "DOMAIN_OUT"
	Colors            = "COLORS"
	CSV               = "CSV"
	SQLite            = "SQLITE"
	AllowDuplicateIDs = "ALLOW_DUPLICATE_IDS"

	TreeDir         = "TREE_DIR"
	SequenceDir     = "SEQUENCE_DIR"
	QueryDir        = "QUERY_DIR"
	ClusterOut      = "CLUSTER_OUT"
	SingletonPrefix = "SINGLETON_PREFIX"
)

// LoadDotenv reads .env files (default ./.env) into the environment.
// Variables already set are not overridden.
func LoadDotenv(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		logger.Debug("No .env found, using local environment")
	}
}

// String returns OGTOOLS_<key> or def when unset.
func String(key, def string) string {
	if v, ok := os.LookupEnv(EnvPrefix + key); ok && v != "" {
		return v
	}
	return def
}

// Bool returns OGTOOLS_<key> parsed as a bool, def when unset or invalid.
func Bool(key string, def bool) bool {
	v, ok := os.LookupEnv(EnvPrefix + key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logger.Warn("Invalid boolean in environment, using default: " + EnvPrefix + key)
		return def
	}
	return b
}
