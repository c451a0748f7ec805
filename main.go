package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/zwmuam/Genomic-analyses-of-Chelidonium-majus/logger"
	"github.com/zwmuam/Genomic-analyses-of-Chelidonium-majus/pkg/config"
	"go.uber.org/zap"
)

const VERSION = "0.1.0"

func main() {

	// Try load env before flags take their defaults from it
	config.LoadDotenv()

	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		logger.Error("Failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	logger.Sync() // Make sure that the buffered is flushed.
}

// Establish logger, every run gets its own id
func startLogger(level string) (string, error) {
	lvl, err := logger.ParseLevel(level)
	if err != nil {
		return "", err
	}
	if err := logger.InitLogger(lvl); err != nil {
		return "", err
	}

	runID := uuid.New().String()
	logger.With(zap.String("run_id", runID))
	logger.Info("Start:", zap.String("Version", VERSION))
	return runID, nil
}
