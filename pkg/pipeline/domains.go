package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/zwmuam/Genomic-analyses-of-Chelidonium-majus/logger"
	"github.com/zwmuam/Genomic-analyses-of-Chelidonium-majus/pkg/db"
	"github.com/zwmuam/Genomic-analyses-of-Chelidonium-majus/pkg/domain"
	"github.com/zwmuam/Genomic-analyses-of-Chelidonium-majus/pkg/model"
	"github.com/zwmuam/Genomic-analyses-of-Chelidonium-majus/pkg/orthofinder"
	"github.com/zwmuam/Genomic-analyses-of-Chelidonium-majus/pkg/render"
	"go.uber.org/zap"
)

// Inputs and outputs of the domain count analysis.
type DomainConfig struct {
	GFFPath    string // InterProScan GFF of the orthogroup proteins
	WorkingDir string // OrthoFinder WorkingDirectory with SpeciesIDs.txt and SequenceIDs.txt
	Filters    domain.Filters
	OutputDir  string

	Colors            render.ColorMap
	CSV               bool
	SQLitePath        string // optional export, empty to skip
	AllowDuplicateIDs bool
	RunID             string
}

// Analysed categories, in output order.
var DomainCategories = []model.Category{model.CategoryOrthologousGroup, model.CategoryOrganism}

type DomainReport struct {
	Records       []*model.DomainRecord
	Distributions map[model.Category][]model.DomainCount
}

func RunDomains(ctx context.Context, cfg DomainConfig) (*DomainReport, error) {

	if cfg.OutputDir == "" {
		return nil, fmt.Errorf("no output directory")
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, err
	}

	organisms, err := orthofinder.LoadWorkingDir(cfg.WorkingDir, orthofinder.Options{AllowDuplicates: cfg.AllowDuplicateIDs})
	if err != nil {
		return nil, err
	}

	records, err := domain.ExtractFile(cfg.GFFPath, organisms, domain.ExtractOptions{
		Filters:   cfg.Filters,
		OutputDir: cfg.OutputDir,
		CSV:       cfg.CSV,
	})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		logger.Warn("No domain passed the filters",
			zap.String("domain_id", cfg.Filters.DomainID),
			zap.String("database", cfg.Filters.Database))
		return nil, fmt.Errorf("%w (domain_id=%q, database=%q)", model.ErrNoDomains, cfg.Filters.DomainID, cfg.Filters.Database)
	}

	report := &DomainReport{
		Records:       records,
		Distributions: make(map[model.Category][]model.DomainCount),
	}

	for _, category := range DomainCategories {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := domain.Analyze(records, category, cfg.OutputDir, cfg.Colors)
		if err != nil {
			return nil, err
		}
		report.Distributions[category] = rows
	}

	if cfg.SQLitePath != "" {
		if err := exportSQLite(ctx, cfg, report); err != nil {
			return nil, fmt.Errorf("sqlite export: %w", err)
		}
	}

	return report, nil
}

func exportSQLite(ctx context.Context, cfg DomainConfig, report *DomainReport) error {
	ddb, err := db.Open(cfg.SQLitePath)
	if err != nil {
		return err
	}
	defer ddb.Close()

	if err := ddb.SaveRecords(ctx, cfg.RunID, report.Records); err != nil {
		return err
	}
	for _, category := range DomainCategories {
		if err := ddb.SaveCounts(ctx, cfg.RunID, category, report.Distributions[category]); err != nil {
			return err
		}
	}

	logger.Info("Written to", zap.String("path", cfg.SQLitePath), zap.String("run_id", cfg.RunID))
	return nil
}
