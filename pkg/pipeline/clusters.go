package pipeline

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/zwmuam/Genomic-analyses-of-Chelidonium-majus/internal/util"
	"github.com/zwmuam/Genomic-analyses-of-Chelidonium-majus/logger"
	"github.com/zwmuam/Genomic-analyses-of-Chelidonium-majus/pkg/cluster"
	"github.com/zwmuam/Genomic-analyses-of-Chelidonium-majus/pkg/fasta"
	"go.uber.org/zap"
)

var QueryExtensions = []string{".fa", ".faa", ".fasta"}

// Inputs and outputs of the cluster extraction.
type ClusterConfig struct {
	TreeDir     string // e.g. OrthoFinder_Results/Resolved_Gene_Trees
	SequenceDir string // e.g. OrthoFinder_Results/Orthogroup_Sequences
	QueryDir    string // gene lists, one FASTA per family of interest
	OutputDir   string

	Transform cluster.Transform
	Progress  io.Writer
}

// RunClusters copies, for every gene list in QueryDir, the matching trees and
// sequences into OutputDir/<gene list name>. Returns the copied files per list.
func RunClusters(ctx context.Context, cfg ClusterConfig) (map[string][]string, error) {

	if cfg.OutputDir == "" {
		return nil, fmt.Errorf("no output directory")
	}
	for _, dir := range []string{cfg.TreeDir, cfg.SequenceDir, cfg.QueryDir} {
		if !util.DirExists(dir) {
			return nil, fmt.Errorf("directory %q does not exist", dir)
		}
	}

	queries, err := util.ListFiles(cfg.QueryDir, QueryExtensions...)
	if err != nil {
		return nil, err
	}
	if len(queries) == 0 {
		logger.Warn("No gene list found", zap.String("dir", cfg.QueryDir))
	}

	matcher := &cluster.Matcher{
		TreeDir:     cfg.TreeDir,
		SequenceDir: cfg.SequenceDir,
		Transform:   cfg.Transform,
		Progress:    cfg.Progress,
	}

	copied := make(map[string][]string, len(queries))
	for _, query := range queries {
		name := util.Stem(query)

		genes, err := fasta.ReadIDsFile(query)
		if err != nil {
			return nil, err
		}
		logger.Info("Gene list", zap.String("name", name), zap.Int("genes", len(genes)))

		res, err := matcher.Match(ctx, genes)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		files := res.Files()
		dest := filepath.Join(cfg.OutputDir, name)
		if err := cluster.CopyFiles(files, dest, cfg.Progress); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		logger.Info("Copied", zap.String("name", name), zap.Int("files", len(files)), zap.String("dest", dest))

		copied[name] = files
	}

	return copied, nil
}
