package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/zwmuam/Genomic-analyses-of-Chelidonium-majus/pkg/cluster"
	"github.com/zwmuam/Genomic-analyses-of-Chelidonium-majus/pkg/config"
	"github.com/zwmuam/Genomic-analyses-of-Chelidonium-majus/pkg/pipeline"
	"github.com/zwmuam/Genomic-analyses-of-Chelidonium-majus/pkg/render"
)

// The palette tuned for the MLP domain dataset.
const defaultColors = "1=green,2=blue,3=yellow,4=purple,7=red"

var (
	logLevel string
	runID    string
)

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd()
	return root.ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ogtools",
		Short:         "Domain counts and gene tree extraction for OrthoFinder results",
		Version:       VERSION,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			runID, err = startLogger(logLevel)
			return err
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", config.String(config.LogLevel, "info"), "debug, info, warn or error")

	root.AddCommand(domainsCmd(), clustersCmd())
	return root
}

func domainsCmd() *cobra.Command {
	var (
		cfg    pipeline.DomainConfig
		colors string
	)

	cmd := &cobra.Command{
		Use:   "domains",
		Short: "Count protein domains per organism and per orthogroup",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg.Colors, err = render.ParseColorMap(colors)
			if err != nil {
				return err
			}
			cfg.RunID = runID

			_, err = pipeline.RunDomains(cmd.Context(), cfg)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.GFFPath, "gff", config.String(config.GFF, "./Domains_from_MLP_ogs.gff"), "InterProScan GFF of orthogroup proteins (.gz accepted)")
	f.StringVar(&cfg.WorkingDir, "working-dir", config.String(config.WorkingDir, "./OrthoFinder_Results/WorkingDirectory"), "OrthoFinder WorkingDirectory")
	f.StringVar(&cfg.Filters.DomainID, "domain-id", config.String(config.DomainID, ""), "keep only this InterPro id (e.g. IPR000916)")
	f.StringVar(&cfg.Filters.Database, "database", config.String(config.Database, ""), "keep only domains from this database (e.g. PFAM)")
	f.StringVarP(&cfg.OutputDir, "out", "o", config.String(config.DomainOut, "./figures_&_tables"), "output directory")
	f.StringVar(&colors, "colors", config.String(config.Colors, defaultColors), "chart colour per domain count, <count>=<colour>,...")
	f.BoolVar(&cfg.CSV, "csv", config.Bool(config.CSV, false), "also write domain_table.csv")
	f.StringVar(&cfg.SQLitePath, "sqlite", config.String(config.SQLite, ""), "export tables to this sqlite file")
	f.BoolVar(&cfg.AllowDuplicateIDs, "allow-duplicate-ids", config.Bool(config.AllowDuplicateIDs, false), "keep the last organism of a repeated sequence id")

	return cmd
}

func clustersCmd() *cobra.Command {
	var (
		cfg    pipeline.ClusterConfig
		prefix string
	)

	cmd := &cobra.Command{
		Use:   "clusters",
		Short: "Copy gene trees and orthogroup sequences of genes of interest",
		RunE: func(cmd *cobra.Command, args []string) error {
			if prefix != "" {
				cfg.Transform = cluster.PrefixTransform(prefix)
			}
			cfg.Progress = os.Stderr

			_, err := pipeline.RunClusters(cmd.Context(), cfg)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.TreeDir, "trees", config.String(config.TreeDir, "./OrthoFinder_Results/Resolved_Gene_Trees"), "directory of gene trees (.nwk, .txt)")
	f.StringVar(&cfg.SequenceDir, "sequences", config.String(config.SequenceDir, "./OrthoFinder_Results/Orthogroup_Sequences"), "directory of orthogroup sequences (.fa)")
	f.StringVar(&cfg.QueryDir, "queries", config.String(config.QueryDir, ""), "directory of gene lists (.fa, .faa, .fasta)")
	f.StringVarP(&cfg.OutputDir, "out", "o", config.String(config.ClusterOut, "./Orthogroups_of_interest"), "output directory")
	f.StringVar(&prefix, "singleton-prefix", config.String(config.SingletonPrefix, ""), "prefix added to orthogroup sequence ids before matching singletons (e.g. Chelidonium_majus_)")

	return cmd
}
