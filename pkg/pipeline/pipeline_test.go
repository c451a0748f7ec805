package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zwmuam/Genomic-analyses-of-Chelidonium-majus/pkg/cluster"
	"github.com/zwmuam/Genomic-analyses-of-Chelidonium-majus/pkg/db"
	"github.com/zwmuam/Genomic-analyses-of-Chelidonium-majus/pkg/domain"
	"github.com/zwmuam/Genomic-analyses-of-Chelidonium-majus/pkg/model"
	"github.com/zwmuam/Genomic-analyses-of-Chelidonium-majus/pkg/orthofinder"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func gff(rows ...[]string) string {
	lines := []string{"##gff-version 3"}
	for _, r := range rows {
		lines = append(lines, strings.Join(r, "\t"))
	}
	return strings.Join(lines, "\n") + "\n"
}

func TestRunDomains(t *testing.T) {
	root := t.TempDir()
	wd := filepath.Join(root, "WorkingDirectory")
	write(t, filepath.Join(wd, orthofinder.SpeciesIDsFile), "0: Chelidonium majus.faa\n1: Papaver somniferum.faa\n")
	write(t, filepath.Join(wd, orthofinder.SequenceIDsFile), "0_0: cm1 x\n0_1: cm2 y\n1_0: ps1 z\n")

	idx := `InterPro IdX=<a href="x">IPR000916</a>`
	write(t, filepath.Join(root, "domains.gff"), gff(
		[]string{"cm1|OG0000001", "Geneious", "misc_feature", "1", "100", ".", "+", ".", "Database=PFAM;InterPro Name=Bet v1;" + idx},
		[]string{"cm1|OG0000001", "Geneious", "misc_feature", "120", "200", ".", "+", ".", "Database=PFAM;InterPro Name=Bet v1;" + idx},
		[]string{"cm1|OG0000001", "Geneious", "misc_feature", "120", "200", ".", "+", ".", "Database=SMART;InterPro Name=Bet v1;" + idx},
		[]string{"ps1|OG0000001", "Geneious", "misc_feature", "1", "90", ".", "+", ".", "Database=PFAM;InterPro Name=Bet v1;" + idx},
		[]string{"cm2", "Geneious", "misc_feature", "1", "90", ".", "+", ".", "Database=PFAM;InterPro Name=Bet v1;" + idx},
	))

	out := filepath.Join(root, "figures_&_tables")
	sqlitePath := filepath.Join(root, "domains.db")
	cfg := DomainConfig{
		GFFPath:    filepath.Join(root, "domains.gff"),
		WorkingDir: wd,
		Filters:    domain.Filters{DomainID: "IPR000916", Database: "PFAM"},
		OutputDir:  out,
		SQLitePath: sqlitePath,
		RunID:      uuid.New().String(),
	}

	report, err := RunDomains(context.Background(), cfg)
	require.NoError(t, err)
	assert.Len(t, report.Records, 4)

	assert.Equal(t, []model.DomainCount{
		{Value: "OG0000001", NDomains: 1, NProteins: 1},
		{Value: "OG0000001", NDomains: 2, NProteins: 1},
		{Value: "unclustered", NDomains: 1, NProteins: 1},
	}, report.Distributions[model.CategoryOrthologousGroup])

	for _, name := range []string{
		"domain_table.xlsx",
		"orthologous_group_domain_count_summary.xlsx",
		"orthologous_group_domain_stacked_bar_chart.pdf",
		"organism_domain_count_summary.xlsx",
		"organism_domain_stacked_bar_chart.pdf",
	} {
		assert.FileExists(t, filepath.Join(out, name))
	}

	ddb, err := db.Open(sqlitePath)
	require.NoError(t, err)
	defer ddb.Close()
	stored, err := ddb.Counts(context.Background(), cfg.RunID, model.CategoryOrganism)
	require.NoError(t, err)
	assert.Equal(t, report.Distributions[model.CategoryOrganism], stored)
}

func TestRunDomainsUnknownProtein(t *testing.T) {
	root := t.TempDir()
	wd := filepath.Join(root, "wd")
	write(t, filepath.Join(wd, orthofinder.SpeciesIDsFile), "0: Chelidonium majus.faa\n")
	write(t, filepath.Join(wd, orthofinder.SequenceIDsFile), "0_0: cm1 x\n")
	write(t, filepath.Join(root, "d.gff"), gff(
		[]string{"zz9|OG0000001", "Geneious", "misc_feature", "1", "100", ".", "+", ".", "Database=PFAM"},
	))

	_, err := RunDomains(context.Background(), DomainConfig{
		GFFPath:    filepath.Join(root, "d.gff"),
		WorkingDir: wd,
		OutputDir:  filepath.Join(root, "out"),
	})
	assert.ErrorIs(t, err, model.ErrLookup)
}

func TestRunClusters(t *testing.T) {
	root := t.TempDir()
	trees := filepath.Join(root, "Resolved_Gene_Trees")
	seqs := filepath.Join(root, "Orthogroup_Sequences")
	queries := filepath.Join(root, "families_of_interest")

	write(t, filepath.Join(trees, "OG0000001_tree.txt"), "(Chelidonium_majus_g1:0.1,Papaver_somniferum_p1:0.2);")
	write(t, filepath.Join(trees, "OG0000002_tree.txt"), "(Papaver_somniferum_p2:0.1,Papaver_somniferum_p3:0.2);")
	write(t, filepath.Join(seqs, "OG0000001.fa"), ">Chelidonium_majus_g1\nMK\n>Papaver_somniferum_p1\nMK\n")
	write(t, filepath.Join(seqs, "OG0000002.fa"), ">Papaver_somniferum_p2\nMK\n>Papaver_somniferum_p3\nMK\n")
	write(t, filepath.Join(seqs, "OG0000003.fa"), ">g9\nMK\n")
	write(t, filepath.Join(queries, "kinases.fasta"), ">Chelidonium_majus_g1 kinase\nMK\n>Chelidonium_majus_g9 lonely\nMK\n")

	out := filepath.Join(root, "Orthogroups_of_interest")
	copied, err := RunClusters(context.Background(), ClusterConfig{
		TreeDir:     trees,
		SequenceDir: seqs,
		QueryDir:    queries,
		OutputDir:   out,
		Transform:   cluster.PrefixTransform("Chelidonium_majus_"),
	})
	require.NoError(t, err)
	require.Len(t, copied["kinases"], 3)

	for _, name := range []string{"OG0000001_tree.txt", "OG0000001.fa", "OG0000003.fa"} {
		assert.FileExists(t, filepath.Join(out, "kinases", name))
	}
	assert.NoFileExists(t, filepath.Join(out, "kinases", "OG0000002.fa"))
}

func TestRunClustersMissingDir(t *testing.T) {
	_, err := RunClusters(context.Background(), ClusterConfig{TreeDir: filepath.Join(t.TempDir(), "nope")})
	assert.Error(t, err)
}

func TestRunDomainsNothingPassesFilters(t *testing.T) {
	root := t.TempDir()
	wd := filepath.Join(root, "wd")
	write(t, filepath.Join(wd, orthofinder.SpeciesIDsFile), "0: Chelidonium majus.faa\n")
	write(t, filepath.Join(wd, orthofinder.SequenceIDsFile), "0_0: cm1 x\n")
	write(t, filepath.Join(root, "d.gff"), gff(
		[]string{"cm1|OG0000001", "Geneious", "misc_feature", "1", "100", ".", "+", ".", "Database=PFAM;InterPro IdX=IPR000916"},
	))

	out := filepath.Join(root, "out")
	_, err := RunDomains(context.Background(), DomainConfig{
		GFFPath:    filepath.Join(root, "d.gff"),
		WorkingDir: wd,
		Filters:    domain.Filters{Database: "CDD"},
		OutputDir:  out,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNoDomains)
	assert.Contains(t, err.Error(), "CDD")
	assert.NoFileExists(t, filepath.Join(out, "organism_domain_stacked_bar_chart.pdf"))
}

func TestRunDomainsEmptyGFF(t *testing.T) {
	root := t.TempDir()
	wd := filepath.Join(root, "wd")
	write(t, filepath.Join(wd, orthofinder.SpeciesIDsFile), "0: Chelidonium majus.faa\n")
	write(t, filepath.Join(wd, orthofinder.SequenceIDsFile), "0_0: cm1 x\n")
	write(t, filepath.Join(root, "d.gff"), gff())

	_, err := RunDomains(context.Background(), DomainConfig{
		GFFPath:    filepath.Join(root, "d.gff"),
		WorkingDir: wd,
		OutputDir:  filepath.Join(root, "out"),
	})
	assert.ErrorIs(t, err, model.ErrNoDomains)
}

func TestRunClustersNoOutputDir(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"trees", "seqs", "queries"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o755))
	}

	_, err := RunClusters(context.Background(), ClusterConfig{
		TreeDir:     filepath.Join(root, "trees"),
		SequenceDir: filepath.Join(root, "seqs"),
		QueryDir:    filepath.Join(root, "queries"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no output directory")
}
