// Selection of OrthoFinder gene trees and orthogroup sequences for a gene list.

package cluster

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/evolbioinfo/gotree/io/newick"
	"github.com/schollz/progressbar/v3"
	"github.com/zwmuam/Genomic-analyses-of-Chelidonium-majus/internal/util"
	"github.com/zwmuam/Genomic-analyses-of-Chelidonium-majus/logger"
	"github.com/zwmuam/Genomic-analyses-of-Chelidonium-majus/pkg/fasta"
	"github.com/zwmuam/Genomic-analyses-of-Chelidonium-majus/pkg/model"
	"go.uber.org/zap"
)

var (
	TreeExtensions     = []string{".nwk", ".txt"}
	SequenceExtensions = []string{".fa"}
)

// Transform rewrites an id read from an orthogroup sequence file before it is
// compared with the gene list.
type Transform func(id string) string

func Identity(id string) string { return id }

// PrefixTransform prepends a fixed prefix, e.g. "Chelidonium_majus_".
func PrefixTransform(prefix string) Transform {
	return func(id string) string { return prefix + id }
}

type Matcher struct {
	TreeDir     string
	SequenceDir string

	// Applied to ids of the orthogroup sequence files in the singleton scan.
	Transform Transform
	// Progress bars go here, nil means no bar.
	Progress io.Writer
	// Reads ids of an orthogroup sequence file, fasta.ReadIDsFile when nil.
	ReadIDs func(path string) (model.GeneSet, error)
}

// Match finds the trees whose leaves contain genes of the set, their
// orthogroup sequence files, and the sequence files holding the genes that
// are in no tree (singletons).
func (m *Matcher) Match(ctx context.Context, genes model.GeneSet) (*model.MatchResult, error) {

	res := &model.MatchResult{
		Found:   model.NewGeneSet(),
		Missing: model.NewGeneSet(),
	}

	if err := m.scanTrees(ctx, genes, res); err != nil {
		return nil, err
	}

	for id := range genes {
		if !res.Found.Has(id) {
			res.Missing.Add(id)
		}
	}

	if len(res.Trees) == 0 {
		return nil, &model.UnresolvedError{
			Msg: fmt.Sprintf("no trees found in %s containing any of the provided genes", m.TreeDir),
		}
	}

	logger.Info("Trees found",
		zap.Int("trees", len(res.Trees)),
		zap.Int("genes", len(res.Found)),
		zap.Strings("missing (probably singletons)", res.Missing.Sorted()))

	// Sequence files of the matched orthogroups
	for _, tree := range res.Trees {
		seqFile, err := m.sequenceFile(Orthogroup(tree))
		if err != nil {
			return nil, err
		}
		res.Sequences = append(res.Sequences, seqFile)
	}

	if len(res.Missing) > 0 {
		if err := m.scanSingletons(ctx, res); err != nil {
			return nil, err
		}
	}

	if len(res.Missing) > 0 {
		logger.Error("Unresolved genes",
			zap.Int("found", len(res.Found)),
			zap.Int("missing", len(res.Missing)))
		return nil, &model.UnresolvedError{Msg: "missing sequences for", IDs: res.Missing.Sorted()}
	}

	return res, nil
}

// Orthogroup is the tree file name before its first "_" ("OG0000012_tree.txt" -> "OG0000012").
func Orthogroup(treeFile string) string {
	og, _, _ := strings.Cut(util.Stem(treeFile), "_")
	return og
}

// sequenceFile is <og>.fa in SequenceDir, or its gzipped form.
func (m *Matcher) sequenceFile(og string) (string, error) {
	seqFile := filepath.Join(m.SequenceDir, og+SequenceExtensions[0])
	for _, f := range []string{seqFile, seqFile + ".gz"} {
		if util.FileExists(f) {
			return f, nil
		}
	}
	return "", &model.MissingFileError{Path: seqFile}
}

func (m *Matcher) scanTrees(ctx context.Context, genes model.GeneSet, res *model.MatchResult) error {
	treeFiles, err := util.ListFiles(m.TreeDir, TreeExtensions...)
	if err != nil {
		return fmt.Errorf("list trees: %w", err)
	}

	bar := m.newBar(len(treeFiles), "searching")
	defer bar.Finish()

	for _, treeFile := range treeFiles {
		if err := ctx.Err(); err != nil {
			return err
		}

		leaves, err := ReadLeaves(treeFile)
		if err != nil {
			return err
		}

		hit := false
		for _, leaf := range leaves {
			if genes.Has(leaf) {
				res.Found.Add(leaf)
				hit = true
			}
		}
		if hit {
			res.Trees = append(res.Trees, treeFile)
			bar.Describe(fmt.Sprintf("%d found", len(res.Found)))
		}
		bar.Add(1)
	}

	return nil
}

func (m *Matcher) scanSingletons(ctx context.Context, res *model.MatchResult) error {
	seqFiles, err := util.ListFiles(m.SequenceDir, SequenceExtensions...)
	if err != nil {
		return fmt.Errorf("list sequences: %w", err)
	}

	transform := m.Transform
	if transform == nil {
		transform = Identity
	}
	readIDs := m.ReadIDs
	if readIDs == nil {
		readIDs = fasta.ReadIDsFile
	}

	// Orthogroups already selected from the trees
	selected := make(map[string]struct{}, len(res.Sequences))
	for _, f := range res.Sequences {
		selected[f] = struct{}{}
	}

	bar := m.newBar(len(seqFiles), "searching")
	defer bar.Finish()

	for _, seqFile := range seqFiles {
		if err := ctx.Err(); err != nil {
			return err
		}

		ids, err := readIDs(seqFile)
		if err != nil {
			return err
		}

		for id := range ids {
			id = transform(id)
			if !res.Missing.Has(id) {
				continue
			}
			delete(res.Missing, id)
			res.Found.Add(id)
			if _, ok := selected[seqFile]; !ok {
				selected[seqFile] = struct{}{}
				res.Sequences = append(res.Sequences, seqFile)
			}
		}

		bar.Describe(fmt.Sprintf("%d remain", len(res.Missing)))
		bar.Add(1)

		if len(res.Missing) == 0 {
			logger.Info("All missing genes found among singletons")
			break
		}
	}

	return nil
}

func (m *Matcher) newBar(max int, description string) *progressbar.ProgressBar {
	w := m.Progress
	if w == nil {
		w = io.Discard
	}
	return progressbar.NewOptions(max,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
	)
}

// ReadLeaves returns the tip names of a (possibly gzipped) newick tree file.
// Quotes around a name are removed.
func ReadLeaves(path string) ([]string, error) {
	f, err := util.OpenInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := newick.NewParser(f).Parse()
	if err != nil {
		return nil, fmt.Errorf("parse tree %s: %w", path, err)
	}

	tips := t.Tips()
	names := make([]string, 0, len(tips))
	for _, tip := range tips {
		names = append(names, unquote(tip.Name()))
	}
	return names, nil
}

func unquote(name string) string {
	if len(name) >= 2 && name[0] == '\'' && name[len(name)-1] == '\'' {
		return strings.ReplaceAll(name[1:len(name)-1], "''", "'")
	}
	return name
}
