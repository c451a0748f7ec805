// Readers for the ID files OrthoFinder leaves in its WorkingDirectory.

package orthofinder

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/zwmuam/Genomic-analyses-of-Chelidonium-majus/internal/util"
	"github.com/zwmuam/Genomic-analyses-of-Chelidonium-majus/logger"
	"github.com/zwmuam/Genomic-analyses-of-Chelidonium-majus/pkg/model"
	"go.uber.org/zap"
)

const (
	SpeciesIDsFile  = "SpeciesIDs.txt"
	SequenceIDsFile = "SequenceIDs.txt"
)

type Options struct {
	// Keep the last organism seen for a repeated sequence id instead of failing.
	AllowDuplicates bool
}

// IdentityMap maps sequence id -> organism name. Read only once built.
type IdentityMap struct {
	organisms map[string]string
}

// Lookup returns the organism a sequence belongs to.
func (m *IdentityMap) Lookup(sequenceID string) (string, error) {
	name, ok := m.organisms[sequenceID]
	if !ok {
		return "", &model.LookupError{Kind: "sequence id", Key: sequenceID}
	}
	return name, nil
}

func (m *IdentityMap) Len() int {
	return len(m.organisms)
}

// Records lists the map content, in no particular order.
func (m *IdentityMap) Records() []model.SequenceIdentityRecord {
	out := make([]model.SequenceIdentityRecord, 0, len(m.organisms))
	for id, name := range m.organisms {
		out = append(out, model.SequenceIdentityRecord{SequenceID: id, OrganismName: name})
	}
	return out
}

// LoadWorkingDir reads SpeciesIDs.txt and SequenceIDs.txt from an OrthoFinder WorkingDirectory.
func LoadWorkingDir(dir string, opts Options) (*IdentityMap, error) {
	speciesPath := filepath.Join(dir, SpeciesIDsFile)
	sequencePath := filepath.Join(dir, SequenceIDsFile)

	for _, p := range []string{speciesPath, sequencePath} {
		if !util.FileExists(p) {
			return nil, &model.MissingFileError{Path: p}
		}
	}

	species, err := util.OpenInput(speciesPath)
	if err != nil {
		return nil, err
	}
	defer species.Close()

	sequences, err := util.OpenInput(sequencePath)
	if err != nil {
		return nil, err
	}
	defer sequences.Close()

	m, err := BuildIdentityMap(species, sequences, opts)
	if err != nil {
		return nil, fmt.Errorf("identity map from %s: %w", dir, err)
	}

	logger.Info("Identity map loaded", zap.String("dir", dir), zap.Int("sequences", m.Len()))
	return m, nil
}

// BuildIdentityMap joins the species index ("0: Arabidopsis thaliana.faa")
// with the sequence index ("0_0: NP_001030613.1 hypothetical protein ...").
func BuildIdentityMap(speciesIDs, sequenceIDs io.Reader, opts Options) (*IdentityMap, error) {

	species, err := readSpeciesIDs(speciesIDs)
	if err != nil {
		return nil, err
	}

	organisms := make(map[string]string)
	scanner := bufio.NewScanner(sequenceIDs)
	line_no := 0

	for scanner.Scan() {
		line_no++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		seqN, rest, ok := strings.Cut(line, ": ")
		fields := strings.Fields(rest)
		if !ok || len(fields) == 0 {
			return nil, &model.ParseError{File: SequenceIDsFile, Line: line_no, Msg: "expected \"<species>_<n>: <id> ...\""}
		}
		speciesN, _, _ := strings.Cut(seqN, "_")
		seqID := fields[0]

		name, ok := species[speciesN]
		if !ok {
			return nil, &model.LookupError{Kind: "species index", Key: speciesN}
		}

		if prev, dup := organisms[seqID]; dup {
			if !opts.AllowDuplicates {
				return nil, fmt.Errorf("%w: %s (%s, %s)", model.ErrDuplicateID, seqID, prev, name)
			}
			logger.Warn("Duplicate sequence id, keeping last", zap.String("id", seqID), zap.String("organism", name))
		}
		organisms[seqID] = name
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return &IdentityMap{organisms: organisms}, nil
}

func readSpeciesIDs(r io.Reader) (map[string]string, error) {
	species := make(map[string]string)
	scanner := bufio.NewScanner(r)
	line_no := 0

	for scanner.Scan() {
		line_no++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		number, file, ok := strings.Cut(line, ": ")
		if !ok || file == "" {
			return nil, &model.ParseError{File: SpeciesIDsFile, Line: line_no, Msg: "expected \"<n>: <name>.<ext>\""}
		}
		species[number] = strings.TrimSuffix(file, filepath.Ext(file))
	}

	return species, scanner.Err()
}
