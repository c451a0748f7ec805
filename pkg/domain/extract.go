// Parsing of the InterProScan (Geneious plugin) GFF exported for OrthoFinder orthogroups.

package domain

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/zwmuam/Genomic-analyses-of-Chelidonium-majus/internal/util"
	"github.com/zwmuam/Genomic-analyses-of-Chelidonium-majus/logger"
	"github.com/zwmuam/Genomic-analyses-of-Chelidonium-majus/pkg/model"
	"github.com/zwmuam/Genomic-analyses-of-Chelidonium-majus/pkg/render"
	"go.uber.org/zap"
)

// Attribute keys written by the Geneious InterProScan plugin.
const (
	AttrDatabase     = "Database"
	AttrInterProID   = "InterPro IdX"
	AttrInterProName = "InterPro Name"
)

const DomainTableFile = "domain_table"

// OrganismLookup resolves a protein id to its organism (see orthofinder.IdentityMap).
type OrganismLookup interface {
	Lookup(sequenceID string) (string, error)
}

// Empty fields are inactive. A record must pass every active filter.
type Filters struct {
	DomainID string
	Database string
}

func (f Filters) keep(domainID, database string) bool {
	if f.DomainID != "" && domainID != f.DomainID {
		return false
	}
	if f.Database != "" && database != f.Database {
		return false
	}
	return true
}

type ExtractOptions struct {
	Filters Filters
	// When set the full table is written to <OutputDir>/domain_table.xlsx
	OutputDir string
	// Also write domain_table.csv next to the spreadsheet
	CSV bool
}

// ExtractFile parses a (possibly gzipped) GFF file.
func ExtractFile(path string, organisms OrganismLookup, opts ExtractOptions) ([]*model.DomainRecord, error) {
	in, err := util.OpenInput(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	records, err := Extract(in, filepath.Base(path), organisms, opts.Filters)
	if err != nil {
		return nil, err
	}

	logger.Info("Domains parsed", zap.String("gff", path), zap.Int("records", len(records)))

	if opts.OutputDir != "" {
		xlsxPath := filepath.Join(opts.OutputDir, DomainTableFile+".xlsx")
		if err := render.WriteDomainTable(xlsxPath, records); err != nil {
			return nil, fmt.Errorf("failed to export domain table: %w", err)
		}
		logger.Info("Written to", zap.String("path", xlsxPath))

		if opts.CSV {
			csvPath := filepath.Join(opts.OutputDir, DomainTableFile+".csv")
			if err := render.WriteDomainCSV(csvPath, records); err != nil {
				return nil, fmt.Errorf("failed to export domain table: %w", err)
			}
			logger.Info("Written to", zap.String("path", csvPath))
		}
	}

	return records, nil
}

// Extract turns every non comment GFF line into a domain record.
// name is only used in error messages.
func Extract(r io.Reader, name string, organisms OrganismLookup, filters Filters) ([]*model.DomainRecord, error) {
	var records []*model.DomainRecord

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024) // Geneious attributes can be long
	line_no := 0

	for scanner.Scan() {
		line_no++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}

		rec, database, err := parseLine(line)
		if err != nil {
			return nil, &model.ParseError{File: name, Line: line_no, Msg: err.Error()}
		}

		if !filters.keep(rec.DomainID, database) {
			continue
		}

		if rec.DomainLength < 0 {
			logger.Warn("Negative domain length", zap.String("protein", rec.ProteinID), zap.Int("line", line_no), zap.Int("length", rec.DomainLength))
		}

		organism, err := organisms.Lookup(rec.ProteinID)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, line_no, err)
		}
		rec.OrganismName = organism

		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// parseLine reads the 9 GFF columns. The database is returned separately as
// it only serves filtering.
func parseLine(line string) (*model.DomainRecord, string, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != 9 {
		return nil, "", fmt.Errorf("expected 9 tab separated fields, got %d", len(fields))
	}

	start, err := strconv.Atoi(strings.TrimSpace(fields[3]))
	if err != nil {
		return nil, "", fmt.Errorf("bad start %q", fields[3])
	}
	end, err := strconv.Atoi(strings.TrimSpace(fields[4]))
	if err != nil {
		return nil, "", fmt.Errorf("bad end %q", fields[4])
	}

	attr := ParseAttributes(fields[8])
	database, ok := attr[AttrDatabase]
	if !ok {
		return nil, "", fmt.Errorf("missing %s attribute", AttrDatabase)
	}

	rec := &model.DomainRecord{
		DomainLength: end - start,
		DomainID:     model.UnknownDomainID,
		DomainName:   model.UnknownDomainName,
	}
	rec.ProteinID, rec.OrthologousGroup = SplitSequenceName(fields[0])

	if v, ok := attr[AttrInterProID]; ok {
		rec.DomainID = stripMarkup(v)
	}
	if v, ok := attr[AttrInterProName]; ok {
		rec.DomainName = v
	}

	return rec, database, nil
}

// SplitSequenceName splits "protein|orthogroup". Names without "|" are singletons.
func SplitSequenceName(name string) (protein, group string) {
	protein, group, ok := strings.Cut(name, "|")
	if !ok {
		return name, model.Unclustered
	}
	return protein, group
}

// ParseAttributes reads "key=value;key=value". Keys may contain spaces.
func ParseAttributes(s string) map[string]string {
	attr := make(map[string]string)
	for _, kv := range strings.Split(s, ";") {
		if strings.TrimSpace(kv) == "" {
			continue
		}
		k, v, _ := strings.Cut(kv, "=")
		attr[k] = v
	}
	return attr
}

// stripMarkup keeps the text of the first element, "<a href=..>IPR000916</a>" -> "IPR000916".
func stripMarkup(v string) string {
	_, after, ok := strings.Cut(v, ">")
	if !ok {
		return v
	}
	inner, _, _ := strings.Cut(after, "<")
	return inner
}
