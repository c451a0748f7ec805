package model

import (
	"fmt"
	"sort"

	"github.com/skarademir/naturalsort"
)

// Group assigned to proteins that OrthoFinder left out of every orthogroup.
const Unclustered = "unclustered"

// Placeholders for attributes that are absent from a GFF line.
const (
	UnknownDomainID   = "unknown"
	UnknownDomainName = "-"
)

// Row of SequenceIDs.txt joined with SpeciesIDs.txt
type SequenceIdentityRecord struct {
	SequenceID   string `json:"sequence_id"`
	OrganismName string `json:"organism_name"`
}

// One domain hit on one protein.
type DomainRecord struct {
	ProteinID        string `json:"protein_ID" csv:"protein_ID"`
	DomainID         string `json:"domain_ID" csv:"domain_ID"`
	DomainName       string `json:"domain_name" csv:"domain_name"`
	DomainLength     int    `json:"domain_length" csv:"domain_length"`
	OrthologousGroup string `json:"orthologous_group" csv:"orthologous_group"`
	OrganismName     string `json:"organism" csv:"organism"`
}

// Category the domain counts are grouped by.
type Category int

const (
	CategoryOrganism Category = iota
	CategoryOrthologousGroup
)

func (c Category) String() string {
	switch c {
	case CategoryOrganism:
		return "organism"
	case CategoryOrthologousGroup:
		return "orthologous_group"
	default:
		return "unknown"
	}
}

func ParseCategory(name string) (Category, error) {
	switch name {
	case "organism":
		return CategoryOrganism, nil
	case "orthologous_group", "og":
		return CategoryOrthologousGroup, nil
	default:
		return 0, fmt.Errorf("unknown category %q", name)
	}
}

// Value of the category for one record.
func (c Category) Of(r *DomainRecord) string {
	if c == CategoryOrganism {
		return r.OrganismName
	}
	return r.OrthologousGroup
}

// Number of proteins in Value carrying NDomains domains.
type DomainCount struct {
	Value     string `json:"value"`
	NDomains  int    `json:"n_domains"`
	NProteins int    `json:"n_proteins"`
}

// GeneSet holds sequence identifiers, order irrelevant.
type GeneSet map[string]struct{}

func NewGeneSet(ids ...string) GeneSet {
	s := make(GeneSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s GeneSet) Add(id string) {
	s[id] = struct{}{}
}

func (s GeneSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the members in natural order (for logs and error messages).
func (s GeneSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Sort(naturalsort.NaturalSort(out))
	return out
}

// Result of resolving a gene list against trees and orthogroup sequences.
type MatchResult struct {
	Trees     []string
	Sequences []string
	Found     GeneSet
	Missing   GeneSet
}

// Files is the union of matched tree and sequence files.
func (m *MatchResult) Files() []string {
	seen := make(map[string]struct{}, len(m.Trees)+len(m.Sequences))
	files := make([]string, 0, len(m.Trees)+len(m.Sequences))
	for _, group := range [][]string{m.Trees, m.Sequences} {
		for _, f := range group {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			files = append(files, f)
		}
	}
	return files
}
