package domain

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/skarademir/naturalsort"
	"github.com/zwmuam/Genomic-analyses-of-Chelidonium-majus/logger"
	"github.com/zwmuam/Genomic-analyses-of-Chelidonium-majus/pkg/model"
	"github.com/zwmuam/Genomic-analyses-of-Chelidonium-majus/pkg/render"
	"go.uber.org/zap"
)

type proteinKey struct {
	protein string
	value   string
}

// CountDistribution counts domains per (protein, category value) and then the
// proteins reaching each domain count within a category value.
// Rows are sorted by value (natural order) then domain count.
func CountDistribution(records []*model.DomainRecord, category model.Category) []model.DomainCount {

	perProtein := make(map[proteinKey]int)
	for _, r := range records {
		perProtein[proteinKey{r.ProteinID, category.Of(r)}]++
	}

	type bucket struct {
		value    string
		nDomains int
	}
	buckets := make(map[bucket]int)
	for k, n := range perProtein {
		buckets[bucket{k.value, n}]++
	}

	rows := make([]model.DomainCount, 0, len(buckets))
	for b, n := range buckets {
		rows = append(rows, model.DomainCount{Value: b.value, NDomains: b.nDomains, NProteins: n})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Value != rows[j].Value {
			return naturalLess(rows[i].Value, rows[j].Value)
		}
		return rows[i].NDomains < rows[j].NDomains
	})

	return rows
}

// Pivot is the wide form of a distribution: one row per category value,
// one column per domain count, zero where a combination is absent.
type Pivot struct {
	Category model.Category
	Values   []string
	Counts   []int
	Cells    [][]int // [value][count]
}

func NewPivot(category model.Category, rows []model.DomainCount) *Pivot {
	p := &Pivot{Category: category}

	valueIdx := make(map[string]int)
	countIdx := make(map[int]int)
	for _, r := range rows {
		if _, ok := valueIdx[r.Value]; !ok {
			valueIdx[r.Value] = 0
			p.Values = append(p.Values, r.Value)
		}
		if _, ok := countIdx[r.NDomains]; !ok {
			countIdx[r.NDomains] = 0
			p.Counts = append(p.Counts, r.NDomains)
		}
	}

	sort.Sort(naturalsort.NaturalSort(p.Values))
	sort.Ints(p.Counts)
	for i, v := range p.Values {
		valueIdx[v] = i
	}
	for i, c := range p.Counts {
		countIdx[c] = i
	}

	p.Cells = make([][]int, len(p.Values))
	for i := range p.Cells {
		p.Cells[i] = make([]int, len(p.Counts))
	}
	for _, r := range rows {
		p.Cells[valueIdx[r.Value]][countIdx[r.NDomains]] += r.NProteins
	}

	return p
}

// Table returns the pivot as a spreadsheet-ready grid with a header row.
func (p *Pivot) Table() [][]interface{} {
	header := make([]interface{}, 0, len(p.Counts)+1)
	header = append(header, p.Category.String())
	for _, c := range p.Counts {
		header = append(header, c)
	}

	table := [][]interface{}{header}
	for i, v := range p.Values {
		row := make([]interface{}, 0, len(p.Counts)+1)
		row = append(row, v)
		for _, n := range p.Cells[i] {
			row = append(row, n)
		}
		table = append(table, row)
	}
	return table
}

// Series returns, per domain count, the protein counts aligned with Values.
func (p *Pivot) Series() []render.Series {
	series := make([]render.Series, len(p.Counts))
	for j, c := range p.Counts {
		values := make([]float64, len(p.Values))
		for i := range p.Values {
			values[i] = float64(p.Cells[i][j])
		}
		series[j] = render.Series{Key: c, Values: values}
	}
	return series
}

func SummaryFile(category model.Category) string {
	return fmt.Sprintf("%s_domain_count_summary.xlsx", category)
}

func ChartFile(category model.Category) string {
	return fmt.Sprintf("%s_domain_stacked_bar_chart.pdf", category)
}

// Analyze writes the count summary table and the stacked bar chart for one
// category into outDir and returns the distribution. Without records only the
// table header is written.
func Analyze(records []*model.DomainRecord, category model.Category, outDir string, colors render.ColorMap) ([]model.DomainCount, error) {

	rows := CountDistribution(records, category)
	pivot := NewPivot(category, rows)

	tablePath := filepath.Join(outDir, SummaryFile(category))
	if err := render.WriteTable(tablePath, pivot.Table()); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", tablePath, err)
	}
	logger.Info("Written to", zap.String("path", tablePath))

	if len(rows) == 0 {
		logger.Warn("Nothing to plot", zap.String("category", category.String()))
		return rows, nil
	}

	chart := render.StackedBarChart{
		Title:  "Domain count",
		XLabel: category.String(),
		YLabel: "n_proteins",
		Labels: pivot.Values,
		Series: pivot.Series(),
		Colors: colors,
	}
	chartPath := filepath.Join(outDir, ChartFile(category))
	if err := chart.Save(chartPath); err != nil {
		return nil, fmt.Errorf("failed to draw %s: %w", chartPath, err)
	}
	logger.Info("Written to", zap.String("path", chartPath))

	return rows, nil
}

func naturalLess(a, b string) bool {
	pair := naturalsort.NaturalSort{a, b}
	return pair.Less(0, 1)
}
