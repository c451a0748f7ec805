package db

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/skarademir/naturalsort"
	"github.com/zwmuam/Genomic-analyses-of-Chelidonium-majus/pkg/model"

	_ "modernc.org/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS domain_records (
		run_id            TEXT NOT NULL,
		protein_id        TEXT NOT NULL,
		domain_id         TEXT NOT NULL,
		domain_name       TEXT NOT NULL,
		domain_length     INTEGER NOT NULL,
		orthologous_group TEXT NOT NULL,
		organism          TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS domain_records_run ON domain_records (run_id);

	CREATE TABLE IF NOT EXISTS domain_counts (
		run_id     TEXT NOT NULL,
		category   TEXT NOT NULL,
		value      TEXT NOT NULL,
		n_domains  INTEGER NOT NULL,
		n_proteins INTEGER NOT NULL
	);
`

// DomainDB keeps domain tables of one or more runs in a sqlite file.
type DomainDB struct {
	db *sql.DB
}

func Open(path string) (*DomainDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &DomainDB{db: db}, nil
}

func (d *DomainDB) Close() error {
	return d.db.Close()
}

func (d *DomainDB) SaveRecords(ctx context.Context, runID string, records []*model.DomainRecord) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("fail to begin tx %w", err)
	}
	defer tx.Rollback()

	stm, err := tx.PrepareContext(ctx, `
		INSERT INTO domain_records
			(run_id, protein_id, domain_id, domain_name, domain_length, orthologous_group, organism)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stm.Close()

	for _, r := range records {
		if _, err := stm.ExecContext(ctx, runID, r.ProteinID, r.DomainID, r.DomainName,
			r.DomainLength, r.OrthologousGroup, r.OrganismName); err != nil {
			return fmt.Errorf("insert record %s: %w", r.ProteinID, err)
		}
	}

	return tx.Commit()
}

func (d *DomainDB) SaveCounts(ctx context.Context, runID string, category model.Category, rows []model.DomainCount) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("fail to begin tx %w", err)
	}
	defer tx.Rollback()

	for _, r := range rows {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO domain_counts (run_id, category, value, n_domains, n_proteins) VALUES (?, ?, ?, ?, ?)`,
			runID, category.String(), r.Value, r.NDomains, r.NProteins); err != nil {
			return fmt.Errorf("insert count: %w", err)
		}
	}

	return tx.Commit()
}

// CountDistribution recomputes the domain count distribution of a run in SQL.
func (d *DomainDB) CountDistribution(ctx context.Context, runID string, category model.Category) ([]model.DomainCount, error) {

	var column string
	switch category {
	case model.CategoryOrganism:
		column = "organism"
	case model.CategoryOrthologousGroup:
		column = "orthologous_group"
	default:
		return nil, fmt.Errorf("no column for category %s", category)
	}

	const tpl = `
		WITH per_protein AS (
			SELECT protein_id, %s AS value, COUNT(*) AS n_domains
			FROM domain_records
			WHERE run_id = ?
			GROUP BY protein_id, %s
		)
		SELECT value, n_domains, COUNT(*) AS n_proteins
		FROM per_protein
		GROUP BY value, n_domains;
	`

	rows, err := d.db.QueryContext(ctx, fmt.Sprintf(tpl, column, column), runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []model.DomainCount
	for rows.Next() {
		var c model.DomainCount
		if err := rows.Scan(&c.Value, &c.NDomains, &c.NProteins); err != nil {
			return nil, fmt.Errorf("failed to scan count row: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Value != counts[j].Value {
			return naturalsort.NaturalSort{counts[i].Value, counts[j].Value}.Less(0, 1)
		}
		return counts[i].NDomains < counts[j].NDomains
	})

	return counts, nil
}

// Counts returns the stored distribution of a run.
func (d *DomainDB) Counts(ctx context.Context, runID string, category model.Category) ([]model.DomainCount, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT value, n_domains, n_proteins FROM domain_counts WHERE run_id = ? AND category = ? ORDER BY rowid`,
		runID, category.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []model.DomainCount
	for rows.Next() {
		var c model.DomainCount
		if err := rows.Scan(&c.Value, &c.NDomains, &c.NProteins); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
