package render

import (
	"os"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"
	"github.com/zwmuam/Genomic-analyses-of-Chelidonium-majus/pkg/model"
)

const defaultSheet = "Sheet1"

var domainTableHeader = []interface{}{
	"protein_ID", "domain_ID", "domain_name", "domain_length", "orthologous_group", "organism",
}

// WriteTable saves rows (first row is the header) into the first sheet of a new xlsx.
func WriteTable(path string, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(defaultSheet, cell, &row); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}

// WriteDomainTable exports the record table, one row per domain.
func WriteDomainTable(path string, records []*model.DomainRecord) error {
	rows := make([][]interface{}, 0, len(records)+1)
	rows = append(rows, domainTableHeader)
	for _, r := range records {
		rows = append(rows, []interface{}{
			r.ProteinID, r.DomainID, r.DomainName, r.DomainLength, r.OrthologousGroup, r.OrganismName,
		})
	}
	return WriteTable(path, rows)
}

// WriteDomainCSV is the plain text twin of WriteDomainTable.
func WriteDomainCSV(path string, records []*model.DomainRecord) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := gocsv.MarshalFile(&records, file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// ReadTable loads the first sheet back as strings.
func ReadTable(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return f.GetRows(defaultSheet)
}
