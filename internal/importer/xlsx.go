package importer

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ParseXLSX reads facility rows from the first sheet of an XLSX workbook.
// The column contract is identical to ParseCSV.
func ParseXLSX(r io.Reader) (Result, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return Result{}, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = wb.Close() }()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return Result{}, errors.New("workbook has no sheets")
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return Result{}, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return Result{}, errors.New("missing header row")
	}

	header := headerIndex(rows[0])
	if _, ok := header["facility_id"]; !ok {
		return Result{}, errors.New("header row has no facility_id column")
	}

	var res Result
	for i, record := range rows[1:] {
		f, ok := buildFacility(header, record)
		if !ok {
			res.RowErrors = append(res.RowErrors, RowError{Row: i + 2, Reason: "missing facility_id"})
			continue
		}
		res.Facilities = append(res.Facilities, f)
	}
	return res, nil
}
