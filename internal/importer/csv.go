package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// ParseCSV reads facility rows from r. A header row is required; rows
// without a facility_id are skipped and reported in the result. Rows with
// a field-count mismatch are likewise reported, not fatal.
func ParseCSV(r io.Reader) (Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headerRow, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Result{}, errors.New("missing header row")
		}
		return Result{}, fmt.Errorf("read header: %w", err)
	}
	header := headerIndex(headerRow)
	if _, ok := header["facility_id"]; !ok {
		return Result{}, errors.New("header row has no facility_id column")
	}

	var res Result
	row := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			res.RowErrors = append(res.RowErrors, RowError{Row: row, Reason: err.Error()})
			continue
		}
		f, ok := buildFacility(header, record)
		if !ok {
			res.RowErrors = append(res.RowErrors, RowError{Row: row, Reason: "missing facility_id"})
			continue
		}
		res.Facilities = append(res.Facilities, f)
	}
	return res, nil
}
