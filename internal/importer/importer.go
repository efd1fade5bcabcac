// Package importer parses bulk facility data (CSV or XLSX) into facility
// records. Column headers map directly to facility field names; cell
// values are dynamically typed, and malformed numeric cells become nil
// rather than an error or NaN.
package importer

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gridwell/snftrack/internal/model"
)

// RowError reports one skipped or partially-parsed input row. Row numbers
// are 1-based and include the header row.
type RowError struct {
	Row    int
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

// Result is the outcome of one import: the parsed facilities in input
// order plus any per-row problems. A row error never aborts the import.
type Result struct {
	Facilities []model.Facility
	RowErrors  []RowError
}

// buildFacility maps one record onto a Facility using the header index.
// Unknown columns are ignored.
func buildFacility(header map[string]int, record []string) (model.Facility, bool) {
	cell := func(name string) (string, bool) {
		i, ok := header[name]
		if !ok || i >= len(record) {
			return "", false
		}
		return strings.TrimSpace(record[i]), true
	}

	var f model.Facility
	if v, ok := cell("facility_id"); ok {
		f.FacilityID = v
	}
	if f.FacilityID == "" {
		return model.Facility{}, false
	}
	if v, ok := cell("name"); ok {
		f.Name = v
	}
	if v, ok := cell("address"); ok {
		f.Address = v
	}
	if v, ok := cell("city"); ok {
		f.City = v
	}
	if v, ok := cell("zip"); ok {
		f.Zip = v
	}
	if v, ok := cell("county"); ok {
		f.County = v
	}
	if v, ok := cell("latitude"); ok {
		f.Latitude = parseFloat(v)
	}
	if v, ok := cell("longitude"); ok {
		f.Longitude = parseFloat(v)
	}
	if v, ok := cell("num_beds"); ok {
		if n := parseFloat(v); n != nil {
			f.NumBeds = int(*n)
		}
	}
	if v, ok := cell("cert_type"); ok {
		f.CertType = v
	}
	if v, ok := cell("status"); ok {
		f.Status = v
	}
	if v, ok := cell("contact_email"); ok && v != "" {
		f.ContactEmail = &v
	}
	if v, ok := cell("contact_phone"); ok && v != "" {
		f.ContactPhone = &v
	}
	if v, ok := cell("in_psps_zone"); ok {
		f.InPSPSZone = parseBool(v)
	}
	if v, ok := cell("in_fire_zone"); ok {
		f.InFireZone = parseBool(v)
	}
	if v, ok := cell("in_earthquake_zone"); ok {
		f.InQuakeZone = parseBool(v)
	}
	if v, ok := cell("outage_score"); ok {
		f.OutageScore = parseFloat(v)
	}
	f.Normalize()
	return f, true
}

// headerIndex maps lower-cased header names to column positions.
func headerIndex(row []string) map[string]int {
	idx := make(map[string]int, len(row))
	for i, name := range row {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return idx
}

// parseFloat returns nil for empty or malformed numeric cells. ParseFloat
// accepts "NaN" and "Inf" spellings; those are not usable values, so they
// become nil too.
func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// parseBool accepts true/false, 1/0, and yes/no in any case; anything
// else (including empty) is nil.
func parseBool(s string) *bool {
	switch strings.ToLower(s) {
	case "true", "1", "yes":
		v := true
		return &v
	case "false", "0", "no":
		v := false
		return &v
	}
	return nil
}
