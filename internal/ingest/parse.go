package ingest

import (
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order when parsing date cells. XLSX readers can
// surface the same date in different renderings depending on cell styling.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"1/2/06 15:04",
}

func optString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func optInt(v string) *int {
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		// Integer columns sometimes arrive as "34.0" after a spreadsheet
		// round trip.
		f, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil {
			return nil
		}
		n = int(f)
	}
	return &n
}

func optFloat(v string) *float64 {
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}

func optBool(v string) *bool {
	b, ok := parseBool(v)
	if !ok {
		return nil
	}
	return &b
}

func optDate(v string) *time.Time {
	if v == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return &t
		}
	}
	return nil
}

// parseActive reads the broker active flag. A blank cell counts as active
// so that datasets without the column still rank every broker.
func parseActive(v string) bool {
	b, ok := parseBool(v)
	if !ok {
		return true
	}
	return b
}

func parseBool(v string) (value, ok bool) {
	switch strings.ToUpper(v) {
	case "Y", "YES", "TRUE", "T", "1":
		return true, true
	case "N", "NO", "FALSE", "F", "0":
		return false, true
	default:
		return false, false
	}
}
