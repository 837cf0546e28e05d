package sheets

import (
	"encoding/json"
	"regexp"

	"github.com/dskvich/vetaid-telegram-bot/pkg/domain"
)

// rowPattern matches a literal three cell row such as ["a","b","c"].
// Cells containing quotes or brackets are not supported.
var rowPattern = regexp.MustCompile(`\[\s*"(.*?)",\s*"(.*?)",\s*"(.*?)"\s*\]`)

type valueRange struct {
	Range  string     `json:"range"`
	Values [][]string `json:"values"`
}

// Decode prefers the structured value range and falls back to row extraction
// when the payload is not a readable value range.
func Decode(raw []byte) []domain.VolunteerRecord {
	if records, ok := DecodeValueRange(raw); ok {
		return records
	}
	return ExtractRows(raw)
}

// DecodeValueRange reads {"values":[[name, contact, status], ...]}. Rows with fewer than
// three cells are skipped, extra cells are ignored.
func DecodeValueRange(raw []byte) ([]domain.VolunteerRecord, bool) {
	var vr valueRange
	if err := json.Unmarshal(raw, &vr); err != nil {
		return nil, false
	}

	records := make([]domain.VolunteerRecord, 0, len(vr.Values))
	for _, row := range vr.Values {
		if len(row) < 3 {
			continue
		}
		records = append(records, domain.NewVolunteerRecord(row[0], row[1], row[2]))
	}
	return records, true
}

// ExtractRows scans raw text for every non-overlapping three cell row, in source order.
func ExtractRows(raw []byte) []domain.VolunteerRecord {
	matches := rowPattern.FindAllSubmatch(raw, -1)

	records := make([]domain.VolunteerRecord, 0, len(matches))
	for _, m := range matches {
		records = append(records, domain.NewVolunteerRecord(string(m[1]), string(m[2]), string(m[3])))
	}
	return records
}
