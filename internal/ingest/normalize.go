package ingest

import "strings"

// Canonical keys for normalized rows.
const (
	keyScheduledStart   = "scheduled_start"
	keyFieldName        = "field_name"
	keyLocationName     = "location_name"
	keyAddress          = "address"
	keyLatitude         = "latitude"
	keyLongitude        = "longitude"
	keyAgeGroup         = "age_group"
	keyCompetitionLevel = "competition_level"
	keyGenderFocus      = "gender_focus"
	keyCenterFee        = "center_fee"
	keyARFee            = "ar_fee"
	keyStatus           = "status"
)

// aliasTable maps canonical keys to the column headings seen in the wild.
// First non-empty alias wins.
var aliasTable = map[string][]string{
	keyFieldName:        {"field", "field_name", "field_number", "pitch"},
	keyLocationName:     {"location", "facility", "site"},
	keyAddress:          {"address", "location_address", "site_address"},
	keyLatitude:         {"lat", "latitude"},
	keyLongitude:        {"lon", "lng", "longitude"},
	keyAgeGroup:         {"age_group", "age", "division"},
	keyCompetitionLevel: {"competition_level", "level", "league"},
	keyGenderFocus:      {"gender", "gender_focus"},
	keyCenterFee:        {"center_fee", "center pay", "center_fee_usd"},
	keyARFee:            {"ar_fee", "assistant_fee", "ar pay"},
	keyStatus:           {"status"},
}

// Date and time columns are handled separately so a split schedule can be
// stitched back together.
var (
	dateAliases     = []string{"date", "game_date", "scheduled_date"}
	timeAliases     = []string{"time", "start_time", "kickoff", "scheduled_time"}
	datetimeAliases = []string{"datetime", "scheduled_start", "start", "kickoff_time"}
)

// NormalizedRow holds a parsed record under canonical keys. Values keep their
// original types; materialization coerces them.
type NormalizedRow map[string]any

// normalizeRows maps raw rows onto canonical keys. Rows that are not objects
// produce a warning and are dropped here rather than at materialization.
func normalizeRows(rows []RawRow, warnings *[]Warning) []NormalizedRow {
	normalized := make([]NormalizedRow, 0, len(rows))
	for idx, row := range rows {
		if _, wrapped := row["value"]; wrapped && len(row) == 1 {
			*warnings = append(*warnings, rowWarning(idx, "Row is not an object"))
			continue
		}

		lower := make(map[string]any, len(row))
		for k, v := range row {
			lower[strings.ToLower(strings.TrimSpace(k))] = v
		}

		out := NormalizedRow{}
		for canonical, aliases := range aliasTable {
			out[canonical] = firstValue(lower, aliases)
		}
		out[keyScheduledStart] = scheduledStartValue(lower)

		normalized = append(normalized, out)
	}
	return normalized
}

// scheduledStartValue prefers a combined datetime column, falling back to
// synthesizing "<date> <time>" from split columns.
func scheduledStartValue(row map[string]any) any {
	if v := firstValue(row, datetimeAliases); v != nil {
		return v
	}

	dateValue := firstValue(row, dateAliases)
	if dateValue == nil {
		return nil
	}
	if timeValue := firstValue(row, timeAliases); timeValue != nil {
		return toString(dateValue) + " " + toString(timeValue)
	}
	return toString(dateValue)
}

func firstValue(row map[string]any, keys []string) any {
	for _, key := range keys {
		if v, ok := row[key]; ok && v != nil && v != "" {
			return v
		}
	}
	return nil
}
