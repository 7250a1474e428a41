package ingest

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/refnexus/refnexus/internal/model"
	"github.com/refnexus/refnexus/internal/store"
	"github.com/refnexus/refnexus/pkg/anthropic"
)

// Warning records a non-fatal problem with an uploaded document. RowIndex is
// nil for document-level warnings.
type Warning struct {
	RowIndex *int   `json:"row_index"`
	Message  string `json:"message"`
}

func rowWarning(idx int, message string) Warning {
	return Warning{RowIndex: &idx, Message: message}
}

func batchWarning(message string) Warning {
	return Warning{Message: message}
}

// Result summarizes one ingestion run.
type Result struct {
	CreatedGames     int       `json:"created_games"`
	CreatedLocations int       `json:"created_locations"`
	SkippedRows      int       `json:"skipped_rows"`
	Warnings         []Warning `json:"warnings"`
}

// Service runs the schedule ingestion pipeline.
type Service struct {
	store      store.Store
	llm        anthropic.Client
	model      string
	charBudget int
}

// NewService creates an ingestion service. llm may be nil, which disables the
// extraction fallback.
func NewService(st store.Store, llm anthropic.Client, model string, charBudget int) *Service {
	if charBudget <= 0 {
		charBudget = 12000
	}
	return &Service{store: st, llm: llm, model: model, charBudget: charBudget}
}

// Ingest parses an uploaded schedule document and creates games and field
// locations for the league. Problems with individual rows become warnings,
// never request failures; all created rows commit in a single transaction.
func (s *Service) Ingest(ctx context.Context, leagueID int64, filename string, data []byte, useLLM bool) (*Result, error) {
	runID := uuid.NewString()
	log := zap.L().With(
		zap.String("run_id", runID),
		zap.Int64("league_id", leagueID),
		zap.String("filename", filename),
	)

	result := &Result{Warnings: []Warning{}}

	rows, rawText, err := parseFile(filename, data)
	if err != nil {
		log.Warn("document parse failed", zap.Error(err))
		result.Warnings = append(result.Warnings, batchWarning("Failed to parse document: "+eris.Cause(err).Error()))
		return result, nil
	}

	var normalized []NormalizedRow
	if len(rows) > 0 {
		normalized = normalizeRows(rows, &result.Warnings)
	}

	if useLLM && s.llm != nil && shouldUseLLM(normalized, rawText) {
		text := rawText
		if text == "" {
			text = rowsToText(rows)
		}
		if llmRows := s.extractRows(ctx, text); len(llmRows) > 0 {
			normalized = normalizeRows(llmRows, &result.Warnings)
		}
	}

	err = s.store.RunInTx(ctx, func(tx store.Store) error {
		for idx, row := range normalized {
			s.materializeRow(ctx, tx, leagueID, idx, row, result)
		}
		return nil
	})
	if err != nil {
		return nil, eris.Wrap(err, "ingest: commit batch")
	}

	log.Info("ingestion complete",
		zap.Int("created_games", result.CreatedGames),
		zap.Int("created_locations", result.CreatedLocations),
		zap.Int("skipped_rows", result.SkippedRows),
		zap.Int("warnings", len(result.Warnings)),
	)
	return result, nil
}

// materializeRow turns one normalized row into a game, creating its field
// location on first sight. Any problem is recorded on the result; row
// failures never abort the batch.
func (s *Service) materializeRow(ctx context.Context, tx store.Store, leagueID int64, idx int, row NormalizedRow, result *Result) {
	scheduledStart, ok := parseDateTime(row[keyScheduledStart])
	if !ok {
		result.Warnings = append(result.Warnings, rowWarning(idx, "Missing or invalid scheduled_start"))
		result.SkippedRows++
		return
	}

	fieldName := safeString(row[keyFieldName])
	if fieldName == "" {
		fieldName = safeString(row[keyLocationName])
	}
	if fieldName == "" {
		fieldName = "Unknown Field"
	}
	address := safeString(row[keyAddress])

	latitude := parseFloat(row[keyLatitude])
	longitude := parseFloat(row[keyLongitude])
	if latitude == nil || longitude == nil {
		result.Warnings = append(result.Warnings, rowWarning(idx, "Missing latitude/longitude; defaulted to 0.0"))
		if latitude == nil {
			latitude = new(float64)
		}
		if longitude == nil {
			longitude = new(float64)
		}
	}

	location, created, err := getOrCreateFieldLocation(ctx, tx, leagueID, fieldName, address, *latitude, *longitude)
	if err != nil {
		result.Warnings = append(result.Warnings, rowWarning(idx, "Failed to ingest row: "+eris.Cause(err).Error()))
		result.SkippedRows++
		return
	}
	if created {
		result.CreatedLocations++
	}

	status := model.GameStatus(safeString(row[keyStatus]))
	if status == "" {
		status = model.GameStatusOpen
	}

	game := &model.Game{
		LeagueID:         leagueID,
		FieldLocationID:  location.ID,
		ScheduledStart:   scheduledStart,
		AgeGroup:         safeString(row[keyAgeGroup]),
		CompetitionLevel: safeString(row[keyCompetitionLevel]),
		GenderFocus:      safeString(row[keyGenderFocus]),
		CenterFee:        parseFloat(row[keyCenterFee]),
		ARFee:            parseFloat(row[keyARFee]),
		Status:           status,
	}
	if err := tx.CreateGame(ctx, game); err != nil {
		result.Warnings = append(result.Warnings, rowWarning(idx, "Failed to ingest row: "+eris.Cause(err).Error()))
		result.SkippedRows++
		return
	}
	result.CreatedGames++
}

func getOrCreateFieldLocation(ctx context.Context, tx store.Store, leagueID int64, name, address string, latitude, longitude float64) (*model.FieldLocation, bool, error) {
	existing, err := tx.GetFieldLocationByKey(ctx, leagueID, name, address)
	if err == nil {
		return existing, false, nil
	}
	if !eris.Is(err, store.ErrNotFound) {
		return nil, false, err
	}

	location := &model.FieldLocation{
		LeagueID:  leagueID,
		Name:      name,
		Address:   address,
		Latitude:  latitude,
		Longitude: longitude,
	}
	if err := tx.CreateFieldLocation(ctx, location); err != nil {
		return nil, false, err
	}
	return location, true, nil
}

func rowsToText(rows []RawRow) string {
	b, err := json.Marshal(rows)
	if err != nil {
		return ""
	}
	return string(b)
}
