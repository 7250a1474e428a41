package match

import (
	"context"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/refnexus/refnexus/internal/model"
	"github.com/refnexus/refnexus/internal/store"
)

// Result holds the ranked suggestions for one request.
type Result struct {
	SuggestedRefIDs []int64 `json:"suggested_ref_ids"`
	Explanation     string  `json:"explanation"`
}

const (
	explanationRanked  = "Ranked by average rating and constraints from the request."
	explanationNoMatch = "No matching referees found."
)

// Engine finds the best referees for a natural language request.
type Engine struct {
	store          store.Store
	extractor      Extractor
	maxSuggestions int
}

// NewEngine creates a matching engine. extractor may be nil, in which case
// every query resolves to empty constraints.
func NewEngine(st store.Store, extractor Extractor, maxSuggestions int) *Engine {
	if maxSuggestions <= 0 {
		maxSuggestions = 5
	}
	return &Engine{store: st, extractor: extractor, maxSuggestions: maxSuggestions}
}

// FindBestRefs parses the query into constraints, filters candidates, and
// returns up to maxSuggestions referee ids ranked by average rating.
// Extraction failures degrade to an unconstrained search rather than failing
// the request.
func (e *Engine) FindBestRefs(ctx context.Context, leagueID int64, query string) (*Result, error) {
	var constraints Constraints
	if e.extractor != nil {
		var err error
		constraints, err = e.extractor.ParseRefRequest(ctx, query, leagueID)
		if err != nil {
			zap.L().Warn("constraint extraction failed", zap.Error(err), zap.Int64("league_id", leagueID))
			constraints = Constraints{}
		}
	}

	averages, err := e.store.AverageRatings(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "match: load rating averages")
	}

	candidates, err := e.searchCandidates(ctx, constraints, averages)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return &Result{SuggestedRefIDs: []int64{}, Explanation: explanationNoMatch}, nil
	}

	// Rank by average rating descending; ties resolve to the lower referee
	// id so results are deterministic.
	sort.SliceStable(candidates, func(i, j int) bool {
		ri, rj := averages[candidates[i].ID], averages[candidates[j].ID]
		if ri != rj {
			return ri > rj
		}
		return candidates[i].ID < candidates[j].ID
	})

	n := e.maxSuggestions
	if len(candidates) < n {
		n = len(candidates)
	}
	ids := make([]int64, n)
	for i := 0; i < n; i++ {
		ids[i] = candidates[i].ID
	}

	return &Result{SuggestedRefIDs: ids, Explanation: explanationRanked}, nil
}

// searchCandidates filters referee profiles against the constraints. The
// min_rating filter requires at least one rating; the distance filter applies
// only when both a location and a radius were extracted, and drops referees
// without coordinates.
func (e *Engine) searchCandidates(ctx context.Context, c Constraints, averages map[int64]float64) ([]model.RefereeProfile, error) {
	profiles, err := e.store.ListRefereeProfiles(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "match: list referees")
	}

	var candidates []model.RefereeProfile
	for _, ref := range profiles {
		if c.MinRating != nil {
			avg, rated := averages[ref.ID]
			if !rated || avg < *c.MinRating {
				continue
			}
		}
		candidates = append(candidates, ref)
	}

	if c.Location == nil || c.MaxDistanceKM == nil {
		return candidates, nil
	}

	var withinRange []model.RefereeProfile
	for _, ref := range candidates {
		if ref.Latitude == nil || ref.Longitude == nil {
			continue
		}
		distance := DistanceKM(*c.Location, LatLon{Lat: *ref.Latitude, Lon: *ref.Longitude})
		if distance <= *c.MaxDistanceKM {
			withinRange = append(withinRange, ref)
		}
	}
	return withinRange, nil
}
