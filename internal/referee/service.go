// Package referee holds referee-facing business logic built on the store.
package referee

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/refnexus/refnexus/internal/model"
	"github.com/refnexus/refnexus/internal/store"
)

const recentNoteLimit = 5

// Service answers referee profile and history lookups.
type Service struct {
	store store.Store
}

func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// Stats summarizes a referee's history: accepted games, average rating
// across all leagues, and the most recent notes. AverageRating is nil for
// unrated referees.
func (s *Service) Stats(ctx context.Context, refID int64) (*model.RefereeStats, error) {
	if _, err := s.store.GetRefereeProfile(ctx, refID); err != nil {
		return nil, err
	}

	gamesReffed, err := s.store.CountAcceptedAssignments(ctx, refID)
	if err != nil {
		return nil, eris.Wrap(err, "referee: count games")
	}

	ratings, err := s.store.ListRatingsForReferee(ctx, refID)
	if err != nil {
		return nil, eris.Wrap(err, "referee: list ratings")
	}
	var avgRating *float64
	if len(ratings) > 0 {
		total := 0
		for _, r := range ratings {
			total += r.Score
		}
		avg := float64(total) / float64(len(ratings))
		avgRating = &avg
	}

	notes, err := s.store.ListNotesForReferee(ctx, refID, recentNoteLimit)
	if err != nil {
		return nil, eris.Wrap(err, "referee: list notes")
	}
	if notes == nil {
		notes = []model.RefNote{}
	}

	return &model.RefereeStats{
		GamesReffed:   gamesReffed,
		AverageRating: avgRating,
		RecentNotes:   notes,
	}, nil
}
