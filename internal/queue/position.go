package queue

import (
	"context"

	"backend-sevapali/internal/models"
)

// Position computes a waiting token's rank and predicted wait. Rank is
// 1 + the number of waiting tokens in the same key ordered ahead of it
// (created_at ascending, id tiebreak). Non-waiting tokens report rank
// 0 / wait 0 by convention. Nothing here is stored; it is recomputed
// from the waiting set on every call.
func (s *Scheduler) Position(ctx context.Context, tokenID string) (models.TokenPosition, error) {
	token, err := s.getToken(ctx, tokenID)
	if err != nil {
		return models.TokenPosition{}, err
	}

	pos := models.TokenPosition{
		TokenID:     token.ID,
		TokenNumber: token.TokenNumber,
		Status:      token.Status,
	}
	if token.Status != models.StatusWaiting {
		return pos, nil
	}

	waiting, err := s.store.QueryWaiting(ctx, s.keyOf(token))
	if err != nil {
		return models.TokenPosition{}, s.storeErr(err)
	}

	rank := 0
	for i, w := range waiting {
		if w.ID == token.ID {
			rank = i + 1
			break
		}
	}
	if rank == 0 {
		// Raced with a call-next between Get and QueryWaiting; report
		// the conservative head position rather than failing a read.
		rank = 1
	}

	avg := s.times.AverageServiceMinutes(ctx, token.OfficeID, token.DepartmentID)
	pos.Rank = rank
	pos.EstimatedWaitMinutes = rank * avg
	return pos, nil
}
