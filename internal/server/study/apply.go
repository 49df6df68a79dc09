package study

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/models"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/common"
)

// Apply decodes a JSON mutation payload for action, applies it and returns
// the JSON encoded result.
func (s *Service) Apply(ctx context.Context, userID string, action models.MutationAction, payload []byte) ([]byte, error) {
	var (
		result any
		err    error
	)

	switch action {
	case models.ActionReview:
		var p models.ReviewPayload
		if err = decode(payload, &p); err == nil {
			var r Review
			r, err = s.SubmitReview(ctx, userID, p)
			result = map[string]any{"card_id": r.CardID, "quality": r.Quality, "reviewed_at": r.ReviewedAt}
		}
	case models.ActionCreateCard:
		var p models.CardPayload
		if err = decode(payload, &p); err == nil {
			result, err = s.CreateCard(ctx, p)
		}
	case models.ActionUpdateCard:
		var p models.CardPayload
		if err = decode(payload, &p); err == nil {
			result, err = s.UpdateCard(ctx, p)
		}
	case models.ActionDeleteCard:
		var p models.DeleteCardPayload
		if err = decode(payload, &p); err == nil {
			err = s.DeleteCard(ctx, p)
			result = map[string]any{"id": p.ID, "deleted": true}
		}
	case models.ActionCreateDeck:
		var p models.DeckPayload
		if err = decode(payload, &p); err == nil {
			result, err = s.CreateDeck(ctx, p)
		}
	case models.ActionUpdateDeck:
		var p models.DeckPayload
		if err = decode(payload, &p); err == nil {
			result, err = s.UpdateDeck(ctx, p)
		}
	default:
		return nil, fmt.Errorf("%w: unknown action %q", common.ErrInvalidArgument, action)
	}
	if err != nil {
		return nil, err
	}

	return json.Marshal(result)
}

func decode(payload []byte, v any) error {
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidArgument, err)
	}
	return nil
}
