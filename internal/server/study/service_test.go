package study

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/models"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T) (*Service, models.Deck, models.Card) {
	t.Helper()
	s := NewService()
	ctx := context.Background()

	d, err := s.CreateDeck(ctx, models.DeckPayload{Title: "Spanish", Tags: []string{"lang"}})
	require.NoError(t, err)
	c, err := s.CreateCard(ctx, models.CardPayload{DeckID: d.ID, FrontContent: "hola", BackContent: "hello"})
	require.NoError(t, err)
	return s, d, c
}

func TestCreateDeck_IdempotentByTitle(t *testing.T) {
	s, d, _ := seed(t)

	again, err := s.CreateDeck(context.Background(), models.DeckPayload{Title: "spanish"})
	require.NoError(t, err)
	assert.Equal(t, d.ID, again.ID)
	assert.Len(t, s.Decks(context.Background()), 1)

	_, err = s.CreateDeck(context.Background(), models.DeckPayload{})
	require.ErrorIs(t, err, common.ErrInvalidArgument)
}

func TestCreateCard(t *testing.T) {
	s, d, c := seed(t)
	ctx := context.Background()

	assert.Equal(t, "basic", c.CardType)

	again, err := s.CreateCard(ctx, models.CardPayload{DeckID: d.ID, FrontContent: "hola", BackContent: "hi"})
	require.NoError(t, err)
	assert.Equal(t, c.ID, again.ID)
	assert.Equal(t, 1, s.Decks(ctx)[0].CardCount)

	_, err = s.CreateCard(ctx, models.CardPayload{DeckID: 99, FrontContent: "a", BackContent: "b"})
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdateCard_MovesBetweenDecks(t *testing.T) {
	s, d, c := seed(t)
	ctx := context.Background()

	other, err := s.CreateDeck(ctx, models.DeckPayload{Title: "French"})
	require.NoError(t, err)

	updated, err := s.UpdateCard(ctx, models.CardPayload{ID: c.ID, DeckID: other.ID, FrontContent: "bonjour", BackContent: "hello", CardType: "cloze"})
	require.NoError(t, err)
	assert.Equal(t, other.ID, updated.DeckID)
	assert.Equal(t, "cloze", updated.CardType)

	decks := s.Decks(ctx)
	assert.Equal(t, d.ID, decks[0].ID)
	assert.Equal(t, 0, decks[0].CardCount)
	assert.Equal(t, 1, decks[1].CardCount)

	_, err = s.UpdateCard(ctx, models.CardPayload{ID: 42, DeckID: d.ID, FrontContent: "a", BackContent: "b"})
	require.ErrorIs(t, err, common.ErrNotFound)
	_, err = s.UpdateCard(ctx, models.CardPayload{DeckID: d.ID, FrontContent: "a", BackContent: "b"})
	require.ErrorIs(t, err, common.ErrInvalidArgument)
}

func TestDeleteCard_Idempotent(t *testing.T) {
	s, _, c := seed(t)
	ctx := context.Background()

	require.NoError(t, s.DeleteCard(ctx, models.DeleteCardPayload{ID: c.ID}))
	require.NoError(t, s.DeleteCard(ctx, models.DeleteCardPayload{ID: c.ID}))
	assert.Equal(t, 0, s.Decks(ctx)[0].CardCount)
}

func TestUpdateDeck(t *testing.T) {
	s, d, _ := seed(t)
	ctx := context.Background()

	updated, err := s.UpdateDeck(ctx, models.DeckPayload{ID: d.ID, Title: "Español", IsPublic: true})
	require.NoError(t, err)
	assert.Equal(t, "Español", updated.Title)
	assert.True(t, updated.IsPublic)
	assert.Equal(t, 1, updated.CardCount)

	_, err = s.UpdateDeck(ctx, models.DeckPayload{ID: 7, Title: "x"})
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestStudyQueue(t *testing.T) {
	s, d, c := seed(t)
	ctx := context.Background()

	c2, err := s.CreateCard(ctx, models.CardPayload{DeckID: d.ID, FrontContent: "adios", BackContent: "bye"})
	require.NoError(t, err)
	c3, err := s.CreateCard(ctx, models.CardPayload{DeckID: d.ID, FrontContent: "gracias", BackContent: "thanks"})
	require.NoError(t, err)

	_, err = s.SubmitReview(ctx, "u1", models.ReviewPayload{CardID: c.ID, Quality: 5})
	require.NoError(t, err)
	_, err = s.SubmitReview(ctx, "u1", models.ReviewPayload{CardID: c3.ID, Quality: 1})
	require.NoError(t, err)

	q, err := s.StudyQueue(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, q.TotalCards)
	assert.Equal(t, 1, q.DueCount)
	assert.Equal(t, 1, q.NewCount)
	require.Len(t, q.Queue, 2)
	assert.Equal(t, c3.ID, q.Queue[0].ID)
	assert.Equal(t, c2.ID, q.Queue[1].ID)

	all, err := s.StudyQueue(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, q.Queue, all.Queue)

	_, err = s.StudyQueue(ctx, 99)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestSubmitReview(t *testing.T) {
	s, _, c := seed(t)
	ctx := context.Background()

	_, err := s.SubmitReview(ctx, "u1", models.ReviewPayload{CardID: c.ID, Quality: 9})
	require.ErrorIs(t, err, common.ErrInvalidArgument)
	_, err = s.SubmitReview(ctx, "u1", models.ReviewPayload{CardID: 77, Quality: 3})
	require.ErrorIs(t, err, common.ErrNotFound)

	_, err = s.SubmitReview(ctx, "u1", models.ReviewPayload{CardID: c.ID, Quality: 4})
	require.NoError(t, err)

	reviews := s.Reviews()
	require.Len(t, reviews, 1)
	assert.Equal(t, "u1", reviews[0].UserID)
}

func TestApply(t *testing.T) {
	s := NewService()
	ctx := context.Background()

	out, err := s.Apply(ctx, "u1", models.ActionCreateDeck, []byte(`{"title":"Go"}`))
	require.NoError(t, err)
	var d models.Deck
	require.NoError(t, json.Unmarshal(out, &d))
	assert.Equal(t, int64(1), d.ID)

	out, err = s.Apply(ctx, "u1", models.ActionCreateCard, []byte(`{"deck_id":1,"front_content":"chan","back_content":"pipe"}`))
	require.NoError(t, err)
	assert.Contains(t, string(out), `"front_content":"chan"`)

	_, err = s.Apply(ctx, "u1", models.ActionReview, []byte(`{"card_id":1,"quality":2}`))
	require.NoError(t, err)

	out, err = s.Apply(ctx, "u1", models.ActionDeleteCard, []byte(`{"id":1}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"deleted":true}`, string(out))

	_, err = s.Apply(ctx, "u1", models.ActionCreateCard, []byte(`{not json`))
	require.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = s.Apply(ctx, "u1", "archive_deck", []byte(`{}`))
	require.ErrorIs(t, err, common.ErrInvalidArgument)
}
