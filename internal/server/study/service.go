// Package study is the in-memory deck and card authority served by the dev
// server. Writes are idempotent so a client replaying a mutation after a
// lost acknowledgement does not create duplicates.
package study

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/models"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/common"
)

// relearnBelow is the review quality under which a card comes due again.
const relearnBelow = 3

// Review is one graded answer received from a client.
type Review struct {
	UserID     string
	CardID     int64
	Quality    int
	ReviewedAt time.Time
}

type Service struct {
	mu sync.RWMutex

	decks   map[int64]*models.Deck
	cards   map[int64]*models.Card
	reviews []Review
	// last quality per card
	lastQuality map[int64]int

	nextDeckID int64
	nextCardID int64
	now        func() time.Time
}

func NewService() *Service {
	return &Service{
		decks:       make(map[int64]*models.Deck),
		cards:       make(map[int64]*models.Card),
		lastQuality: make(map[int64]int),
		now:         time.Now,
	}
}

func invalid(err error) error {
	return fmt.Errorf("%w: %v", common.ErrInvalidArgument, err)
}

func (s *Service) SubmitReview(ctx context.Context, userID string, p models.ReviewPayload) (Review, error) {
	if err := p.Validate(); err != nil {
		return Review{}, invalid(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	card, ok := s.cards[p.CardID]
	if !ok {
		return Review{}, fmt.Errorf("card %d: %w", p.CardID, common.ErrNotFound)
	}

	r := Review{UserID: userID, CardID: p.CardID, Quality: p.Quality, ReviewedAt: s.now()}
	s.reviews = append(s.reviews, r)
	s.lastQuality[p.CardID] = p.Quality
	card.ReviewCount++
	return r, nil
}

// CreateCard adds a card to a deck. A card with the same front already in
// the deck is returned instead of creating a second one.
func (s *Service) CreateCard(ctx context.Context, p models.CardPayload) (models.Card, error) {
	if err := p.Validate(); err != nil {
		return models.Card{}, invalid(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	deck, ok := s.decks[p.DeckID]
	if !ok {
		return models.Card{}, fmt.Errorf("deck %d: %w", p.DeckID, common.ErrNotFound)
	}
	for _, c := range s.cards {
		if c.DeckID == p.DeckID && c.FrontContent == p.FrontContent {
			return *c, nil
		}
	}

	s.nextCardID++
	c := &models.Card{
		ID:           s.nextCardID,
		DeckID:       p.DeckID,
		FrontContent: p.FrontContent,
		BackContent:  p.BackContent,
		CardType:     cardType(p.CardType),
	}
	s.cards[c.ID] = c
	deck.CardCount++
	return *c, nil
}

func (s *Service) UpdateCard(ctx context.Context, p models.CardPayload) (models.Card, error) {
	if p.ID <= 0 {
		return models.Card{}, invalid(fmt.Errorf("id must be positive"))
	}
	if err := p.Validate(); err != nil {
		return models.Card{}, invalid(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cards[p.ID]
	if !ok {
		return models.Card{}, fmt.Errorf("card %d: %w", p.ID, common.ErrNotFound)
	}
	if c.DeckID != p.DeckID {
		to, ok := s.decks[p.DeckID]
		if !ok {
			return models.Card{}, fmt.Errorf("deck %d: %w", p.DeckID, common.ErrNotFound)
		}
		if from, ok := s.decks[c.DeckID]; ok {
			from.CardCount--
		}
		to.CardCount++
		c.DeckID = p.DeckID
	}
	c.FrontContent = p.FrontContent
	c.BackContent = p.BackContent
	c.CardType = cardType(p.CardType)
	return *c, nil
}

// DeleteCard removes a card. Deleting a card that does not exist succeeds.
func (s *Service) DeleteCard(ctx context.Context, p models.DeleteCardPayload) error {
	if err := p.Validate(); err != nil {
		return invalid(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cards[p.ID]
	if !ok {
		return nil
	}
	if d, ok := s.decks[c.DeckID]; ok {
		d.CardCount--
	}
	delete(s.cards, p.ID)
	delete(s.lastQuality, p.ID)
	return nil
}

// CreateDeck adds a deck. A deck with the same title is returned instead of
// creating a second one.
func (s *Service) CreateDeck(ctx context.Context, p models.DeckPayload) (models.Deck, error) {
	if err := p.Validate(); err != nil {
		return models.Deck{}, invalid(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range s.decks {
		if strings.EqualFold(d.Title, p.Title) {
			return cloneDeck(d), nil
		}
	}

	s.nextDeckID++
	d := &models.Deck{
		ID:          s.nextDeckID,
		Title:       p.Title,
		Description: p.Description,
		IsPublic:    p.IsPublic,
		Tags:        slices.Clone(p.Tags),
	}
	s.decks[d.ID] = d
	return cloneDeck(d), nil
}

func (s *Service) UpdateDeck(ctx context.Context, p models.DeckPayload) (models.Deck, error) {
	if p.ID <= 0 {
		return models.Deck{}, invalid(fmt.Errorf("id must be positive"))
	}
	if err := p.Validate(); err != nil {
		return models.Deck{}, invalid(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.decks[p.ID]
	if !ok {
		return models.Deck{}, fmt.Errorf("deck %d: %w", p.ID, common.ErrNotFound)
	}
	d.Title = p.Title
	d.Description = p.Description
	d.IsPublic = p.IsPublic
	d.Tags = slices.Clone(p.Tags)
	return cloneDeck(d), nil
}

// StudyQueue returns the cards to study in a deck, or in every deck when
// deckID is zero. Cards never reviewed are new; cards whose last review
// scored below relearnBelow are due. Due cards come first.
func (s *Service) StudyQueue(ctx context.Context, deckID int64) (models.StudyQueue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if deckID != 0 {
		if _, ok := s.decks[deckID]; !ok {
			return models.StudyQueue{}, fmt.Errorf("deck %d: %w", deckID, common.ErrNotFound)
		}
	}

	q := models.StudyQueue{DueCards: []models.Card{}, NewCards: []models.Card{}, Queue: []models.Card{}}
	for _, id := range s.sortedCardIDs() {
		c := s.cards[id]
		if deckID != 0 && c.DeckID != deckID {
			continue
		}
		q.TotalCards++

		quality, reviewed := s.lastQuality[id]
		switch {
		case !reviewed:
			q.NewCards = append(q.NewCards, *c)
		case quality < relearnBelow:
			q.DueCards = append(q.DueCards, *c)
		}
	}

	q.DueCount = len(q.DueCards)
	q.NewCount = len(q.NewCards)
	q.Queue = append(append(q.Queue, q.DueCards...), q.NewCards...)
	return q, nil
}

func (s *Service) Decks(ctx context.Context) []models.Deck {
	s.mu.RLock()
	defer s.mu.RUnlock()

	decks := make([]models.Deck, 0, len(s.decks))
	for _, d := range s.decks {
		decks = append(decks, cloneDeck(d))
	}
	slices.SortFunc(decks, func(a, b models.Deck) int { return cmp.Compare(a.ID, b.ID) })
	return decks
}

// Reviews returns a copy of the review log.
func (s *Service) Reviews() []Review {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.reviews)
}

func (s *Service) sortedCardIDs() []int64 {
	ids := make([]int64, 0, len(s.cards))
	for id := range s.cards {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func cloneDeck(d *models.Deck) models.Deck {
	c := *d
	c.Tags = slices.Clone(d.Tags)
	return c
}

func cardType(t string) string {
	if t == "" {
		return "basic"
	}
	return t
}
