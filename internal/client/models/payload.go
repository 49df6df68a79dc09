package models

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidPayload = errors.New("invalid payload")

// Quality bounds of a review grade.
const (
	MinQuality = 0
	MaxQuality = 5
)

type ReviewPayload struct {
	CardID  int64 `json:"card_id"`
	Quality int   `json:"quality"`
}

func (p ReviewPayload) Validate() error {
	if p.CardID <= 0 {
		return fmt.Errorf("%w: card_id must be positive", ErrInvalidPayload)
	}
	if p.Quality < MinQuality || p.Quality > MaxQuality {
		return fmt.Errorf("%w: quality must be in [%d, %d]", ErrInvalidPayload, MinQuality, MaxQuality)
	}
	return nil
}

// CardPayload carries create_card and update_card. ID is zero on create.
type CardPayload struct {
	ID           int64  `json:"id,omitempty"`
	DeckID       int64  `json:"deck_id"`
	FrontContent string `json:"front_content"`
	BackContent  string `json:"back_content"`
	CardType     string `json:"card_type,omitempty"`
}

func (p CardPayload) Validate() error {
	if p.DeckID <= 0 {
		return fmt.Errorf("%w: deck_id must be positive", ErrInvalidPayload)
	}
	if strings.TrimSpace(p.FrontContent) == "" || strings.TrimSpace(p.BackContent) == "" {
		return fmt.Errorf("%w: front and back are required", ErrInvalidPayload)
	}
	return nil
}

type DeleteCardPayload struct {
	ID int64 `json:"id"`
}

func (p DeleteCardPayload) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("%w: id must be positive", ErrInvalidPayload)
	}
	return nil
}

// DeckPayload carries create_deck and update_deck. ID is zero on create.
type DeckPayload struct {
	ID          int64    `json:"id,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	IsPublic    bool     `json:"is_public"`
	Tags        []string `json:"tags,omitempty"`
}

func (p DeckPayload) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidPayload)
	}
	return nil
}

// Card is a flashcard as returned by the remote.
type Card struct {
	ID           int64  `json:"id"`
	DeckID       int64  `json:"deck_id"`
	FrontContent string `json:"front_content"`
	BackContent  string `json:"back_content"`
	CardType     string `json:"card_type"`
	ReviewCount  int    `json:"review_count"`
}

// Deck is a deck as returned by the remote.
type Deck struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	IsPublic    bool     `json:"is_public"`
	Tags        []string `json:"tags,omitempty"`
	CardCount   int      `json:"card_count"`
}

// StudyQueue is the remote's answer to a study-queue query.
type StudyQueue struct {
	DueCards   []Card `json:"due_cards"`
	NewCards   []Card `json:"new_cards"`
	Queue      []Card `json:"queue"`
	TotalCards int    `json:"total_cards"`
	DueCount   int    `json:"due_count"`
	NewCount   int    `json:"new_count"`
}
