// Package models defines the client-side data model of the sync engine:
// queued mutations, their payloads, cached query results and progress
// snapshots.
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// MutationAction is the closed set of remote operations a mutation replays.
type MutationAction string

const (
	ActionReview     MutationAction = "review"
	ActionCreateCard MutationAction = "create_card"
	ActionUpdateCard MutationAction = "update_card"
	ActionDeleteCard MutationAction = "delete_card"
	ActionCreateDeck MutationAction = "create_deck"
	ActionUpdateDeck MutationAction = "update_deck"
)

var ErrUnknownAction = errors.New("unknown mutation action")

// Actions lists every MutationAction in a stable order.
func Actions() []MutationAction {
	return []MutationAction{
		ActionReview,
		ActionCreateCard,
		ActionUpdateCard,
		ActionDeleteCard,
		ActionCreateDeck,
		ActionUpdateDeck,
	}
}

func (a MutationAction) Valid() bool {
	for _, known := range Actions() {
		if a == known {
			return true
		}
	}
	return false
}

// ParseAction validates s as a MutationAction.
func ParseAction(s string) (MutationAction, error) {
	a := MutationAction(s)
	if !a.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
	return a, nil
}

// Priority orders mutations within a flush pass.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

var ErrUnknownPriority = errors.New("unknown priority")

// Rank maps a priority onto its sort position; lower replays first.
// Unknown values rank with medium.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityLow:
		return 2
	default:
		return 1
	}
}

func ParsePriority(s string) (Priority, error) {
	switch p := Priority(s); p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPriority, s)
	}
}

// PendingMutation is a locally originated change awaiting replay.
type PendingMutation struct {
	ID          string          `json:"id"`
	Action      MutationAction  `json:"action"`
	Payload     json.RawMessage `json:"payload"`
	CreatedAt   time.Time       `json:"created_at"`
	Retries     int             `json:"retries"`
	LastRetryAt *time.Time      `json:"last_retry_at,omitempty"`
	Priority    Priority        `json:"priority"`
}

// Clone returns a copy that shares no memory with m.
func (m PendingMutation) Clone() PendingMutation {
	c := m
	if m.Payload != nil {
		c.Payload = append(json.RawMessage(nil), m.Payload...)
	}
	if m.LastRetryAt != nil {
		t := *m.LastRetryAt
		c.LastRetryAt = &t
	}
	return c
}

// Before reports whether m replays ahead of other: priority rank first,
// then creation time, then ID so the order is total.
func (m PendingMutation) Before(other PendingMutation) bool {
	if rm, ro := m.Priority.Rank(), other.Priority.Rank(); rm != ro {
		return rm < ro
	}
	if !m.CreatedAt.Equal(other.CreatedAt) {
		return m.CreatedAt.Before(other.CreatedAt)
	}
	return m.ID < other.ID
}
