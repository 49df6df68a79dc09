package models

import (
	"strconv"
	"time"
)

// QueryKind names a cacheable remote read.
type QueryKind string

const (
	QueryStudyQueue QueryKind = "study_queue"
	QueryDecks      QueryKind = "decks"
)

// QueryKey identifies one cached query. DeckID scopes study-queue reads;
// zero means all decks.
type QueryKey struct {
	Kind   QueryKind
	DeckID int64
}

func StudyQueueKey(deckID int64) QueryKey {
	return QueryKey{Kind: QueryStudyQueue, DeckID: deckID}
}

func DecksKey() QueryKey {
	return QueryKey{Kind: QueryDecks}
}

// String is the cache key under which the result is stored.
func (k QueryKey) String() string {
	switch k.Kind {
	case QueryStudyQueue:
		if k.DeckID == 0 {
			return "studyData_all"
		}
		return "studyData_" + strconv.FormatInt(k.DeckID, 10)
	case QueryDecks:
		return "decks"
	default:
		return string(k.Kind)
	}
}

// CacheEntry is the last successful result of a query.
type CacheEntry struct {
	Key       string    `json:"key"`
	Value     []byte    `json:"value"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Age is how long ago the entry was fetched, relative to now.
func (e CacheEntry) Age(now time.Time) time.Duration {
	return now.Sub(e.FetchedAt)
}
