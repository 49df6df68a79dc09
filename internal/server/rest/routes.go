package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/models"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/common"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/logging"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/server/study"
	"github.com/go-chi/chi/v5"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

type Routes struct {
	study  *study.Service
	logger logging.Logger
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": common.PingStatusOK})
}

func (rr *Routes) submitReview(w http.ResponseWriter, r *http.Request) {
	var p models.ReviewPayload
	if !decodeBody(w, r, &p) {
		return
	}
	review, err := rr.study.SubmitReview(r.Context(), userID(r.Context()), p)
	if err != nil {
		rr.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"card_id":     review.CardID,
		"quality":     review.Quality,
		"reviewed_at": review.ReviewedAt,
	})
}

func (rr *Routes) studyQueue(w http.ResponseWriter, r *http.Request) {
	var deckID int64
	if v := r.URL.Query().Get("deck_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			writeError(w, fmt.Sprintf("invalid deck_id %q", v), http.StatusBadRequest)
			return
		}
		deckID = id
	}

	q, err := rr.study.StudyQueue(r.Context(), deckID)
	if err != nil {
		rr.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (rr *Routes) listDecks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rr.study.Decks(r.Context()))
}

func (rr *Routes) createDeck(w http.ResponseWriter, r *http.Request) {
	var p models.DeckPayload
	if !decodeBody(w, r, &p) {
		return
	}
	p.ID = 0
	d, err := rr.study.CreateDeck(r.Context(), p)
	if err != nil {
		rr.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (rr *Routes) updateDeck(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var p models.DeckPayload
	if !decodeBody(w, r, &p) {
		return
	}
	p.ID = id
	d, err := rr.study.UpdateDeck(r.Context(), p)
	if err != nil {
		rr.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (rr *Routes) createCard(w http.ResponseWriter, r *http.Request) {
	deckID, ok := pathID(w, r)
	if !ok {
		return
	}
	var p models.CardPayload
	if !decodeBody(w, r, &p) {
		return
	}
	p.ID = 0
	p.DeckID = deckID
	c, err := rr.study.CreateCard(r.Context(), p)
	if err != nil {
		rr.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (rr *Routes) updateCard(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var p models.CardPayload
	if !decodeBody(w, r, &p) {
		return
	}
	p.ID = id
	c, err := rr.study.UpdateCard(r.Context(), p)
	if err != nil {
		rr.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (rr *Routes) deleteCard(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := rr.study.DeleteCard(r.Context(), models.DeleteCardPayload{ID: id}); err != nil {
		rr.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rr *Routes) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrInvalidArgument):
		writeError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, common.ErrNotFound):
		writeError(w, err.Error(), http.StatusNotFound)
	default:
		rr.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeError(w, "internal error", http.StatusInternalServerError)
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	v := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, fmt.Sprintf("invalid id %q", v), http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeError(w, "invalid body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	writeJSON(w, code, ErrorResponse{Error: message})
}
