package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/strikebook/strikebook/internal/api/respond"
	"github.com/strikebook/strikebook/internal/league"
	"github.com/strikebook/strikebook/internal/store"
)

// submitResponse is the settlement output: the fully hydrated match plus
// any bowlers whose pins could not be attributed to either team.
type submitResponse struct {
	Match        *league.Match `json:"match"`
	Unattributed []int64       `json:"unattributedBowlerIds,omitempty"`
}

// SubmitScores settles one game's score submission for a match.
// @Summary Submit game scores
// @Description Validates and settles one game's frames for a match, atomically. Returns the hydrated match with recomputed game and match aggregates.
// @Tags scores
// @Accept json
// @Produce json
// @Param matchID path int true "Match ID"
// @Param submission body league.ScoreSubmission true "One game's frames per bowler"
// @Success 200 {object} submitResponse
// @Failure 404 {object} respond.ErrorResponse
// @Failure 422 {object} respond.ErrorResponse
// @Router /api/v1/matches/{matchID}/scores [post]
func (h *Handler) SubmitScores(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathID(r, "matchID")
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_ID", err.Error())
		return
	}

	var sub league.ScoreSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_JSON", "request body is not a valid score submission")
		return
	}

	match, unattributed, err := store.SubmitScores(r.Context(), h.pool, matchID, sub)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}

	// A settled game changes every statistic derived from it.
	h.cache.Invalidate(statsCacheKey(match.SeasonID))

	respond.WriteJSONObject(w, http.StatusOK, submitResponse{
		Match:        match,
		Unattributed: unattributed,
	})
}

// ReadScorecard runs the vision reader over an uploaded scorecard photo.
// @Summary Draft scores from a scorecard photo
// @Description Sends the uploaded image to the vision service and returns its PROPOSED submission. Nothing is persisted; submit the (corrected) proposal through the scores endpoint.
// @Tags scores
// @Accept mpfd
// @Produce json
// @Param matchID path int true "Match ID"
// @Param gameNumber query int true "Game number 1..3"
// @Param scorecard formData file true "Scorecard photo"
// @Success 200 {object} external.Proposal
// @Failure 502 {object} respond.ErrorResponse
// @Router /api/v1/matches/{matchID}/scorecard [post]
func (h *Handler) ReadScorecard(w http.ResponseWriter, r *http.Request) {
	if _, err := pathID(r, "matchID"); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_ID", err.Error())
		return
	}
	gameNumber, err := strconv.Atoi(r.URL.Query().Get("gameNumber"))
	if err != nil || gameNumber < 1 || gameNumber > league.GamesPerMatch {
		respond.WriteError(w, http.StatusBadRequest, "BAD_GAME_NUMBER", "gameNumber must be 1..3")
		return
	}
	if !h.scorecard.Configured() {
		respond.WriteError(w, http.StatusNotImplemented, "READER_DISABLED", "scorecard reader is not configured")
		return
	}

	file, header, err := r.FormFile("scorecard")
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_UPLOAD", "scorecard file is required")
		return
	}
	defer file.Close()

	proposal, err := h.scorecard.Read(r.Context(), gameNumber, file, header.Filename)
	if err != nil {
		respond.WriteError(w, http.StatusBadGateway, "READER_FAILED", err.Error())
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, proposal)
}

// pathID parses a positive int64 path parameter.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return id, nil
}
