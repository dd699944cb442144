package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/strikebook/strikebook/internal/api/respond"
	"github.com/strikebook/strikebook/internal/cache"
	"github.com/strikebook/strikebook/internal/league"
	"github.com/strikebook/strikebook/internal/stats"
	"github.com/strikebook/strikebook/internal/store"
)

// CreateSubstitution records a match substitution.
// @Summary Create a substitution
// @Description Maps a rostered bowler to a non-roster stand-in for one match. Guards: stated team must play in the match, original bowler must be on its roster, substitute must not be rostered on either side.
// @Tags substitutions
// @Accept json
// @Produce json
// @Param matchID path int true "Match ID"
// @Param substitution body league.Substitution true "Substitution"
// @Success 201 {object} league.Substitution
// @Failure 404 {object} respond.ErrorResponse
// @Failure 422 {object} respond.ErrorResponse
// @Router /api/v1/matches/{matchID}/substitutions [post]
func (h *Handler) CreateSubstitution(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathID(r, "matchID")
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_ID", err.Error())
		return
	}
	var sub league.Substitution
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_JSON", "request body is not a valid substitution")
		return
	}

	created, err := store.CreateSubstitution(r.Context(), h.pool, matchID, sub)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusCreated, created)
}

// DeleteSubstitution removes a substitution.
// @Summary Delete a substitution
// @Description Removes a substitution. Settled games keep their points; later statistics runs rebuild membership without it.
// @Tags substitutions
// @Param matchID path int true "Match ID"
// @Param subID path int true "Substitution ID"
// @Success 204
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/v1/matches/{matchID}/substitutions/{subID} [delete]
func (h *Handler) DeleteSubstitution(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathID(r, "matchID")
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_ID", err.Error())
		return
	}
	subID, err := pathID(r, "subID")
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_ID", err.Error())
		return
	}

	if err := store.DeleteSubstitution(r.Context(), h.pool, matchID, subID); err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GenerateSchedule seeds a season with round-robin matches.
// @Summary Generate a season schedule
// @Description Bulk-creates round-robin matches (one meeting per pair, weekly byes for odd team counts). Rejected if the season already has matches or has fewer than two teams.
// @Tags schedule
// @Produce json
// @Param seasonID path int true "Season ID"
// @Success 201 {object} league.Season
// @Failure 404 {object} respond.ErrorResponse
// @Failure 422 {object} respond.ErrorResponse
// @Router /api/v1/seasons/{seasonID}/schedule [post]
func (h *Handler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	seasonID, err := pathID(r, "seasonID")
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_ID", err.Error())
		return
	}

	season, err := store.GenerateSchedule(r.Context(), h.pool, seasonID)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusCreated, season)
}

// GetSeasonStats serves the season statistics payload.
// @Summary Season statistics
// @Description Recomputes per-bowler and per-team season statistics by replaying every persisted frame, with substitution-aware attribution. Cached with ETag support.
// @Tags stats
// @Produce json
// @Param seasonID path int true "Season ID"
// @Success 200 {object} stats.Report
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/v1/seasons/{seasonID}/stats [get]
func (h *Handler) GetSeasonStats(w http.ResponseWriter, r *http.Request) {
	seasonID, err := pathID(r, "seasonID")
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_ID", err.Error())
		return
	}

	key := statsCacheKey(seasonID)
	if data, etag, ok := h.cache.Get(key); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, cache.TTLStats, true)
		return
	}

	season, err := store.GetSeason(r.Context(), h.pool, seasonID)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	report, err := stats.Aggregate(r.Context(), season, store.Directory{Pool: h.pool})
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}

	data, err := json.Marshal(report)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "marshal statistics")
		return
	}
	etag := h.cache.Set(key, data, cache.TTLStats)
	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
		respond.WriteNotModified(w, etag)
		return
	}
	respond.WriteJSON(w, data, etag, cache.TTLStats, false)
}

func statsCacheKey(seasonID int64) string {
	return fmt.Sprintf("stats:season:%d", seasonID)
}
