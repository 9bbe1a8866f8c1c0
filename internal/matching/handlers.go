package matching

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/smartnewbieproject/solo-backend/internal/common/utils"
)

const userIDHeader = "X-User-ID"

type Handler struct {
	service  Service
	creation *CreationService
	history  *HistoryManager
	log      *zap.SugaredLogger
}

func NewHandler(service Service, creation *CreationService, history *HistoryManager, log *zap.SugaredLogger) *Handler {
	return &Handler{
		service:  service,
		creation: creation,
		history:  history,
		log:      log,
	}
}

// GetLatestPartner returns the view-state result for the requester's
// most recent match.
func (h *Handler) GetLatestPartner(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get(userIDHeader)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}

	details, err := h.service.GetLatestPartner(r.Context(), userID)
	if err != nil {
		h.log.Errorw("failed to get latest partner", "user_id", userID, "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get latest partner")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, details)
}

// FindMatches returns the requester's current ranked candidate list.
func (h *Handler) FindMatches(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get(userIDHeader)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	matchType := MatchType(r.URL.Query().Get("type"))
	if matchType == "" {
		matchType = MatchTypeScheduled
	}

	partners, err := h.service.FindMatches(r.Context(), userID, limit, matchType)
	if err != nil {
		h.log.Errorw("failed to find matches", "user_id", userID, "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to find matches")
		return
	}
	if partners == nil {
		partners = []WeightedPartner{}
	}
	utils.RespondWithJSON(w, http.StatusOK, partners)
}

// GetMatchCount returns the requester's lifetime match total.
func (h *Handler) GetMatchCount(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get(userIDHeader)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}

	count, err := h.service.GetTotalMatchingCount(r.Context(), userID)
	if err != nil {
		h.log.Errorw("failed to count matches", "user_id", userID, "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to count matches")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, MatchCountResponse{Count: count})
}

// Rematch creates an early replacement match for the requester.
func (h *Handler) Rematch(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get(userIDHeader)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}

	if err := h.creation.CreatePartner(r.Context(), userID, MatchTypeRematching, false); err != nil {
		h.log.Errorw("rematch failed", "user_id", userID, "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create rematch")
		return
	}
	utils.MessageResponse(w, "Rematch created", http.StatusOK)
}

// RunBatch kicks off a full batch run in the background. The run is
// detached from the request context so closing the connection does
// not abort it.
func (h *Handler) RunBatch(w http.ResponseWriter, r *http.Request) {
	go func() {
		if err := h.creation.ProcessMatchCentral(context.WithoutCancel(r.Context())); err != nil {
			h.log.Errorw("manual batch run failed", "error", err)
		}
	}()
	utils.MessageResponse(w, "Batch matching started", http.StatusAccepted)
}

// AdminCreatePartner creates a match for an arbitrary user.
func (h *Handler) AdminCreatePartner(w http.ResponseWriter, r *http.Request) {
	var dto AdminCreatePartnerDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := utils.ValidateStruct(dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.creation.CreatePartner(r.Context(), dto.UserID, MatchTypeAdmin, false); err != nil {
		h.log.Errorw("admin match creation failed", "user_id", dto.UserID, "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create match")
		return
	}
	utils.MessageResponse(w, "Match created", http.StatusCreated)
}

// AdminClearHistory drops every exclusion entry for a user so they can
// be matched with recent partners again.
func (h *Handler) AdminClearHistory(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	removed, err := h.history.ClearMatchedUsers(r.Context(), userID)
	if err != nil {
		h.log.Errorw("failed to clear match history", "user_id", userID, "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to clear match history")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, ClearHistoryResponse{Removed: removed})
}
