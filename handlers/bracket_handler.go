package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Dosada05/tournament-brackets/services"
	"github.com/go-chi/chi/v5"
)

type BracketHandler struct {
	bracketService services.BracketService
}

func NewBracketHandler(bs services.BracketService) *BracketHandler {
	return &BracketHandler{bracketService: bs}
}

type recordResultInput struct {
	Winner string `json:"winner"`
}

// GetBracket godoc
// @Summary Текущая сетка турнира
// @Tags brackets
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} models.StoredBracket
// @Failure 404 {object} map[string]string "Турнир или сетка не найдены"
// @Router /tournaments/{tournamentID}/bracket [get]
func (h *BracketHandler) GetBracket(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	stored, err := h.bracketService.Get(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, stored, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetBracketVersion обрабатывает GET /tournaments/{tournamentID}/bracket/versions/{version}
func (h *BracketHandler) GetBracketVersion(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	version, err := getIDFromURL(r, "version")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	stored, err := h.bracketService.GetVersion(r.Context(), tournamentID, version)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, stored, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecordResult godoc
// @Summary Записать победителя матча
// @Tags brackets
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param matchID path string true "Match ID (gf для гранд-финала)"
// @Param body body recordResultInput true "Победитель"
// @Success 200 {object} services.ResultOutcome
// @Failure 400 {object} map[string]string "Победитель не играет в матче"
// @Failure 403 {object} map[string]string "Не организатор турнира"
// @Failure 404 {object} map[string]string "Матч не найден"
// @Failure 409 {object} map[string]string "Матч уже сыгран, не готов или сетка изменилась"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/matches/{matchID}/result [post]
func (h *BracketHandler) RecordResult(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input recordResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if strings.TrimSpace(input.Winner) == "" {
		badRequestResponse(w, r, errors.New("winner is required"))
		return
	}

	out, err := h.bracketService.RecordResult(r.Context(), actor, tournamentID, chi.URLParam(r, "matchID"), input.Winner)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, out, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ClearResult обрабатывает DELETE /tournaments/{tournamentID}/matches/{matchID}/result
func (h *BracketHandler) ClearResult(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	out, err := h.bracketService.ClearResult(r.Context(), actor, tournamentID, chi.URLParam(r, "matchID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, out, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BracketHandler) Reset(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	stored, err := h.bracketService.Reset(r.Context(), actor, tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, stored, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
