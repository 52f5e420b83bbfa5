package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/oneconsig-crm/internal/entity"
	"github.com/xavierca1/oneconsig-crm/internal/usecase"
)

type LeadHandler struct {
	Queries   *usecase.LeadQueryUseCase
	CreateUC  *usecase.CreateLeadUseCase
	StatusUC  *usecase.UpdateLeadStatusUseCase
	InfoUC    *usecase.UpdateLeadInfoUseCase
	ResetUC   *usecase.ResetDatabaseUseCase
	Dashboard *usecase.DashboardUseCase
}

func NewLeadHandler(
	queries *usecase.LeadQueryUseCase,
	createUC *usecase.CreateLeadUseCase,
	statusUC *usecase.UpdateLeadStatusUseCase,
	infoUC *usecase.UpdateLeadInfoUseCase,
	resetUC *usecase.ResetDatabaseUseCase,
	dashboard *usecase.DashboardUseCase,
) *LeadHandler {
	return &LeadHandler{
		Queries:   queries,
		CreateUC:  createUC,
		StatusUC:  statusUC,
		InfoUC:    infoUC,
		ResetUC:   resetUC,
		Dashboard: dashboard,
	}
}

// GET /leads (quadro kanban)
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	leads, err := h.Queries.List(r.Context(), actorFrom(r))
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

// GET /leads/paginated?page=1&pageSize=50&status=novo&ddbStart=&ddbEnd=&municipio=&search=
func (h *LeadHandler) Paginated(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))

	filter := entity.LeadFilter{
		Status:    q.Get("status"),
		DDBStart:  q.Get("ddbStart"),
		DDBEnd:    q.Get("ddbEnd"),
		Municipio: q.Get("municipio"),
		Search:    q.Get("search"),
	}

	resp, err := h.Queries.Paginated(r.Context(), actorFrom(r), page, pageSize, filter)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /leads/search?q=
func (h *LeadHandler) Search(w http.ResponseWriter, r *http.Request) {
	leads, err := h.Queries.Search(r.Context(), actorFrom(r), r.URL.Query().Get("q"))
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

// GET /leads/{id}
func (h *LeadHandler) Details(w http.ResponseWriter, r *http.Request) {
	out, err := h.Queries.Details(r.Context(), actorFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// POST /leads
func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	lead, err := h.CreateUC.Execute(r.Context(), actorFrom(r), input)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, lead)
}

type statusRequest struct {
	Status entity.LeadStatus `json:"status"`
}

// PATCH /leads/{id}/status
func (h *LeadHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	if err := h.StatusUC.Execute(r.Context(), actorFrom(r), chi.URLParam(r, "id"), req.Status); err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type bulkStatusRequest struct {
	IDs    []string          `json:"ids"`
	Status entity.LeadStatus `json:"status"`
}

// PATCH /leads/status
func (h *LeadHandler) BulkUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req bulkStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	out, err := h.StatusUC.ExecuteBulk(r.Context(), actorFrom(r), req.IDs, req.Status)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// PATCH /leads/{id}
func (h *LeadHandler) UpdateInfo(w http.ResponseWriter, r *http.Request) {
	var update entity.LeadInfoUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	if err := h.InfoUC.Execute(r.Context(), actorFrom(r), chi.URLParam(r, "id"), update); err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DELETE /leads
func (h *LeadHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.ResetUC.Execute(r.Context(), actorFrom(r)); err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /dashboard
func (h *LeadHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Dashboard.Execute(r.Context(), actorFrom(r))
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
