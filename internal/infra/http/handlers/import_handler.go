package handlers

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/oneconsig-crm/internal/usecase"
	"go.uber.org/zap"
)

const maxUploadBytes = 20 << 20

type ImportHandler struct {
	ImportUC  *usecase.ImportLeadsUseCase
	EnqueueUC *usecase.EnqueueImportUseCase
}

func NewImportHandler(importUC *usecase.ImportLeadsUseCase, enqueueUC *usecase.EnqueueImportUseCase) *ImportHandler {
	return &ImportHandler{ImportUC: importUC, EnqueueUC: enqueueUC}
}

// POST /leads/import grava o mailing na mesma requisição.
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	csvText, err := readCSV(w, r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_FILE", err.Error())
		return
	}

	actor := actorFrom(r)
	progress := usecase.ProgressFunc(func(percent int) {
		zap.L().Debug("📊 Progresso da importação", zap.String("user_id", actor.ID), zap.Int("percent", percent))
	})

	out, err := h.ImportUC.Execute(r.Context(), actor, csvText, progress)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// POST /leads/import/async valida o arquivo e enfileira a gravação.
func (h *ImportHandler) ImportAsync(w http.ResponseWriter, r *http.Request) {
	if h.EnqueueUC == nil {
		writeErrorResponse(w, http.StatusServiceUnavailable, "QUEUE_DISABLED", "Importação assíncrona indisponível")
		return
	}

	csvText, err := readCSV(w, r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_FILE", err.Error())
		return
	}

	job, err := h.EnqueueUC.Execute(r.Context(), actorFrom(r), csvText)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, job)
}

// GET /leads/import/{jobId}
func (h *ImportHandler) Status(w http.ResponseWriter, r *http.Request) {
	if h.EnqueueUC == nil {
		writeErrorResponse(w, http.StatusServiceUnavailable, "QUEUE_DISABLED", "Importação assíncrona indisponível")
		return
	}

	job, err := h.EnqueueUC.ImportStatus(r.Context(), actorFrom(r), chi.URLParam(r, "jobId"))
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// readCSV aceita multipart (campo "file") ou o CSV cru no corpo.
func readCSV(w http.ResponseWriter, r *http.Request) (string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if strings.HasPrefix(mediaType, "multipart/") {
		file, _, err := r.FormFile("file")
		if err != nil {
			return "", fmt.Errorf("arquivo não enviado no campo 'file'")
		}
		defer file.Close()
		raw, err := io.ReadAll(file)
		if err != nil {
			return "", fmt.Errorf("erro ao ler arquivo: %w", err)
		}
		return string(raw), nil
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return "", fmt.Errorf("erro ao ler corpo: %w", err)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return "", fmt.Errorf("arquivo vazio")
	}
	return string(raw), nil
}
