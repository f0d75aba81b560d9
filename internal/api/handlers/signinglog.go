// Package handlers provides HTTP request handlers for the admin API.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	apierrors "github.com/narvanalabs/signing-vault/internal/api/errors"
	"github.com/narvanalabs/signing-vault/internal/api/middleware"
	"github.com/narvanalabs/signing-vault/internal/store"
	"github.com/narvanalabs/signing-vault/pkg/logger"
)

// DefaultPageSize is the number of entries returned per page when none is configured.
const DefaultPageSize = 50

// SigningLogHandler handles requests for the signinglog resource.
type SigningLogHandler struct {
	store    store.Store
	pageSize int
	logger   *slog.Logger
}

// NewSigningLogHandler creates a new signing log handler.
func NewSigningLogHandler(st store.Store, pageSize int, log *slog.Logger) *SigningLogHandler {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if log == nil {
		log = slog.Default()
	}
	return &SigningLogHandler{
		store:    st,
		pageSize: pageSize,
		logger:   log,
	}
}

// log returns the handler logger carrying the request and user IDs of r.
func (h *SigningLogHandler) log(r *http.Request) *logger.Logger {
	return (&logger.Logger{Logger: h.logger}).WithContext(r.Context())
}

// List handles GET /signinglog - returns a newest-first page of entries.
// An optional fromID query parameter restricts the page to older entries.
// A fromID that is not a positive integer is ignored.
func (h *SigningLogHandler) List(w http.ResponseWriter, r *http.Request) {
	fromID := 0
	if raw := r.URL.Query().Get("fromID"); raw != "" {
		if id, err := strconv.Atoi(raw); err == nil && id > 0 {
			fromID = id
		} else {
			h.log(r).Debug("ignoring invalid signing log cursor", "from_id", raw)
		}
	}

	logs, err := h.store.SigningLogs().List(r.Context(), fromID, h.pageSize)
	if err != nil {
		h.log(r).Error("failed to list signing logs", "error", err, "from_id", fromID)
		WriteError(w, apierrors.NewInternalError(apierrors.CodeFetchSigningLog, "Failed to retrieve the signing logs"))
		return
	}

	WriteSuccess(w, logs)
}

// Delete handles DELETE /signinglog/{id} - removes one entry. The request body is ignored.
func (h *SigningLogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		WriteError(w, apierrors.NewBadRequest(apierrors.CodeInvalidSigningLog, apierrors.SubcodeBadID, "Invalid signing log ID"))
		return
	}

	if err := h.store.SigningLogs().Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteError(w, apierrors.NewNotFound(apierrors.CodeInvalidSigningLog, "Cannot find the signing log"))
			return
		}
		h.log(r).Error("failed to delete signing log", "error", err, "id", id)
		WriteError(w, apierrors.NewInternalError(apierrors.CodeDeletingSigningLog, "Failed to delete the signing log"))
		return
	}

	h.log(r).Info("signing log deleted", "id", id, "user_email", middleware.GetUserEmail(r.Context()))
	WriteSuccess(w, nil)
}
