package handlers

import (
	"net/http"

	apierrors "github.com/narvanalabs/signing-vault/internal/api/errors"
	"github.com/narvanalabs/signing-vault/internal/models"
)

// SigningLogResponse is the envelope returned by the signinglog resource.
type SigningLogResponse struct {
	apierrors.Envelope
	SigningLog []models.SigningLog `json:"logs"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	apierrors.WriteJSON(w, status, data)
}

// WriteSuccess writes a successful envelope holding the given entries.
// A nil slice is sent as an empty list.
func WriteSuccess(w http.ResponseWriter, logs []*models.SigningLog) {
	resp := SigningLogResponse{
		Envelope:   apierrors.Envelope{Success: true},
		SigningLog: make([]models.SigningLog, 0, len(logs)),
	}
	for _, l := range logs {
		resp.SigningLog = append(resp.SigningLog, *l)
	}
	WriteJSON(w, http.StatusOK, resp)
}

// WriteError writes a failure envelope.
func WriteError(w http.ResponseWriter, err *apierrors.APIError) {
	apierrors.WriteJSON(w, err.Status, SigningLogResponse{
		Envelope:   err.Envelope(),
		SigningLog: []models.SigningLog{},
	})
}
