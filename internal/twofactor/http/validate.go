package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/twofactor/internal/twofactor/provider"
	"github.com/aussiebroadwan/twofactor/internal/twofactor/service"
	"github.com/aussiebroadwan/twofactor/pkg/httpx"
	"github.com/aussiebroadwan/twofactor/pkg/slogx"
	"github.com/aussiebroadwan/twofactor/pkg/tfasdk"
)

// ValidateHandler serves token and backup-code validation.
type ValidateHandler struct {
	TwoFactorService *service.TwoFactorService
}

// HandlePost handles POST /v1/users/{username}/twofactor/validate
//
//	@Summary		Validate a token or backup code
//	@Description	Checks a provider token (or consumes a single-use backup code) for the user and
//	@Description	returns a short-lived attestation on success. Exactly one of token or backup_code
//	@Description	must be set.
//	@Tags			Validation
//	@Security		AdminToken
//	@Accept			json
//	@Produce		json
//	@Param			username	path		string					true	"Username"
//	@Param			request		body		tfasdk.ValidateRequest	true	"Token or backup code"
//	@Success		200			{object}	tfasdk.ValidateResponse	"Attestation JWT"
//	@Failure		400			{object}	tfasdk.ErrorResponse	"Malformed request"
//	@Failure		401			{object}	tfasdk.ErrorResponse	"Token rejected"
//	@Failure		404			{object}	tfasdk.ErrorResponse	"User not enrolled"
//	@Failure		502			{object}	tfasdk.ErrorResponse	"Remote verification failure"
//	@Router			/v1/users/{username}/twofactor/validate [post].
func (h *ValidateHandler) HandlePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	username := r.PathValue("username")

	var req tfasdk.ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		tfasdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if (req.Token == "") == (req.BackupCode == "") {
		tfasdk.ErrInvalidRequest.WithDescription("exactly one of token or backup_code must be set").WriteError(w)
		return
	}

	var (
		attestation string
		err         error
	)
	if req.Token != "" {
		attestation, err = h.TwoFactorService.Validate(ctx, username, req.Token)
	} else {
		attestation, err = h.TwoFactorService.ValidateBackupCode(ctx, username, req.BackupCode)
	}

	switch {
	case err == nil:
		log.Info("validation succeeded", "username", username)
		httpx.NoCache(w)
		httpx.WriteJSON(w, http.StatusOK, tfasdk.ValidateResponse{Attestation: attestation})
	case errors.Is(err, service.ErrNotEnrolled):
		tfasdk.ErrNotEnrolled.WriteError(w)
	case errors.Is(err, provider.ErrTokenMismatch),
		errors.Is(err, provider.ErrTokenRejected),
		errors.Is(err, service.ErrBackupCodeInvalid):
		log.Warn("validation rejected", "username", username)
		tfasdk.ErrInvalidToken.WriteError(w)
	default:
		log.Error("validation failed", "username", username, "err", err)
		apiErr := &tfasdk.APIError{
			StatusCode:  http.StatusBadGateway,
			Code:        tfasdk.ErrorCodeRemoteFailure,
			Description: err.Error(),
		}
		apiErr.WriteError(w)
	}
}
