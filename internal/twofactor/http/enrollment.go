package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/twofactor/internal/twofactor/provider"
	"github.com/aussiebroadwan/twofactor/internal/twofactor/service"
	"github.com/aussiebroadwan/twofactor/pkg/httpx"
	"github.com/aussiebroadwan/twofactor/pkg/slogx"
	"github.com/aussiebroadwan/twofactor/pkg/tfasdk"
)

// EnrollmentHandler serves enrollment status, forms, enrollment and
// unenrollment for a user.
type EnrollmentHandler struct {
	TwoFactorService *service.TwoFactorService
}

// HandleStatus handles GET /v1/users/{username}/twofactor
//
//	@Summary		Get enrollment status
//	@Description	Reports whether the user is enrolled and with which provider.
//	@Tags			Enrollment
//	@Security		AdminToken
//	@Produce		json
//	@Param			username	path		string					true	"Username"
//	@Success		200			{object}	tfasdk.StatusResponse	"Enrollment state"
//	@Failure		401			{object}	tfasdk.ErrorResponse	"Invalid or missing admin token"
//	@Router			/v1/users/{username}/twofactor [get].
func (h *EnrollmentHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	username := r.PathValue("username")

	_, desc, err := h.TwoFactorService.Status(ctx, username)
	if err != nil {
		if errors.Is(err, service.ErrNotEnrolled) {
			httpx.WriteJSON(w, http.StatusOK, tfasdk.StatusResponse{Enrolled: false})
			return
		}
		slogx.FromContext(ctx).Error("load enrollment status", "username", username, "err", err)
		tfasdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, tfasdk.StatusResponse{
		Enrolled: true,
		Provider: &tfasdk.ProviderInfo{
			ID:          desc.ID,
			DisplayName: desc.DisplayName,
			InfoURL:     desc.InfoURL,
		},
	})
}

// HandleEnrollForm handles GET /v1/users/{username}/twofactor/forms/enroll
//
//	@Summary		Get enrollment form
//	@Description	Returns the enrollment form descriptors for a provider, pre-filled from the user's existing record.
//	@Tags			Enrollment
//	@Security		AdminToken
//	@Produce		json
//	@Param			username	path		string					true	"Username"
//	@Param			provider	query		string					true	"Provider id"
//	@Success		200			{object}	tfasdk.FormResponse		"Form field descriptors"
//	@Failure		404			{object}	tfasdk.ErrorResponse	"Unknown provider"
//	@Router			/v1/users/{username}/twofactor/forms/enroll [get].
func (h *EnrollmentHandler) HandleEnrollForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	username := r.PathValue("username")
	providerID := r.URL.Query().Get("provider")

	fields, err := h.TwoFactorService.EnrollFields(ctx, username, providerID)
	if err != nil {
		if errors.Is(err, provider.ErrUnknownProvider) {
			tfasdk.ErrUnknownProvider.WriteError(w)
			return
		}
		slogx.FromContext(ctx).Error("render enroll form", "username", username, "provider", providerID, "err", err)
		tfasdk.ErrServerError.WriteError(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, tfasdk.FormResponse{
		Provider: providerID,
		Fields:   toSDKFields(fields),
	})
}

// HandleEnroll handles POST /v1/users/{username}/twofactor/enroll
//
//	@Summary		Enroll a user
//	@Description	Validates the submitted form, runs the provider-specific enrollment and persists the record.
//	@Description	Re-enrolling overwrites the previous enrollment. Backup codes are returned once and not recoverable.
//	@Tags			Enrollment
//	@Security		AdminToken
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			username	path		string					true	"Username"
//	@Param			provider	formData	string					true	"Provider id"
//	@Success		200			{object}	tfasdk.EnrollResponse	"Provisioning artifact and backup codes"
//	@Failure		400			{object}	tfasdk.ErrorResponse	"Invalid form fields or remote enrollment failure"
//	@Failure		404			{object}	tfasdk.ErrorResponse	"Unknown provider"
//	@Router			/v1/users/{username}/twofactor/enroll [post].
func (h *EnrollmentHandler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	username := r.PathValue("username")

	if err := r.ParseForm(); err != nil {
		tfasdk.ErrInvalidRequest.WriteError(w)
		return
	}
	providerID := r.PostForm.Get("provider")

	enrollment, err := h.TwoFactorService.Enroll(ctx, username, providerID, r.PostForm)
	if err != nil {
		if errors.Is(err, provider.ErrUnknownProvider) {
			tfasdk.ErrUnknownProvider.WriteError(w)
			return
		}
		log.Warn("enrollment failed", "username", username, "provider", providerID, "err", err)
		tfasdk.ErrInvalidRequest.WithDescription(err.Error()).WriteError(w)
		return
	}

	log.Info("user enrolled", "username", username, "provider", providerID)

	out := tfasdk.EnrollResponse{
		Provider:    enrollment.Record.ProviderID,
		BackupCodes: enrollment.BackupCodes,
	}
	if enrollment.Provisioning.URI != "" {
		out.Provisioning = &tfasdk.Provisioning{
			URI:        enrollment.Provisioning.URI,
			QRImageURL: enrollment.Provisioning.QRImageURL,
			Secret:     enrollment.Provisioning.Secret,
		}
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleUnenroll handles DELETE /v1/users/{username}/twofactor
//
//	@Summary		Unenroll a user
//	@Description	Removes the user's enrollment record and backup codes. Unenrolling a user with no record succeeds.
//	@Tags			Enrollment
//	@Security		AdminToken
//	@Param			username	path	string	true	"Username"
//	@Success		204			"Enrollment removed"
//	@Failure		401			{object}	tfasdk.ErrorResponse	"Invalid or missing admin token"
//	@Failure		500			{object}	tfasdk.ErrorResponse	"Internal server error"
//	@Router			/v1/users/{username}/twofactor [delete].
func (h *EnrollmentHandler) HandleUnenroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	username := r.PathValue("username")

	if err := h.TwoFactorService.Unenroll(ctx, username); err != nil {
		slogx.FromContext(ctx).Error("unenroll failed", "username", username, "err", err)
		tfasdk.ErrServerError.WriteError(w)
		return
	}

	slogx.FromContext(ctx).Info("user unenrolled", "username", username)
	w.WriteHeader(http.StatusNoContent)
}
