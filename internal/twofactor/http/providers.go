package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/twofactor/internal/twofactor/domain"
	"github.com/aussiebroadwan/twofactor/internal/twofactor/provider"
	"github.com/aussiebroadwan/twofactor/internal/twofactor/service"
	"github.com/aussiebroadwan/twofactor/pkg/httpx"
	"github.com/aussiebroadwan/twofactor/pkg/slogx"
	"github.com/aussiebroadwan/twofactor/pkg/tfasdk"
)

// ProvidersHandler serves the provider catalog and API-key operations.
type ProvidersHandler struct {
	TwoFactorService *service.TwoFactorService
}

// HandleList handles GET /v1/providers
//
//	@Summary		List two-factor providers
//	@Description	Returns the catalog of enrollable providers in presentation order.
//	@Tags			Providers
//	@Security		AdminToken
//	@Produce		json
//	@Success		200	{object}	tfasdk.ProvidersResponse	"Provider catalog"
//	@Failure		401	{object}	tfasdk.ErrorResponse		"Invalid or missing admin token"
//	@Router			/v1/providers [get].
func (h *ProvidersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	descriptors := h.TwoFactorService.Providers()

	out := tfasdk.ProvidersResponse{Providers: make([]tfasdk.ProviderInfo, 0, len(descriptors))}
	for _, d := range descriptors {
		out.Providers = append(out.Providers, tfasdk.ProviderInfo{
			ID:          d.ID,
			DisplayName: d.DisplayName,
			InfoURL:     d.InfoURL,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleAPIKeyForm handles GET /v1/providers/{id}/forms/apikey
//
//	@Summary		Get API key form
//	@Description	Returns the credential form descriptors for a provider, pre-filled from current settings.
//	@Tags			Providers
//	@Security		AdminToken
//	@Produce		json
//	@Param			id	path		string					true	"Provider id"
//	@Success		200	{object}	tfasdk.FormResponse		"Form field descriptors"
//	@Failure		404	{object}	tfasdk.ErrorResponse	"Unknown provider"
//	@Router			/v1/providers/{id}/forms/apikey [get].
func (h *ProvidersHandler) HandleAPIKeyForm(w http.ResponseWriter, r *http.Request) {
	providerID := r.PathValue("id")

	fields, err := h.TwoFactorService.APIKeyFields(providerID)
	if err != nil {
		if errors.Is(err, provider.ErrUnknownProvider) {
			tfasdk.ErrUnknownProvider.WriteError(w)
			return
		}
		slogx.FromContext(r.Context()).Error("render API key form", "provider", providerID, "err", err)
		tfasdk.ErrServerError.WriteError(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, tfasdk.FormResponse{
		Provider: providerID,
		Fields:   toSDKFields(fields),
	})
}

// HandleAPIKeyCheck handles POST /v1/providers/{id}/apikey/check
//
//	@Summary		Check an API key
//	@Description	Parses the submitted credential fields and verifies them against the provider's remote service.
//	@Description	The key is persisted onto the service settings only after the check passes.
//	@Tags			Providers
//	@Security		AdminToken
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			id		path	string	true	"Provider id"
//	@Param			apikey	formData	string	true	"API key to check"
//	@Success		204	"Key accepted"
//	@Failure		400	{object}	tfasdk.ErrorResponse	"Malformed or rejected key"
//	@Failure		404	{object}	tfasdk.ErrorResponse	"Unknown provider"
//	@Failure		502	{object}	tfasdk.ErrorResponse	"Remote service failure"
//	@Router			/v1/providers/{id}/apikey/check [post].
func (h *ProvidersHandler) HandleAPIKeyCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	providerID := r.PathValue("id")

	if err := r.ParseForm(); err != nil {
		tfasdk.ErrInvalidRequest.WriteError(w)
		return
	}

	err := h.TwoFactorService.CheckAPIKey(ctx, providerID, r.PostForm)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, provider.ErrUnknownProvider):
		tfasdk.ErrUnknownProvider.WriteError(w)
	case errors.Is(err, provider.ErrInvalidAPIKey):
		log.Warn("API key rejected", "provider", providerID)
		tfasdk.ErrInvalidAPIKey.WriteError(w)
	default:
		log.Warn("API key check failed", "provider", providerID, "err", err)
		apiErr := &tfasdk.APIError{
			StatusCode:  http.StatusBadGateway,
			Code:        tfasdk.ErrorCodeRemoteFailure,
			Description: err.Error(),
		}
		apiErr.WriteError(w)
	}
}

func toSDKFields(fields []domain.FormField) []tfasdk.FormField {
	out := make([]tfasdk.FormField, 0, len(fields))
	for _, f := range fields {
		out = append(out, tfasdk.FormField{
			Name:  f.Name,
			Label: f.Label,
			Type:  f.Type,
			Value: f.Value,
			Hint:  f.Hint,
		})
	}
	return out
}
