package http

import (
	"net/http"

	"github.com/aussiebroadwan/twofactor/pkg/httpx"
	"github.com/aussiebroadwan/twofactor/pkg/jwtx"
)

// JWKSHandler exposes the attestation verification keys.
//
//	@Summary		Get JWKS
//	@Description	Returns the JSON Web Key Set used to verify attestation JWTs.
//	@Tags			well-known
//	@Produce		json
//	@Success		200	{object}	jwtx.JWKS	"The JSON Web Key Set"
//	@Router			/v1/jwks [get].
func JWKSHandler(attestor *jwtx.Attestor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, attestor.JWKS())
	}
}
