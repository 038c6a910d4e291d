package handler

import (
	"net/http"

	"carins/internal/insurance/service"
	"carins/pkg/httputil"
	"carins/pkg/requestcontext"
)

func (h *Handler) HandleCreateClaim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	carID, ok := pathID(w, r, "carID")
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[CreateClaimRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	claim, err := h.service.CreateClaim(ctx, carID, service.CreateClaimInput{
		ClaimDate:   req.ClaimDate,
		Description: req.Description,
		Amount:      req.Amount,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toClaimResponse(claim))
}

func (h *Handler) HandleListClaims(w http.ResponseWriter, r *http.Request) {
	carID, ok := pathID(w, r, "carID")
	if !ok {
		return
	}

	claims, err := h.service.ListClaimsByCar(r.Context(), carID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	out := make([]ClaimResponse, 0, len(claims))
	for _, claim := range claims {
		out = append(out, toClaimResponse(claim))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}
