package handler

import (
	"net/http"

	"carins/internal/insurance/service"
	"carins/pkg/httputil"
	"carins/pkg/requestcontext"
)

func (h *Handler) HandleListOwners(w http.ResponseWriter, r *http.Request) {
	owners, err := h.service.ListOwners(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	out := make([]OwnerResponse, 0, len(owners))
	for _, owner := range owners {
		out = append(out, toOwnerResponse(owner))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) HandleGetOwner(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "ownerID")
	if !ok {
		return
	}
	owner, err := h.service.GetOwner(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toOwnerResponse(owner))
}

func (h *Handler) HandleCreateOwner(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateOwnerRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	owner, err := h.service.CreateOwner(ctx, service.CreateOwnerInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toOwnerResponse(owner))
}

func (h *Handler) HandleUpdateOwner(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(w, r, "ownerID")
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[UpdateOwnerRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	owner, err := h.service.UpdateOwner(ctx, id, service.UpdateOwnerInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toOwnerResponse(owner))
}

func (h *Handler) HandleDeleteOwner(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "ownerID")
	if !ok {
		return
	}
	if err := h.service.DeleteOwner(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleListOwnerCars(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(w, r, "ownerID")
	if !ok {
		return
	}

	owner, err := h.service.GetOwner(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	cars, err := h.service.ListCarsByOwner(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]CarResponse, 0, len(cars))
	for _, car := range cars {
		out = append(out, toCarResponse(car, owner))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}
