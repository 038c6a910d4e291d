package handler

import (
	"net/http"

	"carins/internal/insurance/service"
	"carins/pkg/httputil"
	"carins/pkg/requestcontext"
)

func (h *Handler) HandleListPolicies(w http.ResponseWriter, r *http.Request) {
	policies, err := h.service.ListPolicies(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPolicyResponses(policies))
}

func (h *Handler) HandleGetPolicy(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "policyID")
	if !ok {
		return
	}
	policy, err := h.service.GetPolicy(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPolicyResponse(policy))
}

func (h *Handler) HandleListCarPolicies(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "carID")
	if !ok {
		return
	}
	policies, err := h.service.ListPoliciesByCar(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPolicyResponses(policies))
}

func (h *Handler) HandleCreatePolicy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreatePolicyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	policy, err := h.service.CreatePolicy(ctx, service.CreatePolicyInput{
		CarID:     req.CarID,
		Provider:  req.Provider,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toPolicyResponse(policy))
}

func (h *Handler) HandleUpdatePolicy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(w, r, "policyID")
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[UpdatePolicyRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	start := req.StartDate
	end := req.EndDate
	policy, err := h.service.UpdatePolicy(ctx, id, service.UpdatePolicyInput{
		CarID:     req.CarID,
		Provider:  req.Provider,
		StartDate: &start,
		EndDate:   &end,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPolicyResponse(policy))
}

func (h *Handler) HandleDeletePolicy(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "policyID")
	if !ok {
		return
	}
	if err := h.service.DeletePolicy(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleFixOpenEnded closes every open-ended policy one year after its start
// and reports the repaired policies.
func (h *Handler) HandleFixOpenEnded(w http.ResponseWriter, r *http.Request) {
	fixed, err := h.service.FixOpenEndedPolicies(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message":  "Open-ended policies fixed",
		"fixed":    len(fixed),
		"policies": toPolicyResponses(fixed),
	})
}
