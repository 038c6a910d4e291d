// Package handler exposes the insurance REST surface: owners, cars, policies,
// and claims under /api.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"carins/internal/insurance/service"
	dErrors "carins/pkg/domainerrors"
	"carins/pkg/httputil"
)

// Handler wires the insurance endpoints onto the router.
type Handler struct {
	service *service.Service
	logger  *slog.Logger
}

func New(service *service.Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the insurance endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/owners", func(r chi.Router) {
		r.Get("/", h.HandleListOwners)
		r.Post("/", h.HandleCreateOwner)
		r.Get("/{ownerID}", h.HandleGetOwner)
		r.Put("/{ownerID}", h.HandleUpdateOwner)
		r.Delete("/{ownerID}", h.HandleDeleteOwner)
		r.Get("/{ownerID}/cars", h.HandleListOwnerCars)
	})

	r.Route("/api/cars", func(r chi.Router) {
		r.Get("/", h.HandleListCars)
		r.Post("/", h.HandleCreateCar)
		r.Get("/{carID}", h.HandleGetCar)
		r.Put("/{carID}", h.HandleUpdateCar)
		r.Delete("/{carID}", h.HandleDeleteCar)
		r.Get("/{carID}/insurance-valid", h.HandleInsuranceValid)
		r.Get("/{carID}/history", h.HandleCarHistory)
		r.Post("/{carID}/claims", h.HandleCreateClaim)
		r.Get("/{carID}/claims", h.HandleListClaims)
	})

	r.Route("/api/policies", func(r chi.Router) {
		r.Get("/", h.HandleListPolicies)
		r.Post("/", h.HandleCreatePolicy)
		r.Get("/{policyID}", h.HandleGetPolicy)
		r.Put("/{policyID}", h.HandleUpdatePolicy)
		r.Delete("/{policyID}", h.HandleDeletePolicy)
		r.Get("/car/{carID}", h.HandleListCarPolicies)
		r.Post("/fix-open-ended", h.HandleFixOpenEnded)
	})
}

// pathID parses a UUID path parameter, writing the error response itself on
// failure.
func pathID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		httputil.WriteError(w, dErrors.Newf(dErrors.CodeBadRequest, "invalid %s", param))
		return uuid.Nil, false
	}
	return id, true
}
