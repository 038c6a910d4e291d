package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"carins/internal/insurance/models"
	"carins/internal/insurance/service"
	"carins/pkg/httputil"
	"carins/pkg/requestcontext"
)

func (h *Handler) HandleListCars(w http.ResponseWriter, r *http.Request) {
	cars, err := h.service.ListCars(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	out, err := h.carsWithOwners(r.Context(), cars)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) HandleGetCar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(w, r, "carID")
	if !ok {
		return
	}
	car, err := h.service.GetCar(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	owner, err := h.service.GetOwner(ctx, car.OwnerID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCarResponse(car, owner))
}

func (h *Handler) HandleCreateCar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateCarRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	car, err := h.service.CreateCar(ctx, service.CreateCarInput{
		VIN:               req.VIN,
		Make:              req.Make,
		Model:             req.Model,
		YearOfManufacture: req.YearOfManufacture,
		OwnerID:           req.OwnerID,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	owner, err := h.service.GetOwner(ctx, car.OwnerID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toCarResponse(car, owner))
}

func (h *Handler) HandleUpdateCar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(w, r, "carID")
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[UpdateCarRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	car, err := h.service.UpdateCar(ctx, id, service.UpdateCarInput{
		VIN:               req.VIN,
		Make:              req.Make,
		Model:             req.Model,
		YearOfManufacture: req.YearOfManufacture,
		OwnerID:           req.OwnerID,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	owner, err := h.service.GetOwner(ctx, car.OwnerID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCarResponse(car, owner))
}

func (h *Handler) HandleDeleteCar(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "carID")
	if !ok {
		return
	}
	if err := h.service.DeleteCar(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleInsuranceValid(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "carID")
	if !ok {
		return
	}

	date, valid, err := h.service.IsInsuranceValid(r.Context(), id, r.URL.Query().Get("date"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, InsuranceValidityResponse{
		CarID: id,
		Date:  date.String(),
		Valid: valid,
	})
}

func (h *Handler) HandleCarHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "carID")
	if !ok {
		return
	}

	history, err := h.service.GetCarHistory(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toHistoryResponse(history))
}

// carsWithOwners resolves each car's owner, deduplicating lookups across the
// batch.
func (h *Handler) carsWithOwners(ctx context.Context, cars []models.Car) ([]CarResponse, error) {
	owners := make(map[uuid.UUID]models.Owner)
	out := make([]CarResponse, 0, len(cars))
	for _, car := range cars {
		owner, ok := owners[car.OwnerID]
		if !ok {
			var err error
			owner, err = h.service.GetOwner(ctx, car.OwnerID)
			if err != nil {
				return nil, err
			}
			owners[car.OwnerID] = owner
		}
		out = append(out, toCarResponse(car, owner))
	}
	return out, nil
}
