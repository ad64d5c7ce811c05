// Package cars exposes the building over a small JSON HTTP API.
package cars

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/kilianp07/liftsim/core/kpi"
	"github.com/kilianp07/liftsim/core/model"
)

// Building is the part of the simulator driven by the API.
type Building interface {
	RequestCar(floor int, dir model.Direction) bool
	RequestFloor(carIndex, floor int) bool
	SetPolicy(p model.Policy) bool
	Reconfigure(totalFloors int) error
	Status() model.FleetStatus
}

// KPISource provides wait time statistics.
type KPISource interface {
	Summary() kpi.Summary
}

type callRequest struct {
	Floor     *int   `json:"floor"`
	Direction string `json:"direction"`
}

type floorRequest struct {
	Floor *int `json:"floor"`
}

type policyRequest struct {
	Policy string `json:"policy"`
}

type buildingRequest struct {
	Floors int `json:"floors"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewMux routes every API endpoint. kpis may be nil.
func NewMux(b Building, kpis KPISource) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/api/cars", NewCarsHandler(b))
	mux.Handle("/api/cars/", NewCabinHandler(b))
	mux.Handle("/api/calls", NewCallHandler(b))
	mux.Handle("/api/policy", NewPolicyHandler(b))
	mux.Handle("/api/building", NewBuildingHandler(b))
	if kpis != nil {
		mux.Handle("/api/kpi", NewKPIHandler(kpis))
	}
	return mux
}

// NewCarsHandler exposes the fleet status via GET /api/cars.
func NewCarsHandler(b Building) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, b.Status())
	})
}

// NewCallHandler registers hall calls via POST /api/calls.
func NewCallHandler(b Building) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req callRequest
		if err := decode(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if req.Floor == nil {
			writeError(w, http.StatusBadRequest, errors.New("floor is required"))
			return
		}
		dir, err := model.ParseDirection(req.Direction)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if !b.RequestCar(*req.Floor, dir) {
			writeError(w, http.StatusUnprocessableEntity, errors.New("hall call refused"))
			return
		}
		writeJSON(w, http.StatusAccepted, b.Status())
	})
}

// NewCabinHandler registers cabin requests via POST /api/cars/{id}/requests
// where id is the 1-based car id.
func NewCabinHandler(b Building) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/api/cars/")
		parts := strings.Split(path, "/")
		if len(parts) != 2 || parts[1] != "requests" {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		id, err := strconv.Atoi(parts[0])
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("car id must be an integer"))
			return
		}
		var req floorRequest
		if err := decode(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if req.Floor == nil {
			writeError(w, http.StatusBadRequest, errors.New("floor is required"))
			return
		}
		if !b.RequestFloor(id-1, *req.Floor) {
			writeError(w, http.StatusUnprocessableEntity, errors.New("cabin request refused"))
			return
		}
		writeJSON(w, http.StatusAccepted, b.Status())
	})
}

// NewPolicyHandler switches the assignment policy via PUT /api/policy.
func NewPolicyHandler(b Building) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req policyRequest
		if err := decode(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		p, err := model.ParsePolicy(req.Policy)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		b.SetPolicy(p)
		writeJSON(w, http.StatusOK, b.Status())
	})
}

// NewBuildingHandler resets the building with a new floor count via
// PUT /api/building.
func NewBuildingHandler(b Building) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req buildingRequest
		if err := decode(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if err := b.Reconfigure(req.Floors); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		writeJSON(w, http.StatusOK, b.Status())
	})
}

// NewKPIHandler exposes wait time statistics via GET /api/kpi.
func NewKPIHandler(src KPISource) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, src.Summary())
	})
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, errorResponse{Error: err.Error()})
}
