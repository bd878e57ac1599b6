// Package api - Thin, deterministic API layer
// The API is ONLY responsible for: input ingestion, engine orchestration,
// output serialization. The API NEVER performs analytics logic.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"budget-analytics/core/analytics"
	"budget-analytics/core/types"
	"budget-analytics/internal/errors"
	"budget-analytics/internal/logging"
)

// Server is the API server
type Server struct {
	svc     *analytics.Service
	mux     *http.ServeMux
	version string
	log     *zap.Logger
}

// NewServer creates a new API server over the analytics service
func NewServer(svc *analytics.Service, version string) *Server {
	s := &Server{
		svc:     svc,
		mux:     http.NewServeMux(),
		version: version,
		log:     logging.Logger.Named("api"),
	}
	s.registerRoutes()
	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /v1/heatmap", s.handleHeatmap)
	s.mux.HandleFunc("POST /v1/entity", s.handleEntity)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /version", s.handleVersion)
}

// handleHeatmap handles POST /v1/heatmap
func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()

	var req HeatmapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, requestID, errors.Input("invalid JSON body"))
		return
	}
	if req.Scope == "" {
		req.Scope = types.ScopeCounty
	}
	if !req.Scope.IsValid() {
		s.writeError(w, requestID, errors.Input("unknown heatmap scope"))
		return
	}

	opts := resolveOptions(req.Normalization, req.Currency, req.InflationAdjusted, &req.Filter)

	var (
		points []types.AggregatedDataPoint
		err    error
	)
	if req.Scope == types.ScopeCounty {
		points, err = s.svc.CountyHeatmap(r.Context(), &req.Filter, opts)
	} else {
		points, err = s.svc.UatHeatmap(r.Context(), &req.Filter, opts)
	}
	if err != nil {
		s.writeError(w, requestID, err)
		return
	}

	s.writeJSON(w, http.StatusOK, HeatmapResponse{RequestID: requestID, Points: points})
}

// handleEntity handles POST /v1/entity
func (s *Server) handleEntity(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()

	var req EntityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, requestID, errors.Input("invalid JSON body"))
		return
	}

	opts := resolveOptions(req.Normalization, req.Currency, req.InflationAdjusted, &req.Filter)

	resp := EntityResponse{RequestID: requestID}
	if req.Series {
		series, err := s.svc.EntitySeries(r.Context(), &req.Filter, opts)
		if err != nil {
			s.writeError(w, requestID, err)
			return
		}
		resp.Series = series
	} else {
		points, err := s.svc.EntityAnalytics(r.Context(), &req.Filter, opts)
		if err != nil {
			s.writeError(w, requestID, err)
			return
		}
		resp.Points = points
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("encoding response", zap.Error(err))
	}
}

// writeError maps domain error kinds onto HTTP status codes
func (s *Server) writeError(w http.ResponseWriter, requestID string, err error) {
	body := ErrorBody{
		Code:      string(errors.TypeInternal),
		Message:   err.Error(),
		RequestID: requestID,
	}
	status := http.StatusInternalServerError

	if e, ok := err.(*errors.Error); ok {
		body.Code = string(e.Type)
		body.Message = e.Message
		body.Retryable = e.Retryable
		switch e.Type {
		case errors.TypeMissingFilter, errors.TypeInput:
			status = http.StatusBadRequest
		case errors.TypeTimeout:
			status = http.StatusGatewayTimeout
		case errors.TypeDatabase:
			status = http.StatusBadGateway
		}
	}

	s.log.Warn("request failed",
		zap.String("request_id", requestID),
		zap.String("code", body.Code),
		zap.Error(err))
	s.writeJSON(w, status, ErrorResponse{Error: body})
}
