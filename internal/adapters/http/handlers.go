package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/quentinrf/plant-monitor/services/photometry-service/internal/adapters/wire"
	"github.com/quentinrf/plant-monitor/services/photometry-service/internal/domain"
	"github.com/quentinrf/plant-monitor/services/photometry-service/internal/ports"
	"github.com/quentinrf/plant-monitor/services/photometry-service/pkg/pb"
)

// defaultWindow is the history returned by GET /runs without a range.
const defaultWindow = 24 * time.Hour

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleComputeCoverage runs one estimate. The body is a pb.ComputeCoverageRequest.
func (h *Handler) handleComputeCoverage(w http.ResponseWriter, r *http.Request) {
	var req pb.ComputeCoverageRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	creq, err := wire.ToComputeRequest(&req, h.est.DefaultOptions())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	run, err := h.est.Compute(r.Context(), creq)
	if err != nil {
		writeServiceError(w, err, "failed to compute coverage")
		return
	}

	code := http.StatusOK
	if req.Persist {
		code = http.StatusCreated
	}
	writeJSON(w, code, pb.ComputeCoverageResponse{Run: wire.FromRun(run, req.IncludeGrid)})
}

func (h *Handler) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.est.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "failed to get run")
		return
	}
	writeJSON(w, http.StatusOK, pb.GetRunResponse{Run: wire.FromRun(run, includeGrid(r))})
}

func (h *Handler) handleLatestRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.est.LatestRun(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to get latest run")
		return
	}
	writeJSON(w, http.StatusOK, pb.GetLatestRunResponse{Run: wire.FromRun(run, includeGrid(r))})
}

// handleListRuns accepts start/end as RFC 3339 or unix seconds and defaults
// to the last 24 hours.
func (h *Handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	start, err := parseTime(r.URL.Query().Get("start"), now.Add(-defaultWindow))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start: "+err.Error())
		return
	}
	end, err := parseTime(r.URL.Query().Get("end"), now.Add(time.Second))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end: "+err.Error())
		return
	}
	if !start.Before(end) {
		writeError(w, http.StatusBadRequest, "start must be before end")
		return
	}

	runs, err := h.est.ListRuns(r.Context(), start, end)
	if err != nil {
		writeServiceError(w, err, "failed to list runs")
		return
	}

	out := pb.ListRunsResponse{Runs: make([]*pb.CoverageRun, len(runs))}
	for i, run := range runs {
		out.Runs[i] = wire.FromRun(run, false)
	}
	stats := wire.CalculateStatistics(runs)
	out.AverageDli, out.MinDli, out.MaxDli = stats.Average, stats.Min, stats.Max

	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleListFixtures(w http.ResponseWriter, r *http.Request) {
	fixtures, err := h.est.ListFixtures(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to list fixtures")
		return
	}

	out := pb.ListFixturesResponse{Fixtures: make([]*pb.Fixture, len(fixtures))}
	for i, f := range fixtures {
		out.Fixtures[i] = wire.FromFixture(f)
	}
	writeJSON(w, http.StatusOK, out)
}

func includeGrid(r *http.Request) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get("include_grid"))
	return v
}

func parseTime(s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		return fallback, nil
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0), nil
	}
	return time.Parse(time.RFC3339, s)
}

func writeServiceError(w http.ResponseWriter, err error, msg string) {
	switch {
	case ports.IsClientError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrRunNotFound), errors.Is(err, domain.ErrFixtureNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		log.Error().Err(err).Msg(msg)
		writeError(w, http.StatusInternalServerError, msg)
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}

// writeJSON encodes before committing the status so an unencodable body
// becomes a 500 rather than a 200 with nothing after it.
func writeJSON(w http.ResponseWriter, code int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Int("status", code).Msg("failed to encode response")
		code = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Error: "failed to encode response"})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	w.Write(append(body, '\n'))
}
