package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/quentinrf/plant-monitor/services/photometry-service/internal/adapters/wire"
	"github.com/quentinrf/plant-monitor/services/photometry-service/internal/domain"
	"github.com/quentinrf/plant-monitor/services/photometry-service/internal/ports"
	"github.com/quentinrf/plant-monitor/services/photometry-service/pkg/pb"
)

// CoverageServiceHandler implements the gRPC CoverageService
type CoverageServiceHandler struct {
	pb.UnimplementedCoverageServiceServer
	est *ports.Estimator
}

// NewCoverageServiceHandler creates a new gRPC handler
func NewCoverageServiceHandler(est *ports.Estimator) *CoverageServiceHandler {
	return &CoverageServiceHandler{est: est}
}

// ComputeCoverage estimates the PPFD distribution for a set of sources
func (h *CoverageServiceHandler) ComputeCoverage(ctx context.Context, req *pb.ComputeCoverageRequest) (*pb.ComputeCoverageResponse, error) {
	log.Info().
		Int("sources", len(req.Sources)).
		Bool("persist", req.Persist).
		Msg("ComputeCoverage called")

	creq, err := wire.ToComputeRequest(req, h.est.DefaultOptions())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	run, err := h.est.Compute(ctx, creq)
	if err != nil {
		return nil, toStatus(err, "failed to compute coverage")
	}

	return &pb.ComputeCoverageResponse{
		Run: wire.FromRun(run, req.IncludeGrid),
	}, nil
}

// GetRun returns a stored run by ID
func (h *CoverageServiceHandler) GetRun(ctx context.Context, req *pb.GetRunRequest) (*pb.GetRunResponse, error) {
	log.Info().Str("id", req.Id).Msg("GetRun called")

	if req.Id == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}

	run, err := h.est.GetRun(ctx, req.Id)
	if err != nil {
		return nil, toStatus(err, "failed to get run")
	}

	return &pb.GetRunResponse{
		Run: wire.FromRun(run, req.IncludeGrid),
	}, nil
}

// GetLatestRun returns the most recently stored run
func (h *CoverageServiceHandler) GetLatestRun(ctx context.Context, req *pb.GetLatestRunRequest) (*pb.GetLatestRunResponse, error) {
	log.Info().Msg("GetLatestRun called")

	run, err := h.est.LatestRun(ctx)
	if err != nil {
		return nil, toStatus(err, "failed to get latest run")
	}

	return &pb.GetLatestRunResponse{
		Run: wire.FromRun(run, req.IncludeGrid),
	}, nil
}

// ListRuns returns runs within time range with DLI statistics
func (h *CoverageServiceHandler) ListRuns(ctx context.Context, req *pb.ListRunsRequest) (*pb.ListRunsResponse, error) {
	log.Info().
		Int64("start", req.StartTime).
		Int64("end", req.EndTime).
		Msg("ListRuns called")

	start := time.Unix(req.StartTime, 0)
	end := time.Unix(req.EndTime, 0)

	runs, err := h.est.ListRuns(ctx, start, end)
	if err != nil {
		log.Error().Err(err).Msg("failed to list runs")
		return nil, status.Error(codes.Internal, "failed to list runs")
	}

	// Grids are never included in listings
	pbRuns := make([]*pb.CoverageRun, len(runs))
	for i, r := range runs {
		pbRuns[i] = wire.FromRun(r, false)
	}

	stats := wire.CalculateStatistics(runs)

	return &pb.ListRunsResponse{
		Runs:       pbRuns,
		AverageDli: stats.Average,
		MinDli:     stats.Min,
		MaxDli:     stats.Max,
	}, nil
}

// ListFixtures returns the fixture catalog
func (h *CoverageServiceHandler) ListFixtures(ctx context.Context, _ *pb.ListFixturesRequest) (*pb.ListFixturesResponse, error) {
	log.Info().Msg("ListFixtures called")

	fixtures, err := h.est.ListFixtures(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to list fixtures")
		return nil, status.Error(codes.Internal, "failed to list fixtures")
	}

	out := make([]*pb.Fixture, len(fixtures))
	for i, f := range fixtures {
		out[i] = wire.FromFixture(f)
	}
	return &pb.ListFixturesResponse{Fixtures: out}, nil
}

// toStatus maps service errors onto gRPC codes. Internal errors are logged
// and replaced with msg so storage details do not leak to clients.
func toStatus(err error, msg string) error {
	switch {
	case ports.IsClientError(err):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrRunNotFound), errors.Is(err, domain.ErrFixtureNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		log.Error().Err(err).Msg(msg)
		return status.Error(codes.Internal, msg)
	}
}
