// Command ppfd estimates PPFD coverage for a YAML scenario, either locally or
// against a running photometry service.
//
//	ppfd -grid tent.yaml
//	ppfd -server localhost:50052 -json tent.yaml
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/quentinrf/plant-monitor/services/photometry-service/internal/adapters/catalog"
	"github.com/quentinrf/plant-monitor/services/photometry-service/internal/adapters/wire"
	"github.com/quentinrf/plant-monitor/services/photometry-service/internal/ports"
	"github.com/quentinrf/plant-monitor/services/photometry-service/pkg/pb"
	"github.com/quentinrf/plant-monitor/services/photometry-service/pkg/tlsconfig"
)

type options struct {
	scenario    string
	server      string
	catalogPath string
	asJSON      bool
	showGrid    bool
	persist     bool
	timeout     time.Duration
	tls         tlsconfig.Files
	serverName  string
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "ppfd: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	var opts options
	fs := flag.NewFlagSet("ppfd", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.server, "server", "", "photometry service address; compute locally when empty")
	fs.StringVar(&opts.catalogPath, "catalog", "", "YAML fixture catalog for local runs")
	fs.BoolVar(&opts.asJSON, "json", false, "print the run as JSON")
	fs.BoolVar(&opts.showGrid, "grid", false, "print the sampled PPFD grid")
	fs.BoolVar(&opts.persist, "persist", false, "store the run on the server")
	fs.DurationVar(&opts.timeout, "timeout", 30*time.Second, "request timeout")
	fs.StringVar(&opts.tls.Cert, "tls-cert", "", "client certificate for mTLS")
	fs.StringVar(&opts.tls.Key, "tls-key", "", "client key for mTLS")
	fs.StringVar(&opts.tls.CA, "tls-ca", "", "CA certificate for mTLS")
	fs.StringVar(&opts.serverName, "server-name", "", "override the TLS server name")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: ppfd [flags] scenario.yaml")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, errors.New("expected exactly one scenario file")
	}
	opts.scenario = fs.Arg(0)
	if opts.persist && opts.server == "" {
		return nil, errors.New("-persist needs -server")
	}
	return &opts, nil
}

func run(args []string, stdout io.Writer) error {
	opts, err := parseFlags(args, os.Stderr)
	if err != nil {
		return err
	}

	sc, err := loadScenario(opts.scenario)
	if err != nil {
		return err
	}
	req := sc.request(opts.showGrid || opts.asJSON)
	req.Persist = opts.persist

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	var result *pb.CoverageRun
	if opts.server != "" {
		result, err = computeRemote(ctx, opts, req)
	} else {
		result, err = computeLocal(ctx, opts, req)
	}
	if err != nil {
		return err
	}

	if opts.asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	return printSummary(stdout, result, opts.showGrid)
}

func computeLocal(ctx context.Context, opts *options, req *pb.ComputeCoverageRequest) (*pb.CoverageRun, error) {
	fixtures := catalog.Builtin()
	if opts.catalogPath != "" {
		var err error
		if fixtures, err = catalog.LoadFile(opts.catalogPath); err != nil {
			return nil, err
		}
	}

	est := ports.NewEstimator(fixtures, nil, ports.DefaultEstimatorConfig())
	creq, err := wire.ToComputeRequest(req, est.DefaultOptions())
	if err != nil {
		return nil, err
	}
	run, err := est.Compute(ctx, creq)
	if err != nil {
		return nil, err
	}
	return wire.FromRun(run, req.IncludeGrid), nil
}

func computeRemote(ctx context.Context, opts *options, req *pb.ComputeCoverageRequest) (*pb.CoverageRun, error) {
	creds := insecure.NewCredentials()
	if opts.tls.Enabled() {
		tlsCfg, err := opts.tls.ClientConfig(opts.serverName)
		if err != nil {
			return nil, err
		}
		creds = credentials.NewTLS(tlsCfg)
	}

	conn, err := grpc.NewClient(opts.server, grpc.WithTransportCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", opts.server, err)
	}
	defer conn.Close()

	resp, err := pb.NewCoverageServiceClient(conn).ComputeCoverage(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp.Run, nil
}

func printSummary(w io.Writer, run *pb.CoverageRun, showGrid bool) error {
	res := run.Result
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if run.Name != "" {
		fmt.Fprintf(tw, "Scenario:\t%s\n", run.Name)
	}
	if run.Id != "" {
		fmt.Fprintf(tw, "Run:\t%s\n", run.Id)
	}
	fmt.Fprintf(tw, "Average PPFD:\t%.1f μmol/m²/s (%s)\n", res.AveragePpfd, res.Category)
	fmt.Fprintf(tw, "Min / Max:\t%.1f / %.1f\n", res.MinPpfd, res.MaxPpfd)
	fmt.Fprintf(tw, "Uniformity:\t%.2f (min/max %.2f)\n", res.Uniformity, res.MinMaxRatio)
	fmt.Fprintf(tw, "DLI:\t%.1f mol/m²/day\n", res.Dli)
	fmt.Fprintf(tw, "Grid:\t%d x %d\n", res.Columns, res.Rows)
	fmt.Fprintf(tw, "Confidence:\t%s\n", res.Confidence)
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, warn := range res.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warn.Message)
	}

	if showGrid && len(res.Grid) > 0 {
		fmt.Fprintln(w)
		cols := int(res.Columns)
		for row := 0; row < int(res.Rows); row++ {
			cells := make([]string, cols)
			for col := 0; col < cols; col++ {
				cells[col] = fmt.Sprintf("%5.0f", res.Grid[row*cols+col])
			}
			fmt.Fprintln(w, strings.Join(cells, " "))
		}
	}
	return nil
}
