package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/polygon-cli/internal/extract"
	"github.com/sells-group/polygon-cli/internal/fetcher"
	"github.com/sells-group/polygon-cli/internal/polygon"
	"github.com/sells-group/polygon-cli/internal/render"
)

var (
	processFormat string
	processOut    string
)

var processCmd = &cobra.Command{
	Use:   "process <file|url>...",
	Short: "Extract and name polygons from GeoJSON files and KML archives",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("process"); err != nil {
			return err
		}

		name := processFormat
		if name == "" {
			name = cfg.Process.Format
		}
		format, err := render.ParseFormat(name)
		if err != nil {
			return err
		}
		if (format == render.FormatSHP || format == render.FormatXLSX) && processOut == "" {
			return eris.Errorf("process: %s output requires --out", format)
		}

		proc, err := newProcessor(cfg.Process)
		if err != nil {
			return err
		}

		outcomes := processInputs(cmd.Context(), newOpener(cfg.Fetch), proc, args, cfg.Process.Concurrency)
		return emitOutcomes(cmd.OutOrStdout(), cmd.ErrOrStderr(), outcomes, format, processOut)
	},
}

// sourceOpener resolves an input location to its bytes.
type sourceOpener interface {
	Open(ctx context.Context, location string) (*fetcher.Source, error)
}

// outcome is the result of processing one input location.
type outcome struct {
	Location string
	Result   *polygon.Result
	Err      error
}

// processInputs opens and processes every location with bounded
// concurrency. Outcomes keep the order of locations; one failing input
// never stops the others.
func processInputs(ctx context.Context, opener sourceOpener, proc *extract.Processor, locations []string, concurrency int) []outcome {
	log := zap.L().With(zap.String("run_id", uuid.NewString()))
	log.Info("processing inputs",
		zap.Int("inputs", len(locations)),
		zap.Int("concurrency", concurrency),
	)

	outcomes := make([]outcome, len(locations))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))

	var succeeded, failed atomic.Int64

	for i, location := range locations {
		g.Go(func() error {
			outcomes[i] = processOne(gctx, opener, proc, location)
			if err := outcomes[i].Err; err != nil {
				failed.Add(1)
				log.Error("input failed", zap.String("input", location), zap.Error(err))
				return nil // don't abort the run on individual failure
			}
			succeeded.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	log.Info("processing complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return outcomes
}

func processOne(ctx context.Context, opener sourceOpener, proc *extract.Processor, location string) outcome {
	src, err := opener.Open(ctx, location)
	if err != nil {
		return outcome{Location: location, Err: err}
	}
	res, err := proc.Process(ctx, src.Name, src.Data)
	return outcome{Location: location, Result: res, Err: err}
}

// emitOutcomes renders the successful results to out (or outPath when set)
// and reports failures on errOut. It returns an error when any input failed.
func emitOutcomes(out, errOut io.Writer, outcomes []outcome, format render.Format, outPath string) error {
	var results []*polygon.Result
	var failures int
	for _, o := range outcomes {
		if o.Err != nil {
			failures++
			fmt.Fprintf(errOut, "error: %s: %s\n", o.Location, describeFailure(o.Err))
			continue
		}
		results = append(results, o.Result)
	}

	if len(results) > 0 {
		var err error
		if outPath != "" {
			err = render.WriteFile(outPath, format, results)
		} else {
			err = render.Write(out, format, results)
		}
		if err != nil {
			return eris.Wrap(err, "process: write output")
		}
	}

	if failures > 0 {
		return eris.Errorf("process: %d of %d inputs failed", failures, len(outcomes))
	}
	return nil
}

// describeFailure prefers the user-facing message for processing errors and
// falls back to the raw error for acquisition problems.
func describeFailure(err error) string {
	switch {
	case errors.Is(err, polygon.ErrUnsupportedType),
		errors.Is(err, polygon.ErrFormat),
		errors.Is(err, polygon.ErrNoValidContent):
		return polygon.UserMessage(err)
	default:
		return err.Error()
	}
}

func init() {
	processCmd.Flags().StringVar(&processFormat, "format", "", "output format: text, json, yaml, csv, geojson, wkt, ewkb, xlsx, shp (default from config)")
	processCmd.Flags().StringVarP(&processOut, "out", "o", "", "write output to this file instead of stdout")
	rootCmd.AddCommand(processCmd)
}
