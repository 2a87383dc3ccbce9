package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/polygon-cli/internal/polygon"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics <file|url>",
	Short: "Show the centroid and mean radius of every extracted polygon",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("process"); err != nil {
			return err
		}
		proc, err := newProcessor(cfg.Process)
		if err != nil {
			return err
		}

		src, err := newOpener(cfg.Fetch).Open(ctx, args[0])
		if err != nil {
			return err
		}
		res, err := proc.Process(ctx, src.Name, src.Data)
		if err != nil {
			return eris.Wrapf(err, "metrics: %s", polygon.UserMessage(err))
		}

		return formatMetrics(cmd.OutOrStdout(), res)
	},
}

// formatMetrics prints one row per record: name, point count, centroid and
// mean radius. Records whose ring cannot be measured are listed with "-".
func formatMetrics(out io.Writer, res *polygon.Result) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tPOINTS\tCENTROID_LON\tCENTROID_LAT\tRADIUS_KM")
	_, _ = fmt.Fprintln(w, "----\t------\t------------\t------------\t---------")

	for _, r := range res.Polygons {
		c, err := polygon.Centroid(r.Coordinates)
		if err != nil {
			zap.L().Debug("metrics: skipping ring", zap.String("polygon", r.FormattedName), zap.Error(err))
			_, _ = fmt.Fprintf(w, "%s\t%d\t-\t-\t-\n", r.FormattedName, len(r.Coordinates))
			continue
		}
		radius, err := polygon.MeanRadiusKM(r.Coordinates)
		if err != nil {
			return eris.Wrapf(err, "metrics: radius of %s", r.FormattedName)
		}
		_, _ = fmt.Fprintf(w, "%s\t%d\t%.6f\t%.6f\t%.3f\n",
			r.FormattedName, len(r.Coordinates), c.Lon(), c.Lat(), radius)
	}
	return eris.Wrap(w.Flush(), "metrics: flush table")
}

func init() {
	rootCmd.AddCommand(metricsCmd)
}
