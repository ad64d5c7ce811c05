package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/kilianp07/liftsim/core/kpi"
	"github.com/kilianp07/liftsim/core/model"
)

func writeCars(w io.Writer, cars []model.CarStatus) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "CAR\tFLOOR\tDIRECTION\tSTATE\tTARGETS")
	for _, c := range cars {
		_, _ = fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%v\n", c.ID, c.CurrentFloor, c.Direction, c.State, c.Targets)
	}
	_ = tw.Flush()
}

func writeSummary(w io.Writer, s kpi.Summary) {
	_, _ = fmt.Fprintf(w, "calls accepted=%d served=%d dropped=%d abandoned=%d\n", s.Accepted, s.Served, s.Dropped, s.Abandoned)
	if s.Served > 0 {
		_, _ = fmt.Fprintf(w, "wait ticks mean=%.2f stddev=%.2f p50=%.1f p90=%.1f max=%.0f\n", s.Mean, s.StdDev, s.P50, s.P90, s.Max)
	}
}
