package main

import (
	"fmt"
	"io"
	"time"

	"mznlint/internal/pipeline"
)

func printStageTimings(out io.Writer, res pipeline.Result) {
	if out == nil {
		return
	}
	for _, f := range res.Files {
		t := f.Timings
		fmt.Fprintf(out, "%s:", f.Path)
		for _, stage := range []pipeline.Stage{pipeline.StageLoad, pipeline.StageAnalyze, pipeline.StageLint} {
			if t.Has(stage) {
				fmt.Fprintf(out, " %s %.1f ms", stage, toMillis(t.Duration(stage)))
			}
		}
		fmt.Fprintln(out)
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
