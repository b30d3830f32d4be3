package main

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"audiomerge/internal/runner"
)

// progressReporter draws a terminal progress bar for a running merge.
type progressReporter struct {
	bar *progressbar.ProgressBar
}

// newProgressReporter returns nil when w is not a terminal; the runner still
// logs sampled progress in that case.
func newProgressReporter(w io.Writer) *progressReporter {
	if !isTerminal(w) {
		return nil
	}
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("merging"),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionClearOnFinish(),
	)
	return &progressReporter{bar: bar}
}

func (p *progressReporter) callback() runner.ProgressFunc {
	if p == nil {
		return nil
	}
	return p.update
}

func (p *progressReporter) update(progress runner.Progress) {
	if progress.Percent < 0 {
		p.bar.Describe(fmt.Sprintf("merging %s", progress.Position.Truncate(time.Second)))
		return
	}
	_ = p.bar.Set(int(progress.Percent))
}

func (p *progressReporter) finish() {
	if p == nil {
		return
	}
	_ = p.bar.Finish()
}
