package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Reporter provides progress feedback while a folder is ingested. A total
// of -1 means the amount of work is not known up front.
type Reporter interface {
	Start(total int)
	Update(current int, message string)
	Finish()
}

// NewReporter returns a TerminalReporter if running in an interactive terminal,
// or a CIReporter if the CI environment variable is set. Output goes to w.
func NewReporter(w io.Writer) Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIReporter{w: w}
	}
	return &TerminalReporter{w: w}
}

// Entries adapts a reporter to the per-entry callback of folder ingestion,
// counting entries as they arrive.
func Entries(r Reporter) func(rel string) {
	n := 0
	return func(rel string) {
		n++
		r.Update(n, rel)
	}
}

// TerminalReporter displays a spinner or progress bar in the terminal.
type TerminalReporter struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func (r *TerminalReporter) Start(total int) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.w),
		progressbar.OptionSetDescription("Reading folder"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Update(current int, message string) {
	if r.bar != nil {
		r.bar.Describe(message)
		_ = r.bar.Set(current)
	}
}

func (r *TerminalReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// CIReporter prints line-by-line progress suitable for CI logs.
type CIReporter struct {
	w     io.Writer
	total int
	last  int
}

func (r *CIReporter) Start(total int) {
	r.total = total
	fmt.Fprintln(r.w, "Reading folder")
}

func (r *CIReporter) Update(current int, message string) {
	r.last = current
	if r.total > 0 {
		fmt.Fprintf(r.w, "[%d/%d] %s\n", current, r.total, message)
		return
	}
	fmt.Fprintf(r.w, "[%d] %s\n", current, message)
}

func (r *CIReporter) Finish() {
	fmt.Fprintf(r.w, "Folder read complete: %d entries\n", r.last)
}
