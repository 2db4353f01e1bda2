// Package cli renders the end-of-run summary for interactive use.
package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/ericfisherdev/credsweep/internal/domain/model"
)

// Presenter writes a colored scan summary to out.
type Presenter struct {
	out io.Writer
}

// NewPresenter creates a Presenter writing to out.
func NewPresenter(out io.Writer) *Presenter {
	return &Presenter{out: out}
}

// Render prints the summary for one completed run.
func (p *Presenter) Render(report *model.ScanReport) {
	header := color.New(color.FgCyan, color.Bold)
	found := color.New(color.FgGreen)
	missing := color.New(color.FgYellow)
	failed := color.New(color.FgRed)

	if report.DryRun {
		header.Fprintf(p.out, "[dry-run] scan %s: no credential stores read\n", report.RunID)
		return
	}

	header.Fprintf(p.out, "scan %s finished in %dms\n", report.RunID, report.ElapsedMS)
	p.renderFound("chrome", report.ChromeFound, found, missing)
	p.renderFound("edge", report.EdgeFound, found, missing)
	fmt.Fprintf(p.out, "  firefox: %d profile(s) scanned, %d login(s) decrypted\n",
		report.FirefoxProfilesScanned, report.FirefoxDecrypted)
	fmt.Fprintf(p.out, "  entries decrypted: %d\n", report.EntriesDecrypted)

	for _, path := range report.ArtifactPaths {
		fmt.Fprintf(p.out, "  artifact: %s\n", path)
	}
	if len(report.Errors) > 0 {
		failed.Fprintf(p.out, "  %d error(s):\n", len(report.Errors))
		for _, e := range report.Errors {
			failed.Fprintf(p.out, "    - %s\n", e)
		}
	}
}

func (p *Presenter) renderFound(browser string, ok bool, found, missing *color.Color) {
	if ok {
		found.Fprintf(p.out, "  %s: login database found\n", browser)
		return
	}
	missing.Fprintf(p.out, "  %s: not found\n", browser)
}
