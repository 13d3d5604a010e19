package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/conlog/internal/ui/pretty"
	"github.com/yaklabco/conlog/pkg/runner"
)

// TextReporter formats results as styled terminal output, grouped by file.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(ctx context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to check."))
		}
		return 0, nil
	}

	total := 0
	for _, file := range result.Files {
		select {
		case <-ctx.Done():
			return total, fmt.Errorf("report cancelled: %w", ctx.Err())
		default:
		}

		path := r.opts.displayPath(file.Path)

		if file.Error != nil {
			fmt.Fprintf(r.bw, "%s: %s\n",
				r.styles.FilePath.Render(path),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
			)
			continue
		}

		res := file.Result
		if res == nil || res.FileResult == nil {
			continue
		}

		if res.Skipped {
			fmt.Fprintf(r.bw, "%s: %s\n",
				r.styles.FilePath.Render(path),
				r.styles.Warning.Render(res.Summary()),
			)
		}

		if len(res.Findings) == 0 {
			continue
		}

		header := r.styles.FormatFileHeader(path, len(res.Findings))
		if res.Written {
			header += " " + r.styles.Success.Render(res.Summary())
		}
		fmt.Fprintln(r.bw, header)

		for _, finding := range res.Findings {
			finding.Path = path
			fmt.Fprint(r.bw, r.styles.FormatFinding(finding, res.Language, r.opts.ShowSource))
			total++
		}

		fmt.Fprintln(r.bw)
	}

	if r.opts.ShowSummary {
		if r.opts.DetailedSummary {
			fmt.Fprint(r.bw, r.styles.FormatSummary(result.Stats))
		} else {
			fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
		}
	}

	return total, nil
}
