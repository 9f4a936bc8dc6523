package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	pkgerrors "github.com/matzehuels/pkgscore/pkg/errors"
	"github.com/matzehuels/pkgscore/pkg/pipeline"
	"github.com/matzehuels/pkgscore/pkg/scorecard"
)

// scoreCommand creates the score command.
func (c *CLI) scoreCommand() *cobra.Command {
	var (
		file    string
		format  string
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "score [url...]",
		Short: "Evaluate packages and print their reports",
		Long: `Evaluate GitHub repositories or npm packages.

URLs come from the arguments and from --file (one per line, '#' starts a
comment, '-' reads stdin). JSON output is one report per line in input
order; packages are evaluated concurrently (batch.concurrency).`,
		Example: `  pkgscore score https://github.com/expressjs/express
  pkgscore score https://www.npmjs.com/package/lodash --format table
  pkgscore score -f urls.txt > reports.ndjson`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(format); err != nil {
				return err
			}
			urls, err := collectURLs(args, file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if len(urls) == 0 {
				return pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "no package URLs given")
			}

			ctx := cmd.Context()
			a, err := c.openApp(ctx, refresh)
			if err != nil {
				return err
			}
			defer a.Close()

			pol, err := a.loadPolicy()
			if err != nil {
				return err
			}
			runner, err := a.runner(pol)
			if err != nil {
				return err
			}

			if format == pipeline.FormatJSON {
				return c.scoreBatch(ctx, runner, urls, cmd.OutOrStdout())
			}
			return c.scoreEach(ctx, runner, urls, format, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "read URLs from file ('-' for stdin)")
	cmd.Flags().StringVar(&format, "format", pipeline.FormatJSON, "output format: json, yaml, table")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached provider responses")

	return cmd
}

// collectURLs merges argument URLs with the URL list in file.
func collectURLs(args []string, file string, stdin io.Reader) ([]string, error) {
	urls := append([]string(nil), args...)
	if file == "" {
		return urls, nil
	}

	var r io.Reader = stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("open URL file: %w", err)
		}
		defer f.Close()
		r = f
	}
	listed, err := pipeline.ParseURLList(r)
	if err != nil {
		return nil, err
	}
	return append(urls, listed...), nil
}

// scoreBatch writes one JSON report per line.
func (c *CLI) scoreBatch(ctx context.Context, runner *pipeline.Runner, urls []string, out io.Writer) error {
	prog := newProgress(loggerFromContext(ctx))
	sum, err := runner.Batch(ctx, strings.NewReader(strings.Join(urls, "\n")), out)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Evaluated %d of %d packages", sum.Evaluated, sum.Total))

	if sum.Failed > 0 {
		return fmt.Errorf("%d of %d packages could not be evaluated", sum.Failed, sum.Total)
	}
	return nil
}

// scoreEach evaluates urls one at a time and prints YAML documents or tables.
func (c *CLI) scoreEach(ctx context.Context, runner *pipeline.Runner, urls []string, format string, out, errOut io.Writer) error {
	showSpinner := format == pipeline.FormatTable && !c.verbose

	failed := 0
	for i, u := range urls {
		msg := fmt.Sprintf("Evaluating %s (%d/%d)", u, i+1, len(urls))
		sc, err := evaluateOne(ctx, runner, u, msg, showSpinner, errOut)
		if err != nil {
			failed++
			printError(errOut, "could not evaluate %s: %s", u, pkgerrors.UserMessage(err))
			continue
		}

		switch format {
		case pipeline.FormatTable:
			if i > 0 {
				fmt.Fprintln(out)
			}
			printReport(out, sc)
		default:
			data, err := pipeline.Render(sc, format)
			if err != nil {
				return err
			}
			if i > 0 {
				fmt.Fprintln(out, "---")
			}
			fmt.Fprint(out, string(data))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d packages could not be evaluated", failed, len(urls))
	}
	return nil
}

func evaluateOne(ctx context.Context, runner *pipeline.Runner, url, msg string, spin bool, w io.Writer) (*scorecard.Scorecard, error) {
	if spin {
		s := newSpinner(ctx, w, msg)
		s.Start()
		defer s.Stop()
	}
	return runner.Evaluate(ctx, url)
}
