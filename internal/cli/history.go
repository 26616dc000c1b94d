package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/contrary/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
	Scenario string // optional - filter to one scenario
	Run      string // optional - show the outcomes of one run
}

// HistoryRun is one run in the history listing.
type HistoryRun struct {
	ID         string    `json:"id"`
	Scenario   string    `json:"scenario"`
	Pass       bool      `json:"pass"`
	Steps      int       `json:"steps"`
	Failures   int       `json:"failures"`
	RecordedAt time.Time `json:"recorded_at"`
}

// HistoryOutcome is one recorded step of a run.
type HistoryOutcome struct {
	Index   int    `json:"index"`
	Call    string `json:"call"`
	Not     bool   `json:"not,omitempty"`
	Args    []any  `json:"args,omitempty"`
	Want    string `json:"want"`
	Got     string `json:"got"`
	Message string `json:"message,omitempty"`
}

// RunDetail is a run with its outcomes.
type RunDetail struct {
	HistoryRun
	Outcomes []HistoryOutcome `json:"outcomes"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded scenario runs",
		Long: `List scenario runs recorded by "contrary test --db", newest first.

With --run, shows the step outcomes of a single run instead.

Examples:
  contrary history --db ./history.db
  contrary history --db ./history.db --limit 5 --scenario keys
  contrary history --db ./history.db --run 3f2a... --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Run != "" {
				return runHistoryDetail(opts, cmd)
			}
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum runs to list (0 for all)")
	cmd.Flags().StringVar(&opts.Scenario, "scenario", "", "only list runs of this scenario")
	cmd.Flags().StringVar(&opts.Run, "run", "", "show the outcomes of this run ID")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	ctx := commandContext(cmd)

	st, err := store.Open(opts.Database, store.WithLogger(opts.Logger(cmd.ErrOrStderr())))
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	var runs []store.Run
	if opts.Scenario != "" {
		runs, err = st.ReadScenarioRuns(ctx, opts.Scenario, opts.Limit)
	} else {
		runs, err = st.ReadRuns(ctx, opts.Limit)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read runs", err)
	}

	listing := make([]HistoryRun, len(runs))
	for i, r := range runs {
		listing[i] = historyRun(r)
	}

	return newFormatter(opts.RootOptions, cmd).Success(listing, func(w io.Writer) {
		if len(listing) == 0 {
			fmt.Fprintln(w, "No runs recorded.")
			return
		}
		for _, r := range listing {
			fmt.Fprintf(w, "%s  %s  %-24s %d/%d steps matched\n",
				r.RecordedAt.Format(time.RFC3339), passMark(r.Pass), r.Scenario, r.Steps-r.Failures, r.Steps)
			if opts.Verbose {
				fmt.Fprintf(w, "    run %s\n", r.ID)
			}
		}
	})
}

func runHistoryDetail(opts *HistoryOptions, cmd *cobra.Command) error {
	ctx := commandContext(cmd)

	st, err := store.Open(opts.Database, store.WithLogger(opts.Logger(cmd.ErrOrStderr())))
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	run, err := st.ReadRun(ctx, opts.Run)
	if errors.Is(err, store.ErrRunNotFound) {
		return WrapExitError(ExitFailure, "unknown run", err)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}
	outcomes, err := st.ReadOutcomes(ctx, opts.Run)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read outcomes", err)
	}

	detail := RunDetail{HistoryRun: historyRun(run), Outcomes: make([]HistoryOutcome, len(outcomes))}
	for i, o := range outcomes {
		detail.Outcomes[i] = HistoryOutcome{
			Index:   o.Index,
			Call:    o.Call,
			Not:     o.Negated,
			Args:    o.Args,
			Want:    o.Want,
			Got:     o.Got,
			Message: o.Message,
		}
	}

	return newFormatter(opts.RootOptions, cmd).Success(detail, func(w io.Writer) {
		fmt.Fprintf(w, "Run %s: %s %s\n", detail.ID, detail.Scenario, passMark(detail.Pass))
		for _, o := range detail.Outcomes {
			call := o.Call
			if o.Not {
				call = "Not." + call
			}
			fmt.Fprintf(w, "  [%d] %s%s: want %s, got %s\n", o.Index, call, formatArgs(o.Args), o.Want, o.Got)
			if o.Message != "" {
				fmt.Fprintf(w, "      %s\n", o.Message)
			}
		}
	})
}

func historyRun(r store.Run) HistoryRun {
	return HistoryRun{
		ID:         r.ID,
		Scenario:   r.Scenario,
		Pass:       r.Pass,
		Steps:      r.Steps,
		Failures:   r.Failures,
		RecordedAt: r.RecordedAt,
	}
}

func passMark(pass bool) string {
	if pass {
		return "✓"
	}
	return "✗"
}

// formatArgs renders step arguments as a parenthesized list.
func formatArgs(args []any) string {
	if len(args) == 0 {
		return "()"
	}
	s := fmt.Sprint(args)
	return "(" + s[1:len(s)-1] + ")"
}
