package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/contrary/internal/arch"
	"github.com/roach88/contrary/internal/depgraph"
)

// GraphOptions holds flags for the graph command.
type GraphOptions struct {
	*RootOptions
	Tests bool
}

// GraphUnit is one unit and its imports.
type GraphUnit struct {
	Unit    string   `json:"unit"`
	Imports []string `json:"imports"`
}

// GraphResult is the graph command output.
type GraphResult struct {
	Module string      `json:"module"`
	Units  []GraphUnit `json:"units"`
	Edges  int         `json:"edges"`
}

// NewGraphCommand creates the graph command.
func NewGraphCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GraphOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "graph <module-dir> [package]",
		Short: "Print a module's import graph",
		Long: `Print the import graph that dependency expectations are checked against.

Every directory of Go files in the module is a unit named by its import
path. With a package argument, only units within that namespace are shown.

Examples:
  contrary graph .
  contrary graph . example.com/shop/models --format json`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			namespace := ""
			if len(args) == 2 {
				namespace = args[1]
			}
			return runGraph(opts, args[0], namespace, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Tests, "tests", false, "include _test.go files")

	return cmd
}

func runGraph(opts *GraphOptions, root, namespace string, cmd *cobra.Command) error {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("module directory not found: %s", root))
	}

	loadOpts := []depgraph.Option{depgraph.WithLogger(opts.Logger(cmd.ErrOrStderr()))}
	if opts.Tests {
		loadOpts = append(loadOpts, depgraph.WithTests())
	}
	g, err := depgraph.Load(commandContext(cmd), root, loadOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load graph", err)
	}

	result := GraphResult{Module: g.Module(), Units: []GraphUnit{}}
	for _, unit := range g.Units() {
		if namespace != "" && !arch.Within(unit, namespace) {
			continue
		}
		imports := g.Imports(unit)
		if imports == nil {
			imports = []string{}
		}
		result.Units = append(result.Units, GraphUnit{Unit: unit, Imports: imports})
		result.Edges += len(imports)
	}
	if namespace != "" && len(result.Units) == 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("no units within %s", namespace))
	}

	opts.Logger(cmd.ErrOrStderr()).Debug("graph printed",
		slog.String("module", result.Module),
		slog.Int("units", len(result.Units)))

	return newFormatter(opts.RootOptions, cmd).Success(result, func(w io.Writer) {
		fmt.Fprintf(w, "module %s\n", result.Module)
		for _, u := range result.Units {
			fmt.Fprintln(w, u.Unit)
			for _, imp := range u.Imports {
				fmt.Fprintf(w, "  -> %s\n", imp)
			}
		}
		fmt.Fprintf(w, "%d units, %d edges\n", len(result.Units), result.Edges)
	})
}
