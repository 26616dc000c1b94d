package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/contrary/internal/expect"
)

// OperationInfo describes one operation for the ops command.
type OperationInfo struct {
	Name     string `json:"name"`
	Negation string `json:"negation"`
	MinArgs  int    `json:"min_args"`
	MaxArgs  int    `json:"max_args"` // -1 when variadic
	Graph    bool   `json:"graph"`
}

// NewOpsCommand creates the ops command.
func NewOpsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ops",
		Short: "List operations callable from scenarios",
		Long: `List every operation a scenario step can call, with how it negates.

Operations marked "forbidden" cannot be negated: a "not: true" step calling
one is always invalid.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ops := expect.Operations()
			infos := make([]OperationInfo, len(ops))
			for i, op := range ops {
				infos[i] = OperationInfo{
					Name:     op.Name,
					Negation: op.Strategy.String(),
					MinArgs:  op.MinArgs,
					MaxArgs:  op.MaxArgs,
					Graph:    op.Graph(),
				}
			}
			return newFormatter(rootOpts, cmd).Success(infos, func(w io.Writer) {
				for _, info := range infos {
					fmt.Fprintf(w, "%-26s %-10s %s\n", info.Name, info.Negation, arity(info.MinArgs, info.MaxArgs))
				}
			})
		},
	}
}

func arity(min, max int) string {
	switch {
	case max < 0:
		return fmt.Sprintf("%d+ args", min)
	case min == max:
		return fmt.Sprintf("%d args", min)
	default:
		return fmt.Sprintf("%d-%d args", min, max)
	}
}
