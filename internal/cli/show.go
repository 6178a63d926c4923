package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type showOptions struct {
	MaxOnly bool
}

func newShowCommand() *cobra.Command {
	opts := showOptions{}
	cmd := &cobra.Command{
		Use:   "show <spec>",
		Short: "Show candidate artifacts for a MatchSpec, with dependencies and features",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd.Context(), cmd, args[0], opts)
		},
	}
	cmd.Flags().BoolVar(&opts.MaxOnly, "max-only", false, "Restrict to the newest-tier candidates")
	_ = viper.BindPFlag("max_only", cmd.Flags().Lookup("max-only"))
	return cmd
}

func runShow(ctx context.Context, cmd *cobra.Command, spec string, opts showOptions) error {
	service := newAppService(cmd)
	result, err := service.Show(ctx, spec, resolveBool(cmd, opts.MaxOnly, "max_only", "max-only"))
	if err != nil {
		return err
	}
	for _, fn := range result.Filenames {
		fmt.Println(fn)
		if deps := result.Depends[fn]; len(deps) > 0 {
			fmt.Println("  depends: " + strings.Join(deps, ", "))
		}
		if features := result.Features[fn]; len(features) > 0 {
			fmt.Println("  features: " + strings.Join(features, ", "))
		}
	}
	return nil
}
