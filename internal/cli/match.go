package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newMatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "match <spec>",
		Short: "List every index filename a MatchSpec matches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(cmd.Context(), cmd, args[0])
		},
	}
}

func runMatch(ctx context.Context, cmd *cobra.Command, spec string) error {
	service := newAppService(cmd)
	result, err := service.Match(ctx, spec)
	if err != nil {
		return err
	}
	for _, fn := range result.Filenames {
		fmt.Println(fn)
	}
	return nil
}
