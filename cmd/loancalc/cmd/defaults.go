package cmd

import (
	"context"

	"github.com/Haleralex/emicalc/internal/container"
	"github.com/spf13/cobra"
)

func newDefaultsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "defaults",
		Short: "Константы движка",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *container.Container) error {
				res, err := app.GetDefaultsUseCase().Execute(ctx)
				if err != nil {
					return err
				}
				if opts.output == OutputJSON {
					return printJSON(cmd.OutOrStdout(), res)
				}
				return printDefaults(cmd.OutOrStdout(), res)
			})
		},
	}
}
