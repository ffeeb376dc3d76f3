package cmd

import (
	"context"

	"github.com/Haleralex/emicalc/internal/application/dtos"
	"github.com/Haleralex/emicalc/internal/container"
	"github.com/spf13/cobra"
)

func newCompoundCommand(opts *options) *cobra.Command {
	var (
		principal string
		years     string
		rate      string
		frequency int
	)

	cmd := &cobra.Command{
		Use:   "compound",
		Short: "Сложный процент",
		Long: `Считает итоговую сумму P(1 + R/100)^Y.

С --frequency проценты капитализируются N раз в год: P(1 + R/(100N))^(NY).

Примеры:
  loancalc compound --principal 10000 --years 5 --rate 7.5
  loancalc compound --principal 10000 --years 5 --rate 7.5 --frequency 12`,
		RunE: func(cmd *cobra.Command, args []string) error {
			command := dtos.CalculateCompoundInterestCommand{
				Principal:            principal,
				DurationYears:        years,
				CompoundingFrequency: frequency,
			}
			if cmd.Flags().Changed("rate") {
				command.InterestRate = &rate
			}

			return withApp(cmd, opts, func(ctx context.Context, app *container.Container) error {
				res, err := app.CompoundInterestUseCase().Execute(ctx, command)
				if err != nil {
					return err
				}
				if opts.output == OutputJSON {
					return printJSON(cmd.OutOrStdout(), res)
				}
				return printCompound(cmd.OutOrStdout(), res)
			})
		},
	}

	cmd.Flags().StringVarP(&principal, "principal", "p", "", "Сумма вклада")
	cmd.Flags().StringVarP(&years, "years", "y", "", "Срок в годах (1..30)")
	cmd.Flags().StringVarP(&rate, "rate", "r", "", "Годовая ставка в процентах (по умолчанию 7.5)")
	cmd.Flags().IntVarP(&frequency, "frequency", "f", 0, "Капитализаций в год: 1, 2, 4, 12, 52, 365 (0 - годовая)")
	_ = cmd.MarkFlagRequired("principal")
	_ = cmd.MarkFlagRequired("years")

	return cmd
}
