package cmd

import (
	"context"

	"github.com/Haleralex/emicalc/internal/application/dtos"
	"github.com/Haleralex/emicalc/internal/container"
	"github.com/spf13/cobra"
)

func newEMICommand(opts *options) *cobra.Command {
	var (
		principal string
		years     string
		rate      string
		schedule  bool
	)

	cmd := &cobra.Command{
		Use:   "emi",
		Short: "Ежемесячный платёж по кредиту",
		Long: `Считает ежемесячный платёж (EMI), общую сумму выплат и переплату.

Без --rate используется ставка по умолчанию (7.5% годовых).

Примеры:
  loancalc emi --principal 10000 --years 5
  loancalc emi --principal '$250,000' --years 30 --rate 6.25 --schedule`,
		RunE: func(cmd *cobra.Command, args []string) error {
			command := dtos.CalculateEMICommand{
				Principal:       principal,
				DurationYears:   years,
				IncludeSchedule: schedule,
			}
			if cmd.Flags().Changed("rate") {
				command.InterestRate = &rate
			}

			return withApp(cmd, opts, func(ctx context.Context, app *container.Container) error {
				res, err := app.CalculateEMIUseCase().Execute(ctx, command)
				if err != nil {
					return err
				}
				if opts.output == OutputJSON {
					return printJSON(cmd.OutOrStdout(), res)
				}
				return printEMI(cmd.OutOrStdout(), res)
			})
		},
	}

	cmd.Flags().StringVarP(&principal, "principal", "p", "", "Сумма кредита (10000, 10000.50, $10,000.50)")
	cmd.Flags().StringVarP(&years, "years", "y", "", "Срок в годах (1..30)")
	cmd.Flags().StringVarP(&rate, "rate", "r", "", "Годовая ставка в процентах (по умолчанию 7.5)")
	cmd.Flags().BoolVar(&schedule, "schedule", false, "Показать график погашения")
	_ = cmd.MarkFlagRequired("principal")
	_ = cmd.MarkFlagRequired("years")

	return cmd
}
