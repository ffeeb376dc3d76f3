package cmd

import (
	"context"

	"github.com/Haleralex/emicalc/internal/application/dtos"
	"github.com/Haleralex/emicalc/internal/container"
	"github.com/spf13/cobra"
)

func newValidateCommand(opts *options) *cobra.Command {
	var principal, years string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Проверка суммы и срока",
		Long: `Проверяет сумму и срок так, как их ввёл пользователь.

Ввод проверяется без нормализации: "$10,000" здесь невалиден.
Код выхода 1, если ввод невалиден.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			command := dtos.ValidateInputsCommand{
				Principal:     principal,
				DurationYears: years,
			}

			return withApp(cmd, opts, func(ctx context.Context, app *container.Container) error {
				res, err := app.ValidateInputsUseCase().Execute(ctx, command)
				if err != nil {
					return err
				}

				if opts.output == OutputJSON {
					if err := printJSON(cmd.OutOrStdout(), res); err != nil {
						return err
					}
				} else {
					printValidation(cmd.OutOrStdout(), res)
				}

				if !res.Valid {
					return ErrInvalidInputs
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&principal, "principal", "p", "", "Сумма кредита")
	cmd.Flags().StringVarP(&years, "years", "y", "", "Срок в годах")

	return cmd
}
