// Package cmd - команды CLI loancalc.
//
// Команды собирают тот же container, что и HTTP API, поэтому расчёты,
// валидация и кэш в CLI и в API ведут себя одинаково.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Haleralex/emicalc/internal/config"
	"github.com/Haleralex/emicalc/internal/container"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

// Форматы вывода.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// ErrInvalidInputs возвращает validate, когда ввод не прошёл проверку.
// Сообщение уже напечатано, поэтому Execute его не дублирует.
var ErrInvalidInputs = errors.New("invalid inputs")

// options - глобальные флаги.
type options struct {
	configFile string
	verbose    bool
	output     string
}

// NewRootCommand собирает дерево команд loancalc.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "loancalc",
		Short: "EMICalc - расчёт кредитов и вкладов",
		Long: `loancalc считает ежемесячный платёж (EMI) по кредиту и итоговую
сумму вклада со сложным процентом. Все суммы считаются в decimal.

Команды:
  emi       - ежемесячный платёж, переплата, график погашения
  compound  - сложный процент
  validate  - проверка суммы и срока
  defaults  - константы движка
  serve     - HTTP API`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.output != OutputText && opts.output != OutputJSON {
				return fmt.Errorf("unknown output format %q (text, json)", opts.output)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "Config-файл (default: ./configs/config.yaml)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Debug логи в stderr")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", OutputText, "Формат вывода: text, json")

	root.AddCommand(
		newEMICommand(opts),
		newCompoundCommand(opts),
		newValidateCommand(opts),
		newDefaultsCommand(opts),
		newServeCommand(opts),
	)

	return root
}

// Execute запускает CLI с аргументами процесса.
func Execute() error {
	root := NewRootCommand()
	err := root.Execute()
	if err != nil && !errors.Is(err, ErrInvalidInputs) {
		printError(root.ErrOrStderr(), err)
	}
	return err
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
}

// loadConfig читает --config или ищет config.yaml в ./configs, плюс env.
func loadConfig(opts *options) (*config.Config, error) {
	if opts.configFile != "" {
		return config.LoadFile(opts.configFile)
	}
	return config.Load("configs", "config")
}

// newApp собирает container для одной команды расчёта.
// Логи уходят в stderr, чтобы stdout оставался чистым для результата.
func newApp(ctx context.Context, opts *options) (*container.Container, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	cfg.Log.Output = "stderr"
	cfg.Log.Level = "warn"
	if opts.verbose {
		cfg.Log.Level = "debug"
	}
	cfg.Metrics.Enabled = false

	// Роутер собирается и в CLI; debug-вывод gin не должен попадать в stdout
	gin.SetMode(gin.ReleaseMode)

	app, err := container.NewBuilder(cfg).Build(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize: %w", err)
	}
	return app, nil
}

// withApp выполняет fn с собранным container и закрывает его после.
func withApp(cmd *cobra.Command, opts *options, fn func(ctx context.Context, app *container.Container) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	app, err := newApp(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Shutdown(context.Background()); err != nil {
			printError(os.Stderr, err)
		}
	}()

	return fn(ctx, app)
}
