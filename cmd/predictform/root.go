package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-predictform"
	"github.com/goliatone/go-predictform/internal/config"
	"github.com/goliatone/go-predictform/internal/logging"
	"github.com/goliatone/go-predictform/pkg/predict"
)

// app carries state shared by the subcommands.
type app struct {
	configPath string
	endpoint   string
	timeout    time.Duration
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "predictform",
		Short: "Predict the responsible email and name for a purchase order line",
		Long: `predictform collects Company, Vendor, PO, Material, MatGroup and Plant,
sends them to the prediction service and shows the predicted email and name
with the top scoring candidates.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Path to a YAML config file")
	flags.StringVar(&a.endpoint, "endpoint", "", "Prediction service URL (overrides config)")
	flags.DurationVar(&a.timeout, "timeout", 0, "Prediction request timeout (overrides config, 0 keeps config)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(newServeCmd(a))
	root.AddCommand(newAskCmd(a))
	root.AddCommand(newSubmitCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("endpoint") {
		cfg.Predictor.Endpoint = a.endpoint
	}
	if cmd.Flags().Changed("timeout") && a.timeout > 0 {
		cfg.Predictor.Timeout = a.timeout.String()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, a.verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger
	return nil
}

// client builds the prediction client from the loaded configuration.
func (a *app) client(ctx context.Context) (*predict.Client, error) {
	opts := []predict.OptionFn{
		predict.WithEndpoint(a.cfg.Predictor.Endpoint),
		predict.WithTimeout(a.cfg.GetTimeout()),
		predict.WithLogger(a.logger),
	}
	if a.cfg.Predictor.ValidateContract {
		validate, err := predictform.WithContractValidation(ctx)
		if err != nil {
			return nil, err
		}
		opts = append(opts, validate)
	}
	a.logger.Debug("prediction client configured",
		zap.String("endpoint", a.cfg.Predictor.Endpoint),
		zap.Duration("timeout", a.cfg.GetTimeout()),
		zap.Bool("contract", a.cfg.Predictor.ValidateContract),
	)
	return predict.NewClient(opts...), nil
}
