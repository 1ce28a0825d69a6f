package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-predictform"
	"github.com/goliatone/go-predictform/pkg/predict"
	"github.com/goliatone/go-predictform/pkg/renderers/tui"
)

func newSubmitCmd(a *app) *cobra.Command {
	var (
		state  predict.FormState
		format string
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit the form once and print the prediction",
		Example: `  predictform submit --company 1000 --vendor V-77 --po 4500012345 \
    --material M-1 --matgroup MG --plant P01 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, ok := tui.ParseOutputFormat(format)
			if !ok {
				return fmt.Errorf("unsupported format %q (want text or json)", format)
			}

			client, err := a.client(cmd.Context())
			if err != nil {
				return err
			}

			out, predictErr := predictform.Predict(cmd.Context(), client, state, string(outputFormat))
			if out != nil {
				if _, err := cmd.OutOrStdout().Write(out); err != nil {
					return err
				}
			}
			if predictErr != nil {
				a.logger.Debug("submission failed", zap.Error(predictErr))
				return predictErr
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&state.Company, "company", "", "Company code")
	flags.StringVar(&state.Vendor, "vendor", "", "Vendor code")
	flags.StringVar(&state.PO, "po", "", "Purchase order number")
	flags.StringVar(&state.Material, "material", "", "Material code")
	flags.StringVar(&state.MatGroup, "matgroup", "", "Material group")
	flags.StringVar(&state.Plant, "plant", "", "Plant code")
	flags.StringVarP(&format, "format", "f", "text", "Output format: text or json")
	return cmd
}
