package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-predictform/pkg/form"
	"github.com/goliatone/go-predictform/pkg/renderers/tui"
)

func newAskCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ask",
		Short: "Prompt for each field, submit and print the prediction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			controller, err := form.New(client, form.WithLogger(a.logger))
			if err != nil {
				return err
			}

			session := tui.NewSession(tui.NewSurveyDriver(cmd.OutOrStdout()), tui.New())
			if err := session.Run(cmd.Context(), controller); err != nil {
				if errors.Is(err, tui.ErrAborted) {
					fmt.Fprintln(cmd.ErrOrStderr(), "aborted")
					return nil
				}
				return err
			}
			return nil
		},
	}
}
