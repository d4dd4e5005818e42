package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/vzahanych/weather-processor/internal/config"
)

func invokeCmd() *cobra.Command {
	var event string

	cmd := &cobra.Command{
		Use:   "invoke",
		Short: "Run a single invocation locally",
		Long:  `Run the processor once with the given event and print the response envelope.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, err := newProcessor(config.GetConfig())
			if err != nil {
				return err
			}

			env, err := proc.Handle(cmd.Context(), json.RawMessage(event))
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(env, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			if env.StatusCode != http.StatusOK {
				return fmt.Errorf("invocation failed with status %d", env.StatusCode)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&event, "event", "e", "{}", "invocation event as JSON")

	return cmd
}

