package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// newPathCmd creates the "path" command.
func newPathCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Show where settings are stored",
		Long: `Show the settings file, its format, and whether the store is
persistent or ephemeral.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			mode := "persistent"
			if app.Settings.IsEphemeral() {
				mode = "ephemeral"
			}

			if app.JSON {
				result := map[string]string{
					"file":   app.Settings.Filename(),
					"format": app.Settings.Format(),
					"mode":   mode,
				}
				if app.Paths.Err != nil {
					result["reason"] = app.Paths.Err.Error()
				}
				return json.NewEncoder(app.Out).Encode(result)
			}

			fmt.Fprintf(app.Out, "file:   %s\n", app.Settings.Filename())
			fmt.Fprintf(app.Out, "format: %s\n", app.Settings.Format())
			fmt.Fprintf(app.Out, "mode:   %s\n", mode)
			if app.Paths.Err != nil {
				fmt.Fprintf(app.Out, "reason: %v\n", app.Paths.Err)
			}
			return nil
		},
	}

	return cmd
}
