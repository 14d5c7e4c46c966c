package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// newGetCmd creates the "get" command.
func newGetCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Get a setting",
		Long: `Get the value of a setting.

Prints the bare value if the key is set, or "key (not set)" if missing.
Non-string values are printed as JSON.

Examples:
  vprefs get theme
  vprefs get layout --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			key := args[0]
			value, ok := app.Settings.Get(key)

			if app.JSON {
				return json.NewEncoder(app.Out).Encode(map[string]any{
					"key":   key,
					"value": jsonValue(value),
					"set":   ok,
				})
			}

			if ok {
				fmt.Fprintln(app.Out, formatValue(value))
			} else {
				fmt.Fprintf(app.Out, "%s (not set)\n", key)
			}
			return nil
		},
	}

	return cmd
}

// newSetCmd creates the "set" command.
func newSetCmd(provider *AppProvider) *cobra.Command {
	var bestEffort bool

	cmd := &cobra.Command{
		Use:   "set <key> <value> | set <key>=<value>...",
		Short: "Set one or more settings",
		Long: `Set settings and save them.

Values are read as YAML, so 800 is stored as an integer, true as a
boolean and [a, b] as a list. Quote a value to force a string.

By default a failed save is reported as an error. With --best-effort the
change is applied and saved quietly, and save failures are ignored.

Examples:
  vprefs set theme dark
  vprefs set width=800 height=600
  vprefs set --best-effort recent='[a.usd, b.usd]'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			entries, order, err := parseAssignments(args)
			if err != nil {
				return err
			}

			saved := false
			if bestEffort {
				app.Settings.SetAndSave(entries)
			} else {
				app.Settings.Update(entries)
				if saved, err = app.persist(); err != nil {
					return fmt.Errorf("saving settings: %w", err)
				}
			}

			if app.JSON {
				return json.NewEncoder(app.Out).Encode(map[string]any{
					"set":       jsonValue(entries),
					"saved":     saved,
					"ephemeral": app.Settings.IsEphemeral(),
				})
			}

			for _, key := range order {
				fmt.Fprintf(app.Out, "%s %s = %s\n", app.SuccessColor("Set"), key, formatValue(entries[key]))
			}
			if app.Settings.IsEphemeral() {
				fmt.Fprintln(app.Out, "(ephemeral: not saved)")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&bestEffort, "best-effort", false, "Ignore save failures")

	return cmd
}

// newUnsetCmd creates the "unset" command.
func newUnsetCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unset <key>...",
		Short: "Remove settings",
		Long: `Remove one or more settings and save.

Keys are removed regardless of whether they were set.

Examples:
  vprefs unset theme
  vprefs unset width height`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			for _, key := range args {
				app.Settings.Delete(key)
			}
			if _, err := app.persist(); err != nil {
				return fmt.Errorf("saving settings: %w", err)
			}

			if app.JSON {
				return json.NewEncoder(app.Out).Encode(map[string]any{
					"unset": args,
				})
			}

			for _, key := range args {
				fmt.Fprintf(app.Out, "Unset %s\n", key)
			}
			return nil
		},
	}

	return cmd
}

// newListCmd creates the "list" command.
func newListCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all settings",
		Long: `List all settings.

Entries are sorted alphabetically by key.

Examples:
  vprefs list
  vprefs list --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			if app.JSON {
				return json.NewEncoder(app.Out).Encode(jsonValue(app.Settings.All()))
			}

			if app.Settings.Len() == 0 {
				fmt.Fprintln(app.Out, "No settings")
				return nil
			}

			fmt.Fprintln(app.Out, "Settings:")
			app.Settings.Range(func(key string, value any) bool {
				fmt.Fprintf(app.Out, "  %s = %s\n", key, formatValue(value))
				return true
			})
			return nil
		},
	}

	return cmd
}
