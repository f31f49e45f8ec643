package cli

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/funnelchart/pkg/errors"
	"github.com/matzehuels/funnelchart/pkg/settings"
)

// settingsCommand creates the document settings command.
func (c *CLI) settingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Read and write per-document settings",
		Long: `Read and write numeric settings saved per document.

The animation_speed setting multiplies the default reveal pace; render and
preview pick it up with --doc.`,
	}

	cmd.AddCommand(c.settingsGetCommand())
	cmd.AddCommand(c.settingsSetCommand())

	return cmd
}

// settingsGetCommand creates the "settings get" subcommand.
func (c *CLI) settingsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <document> [name]",
		Short: "Print one or all settings of a document",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.newSettingsStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close(ctx)

			if len(args) == 2 {
				return printSetting(ctx, store, args[0], args[1])
			}
			all, err := store.All(ctx, args[0])
			if err != nil {
				return err
			}
			if len(all) == 0 {
				printInfo("No settings saved for %s", args[0])
				return nil
			}
			names := make([]string, 0, len(all))
			for name := range all {
				names = append(names, name)
			}
			slices.Sort(names)
			for _, name := range names {
				printKeyValue(name, strconv.FormatFloat(all[name], 'g', -1, 64))
			}
			return nil
		},
	}
}

func printSetting(ctx context.Context, store settings.Store, doc, name string) error {
	v, ok, err := store.Get(ctx, doc, name)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "%s is not set for %s", name, doc)
	}
	fmt.Println(strconv.FormatFloat(v, 'g', -1, 64))
	return nil
}

// settingsSetCommand creates the "settings set" subcommand.
func (c *CLI) settingsSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "set <document> <name> <value>",
		Short:   "Save a setting for a document",
		Example: "  funnelchart settings set q3-report animation_speed 1.5",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			value, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "value %q is not a number", args[2])
			}

			store, err := c.newSettingsStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close(ctx)

			if err := store.Set(ctx, args[0], args[1], value); err != nil {
				return err
			}
			printSuccess("Saved %s = %s for %s", args[1], args[2], args[0])
			return nil
		},
	}
}
