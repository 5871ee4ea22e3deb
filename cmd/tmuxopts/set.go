package main

import (
	"github.com/spf13/cobra"

	opts "github.com/goliatone/go-tmux-options"
)

func newSetCmd(a *app) *cobra.Command {
	var (
		flags       targetFlags
		appendValue bool
	)
	cmd := &cobra.Command{
		Use:   "set <option> <value>",
		Short: "Set an option, routed to the nearest scope that holds it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, callOpts, err := flags.resolve()
			if err != nil {
				return err
			}
			if appendValue {
				callOpts = append(callOpts, opts.WithAppend())
			}
			engine, err := a.engine()
			if err != nil {
				return err
			}
			return engine.Set(cmd.Context(), t, args[0], args[1], callOpts...)
		},
	}
	flags.register(cmd)
	flags.registerTargetScope(cmd)
	cmd.Flags().BoolVarP(&appendValue, "append", "a", false, "append to string and array options")
	return cmd
}

func newUnsetCmd(a *app) *cobra.Command {
	var flags targetFlags
	cmd := &cobra.Command{
		Use:   "unset <option>",
		Short: "Remove an explicit option value so it inherits again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, callOpts, err := flags.resolve()
			if err != nil {
				return err
			}
			engine, err := a.engine()
			if err != nil {
				return err
			}
			return engine.Unset(cmd.Context(), t, args[0], callOpts...)
		},
	}
	flags.register(cmd)
	flags.registerTargetScope(cmd)
	return cmd
}
