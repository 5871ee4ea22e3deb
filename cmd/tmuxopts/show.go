package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	opts "github.com/goliatone/go-tmux-options"
)

func newShowCmd(a *app) *cobra.Command {
	var (
		flags     targetFlags
		inherited bool
		hooks     bool
	)
	cmd := &cobra.Command{
		Use:   "show [option]",
		Short: "Show option values for a tmux object",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, callOpts, err := flags.resolve()
			if err != nil {
				return err
			}
			if inherited {
				callOpts = append(callOpts, opts.WithInherited())
			}
			if hooks {
				callOpts = append(callOpts, opts.WithHooks())
			}
			engine, err := a.engine()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				values, err := engine.ShowAll(ctx, t, callOpts...)
				if err != nil {
					return err
				}
				return render(out, a.cfg.Output.Format, values, func(w io.Writer) error {
					return writeListing(w, values)
				})
			}

			name := args[0]
			value, err := engine.Show(ctx, t, name, callOpts...)
			if err != nil {
				return err
			}
			if value == nil {
				return nil
			}
			return render(out, a.cfg.Output.Format, map[string]any{name: value}, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, formatText(value))
				return err
			})
		},
	}
	flags.register(cmd)
	flags.registerTargetScope(cmd)
	cmd.Flags().BoolVarP(&inherited, "inherited", "A", false, "include inherited values")
	cmd.Flags().BoolVarP(&hooks, "hooks", "H", false, "include hooks")
	return cmd
}

func newTraceCmd(a *app) *cobra.Command {
	var flags targetFlags
	cmd := &cobra.Command{
		Use:   "trace <option>",
		Short: "Show every table consulted while resolving an option",
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
			trace, err := engine.Trace(cmd.Context(), t, args[0], callOpts...)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.cfg.Output.Format, trace, func(w io.Writer) error {
				return writeTrace(w, trace)
			})
		},
	}
	flags.register(cmd)
	flags.registerTargetScope(cmd)
	return cmd
}

func writeTrace(w io.Writer, trace opts.Trace) error {
	effective := -1
	for i, layer := range trace.Layers {
		marker := " "
		if layer.Found && effective < 0 {
			effective = i
			marker = "*"
		}
		label := layer.Scope
		switch {
		case layer.Default:
			label = "default"
		case layer.Global:
			label += " (global)"
		case layer.Target != "":
			label += " " + layer.Target
		}
		value := "-"
		if layer.Found {
			value = formatText(layer.Value)
		}
		if _, err := fmt.Fprintf(w, "%s %-20s %s\n", marker, label, value); err != nil {
			return err
		}
	}
	return nil
}
