package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	opts "github.com/goliatone/go-tmux-options"
)

func newEvalCmd(a *app) *cobra.Command {
	var (
		flags      targetFlags
		engineName string
	)
	cmd := &cobra.Command{
		Use:   "eval <expression>",
		Short: "Evaluate an expression against an object's effective options",
		Long: "Evaluate an expression against the effective options of a tmux object.\n" +
			"Declared options are bound by field name (buffer_limit), user options\n" +
			"under user (user.theme_name) and every option by name under options.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, callOpts, err := flags.resolve()
			if err != nil {
				return err
			}
			evaluator, err := evaluatorFor(engineName)
			if err != nil {
				return err
			}
			engine, err := a.engine(opts.WithEvaluator(evaluator))
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			snap, err := engine.Snapshot(ctx, t, callOpts...)
			if err != nil {
				return err
			}
			res, err := engine.Evaluate(ctx, snap, args[0])
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.cfg.Output.Format, map[string]any{"result": res.Value}, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, formatText(res.Value))
				return err
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&engineName, "engine", "expr", "expression engine: expr, cel or js")
	return cmd
}

func evaluatorFor(name string) (opts.Evaluator, error) {
	cache := opts.NewProgramCache()
	switch name {
	case "", "expr":
		return opts.NewExprEvaluator(opts.ExprWithProgramCache(cache)), nil
	case "cel":
		return opts.NewCELEvaluator(opts.CELWithProgramCache(cache)), nil
	case "js":
		evaluator := opts.NewJSEvaluator(opts.JSWithProgramCache(cache))
		if evaluator == nil {
			return nil, fmt.Errorf("js engine requires a build with the js_eval tag")
		}
		return evaluator, nil
	default:
		return nil, fmt.Errorf("unknown expression engine %q", name)
	}
}
