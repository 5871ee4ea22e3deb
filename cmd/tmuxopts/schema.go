package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-tmux-options/internal/appconfig"
	"github.com/goliatone/go-tmux-options/schema"
	"github.com/goliatone/go-tmux-options/schema/openapi"
)

func newSchemaCmd(a *app) *cobra.Command {
	var scopes []string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print an OpenAPI document describing the option records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var genOpts []openapi.GeneratorOption
			if len(scopes) > 0 {
				genOpts = append(genOpts, openapi.WithScopes(scopes...))
			}
			doc, err := openapi.Generate(schema.Builtin(), genOpts...)
			if err != nil {
				return err
			}
			format := a.cfg.Output.Format
			if format == appconfig.FormatText {
				format = appconfig.FormatYAML
			}
			return render(cmd.OutOrStdout(), format, doc, nil)
		},
	}
	cmd.Flags().StringSliceVar(&scopes, "scope", nil, "limit the document to these scopes")
	return cmd
}
