package main

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"

	"pkt.systems/psi"
	"pkt.systems/pslog"
)

func main() {
	psi.Run(submain)
}

func submain(ctx context.Context) int {
	logger := pslog.LoggerFromEnv(
		pslog.WithEnvWriter(os.Stderr),
		pslog.WithEnvOptions(pslog.Options{Mode: pslog.ModeConsole}),
	)
	ctx = pslog.ContextWithLogger(ctx, logger)
	log.SetOutput(pslog.LogLogger(logger).Writer())
	log.SetFlags(0)

	root := newRootCmd()
	root.SetArgs(os.Args[1:])

	if err := root.ExecuteContext(ctx); err != nil {
		pslog.Ctx(ctx).With("err", err).Error("tmuxopts command failed")
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "tmuxopts",
		Short:         "Inspect and change tmux options with scope resolution",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", "", "path to config file")
	root.PersistentFlags().StringVarP(&a.format, "output", "o", "", "output format: text, json or yaml")
	root.PersistentFlags().StringVarP(&a.socketName, "socket-name", "L", "", "tmux socket name")
	root.PersistentFlags().StringVarP(&a.socketPath, "socket-path", "S", "", "tmux socket path")

	root.AddCommand(newShowCmd(a))
	root.AddCommand(newTraceCmd(a))
	root.AddCommand(newSetCmd(a))
	root.AddCommand(newUnsetCmd(a))
	root.AddCommand(newEvalCmd(a))
	root.AddCommand(newSchemaCmd(a))
	root.AddCommand(newConfigCmd(a))
	root.AddCommand(newVersionCmd(a))

	return root
}
