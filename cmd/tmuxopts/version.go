package main

import (
	"fmt"
	"io"
	"runtime/debug"
	"slices"

	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	opts "github.com/goliatone/go-tmux-options"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print tmuxopts and tmux versions with the tmux capabilities in use",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintf(out, "tmuxopts %s\n", buildVersion()); err != nil {
				return err
			}
			engine, err := a.engine()
			if err != nil {
				return err
			}
			v, err := engine.Version(cmd.Context())
			if err != nil {
				pslog.Ctx(cmd.Context()).Warn("tmux version unavailable", "err", err)
				return nil
			}
			if _, err := fmt.Fprintf(out, "tmux %s\n", v); err != nil {
				return err
			}
			return writeCapabilities(out, v)
		},
	}
}

func writeCapabilities(w io.Writer, v opts.Version) error {
	caps := opts.Capabilities()
	names := make([]opts.Capability, 0, len(caps))
	for c := range caps {
		names = append(names, c)
	}
	slices.Sort(names)
	for _, c := range names {
		state := "no"
		if v.Supports(c) {
			state = "yes"
		}
		if _, err := fmt.Fprintf(w, "  %-16s %-4s (tmux %s)\n", c, state, caps[c]); err != nil {
			return err
		}
	}
	return nil
}

func buildVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" {
		return "(devel)"
	}
	return info.Main.Version
}
