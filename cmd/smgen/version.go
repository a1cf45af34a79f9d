package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/gopherjs/sourcemap"
	"github.com/gopherjs/sourcemap/internal/experiments"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the smgen version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "smgen %s (source map version %d)\n", version(), sourcemap.Version)
			if enabled := experiments.Env.String(); enabled != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "experiments: %s\n", enabled)
			}
		},
	}
}

func version() string {
	v := "devel"
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return v
	}
	switch info.Main.Version {
	case "", "(devel)":
	default:
		v = info.Main.Version
	}
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" {
			v += " " + setting.Value
		}
	}
	return v
}
