package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gopherjs/sourcemap/urlutil"
)

func urlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "url",
		Short: "Resolve URLs the way source map consumers do",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "join ROOT PATH",
		Short: "Join PATH onto ROOT",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			joined, err := urlutil.Join(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), joined)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "relative ROOT TARGET",
		Short: "Make TARGET relative to ROOT if possible",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), urlutil.Relative(args[0], args[1]))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "source SOURCE_ROOT SOURCE_URL [SOURCE_MAP_URL]",
		Short: "Compute the final URL of a source listed in a map",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			mapURL := ""
			if len(args) == 3 {
				mapURL = args[2]
			}
			source, err := urlutil.ComputeSourceURL(args[0], args[1], mapURL)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), source)
			return nil
		},
	})

	return cmd
}
