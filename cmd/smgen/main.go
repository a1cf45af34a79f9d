// Command smgen generates source maps from the command line.
//
//	smgen identity --out-dir dist src/*.js
//	smgen build --embed-sources --out app.js.map mappings.jsonl
//	smgen url relative http://host/a/b/ http://host/a/c
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app holds the state shared by all commands.
type app struct {
	fs  afero.Fs
	v   *viper.Viper
	cfg config

	cfgFile string
}

func newApp(fs afero.Fs) *app {
	return &app{fs: fs, v: viper.New()}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := newRootCmd(newApp(afero.NewOsFs()))
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return
	}

	printError(cmd, err)
	os.Exit(1)
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "smgen",
		Short: "Source Map v3 generator",
		Long: `smgen builds Source Map v3 files.

Configuration is read from flags, SMGEN_* environment variables and an
optional .smgen.yaml file in the current or home directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.loadConfig(cmd.Flags()); err != nil {
				return err
			}
			log.SetOutput(cmd.ErrOrStderr())
			log.SetLevel(log.WarnLevel)
			if a.cfg.Verbose {
				log.SetLevel(log.DebugLevel)
			}
			if used := a.v.ConfigFileUsed(); used != "" {
				log.Debugf("Using config file %s.", used)
			}
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is .smgen.yaml in the current or home directory)")
	flags.BoolP("verbose", "v", false, "print debug logs")
	flags.String("file", "", "value of the \"file\" field of produced maps")
	flags.String("source-root", "", "value of the \"sourceRoot\" field of produced maps")
	flags.Bool("skip-validation", false, "don't validate mappings before adding them")

	cmd.AddCommand(identityCmd(a))
	cmd.AddCommand(buildCmd(a))
	cmd.AddCommand(urlCmd())
	cmd.AddCommand(versionCmd())
	return cmd
}

func printf(cmd *cobra.Command, attr color.Attribute, format string, args ...any) {
	color.New(attr).Fprintf(cmd.OutOrStdout(), format, args...)
}
