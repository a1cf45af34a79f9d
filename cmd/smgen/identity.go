package main

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gopherjs/sourcemap"
	"github.com/gopherjs/sourcemap/internal/errorList"
	"github.com/gopherjs/sourcemap/internal/experiments"
	"github.com/gopherjs/sourcemap/internal/sourcemapx"
	"github.com/gopherjs/sourcemap/internal/tokenize"
	"github.com/gopherjs/sourcemap/urlutil"
)

var errOverwrite = errors.New("output would overwrite the input, choose another --out-dir")

func identityCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identity FILE...",
		Short: "Copy files next to identity source maps",
		Long: `Copies every FILE into the output directory, maps each of its tokens to
itself and writes the map next to the copy as FILE.map. The copy gets a
sourceMappingURL comment and the map embeds the original text.

Set SMGEN_EXPERIMENT=names to also record identifiers in the "names" field.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, files []string) error {
			if !a.cfg.Watch {
				return a.identity(cmd, files)
			}
			if err := a.identity(cmd, files); err != nil {
				printError(cmd, err)
			}
			return a.watch(cmd, files, func() error {
				return a.identity(cmd, files)
			})
		},
	}

	flags := cmd.Flags()
	flags.StringP("out-dir", "o", ".", "directory to write copies and maps to")
	flags.IntP("workers", "j", 0, "number of files processed in parallel (default is the number of CPUs)")
	flags.BoolP("watch", "w", false, "regenerate the output when an input changes")
	return cmd
}

// identity processes files concurrently and returns all failures as an
// errorList.ErrorList.
func (a *app) identity(cmd *cobra.Command, files []string) error {
	opts := tokenize.Options{Names: experiments.Env.Names}

	var (
		mu   sync.Mutex
		errs errorList.ErrorList
	)
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(a.cfg.Workers)
	for _, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, size, err := a.identityFile(file, opts)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = errs.Append(fmt.Errorf("%s: %w", file, err))
				return nil
			}
			printf(cmd, color.FgGreen, "%s -> %s (map: %s)\n", file, out, humanize.Bytes(uint64(size)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return errs.ErrOrNil()
}

// identityFile writes the copy of file and its map, returning the copy's path
// and the size of the map.
func (a *app) identityFile(file string, opts tokenize.Options) (string, int, error) {
	text, err := afero.ReadFile(a.fs, file)
	if err != nil {
		return "", 0, err
	}

	base := filepath.Base(file)
	out := filepath.Join(a.cfg.OutDir, base)
	if filepath.Clean(file) == out {
		return "", 0, errOverwrite
	}
	source, err := sourceName(a.cfg.OutDir, file)
	if err != nil {
		return "", 0, err
	}
	log.Debugf("Mapping %s as %q.", file, source)

	g := sourcemap.New(a.cfg.generatorOptions(base))
	code := &bytes.Buffer{}
	filter := &sourcemapx.Filter{Writer: code, MappingCallback: sourcemapx.AddTo(g)}
	switch err := tokenize.Annotate(filter, source, string(text), opts); {
	case errors.Is(err, tokenize.ErrHintMagic):
		// The text can't pass through a hint stream, map it directly.
		log.Debugf("%s: %s, mapping without hints.", file, err)
		if err := tokenize.Identity(g, source, string(text), opts); err != nil {
			return "", 0, err
		}
		code.Write(text)
	case err != nil:
		return "", 0, err
	default:
		g.SetSourceContent(source, string(text))
	}

	if len(text) > 0 && text[len(text)-1] != '\n' {
		code.WriteByte('\n')
	}
	fmt.Fprintf(code, "//# sourceMappingURL=%s.map\n", base)

	m, err := g.Bytes()
	if err != nil {
		return "", 0, err
	}
	m = append(m, '\n')

	if err := a.fs.MkdirAll(a.cfg.OutDir, 0o755); err != nil {
		return "", 0, err
	}
	if err := afero.WriteFile(a.fs, out, code.Bytes(), 0o644); err != nil {
		return "", 0, err
	}
	if err := afero.WriteFile(a.fs, out+".map", m, 0o644); err != nil {
		return "", 0, err
	}
	return out, len(m), nil
}

// sourceName returns the URL of file relative to the directory the map is
// written to.
func sourceName(dir, file string) (string, error) {
	if filepath.IsAbs(dir) != filepath.IsAbs(file) {
		var err error
		if dir, err = filepath.Abs(dir); err != nil {
			return "", err
		}
		if file, err = filepath.Abs(file); err != nil {
			return "", err
		}
	}
	return urlutil.Relative(filepath.ToSlash(dir)+"/", filepath.ToSlash(file)), nil
}

func printError(cmd *cobra.Command, err error) {
	red := color.New(color.FgRed)
	var errs errorList.ErrorList
	if errors.As(err, &errs) {
		for _, entry := range errs {
			red.Fprintln(cmd.ErrOrStderr(), entry)
		}
		return
	}
	red.Fprintln(cmd.ErrOrStderr(), err)
}
