package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/gopherjs/sourcemap"
	"github.com/gopherjs/sourcemap/internal/errorList"
	"github.com/gopherjs/sourcemap/urlutil"
)

// maxReportedErrors limits the number of bad input lines build reports.
const maxReportedErrors = 10

// maxLineSize is the longest accepted line of mapping input.
const maxLineSize = 1 << 20

func buildCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build MAPPINGS.jsonl",
		Short: "Build a source map from a list of mappings",
		Long: `Reads one mapping per line in the form

  {"generated":{"line":1,"column":0},"original":{"line":1,"column":0},"source":"a.js","name":"x"}

and writes the resulting source map. Use "-" to read from stdin. With
--embed-sources the content of every source is read from disk relative to
the directory of MAPPINGS.jsonl.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.build(cmd, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringP("out", "o", "", "file to write the map to (default is stdout)")
	flags.Bool("embed-sources", false, "embed source contents in the map")
	return cmd
}

func (a *app) build(cmd *cobra.Command, input string) error {
	in, dir := cmd.InOrStdin(), "."
	if input != "-" {
		f, err := a.fs.Open(input)
		if err != nil {
			return err
		}
		defer f.Close()
		in, dir = f, filepath.Dir(input)
	}

	file := ""
	if a.cfg.Out != "" {
		file = strings.TrimSuffix(filepath.Base(a.cfg.Out), ".map")
	}
	g := sourcemap.New(a.cfg.generatorOptions(file))
	if err := readMappings(in, input, g); err != nil {
		return err
	}

	if a.cfg.EmbedSources {
		m, err := g.ToJSON()
		if err != nil {
			return err
		}
		for _, source := range m.Sources {
			a.embedSource(g, dir, source)
		}
	}

	b, err := g.Bytes()
	if err != nil {
		return err
	}
	b = append(b, '\n')

	if a.cfg.Out == "" {
		_, err := cmd.OutOrStdout().Write(b)
		return err
	}
	if err := a.fs.MkdirAll(filepath.Dir(a.cfg.Out), 0o755); err != nil {
		return err
	}
	if err := afero.WriteFile(a.fs, a.cfg.Out, b, 0o644); err != nil {
		return err
	}
	printf(cmd, color.FgGreen, "Wrote %s (%s)\n", a.cfg.Out, humanize.Bytes(uint64(len(b))))
	return nil
}

// readMappings adds every mapping from r to g. Blank lines are skipped. Bad
// lines don't stop reading, they are all reported at the end.
func readMappings(r io.Reader, name string, g *sourcemap.Generator) error {
	var errs errorList.ErrorList
	sc := bufio.NewScanner(r)
	sc.Buffer(nil, maxLineSize)
	for lineNo := 1; sc.Scan(); lineNo++ {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var m sourcemap.Mapping
		if err := json.Unmarshal(line, &m); err != nil {
			errs = errs.Append(fmt.Errorf("%s:%d: %w", name, lineNo, err))
			continue
		}
		if err := g.AddMapping(m); err != nil {
			errs = errs.Append(fmt.Errorf("%s:%d: %w", name, lineNo, err))
		}
	}
	if err := sc.Err(); err != nil {
		errs = errs.Append(fmt.Errorf("%s: %w", name, err))
	}
	return errs.Trim(maxReportedErrors).ErrOrNil()
}

// embedSource stores the content of source found under dir. Sources that
// can't be read are left without content.
func (a *app) embedSource(g *sourcemap.Generator, dir, source string) {
	var path string
	switch urlutil.TypeOf(source) {
	case urlutil.PathRelative:
		path = filepath.Join(dir, filepath.FromSlash(source))
	case urlutil.PathAbsolute:
		path = filepath.FromSlash(source)
	default:
		log.Warnf("Not embedding %s: only local paths are supported.", source)
		return
	}

	content, err := afero.ReadFile(a.fs, path)
	if err != nil {
		log.Warnf("Not embedding %s: %v", source, err)
		return
	}
	g.SetSourceContent(source, string(content))
}
