// Package experiments manages the experimental features of smgen.
//
// The SMGEN_EXPERIMENT environment variable holds a comma-separated list of
// enabled experiments. Each entry is either `<name>` or `<name>=<bool>`, e.g.
// SMGEN_EXPERIMENT=names or SMGEN_EXPERIMENT="names=false".
package experiments

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"sort"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

var (
	// ErrInvalidDest is returned by parseFlags() when dest is not a pointer to
	// a struct with boolean flag fields.
	ErrInvalidDest = errors.New("invalid flag struct")
	// ErrInvalidFormat is returned by parseFlags() when the raw flag string
	// can't be parsed.
	ErrInvalidFormat = errors.New("invalid flag string format")
)

// EnvVar is the environment variable experiment flags are read from.
const EnvVar = "SMGEN_EXPERIMENT"

// Env contains experiment flag values from the SMGEN_EXPERIMENT environment
// variable.
var Env Flags

func init() {
	f, err := Parse(os.Getenv(EnvVar))
	if err != nil {
		panic(fmt.Errorf("failed to parse %s: %w", EnvVar, err))
	}
	Env = f
}

// Flags contains flags for currently supported experiments.
type Flags struct {
	// Names attaches identifier names to the mappings of identity maps.
	Names bool `flag:"names"`
}

// Parse returns the experiment flags described by raw, in the SMGEN_EXPERIMENT
// format.
func Parse(raw string) (Flags, error) {
	var f Flags
	if err := parseFlags(raw, &f); err != nil {
		return Flags{}, err
	}
	return f, nil
}

// String lists the enabled experiments in the format Parse accepts.
func (f Flags) String() string {
	enabled := []string{}
	for name, field := range flagFields(reflect.ValueOf(f)) {
		if field.Bool() {
			enabled = append(enabled, name)
		}
	}
	sort.Strings(enabled)
	return strings.Join(enabled, ",")
}

// parseFlags sets the boolean fields of the struct dest points to according to
// raw. Fields are matched by their `flag` tag. Entries are trimmed, a missing
// value means true and the last entry for a flag wins.
//
// Unknown flags are skipped, so that an experiment that got removed doesn't
// break an environment that still enables it.
func parseFlags(raw string, dest any) error {
	ptr := reflect.ValueOf(dest)
	if ptr.Kind() != reflect.Pointer || ptr.Type().Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: must be a pointer to a struct, got %T", ErrInvalidDest, dest)
	}
	if ptr.IsNil() {
		return fmt.Errorf("%w: must not be nil", ErrInvalidDest)
	}
	fields := flagFields(ptr.Elem())

	if strings.TrimSpace(raw) == "" {
		return nil
	}
	for _, entry := range strings.Split(raw, ",") {
		name, value, hasValue := strings.Cut(entry, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			return fmt.Errorf("%w: empty flag name in %q", ErrInvalidFormat, entry)
		}

		field, ok := fields[name]
		if !ok {
			log.Debugf("Ignoring unknown experiment %q.", name)
			continue
		}
		if field.Kind() != reflect.Bool {
			return fmt.Errorf("%w: flag %q is not a boolean", ErrInvalidDest, name)
		}

		enabled := true
		if hasValue {
			var err error
			if enabled, err = strconv.ParseBool(strings.TrimSpace(value)); err != nil {
				return fmt.Errorf("%w: flag %q: %q is not a boolean", ErrInvalidFormat, name, value)
			}
		}
		field.SetBool(enabled)
	}
	return nil
}

// flagFields maps the `flag` tags of struct s to the fields carrying them.
func flagFields(s reflect.Value) map[string]reflect.Value {
	result := map[string]reflect.Value{}
	for _, sf := range reflect.VisibleFields(s.Type()) {
		if name, ok := sf.Tag.Lookup("flag"); ok {
			result[name] = s.FieldByIndex(sf.Index)
		}
	}
	return result
}
