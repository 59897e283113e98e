// Package flagx lets several components parse their own flags out of one
// shared command line without tripping over each other's definitions.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// FilterArgs returns the subset of args that belong to the named flags.
//
// Names are given without leading dashes; "-x", "--x", "-x=v" and "--x=v"
// all match the name "x". A flag listed in valued consumes the following
// argument as its value unless that argument starts with '-'. A flag
// listed in boolean never consumes a following argument.
//
// Unknown flags and positional arguments are dropped. The result is never nil.
func FilterArgs(args []string, valued, boolean []string) []string {
	kinds := make(map[string]bool, len(valued)+len(boolean))
	for _, n := range valued {
		kinds[n] = true
	}
	for _, n := range boolean {
		kinds[n] = false
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		name, _, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		takesValue, ok := kinds[name]
		if !ok {
			continue
		}
		filtered = append(filtered, arg)

		if hasValue || !takesValue {
			continue
		}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// ConfigPath extracts the JSON config file path given with -c or -config.
// It returns "" when neither is present.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to JSON config file")
	fs.StringVar(&path, "c", "", "path to JSON config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"c", "config"}, nil))

	return path
}
