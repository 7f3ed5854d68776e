package main

import (
	"flag"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/alessio/shellescape"

	"github.com/petclinic/petclinic-contract-tests/framework/ldtest"
)

type commandParams struct {
	configFile string
	apiURL     string
	uiURL      string
	filters    ldtest.RegexFilters
	strict     bool
	noUI       bool
	debug      bool
	debugAll   bool
}

func (c *commandParams) Read(args []string) bool {
	fs := flag.NewFlagSet("", flag.ExitOnError)
	fs.StringVar(&c.configFile, "config", "", "path of a TOML configuration file")
	fs.StringVar(&c.apiURL, "api-url", "", "base URL of the pet-clinic REST API (overrides the configuration)")
	fs.StringVar(&c.uiURL, "ui-url", "", "base URL of the pet-clinic frontend (overrides the configuration)")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.BoolVar(&c.strict, "strict", false, "expect correct behavior even where the backend has known defects")
	fs.BoolVar(&c.noUI, "no-ui", false, "do not run browser tests")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")

	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return false
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		fs.Usage()
		return false
	}
	return true
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}

// rerunCommand builds a command line that repeats this test run for only the failed tests. The
// other arguments are kept, except for test filters.
func rerunCommand(args []string, failures []ldtest.TestResult) string {
	var b commandBuilder
	b.add(args[0])
	for i := 1; i < len(args); i++ {
		name, hasValue := flagName(args[i])
		if name == "run" || name == "skip" {
			if !hasValue {
				i++
			}
			continue
		}
		b.add(args[i])
	}
	var patterns []string
	for _, f := range failures {
		if len(f.TestID.Path) == 0 {
			// the whole run failed, so the whole run is repeated
			return b.String()
		}
		patterns = append(patterns, exactPathPattern(f.TestID))
	}
	for _, p := range patterns {
		b.add("-run", p)
	}
	return b.String()
}

// flagName returns the name of a flag argument such as "-run" or "--run=x", and whether the
// value is part of the same argument.
func flagName(arg string) (string, bool) {
	if !strings.HasPrefix(arg, "-") {
		return "", false
	}
	name := strings.TrimLeft(arg, "-")
	if i := strings.Index(name, "="); i >= 0 {
		return name[:i], true
	}
	return name, false
}

func exactPathPattern(id ldtest.TestID) string {
	parts := make([]string, 0, len(id.Path))
	for _, name := range id.Path {
		parts = append(parts, "^"+regexp.QuoteMeta(name)+"$")
	}
	return strings.Join(parts, "/")
}
