package ldtest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/petclinic/petclinic-contract-tests/framework"
)

// Filter is a function that can determine whether to run a specific test or not.
type Filter func(TestID) bool

// RegexFilters selects tests by name.
//
// MustMatch uses the same convention as "go test -run": each pattern is split on slashes, and
// each element must match the test name at the corresponding level. A parent test runs if its
// own levels match, so that its subtests get a chance to match the rest of the pattern.
//
// MustNotMatch patterns are matched against the whole slash-separated test name; excluding a
// parent test also excludes all of its subtests.
type RegexFilters struct {
	MustMatch    RegexList
	MustNotMatch RegexList
}

func (r RegexFilters) AsFilter(id TestID) bool {
	return (!r.MustMatch.IsDefined() || r.MustMatch.AnyMatchPath(id.Path)) &&
		!r.MustNotMatch.AnyMatch(id.String())
}

type RegexList struct {
	patterns []*regexp.Regexp
	elements [][]*regexp.Regexp
}

func (r RegexList) String() string {
	var ss []string
	for _, p := range r.patterns {
		ss = append(ss, `"`+p.String()+`"`)
	}
	return strings.Join(ss, " or ")
}

// Set is called by the command line parser
func (r *RegexList) Set(value string) error {
	rx, err := regexp.Compile(value)
	if err != nil {
		return fmt.Errorf("invalid regex: %w", err)
	}
	var elems []*regexp.Regexp
	for _, part := range strings.Split(value, "/") {
		erx, err := regexp.Compile(part)
		if err != nil {
			return fmt.Errorf("invalid regex element %q: %w", part, err)
		}
		elems = append(elems, erx)
	}
	r.patterns = append(r.patterns, rx)
	r.elements = append(r.elements, elems)
	return nil
}

func (r RegexList) IsDefined() bool {
	return len(r.patterns) != 0
}

func (r RegexList) AnyMatch(s string) bool {
	for _, p := range r.patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// AnyMatchPath is true if some pattern matches the path level by level. Levels deeper than the
// pattern are unconstrained.
func (r RegexList) AnyMatchPath(path []string) bool {
	for _, elems := range r.elements {
		matched := true
		for i, name := range path {
			if i >= len(elems) {
				break
			}
			if !elems[i].MatchString(name) {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}

func PrintFilterDescription(filters RegexFilters, allCapabilities []string, capabilities framework.Capabilities) {
	if filters.MustMatch.IsDefined() || filters.MustNotMatch.IsDefined() {
		fmt.Println("Some tests will be skipped based on the filter criteria for this test run:")
		if filters.MustMatch.IsDefined() {
			fmt.Printf("  skip any not matching %s\n", filters.MustMatch)
		}
		if filters.MustNotMatch.IsDefined() {
			fmt.Printf("  skip any matching %s\n", filters.MustNotMatch)
		}
		fmt.Println()
	}

	if missing := capabilities.Missing(allCapabilities); len(missing) > 0 {
		fmt.Println("Some tests may be skipped because the following capabilities are not available:")
		fmt.Printf("  %s\n", strings.Join(missing, ", "))
		fmt.Println()
	}
}
