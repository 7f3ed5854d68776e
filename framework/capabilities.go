package framework

import "strings"

// Capabilities is the set of optional features that are available in the current test run.
// Tests that depend on one of them can skip themselves when it is missing.
type Capabilities []string

func (c Capabilities) Has(name string) bool {
	for _, n := range c {
		if n == name {
			return true
		}
	}
	return false
}

// Missing returns the names from all that are not in c, preserving their order.
func (c Capabilities) Missing(all []string) []string {
	var ret []string
	for _, n := range all {
		if !c.Has(n) {
			ret = append(ret, n)
		}
	}
	return ret
}

func (c Capabilities) String() string {
	return strings.Join(c, ", ")
}
