package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/petclinic/petclinic-contract-tests/framework/ldtest"
)

func TestRerunCommandReplacesFilters(t *testing.T) {
	args := []string{"./petclinic-contract-tests", "-strict", "-run", "api", "--skip=ui", "-debug"}
	failures := []ldtest.TestResult{
		{TestID: ldtest.TestID{Path: []string{"api", "pets", "invalid data"}}},
		{TestID: ldtest.TestID{Path: []string{"api", "owners", "validation", "illegal name"}}},
	}
	assert.Equal(t,
		`./petclinic-contract-tests -strict -debug -run '^api$/^pets$/^invalid data$' -run '^api$/^owners$/^validation$/^illegal name$'`,
		rerunCommand(args, failures))
}

func TestRerunCommandQuotesRegexCharacters(t *testing.T) {
	failures := []ldtest.TestResult{
		{TestID: ldtest.TestID{Path: []string{"api", "owners", "non-existent owner", "get"}}},
	}
	assert.Equal(t,
		`tests -run '^api$/^owners$/^non-existent owner$/^get$'`,
		rerunCommand([]string{"tests"}, failures))
}

func TestRerunPatternSelectsOnlyThatTest(t *testing.T) {
	id := ldtest.TestID{Path: []string{"api", "pets", "create"}}
	var filters ldtest.RegexFilters
	assert.NoError(t, filters.MustMatch.Set(exactPathPattern(id)))

	assert.True(t, filters.AsFilter(id))
	assert.True(t, filters.AsFilter(ldtest.TestID{Path: []string{"api"}}))
	assert.False(t, filters.AsFilter(ldtest.TestID{Path: []string{"api", "pets", "create pet type and assign it"}}))
	assert.False(t, filters.AsFilter(ldtest.TestID{Path: []string{"api", "owners", "create"}}))
}

func TestFlagName(t *testing.T) {
	name, hasValue := flagName("-run")
	assert.Equal(t, "run", name)
	assert.False(t, hasValue)

	name, hasValue = flagName("--skip=x")
	assert.Equal(t, "skip", name)
	assert.True(t, hasValue)

	name, _ = flagName("api")
	assert.Equal(t, "", name)
}

func TestRerunCommandAfterRootFailureRepeatsWholeRun(t *testing.T) {
	failures := []ldtest.TestResult{
		{TestID: ldtest.TestID{Path: []string{"api", "pets", "create"}}},
		{TestID: ldtest.TestID{}},
	}
	assert.Equal(t, "tests -strict", rerunCommand([]string{"tests", "-strict", "-run", "api"}, failures))
}
