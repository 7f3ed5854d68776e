// Package apitests contains the contract tests for the pet-clinic REST API.
//
// Each group of tests creates the entities it needs through the API and deletes them again when
// the group finishes. Behaviors of the backend that are known to be wrong are expected as they
// are, unless the run is strict or the defect is marked as fixed; see defects.go.
package apitests
