// Package uitests contains browser tests for the pet-clinic frontend.
//
// The tests run in a fixed order and depend on each other: later tests look for the owner, pet,
// and vet that earlier tests created. Each test gets a fresh browser.
package uitests
