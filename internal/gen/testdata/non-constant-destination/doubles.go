//go:build mockdouble

package nonconst

import (
	mocktools "github.com/elefevre/golang-mock-tools"
)

var destination = "cache_double.go"

func MockCache() {
	mocktools.Implement(Cache(nil))
	mocktools.SetDestination(destination)
}
