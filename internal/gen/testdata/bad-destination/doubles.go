//go:build mockdouble

package baddest

import (
	mocktools "github.com/elefevre/golang-mock-tools"
)

func MockCache() {
	mocktools.Implement(Cache(nil))
	mocktools.SetDestination("cache_double.txt")
}
