//go:build mockdouble

package empty

import (
	mocktools "github.com/elefevre/golang-mock-tools"
)

func MockCache() {
	mocktools.Implement(Cache(nil))
	mocktools.SetDestination("")
}
