//go:build mockdouble

package basic

import (
	mocktools "github.com/elefevre/golang-mock-tools"
)

func MockCache() {
	mocktools.Implement(Cache(nil))
}
