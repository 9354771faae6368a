//go:build mockdouble

package noniface

import (
	mocktools "github.com/elefevre/golang-mock-tools"
)

func MockCache() {
	mocktools.Implement(42)
}
