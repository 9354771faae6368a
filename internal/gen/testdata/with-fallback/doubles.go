//go:build mockdouble

package fallback

import (
	mocktools "github.com/elefevre/golang-mock-tools"
)

func MockStore() {
	mocktools.Implement(Store(nil))
	mocktools.WithFallback()
}
