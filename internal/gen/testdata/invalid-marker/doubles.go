//go:build mockdouble

package invalid

import (
	"fmt"

	mocktools "github.com/elefevre/golang-mock-tools"
)

func MockCache() {
	fmt.Println("not a marker call")
	mocktools.Implement(Cache(nil))
}
