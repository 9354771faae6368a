package mocktools

// Implement designates the interfaces the generated double will satisfy.
func Implement(...interface{}) {}

// SetDestination sets the file the double is generated into.
func SetDestination(string) {}

// WithFallback adds a constructor whose optional argument is a real
// implementation to delegate to when no response body is configured.
func WithFallback() {}
