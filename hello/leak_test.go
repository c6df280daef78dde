package hello

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain checks that no goroutine started by a test (the harness pump,
// the reactive-probe dedup cache) is left running once the package's tests
// finish.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
