package codex

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain ensures every store opened by a test releases its pool goroutines.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
