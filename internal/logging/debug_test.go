package logging

import (
	"testing"
)

func TestDebugEnabled(t *testing.T) {
	t.Setenv("PLANERLY_DEBUG", "")
	if DebugEnabled() {
		t.Error("DebugEnabled() should return false when PLANERLY_DEBUG is empty")
	}

	t.Setenv("PLANERLY_DEBUG", "1")
	if !DebugEnabled() {
		t.Error("DebugEnabled() should return true when PLANERLY_DEBUG is set")
	}
}
