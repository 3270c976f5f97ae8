package logging

import (
	"os"
)

// DebugEnabled reports whether PLANERLY_DEBUG is set. It forces the debug
// level on every logger built by New.
func DebugEnabled() bool {
	return os.Getenv("PLANERLY_DEBUG") != ""
}
