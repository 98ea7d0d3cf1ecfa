package clock

import "time"

// DateLayout is the layout used for issue dates.
const DateLayout = "2006-01-02"

// NowFunc returns current time. Override in tests for determinism.
var NowFunc = time.Now

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }

// Today returns the current local date formatted with DateLayout.
func Today() string { return NowFunc().Format(DateLayout) }
