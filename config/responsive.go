package config

// ThreadCountFor returns the number of threads for a viewport width.
//
// Below the small breakpoint the base count is scaled by SmallFactor. Below
// the medium breakpoint the small tier is scaled again by MediumFactor and
// capped at the base count. The result is never below 1.
func (c *Config) ThreadCountFor(width float64) int {
	t := c.Threads
	n := t.BaseCount
	switch {
	case width < float64(t.SmallBreakpoint):
		n = int(float64(t.BaseCount) * t.SmallFactor)
	case t.MediumBreakpoint > 0 && width < float64(t.MediumBreakpoint):
		n = min(int(float64(t.BaseCount)*t.SmallFactor*t.MediumFactor), t.BaseCount)
	}
	return max(n, 1)
}
