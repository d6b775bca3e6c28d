// Package diagnostics accumulates the errors, warnings, info and debug
// messages every pipeline stage reports, and decides whether the driver
// must stop after the current pass.
package diagnostics

// Collector gathers diagnostics of all four severities produced by a
// single pass. The driver drains one collector per pass (see Design
// Notes, "Concurrency & resource model": collectors are per-pass).
type Collector struct {
	Errors   []string
	Warnings []string
	Infos    []string
	Debugs   []string
}

// New returns an empty Collector.
func New() *Collector {
	return &Collector{}
}

// Error records an error-level diagnostic.
func (c *Collector) Error(msg string) {
	c.Errors = append(c.Errors, msg)
}

// Warn records a warning-level diagnostic.
func (c *Collector) Warn(msg string) {
	c.Warnings = append(c.Warnings, msg)
}

// Info records an info-level diagnostic.
func (c *Collector) Info(msg string) {
	c.Infos = append(c.Infos, msg)
}

// Debug records a debug-level diagnostic.
func (c *Collector) Debug(msg string) {
	c.Debugs = append(c.Debugs, msg)
}

// HasErrors reports whether any error-level diagnostic was recorded. The
// driver gates pipeline progress on this after every pass.
func (c *Collector) HasErrors() bool {
	return len(c.Errors) > 0
}

// Clear resets the collector to empty, for reuse across passes that share
// one collector instance.
func (c *Collector) Clear() {
	c.Errors = nil
	c.Warnings = nil
	c.Infos = nil
	c.Debugs = nil
}

// Merge appends all diagnostics from other into c, preserving order.
func (c *Collector) Merge(other *Collector) {
	c.Errors = append(c.Errors, other.Errors...)
	c.Warnings = append(c.Warnings, other.Warnings...)
	c.Infos = append(c.Infos, other.Infos...)
	c.Debugs = append(c.Debugs, other.Debugs...)
}
