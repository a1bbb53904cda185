package aggregate

import "github.com/poiesic/hitcount/core"

// Monitor provides hooks to observe an aggregation.
// Word and provider hooks receive the registry identifier of the provider,
// not the caller's spelling of it. They are called from multiple goroutines,
// so implementations must be safe for concurrent use.
type Monitor interface {
	Start(query string, providers []string)
	WordCounted(provider, word string, count int64)
	WordFailed(provider, word string, err error)
	ProviderTotal(provider string, total int64)
	Finish(totals core.EngineTotals)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ []string)       {}
func (n *noopMonitor) WordCounted(_, _ string, _ int64) {}
func (n *noopMonitor) WordFailed(_, _ string, _ error)  {}
func (n *noopMonitor) ProviderTotal(_ string, _ int64)  {}
func (n *noopMonitor) Finish(_ core.EngineTotals)       {}

// multiMonitor fans hook calls out to several monitors.
type multiMonitor []Monitor

var _ Monitor = (multiMonitor)(nil)

func (m multiMonitor) Start(query string, providers []string) {
	for _, mon := range m {
		mon.Start(query, providers)
	}
}

func (m multiMonitor) WordCounted(provider, word string, count int64) {
	for _, mon := range m {
		mon.WordCounted(provider, word, count)
	}
}

func (m multiMonitor) WordFailed(provider, word string, err error) {
	for _, mon := range m {
		mon.WordFailed(provider, word, err)
	}
}

func (m multiMonitor) ProviderTotal(provider string, total int64) {
	for _, mon := range m {
		mon.ProviderTotal(provider, total)
	}
}

func (m multiMonitor) Finish(totals core.EngineTotals) {
	for _, mon := range m {
		mon.Finish(totals)
	}
}
