package testutil

import (
	"sync"

	"github.com/vk/flowgridgo/internal/output"
)

// CollectedRecord is one delivered record together with the node it came
// from.
type CollectedRecord struct {
	Node   string
	Record output.Record
}

// Collector is a thread-safe runtime consumer that remembers every record
// it receives, in delivery order.
type Collector struct {
	mu      sync.Mutex
	records []CollectedRecord
}

// Consume is the runtime.Consumer to install.
func (c *Collector) Consume(node string, rec output.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, CollectedRecord{Node: node, Record: rec})
}

// Records returns a snapshot of everything collected so far.
func (c *Collector) Records() []CollectedRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CollectedRecord, len(c.records))
	copy(out, c.records)
	return out
}

// Payloads returns the payloads delivered by one node on one port, in
// delivery order.
func (c *Collector) Payloads(node, port string) []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	var payloads []any
	for _, cr := range c.records {
		if cr.Node == node && cr.Record.Port == port {
			payloads = append(payloads, cr.Record.Payload)
		}
	}
	return payloads
}

// Len returns how many records have been collected.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}
