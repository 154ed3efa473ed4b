package domain

import "time"

// InvocationRecord is the persisted incremental state for one invocation,
// keyed by its output-set identity. It is written after each successful
// execution so an interrupted build loses at most the invocation that was
// in flight.
type InvocationRecord struct {
	Identity        string `json:"identity"`
	DescriptionHash string `json:"description_hash"`

	// DiscoveredInputs are the extra inputs reported by the tool's
	// dependency info the last time the invocation ran.
	DiscoveredInputs []string `json:"discovered_inputs,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}
