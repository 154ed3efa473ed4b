package ports

import "github.com/anvil-build/anvil/internal/core/domain"

//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks

// RecordStore persists the incremental state between builds: one record
// per invocation identity. Put is called after each completed invocation
// so an interrupted build keeps everything that finished.
type RecordStore interface {
	// Get retrieves the record for a given invocation identity.
	// Returns nil, nil if not found.
	Get(identity string) (*domain.InvocationRecord, error)

	// Put stores the record.
	Put(record domain.InvocationRecord) error
}
