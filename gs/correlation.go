package gs

import (
	"github.com/pborman/uuid"
)

// CorrelationID is a thin, cheap-to-copy tracing token threaded through
// every storage-core operation purely for observability. The core never
// inspects its value.
type CorrelationID struct {
	id uuid.UUID
}

// NewCorrelationID creates a fresh random correlation token.
func NewCorrelationID() CorrelationID {
	return CorrelationID{id: uuid.NewRandom()}
}

// String renders the correlation id in canonical UUID form.
func (c CorrelationID) String() string {
	if c.id == nil {
		return "00000000-0000-0000-0000-000000000000"
	}
	return c.id.String()
}
