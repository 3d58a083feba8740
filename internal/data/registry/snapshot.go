package registry

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/zjrosen/starforge/internal/data/validate"
)

// Snapshot pairs a built registry with the metadata of the load that
// produced it. Snapshots are immutable; readers hold one for as long as
// they need a consistent view.
type Snapshot struct {
	RunID         uuid.UUID
	LoadedAt      time.Time
	SchemaVersion int
	Registry      *Registry
	// Diagnostics carries the advisory findings of the load that produced
	// this snapshot. A published snapshot never carries fatals.
	Diagnostics []validate.Diagnostic
}

// Handle is the single mutable cell through which consumers observe data.
// Publish swaps the snapshot pointer atomically; Current never blocks and
// keeps returning the previous generation until a new one lands.
type Handle struct {
	current atomic.Pointer[Snapshot]
}

// NewHandle returns an empty handle. Current returns nil until the first
// Publish.
func NewHandle() *Handle {
	return &Handle{}
}

// Current returns the latest published snapshot, or nil before the first
// successful load.
func (h *Handle) Current() *Snapshot {
	return h.current.Load()
}

// Publish atomically installs snap as the current generation.
func (h *Handle) Publish(snap *Snapshot) {
	h.current.Store(snap)
}
