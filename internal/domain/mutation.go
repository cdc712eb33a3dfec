package domain

// MutationKind labels a committed write against the order store.
type MutationKind string

const (
	MutationCreated MutationKind = "created"
	MutationUpdated MutationKind = "updated"
)

// Mutation describes a committed order change. It is handed to the
// broadcast side to request a fresh snapshot push; it carries no payload
// beyond identity because the snapshot is always rebuilt from the store.
type Mutation struct {
	Kind    MutationKind
	OrderID int64
	// Status is the new status for updates; empty for creations.
	Status OrderStatus
}
