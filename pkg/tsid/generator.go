package tsid

// Generator produces fresh, unique Id values for a single id type. The
// engine uses it only to assign property-ids (PId in the spec) to newly
// inserted or replaced edges; the identifiers a host stores at the vertex
// level are supplied by the host, never minted here.
//
// Clone returns a handle that shares the same underlying sequence (e.g. the
// same atomic counter) so that a store produced by a set operation draws
// ids that can never collide with ids already minted by its parent.
type Generator interface {
	Fresh() Id
	Clone() Generator
}
