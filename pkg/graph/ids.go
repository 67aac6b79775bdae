package graph

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

// ID prefixes.
const (
	PrefixNode     = "node"
	PrefixRedirect = "rdr"
	PrefixPort     = "port"
	PrefixEdge     = "edge"
)

// NewID returns a fresh type-prefixed ID such as "node_01h455vb4pex5vsknk084sn02q".
func NewID(prefix string) string {
	return typeid.MustGenerate(prefix).String()
}

func NewNodeID() string     { return NewID(PrefixNode) }
func NewRedirectID() string { return NewID(PrefixRedirect) }
func NewPortID() string     { return NewID(PrefixPort) }
func NewEdgeID() string     { return NewID(PrefixEdge) }

// ValidateID checks that id is a type ID with the expected prefix.
// Hand-written documents may use plain IDs; only generated IDs go through this.
func ValidateID(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid typeid %q: %w", id, err)
	}
	if parsed.Prefix() != expectedPrefix {
		return fmt.Errorf("expected prefix %q but got %q in id %q", expectedPrefix, parsed.Prefix(), id)
	}
	return nil
}
