package ast

type (
	// NodeID is a stable handle of any node (expression or item) in a Model.
	NodeID uint32
	// PayloadID indexes the kind-specific arena of a node.
	PayloadID uint32
)

const (
	NoNodeID    NodeID    = 0
	NoPayloadID PayloadID = 0
)

func (id NodeID) IsValid() bool    { return id != NoNodeID }
func (id PayloadID) IsValid() bool { return id != NoPayloadID }
