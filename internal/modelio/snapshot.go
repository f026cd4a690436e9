// Package modelio reads and writes resolved model snapshots.
//
// A snapshot is the msgpack encoding of a flat node table produced by the
// front end after name resolution. Node references are 1-based indices into
// the table, 0 meaning "absent"; file references are 0-based indices into the
// file table.
package modelio

import (
	"mznlint/internal/ast"
)

// SchemaVersion is bumped whenever the record layout changes.
const SchemaVersion uint16 = 1

// Ext is the file extension of snapshot files.
const Ext = ".mznast"

// Snapshot is the on-disk form of an ast.Model.
type Snapshot struct {
	Schema uint16
	Files  []FileRecord
	Nodes  []NodeRecord
	Items  []uint32
}

type FileRecord struct {
	Path    string
	Flags   uint8
	Content []byte `msgpack:",omitempty"`
}

type TypeRecord struct {
	Inst uint8
	Base uint8
	Dim  int8
	Set  bool `msgpack:",omitempty"`
	Opt  bool `msgpack:",omitempty"`
}

type GenRecord struct {
	Decls []uint32
	In    uint32
	Where uint32 `msgpack:",omitempty"`
}

// NodeRecord is a union over node kinds. Which fields are meaningful
// depends on Kind:
//
//	Id             Name, Ref (declaration)
//	literals       Int | Float | Bool | Str
//	SetLit/ArrayLit List
//	ArrayAccess    A (array), List (indices)
//	Comprehension  A (body), Gens, Flag (set)
//	Call           Name, List (args), Ref (function item)
//	BinOp/UnOp     Op, A, B
//	IfThenElse     List (conds), List2 (thens), A (else)
//	Let            List (decls), A (body)
//	VarDecl        Name, A (type-inst), B (value), Flag (top level)
//	TypeInst       List (ranges), A (domain)
//	VarDecl/Constraint/Output items  A
//	AssignItem     Name, Ref (declaration), A (value)
//	SolveItem      Op (solve kind), A (objective)
//	FunctionItem   Name, A (return type-inst), List (params), B (body)
type NodeRecord struct {
	Kind      uint8
	File      uint32
	StartLine uint32
	StartCol  uint32
	EndLine   uint32
	EndCol    uint32
	Type      TypeRecord
	Flags     uint8    `msgpack:",omitempty"`
	Anns      []uint32 `msgpack:",omitempty"`

	Name  string      `msgpack:",omitempty"`
	Ref   uint32      `msgpack:",omitempty"`
	Int   int64       `msgpack:",omitempty"`
	Float float64     `msgpack:",omitempty"`
	Bool  bool        `msgpack:",omitempty"`
	Str   string      `msgpack:",omitempty"`
	Op    uint8       `msgpack:",omitempty"`
	A     uint32      `msgpack:",omitempty"`
	B     uint32      `msgpack:",omitempty"`
	List  []uint32    `msgpack:",omitempty"`
	List2 []uint32    `msgpack:",omitempty"`
	Gens  []GenRecord `msgpack:",omitempty"`
	Flag  bool        `msgpack:",omitempty"`
}

func ids(xs []uint32) []ast.NodeID {
	if len(xs) == 0 {
		return nil
	}
	out := make([]ast.NodeID, len(xs))
	for i, x := range xs {
		out[i] = ast.NodeID(x)
	}
	return out
}

func raw(xs []ast.NodeID) []uint32 {
	if len(xs) == 0 {
		return nil
	}
	out := make([]uint32, len(xs))
	for i, x := range xs {
		out[i] = uint32(x)
	}
	return out
}
