package modelio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"mznlint/internal/ast"
)

// FromModel flattens m into a snapshot.
func FromModel(m *ast.Model) (*Snapshot, error) {
	s := &Snapshot{Schema: SchemaVersion}
	for _, f := range m.Files.Files() {
		s.Files = append(s.Files, FileRecord{Path: f.Path, Flags: uint8(f.Flags), Content: f.Content})
	}

	nodes := m.Nodes.Arena.Slice()
	s.Nodes = make([]NodeRecord, len(nodes))
	for i := range nodes {
		n, err := safecast.Conv[uint32](i + 1)
		if err != nil {
			return nil, fmt.Errorf("node table too large: %w", err)
		}
		s.Nodes[i] = encodeNode(m, ast.NodeID(n))
	}
	s.Items = raw(m.Items())
	return s, nil
}

func encodeNode(m *ast.Model, id ast.NodeID) NodeRecord {
	n := m.Node(id)
	rec := NodeRecord{
		Kind:      uint8(n.Kind),
		File:      uint32(n.Span.File),
		StartLine: n.Span.StartLine,
		StartCol:  n.Span.StartCol,
		EndLine:   n.Span.EndLine,
		EndCol:    n.Span.EndCol,
		Type: TypeRecord{
			Inst: uint8(n.Type.Inst),
			Base: uint8(n.Type.Base),
			Dim:  n.Type.Dim,
			Set:  n.Type.Set,
			Opt:  n.Type.Opt,
		},
		Flags: uint8(n.Flags),
		Anns:  raw(n.Anns),
	}
	nodes := m.Nodes
	switch n.Kind {
	case ast.KindId:
		d, _ := nodes.Ident(id)
		rec.Name, rec.Ref = d.Name, uint32(d.Decl)
	case ast.KindIntLit, ast.KindFloatLit, ast.KindBoolLit, ast.KindStringLit:
		d, _ := nodes.Lit(id)
		rec.Int, rec.Float, rec.Bool, rec.Str = d.Int, d.Float, d.Bool, d.Str
	case ast.KindSetLit, ast.KindArrayLit:
		d, _ := nodes.List(id)
		rec.List = raw(d.Elems)
	case ast.KindArrayAccess:
		d, _ := nodes.ArrayAccess(id)
		rec.A, rec.List = uint32(d.Array), raw(d.Indices)
	case ast.KindComprehension:
		d, _ := nodes.Comprehension(id)
		rec.A, rec.Flag = uint32(d.Body), d.Set
		for _, g := range d.Generators {
			rec.Gens = append(rec.Gens, GenRecord{Decls: raw(g.Decls), In: uint32(g.In), Where: uint32(g.Where)})
		}
	case ast.KindCall:
		d, _ := nodes.Call(id)
		rec.Name, rec.List, rec.Ref = d.Name, raw(d.Args), uint32(d.Decl)
	case ast.KindBinOp:
		d, _ := nodes.BinOp(id)
		rec.Op, rec.A, rec.B = uint8(d.Op), uint32(d.Left), uint32(d.Right)
	case ast.KindUnOp:
		d, _ := nodes.UnOp(id)
		rec.Op, rec.A = uint8(d.Op), uint32(d.Operand)
	case ast.KindIfThenElse:
		d, _ := nodes.IfThenElse(id)
		rec.List, rec.List2, rec.A = raw(d.Conds), raw(d.Thens), uint32(d.Else)
	case ast.KindLet:
		d, _ := nodes.Let(id)
		rec.List, rec.A = raw(d.Decls), uint32(d.Body)
	case ast.KindVarDecl:
		d, _ := nodes.VarDecl(id)
		rec.Name, rec.A, rec.B, rec.Flag = d.Name, uint32(d.TypeInst), uint32(d.Value), d.TopLevel
	case ast.KindTypeInst:
		d, _ := nodes.TypeInst(id)
		rec.List, rec.A = raw(d.Ranges), uint32(d.Domain)
	case ast.KindVarDeclItem, ast.KindConstraintItem, ast.KindOutputItem:
		e, _ := nodes.ItemExpr(id)
		rec.A = uint32(e)
	case ast.KindAssignItem:
		d, _ := nodes.AssignItem(id)
		rec.Name, rec.Ref, rec.A = d.Name, uint32(d.Decl), uint32(d.Value)
	case ast.KindSolveItem:
		d, _ := nodes.SolveItem(id)
		rec.Op, rec.A = uint8(d.Kind), uint32(d.Objective)
	case ast.KindFunctionItem:
		d, _ := nodes.FunctionItem(id)
		rec.Name, rec.A, rec.List, rec.B = d.Name, uint32(d.Return), raw(d.Params), uint32(d.Body)
	}
	return rec
}

// Write encodes m to w.
func Write(w io.Writer, m *ast.Model) error {
	s, err := FromModel(m)
	if err != nil {
		return err
	}
	return msgpack.NewEncoder(w).Encode(s)
}

// WriteFile atomically replaces path with the snapshot of m.
func WriteFile(path string, m *ast.Model) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()
	if err = Write(f, m); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), path)
}
