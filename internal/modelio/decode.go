package modelio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"mznlint/internal/ast"
	"mznlint/internal/source"
)

// ErrSchema is returned for snapshots written by an incompatible front end.
var ErrSchema = errors.New("unsupported snapshot schema")

// Read decodes a snapshot from r and rebuilds the model.
func Read(r io.Reader) (*ast.Model, error) {
	var s Snapshot
	if err := msgpack.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return s.Model()
}

// ReadFile reads the snapshot stored at path.
func ReadFile(path string) (*ast.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Model validates the snapshot and rebuilds the node arenas. Node i of the
// table becomes NodeID i+1.
func (s *Snapshot) Model() (*ast.Model, error) {
	if s.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w: %d (want %d)", ErrSchema, s.Schema, SchemaVersion)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	fs := source.NewFileSet()
	for _, f := range s.Files {
		fs.Add(f.Path, f.Content, source.FileFlags(f.Flags))
	}

	b := ast.NewBuilder(fs, uint(len(s.Nodes)))
	for i := range s.Nodes {
		rec := &s.Nodes[i]
		id := decodeNode(b, rec)
		if want := ast.NodeID(i + 1); id != want {
			return nil, fmt.Errorf("node %d: allocated as %d", want, id)
		}
	}
	// types, flags and annotations are restored verbatim once every node exists
	for i := range s.Nodes {
		rec := &s.Nodes[i]
		n := b.Nodes.Get(ast.NodeID(i + 1))
		n.Type = ast.Type{
			Inst: ast.Inst(rec.Type.Inst),
			Base: ast.BaseType(rec.Type.Base),
			Dim:  rec.Type.Dim,
			Set:  rec.Type.Set,
			Opt:  rec.Type.Opt,
		}
		n.Flags = ast.NodeFlags(rec.Flags)
		n.Anns = ids(rec.Anns)
		if ast.Kind(rec.Kind) == ast.KindVarDecl {
			vd, _ := b.Nodes.VarDecl(ast.NodeID(i + 1))
			vd.TopLevel = rec.Flag
		}
	}
	return ast.NewModel(fs, b.Nodes, ids(s.Items)), nil
}

func decodeNode(b *ast.Builder, rec *NodeRecord) ast.NodeID {
	sp := source.Span{
		File:      source.FileID(rec.File),
		StartLine: rec.StartLine,
		StartCol:  rec.StartCol,
		EndLine:   rec.EndLine,
		EndCol:    rec.EndCol,
	}
	var typ ast.Type // restored afterwards
	a, bb := ast.NodeID(rec.A), ast.NodeID(rec.B)
	switch ast.Kind(rec.Kind) {
	case ast.KindId:
		return b.Ident(sp, rec.Name, ast.NodeID(rec.Ref))
	case ast.KindIntLit:
		return b.IntLit(sp, rec.Int)
	case ast.KindFloatLit:
		return b.FloatLit(sp, rec.Float)
	case ast.KindBoolLit:
		return b.BoolLit(sp, rec.Bool)
	case ast.KindStringLit:
		return b.StringLit(sp, rec.Str)
	case ast.KindAnon:
		return b.Anon(sp, typ)
	case ast.KindSetLit:
		return b.SetLit(sp, typ, ids(rec.List)...)
	case ast.KindArrayLit:
		return b.ArrayLit(sp, typ, ids(rec.List)...)
	case ast.KindArrayAccess:
		return b.ArrayAccess(sp, typ, a, ids(rec.List)...)
	case ast.KindComprehension:
		gens := make([]ast.Generator, len(rec.Gens))
		for i, g := range rec.Gens {
			gens[i] = ast.Generator{Decls: ids(g.Decls), In: ast.NodeID(g.In), Where: ast.NodeID(g.Where)}
		}
		return b.Comprehension(sp, typ, a, rec.Flag, gens...)
	case ast.KindCall:
		id := b.Call(sp, typ, rec.Name, ids(rec.List)...)
		if rec.Ref != 0 {
			b.BindCall(id, ast.NodeID(rec.Ref))
		}
		return id
	case ast.KindBinOp:
		return b.BinOp(sp, typ, ast.BinOp(rec.Op), a, bb)
	case ast.KindUnOp:
		return b.UnOp(sp, typ, ast.UnOp(rec.Op), a)
	case ast.KindIfThenElse:
		return b.IfThenElse(sp, typ, ids(rec.List), ids(rec.List2), a)
	case ast.KindLet:
		return b.Let(sp, typ, ids(rec.List), a)
	case ast.KindVarDecl:
		return b.VarDecl(sp, typ, rec.Name, a, bb)
	case ast.KindTypeInst:
		return b.TypeInst(sp, typ, a, ids(rec.List)...)
	case ast.KindVarDeclItem:
		return b.DeclItem(sp, a)
	case ast.KindConstraintItem:
		return b.ConstraintItem(sp, a)
	case ast.KindOutputItem:
		return b.OutputItem(sp, a)
	case ast.KindAssignItem:
		return b.AssignItem(sp, rec.Name, ast.NodeID(rec.Ref), a)
	case ast.KindSolveItem:
		return b.SolveItem(sp, ast.SolveKind(rec.Op), a)
	case ast.KindFunctionItem:
		return b.FunctionItem(sp, rec.Name, a, ids(rec.List), bb)
	}
	return ast.NoNodeID
}

// validate rejects unknown kinds, dangling references and cyclic child edges.
func (s *Snapshot) validate() error {
	n := uint32(len(s.Nodes))
	check := func(node int, ref uint32) error {
		if ref > n {
			return fmt.Errorf("node %d: reference %d out of range (%d nodes)", node, ref, n)
		}
		return nil
	}
	for i := range s.Nodes {
		rec := &s.Nodes[i]
		k := ast.Kind(rec.Kind)
		if k == ast.KindInvalid || k > ast.KindFunctionItem {
			return fmt.Errorf("node %d: unknown kind %d", i+1, rec.Kind)
		}
		if int(rec.File) >= len(s.Files) && rec.StartLine != 0 {
			return fmt.Errorf("node %d: file %d out of range", i+1, rec.File)
		}
		refs := append([]uint32{rec.Ref}, rec.childRefs()...)
		for _, r := range refs {
			if err := check(i+1, r); err != nil {
				return err
			}
		}
	}
	for _, it := range s.Items {
		if it == 0 || it > n || !ast.Kind(s.Nodes[it-1].Kind).IsItem() {
			return fmt.Errorf("item %d is not an item node", it)
		}
	}
	return s.checkAcyclic()
}

// childRefs lists the structural children of a record. Ref is a use-site
// link to a declaration or function and is not a child.
func (r *NodeRecord) childRefs() []uint32 {
	var out []uint32
	add := func(ids ...uint32) {
		for _, id := range ids {
			if id != 0 {
				out = append(out, id)
			}
		}
	}
	add(r.A, r.B)
	add(r.List...)
	add(r.List2...)
	add(r.Anns...)
	for _, g := range r.Gens {
		add(g.Decls...)
		add(g.In, g.Where)
	}
	return out
}

// checkAcyclic walks child edges depth-first and fails on the first edge
// that leads back to a node still on the path. Shared subtrees are fine.
func (s *Snapshot) checkAcyclic() error {
	const (
		unseen uint8 = iota
		onPath
		finished
	)
	type frame struct {
		node  uint32
		edges []uint32
	}
	state := make([]uint8, len(s.Nodes)+1)
	var stack []frame
	for root := uint32(1); root <= uint32(len(s.Nodes)); root++ {
		if state[root] != unseen {
			continue
		}
		state[root] = onPath
		stack = append(stack[:0], frame{node: root, edges: s.Nodes[root-1].childRefs()})
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if len(top.edges) == 0 {
				state[top.node] = finished
				stack = stack[:len(stack)-1]
				continue
			}
			next := top.edges[0]
			top.edges = top.edges[1:]
			switch state[next] {
			case onPath:
				return fmt.Errorf("node %d: child %d closes a cycle", top.node, next)
			case unseen:
				state[next] = onPath
				stack = append(stack, frame{node: next, edges: s.Nodes[next-1].childRefs()})
			}
		}
	}
	return nil
}
