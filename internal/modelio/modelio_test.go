package modelio

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"mznlint/internal/ast"
	"mznlint/internal/source"
	"mznlint/internal/testkit"
)

func sampleModel() (*ast.Model, ast.NodeID) {
	f := testkit.NewFixture("model.mzn")
	a := f.Global(ast.ArrayOf(ast.VarInt, 1), "a", f.Range(0, 9), f.Range(1, 3))
	f.InFile("lib/std.mzn", source.FileStdlib)
	p := f.GlobalValue(ast.ArrayOf(ast.ParInt, 1), "p",
		f.ArrayLit(f.Span(), ast.ArrayOf(ast.ParInt, 1), f.Int(1), f.Int(2), f.Int(3)))
	f.InFile("model.mzn", 0)
	f.Line(4)
	gen, i := f.Gen(ast.ParInt, "i", f.Range(1, 3), ast.NoNodeID)
	eq := f.Eq(f.Access(a, f.Ref(i)), f.Access(p, f.Ref(i)))
	f.Annotate(eq, f.StringLit(f.Span(), "note"))
	f.Constraint(f.Forall(f.Comp(eq, gen)))
	f.Solve(ast.SolveSatisfy, ast.NoNodeID)
	return f.Build(), a
}

func TestRoundTrip(t *testing.T) {
	m, a := sampleModel()
	var buf bytes.Buffer
	if err := Write(&buf, m); err != nil {
		t.Fatal(err)
	}
	got, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}

	if len(got.Items()) != len(m.Items()) {
		t.Fatalf("items: got %d, want %d", len(got.Items()), len(m.Items()))
	}
	for i, it := range m.Items() {
		if got.Items()[i] != it {
			t.Errorf("item %d: got %d, want %d", i, got.Items()[i], it)
		}
	}
	for id := ast.NodeID(1); uint32(id) <= m.Nodes.Arena.Len(); id++ {
		want, have := m.Node(id), got.Node(id)
		if want.Kind != have.Kind || want.Span != have.Span || want.Type != have.Type || want.Flags != have.Flags {
			t.Fatalf("node %d differs: %+v vs %+v", id, want, have)
		}
		if !equalAcross(m, got, id) {
			t.Errorf("node %d payload differs", id)
		}
	}
	vd, ok := got.Nodes.VarDecl(a)
	if !ok || vd.Name != "a" || !vd.TopLevel {
		t.Errorf("declaration a not restored: %+v", vd)
	}
	if f := got.Files.Get(1); f == nil || f.Flags&source.FileStdlib == 0 {
		t.Error("file flags lost")
	}
}

// equalAcross compares the children layout of id in two models.
func equalAcross(a, b *ast.Model, id ast.NodeID) bool {
	ca := a.Children(id, nil)
	cb := b.Children(id, nil)
	if len(ca) != len(cb) {
		return false
	}
	for i := range ca {
		if ca[i] != cb[i] {
			return false
		}
	}
	return a.DeclName(id) == b.DeclName(id)
}

func TestWriteFile(t *testing.T) {
	m, _ := sampleModel()
	path := filepath.Join(t.TempDir(), "model.mznast")
	if err := WriteFile(path, m); err != nil {
		t.Fatal(err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Nodes.Arena.Len() != m.Nodes.Arena.Len() {
		t.Errorf("node count: got %d, want %d", got.Nodes.Arena.Len(), m.Nodes.Arena.Len())
	}
}

func TestSnapshot_Validation(t *testing.T) {
	m, _ := sampleModel()
	base, err := FromModel(m)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		mutate func(s *Snapshot)
		schema bool
	}{
		{"schema", func(s *Snapshot) { s.Schema = 99 }, true},
		{"dangling reference", func(s *Snapshot) { s.Nodes[0].A = 10_000 }, false},
		{"unknown kind", func(s *Snapshot) { s.Nodes[0].Kind = 250 }, false},
		{"item is not an item", func(s *Snapshot) { s.Items = append(s.Items, 1) }, false},
		{"self reference", func(s *Snapshot) {
			i := firstOfKind(s, ast.KindBinOp)
			s.Nodes[i].A = uint32(i + 1)
		}, false},
		{"child points at an ancestor", func(s *Snapshot) {
			call := firstOfKind(s, ast.KindCall)
			comp := s.Nodes[call].List[0] - 1
			s.Nodes[comp].A = uint32(call + 1)
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := *base
			s.Nodes = append([]NodeRecord(nil), base.Nodes...)
			s.Items = append([]uint32(nil), base.Items...)
			tt.mutate(&s)
			_, err := s.Model()
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.schema != errors.Is(err, ErrSchema) {
				t.Errorf("errors.Is(ErrSchema) = %v for %v", !tt.schema, err)
			}
		})
	}
}

func firstOfKind(s *Snapshot, k ast.Kind) int {
	for i := range s.Nodes {
		if ast.Kind(s.Nodes[i].Kind) == k {
			return i
		}
	}
	panic("no node of kind " + k.String())
}

func TestSnapshot_SharedSubtreeIsNotACycle(t *testing.T) {
	f := testkit.NewFixture("model.mzn")
	r := f.Range(1, 3)
	f.Global(ast.ArrayOf(ast.VarInt, 1), "a", r, r)
	s, err := FromModel(f.Build())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Model(); err != nil {
		t.Fatalf("shared range rejected: %v", err)
	}
}
