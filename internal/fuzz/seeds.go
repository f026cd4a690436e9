package fuzztests

import (
	"bytes"
	"testing"

	"mznlint/internal/ast"
	"mznlint/internal/modelio"
	"mznlint/internal/testkit"
)

const maxFuzzInput = 64 << 10 // 64 KiB

// seedModels covers the shapes the rules look at.
func seedModels() []*ast.Model {
	var out []*ast.Model

	// var int: x = 5;
	f := testkit.NewFixture("seed.mzn")
	f.GlobalValue(ast.VarInt, "x", f.Int(5))
	out = append(out, f.Build())

	// var int: y; constraint y = 3;
	f = testkit.NewFixture("seed.mzn")
	y := f.Global(ast.VarInt, "y", ast.NoNodeID)
	f.Constraint(f.Eq(f.Ref(y), f.Int(3)))
	out = append(out, f.Build())

	// array[1..3] of var int: a; constraint forall(i in 1..3)(a[i] = 0);
	f = testkit.NewFixture("seed.mzn")
	a := f.Global(ast.ArrayOf(ast.VarInt, 1), "a", ast.NoNodeID, f.Range(1, 3))
	gen, i := f.Gen(ast.ParInt, "i", f.Range(1, 3), ast.NoNodeID)
	f.Constraint(f.Forall(f.Comp(f.Eq(f.Access(a, f.Ref(i)), f.Int(0)), gen)))
	f.Solve(ast.SolveSatisfy, ast.NoNodeID)
	out = append(out, f.Build())

	return out
}

func addSnapshotSeeds(f *testing.F) {
	for _, m := range seedModels() {
		var buf bytes.Buffer
		if err := modelio.Write(&buf, m); err != nil {
			f.Fatalf("encode seed: %v", err)
		}
		f.Add(buf.Bytes())
	}
	f.Add([]byte{})
	f.Add([]byte{0x80})
	f.Add([]byte{0x84, 0xa6, 'S', 'c', 'h', 'e', 'm', 'a', 0x63})
}

func clip(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}
