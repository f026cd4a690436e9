package ast

// Inst tells whether a value is known before solving (par) or decided by the solver (var).
type Inst uint8

const (
	InstPar Inst = iota
	InstVar
)

// BaseType is the scalar base of a static type.
type BaseType uint8

const (
	BaseUnknown BaseType = iota
	BaseInt
	BaseFloat
	BaseBool
	BaseString
	BaseAnn
	BaseTop
)

func (b BaseType) String() string {
	switch b {
	case BaseInt:
		return "int"
	case BaseFloat:
		return "float"
	case BaseBool:
		return "bool"
	case BaseString:
		return "string"
	case BaseAnn:
		return "ann"
	case BaseTop:
		return "top"
	}
	return "unknown"
}

// Type is the static type computed by the front end.
// Dim is the array dimension, 0 for scalars, -1 for "any dimension".
type Type struct {
	Inst Inst
	Base BaseType
	Dim  int8
	Set  bool
	Opt  bool
}

func (t Type) IsVar() bool     { return t.Inst == InstVar }
func (t Type) IsPar() bool     { return t.Inst == InstPar }
func (t Type) IsPresent() bool { return !t.Opt }
func (t Type) IsArray() bool   { return t.Dim != 0 }

// Common types.
var (
	ParInt   = Type{Inst: InstPar, Base: BaseInt}
	VarInt   = Type{Inst: InstVar, Base: BaseInt}
	ParFloat = Type{Inst: InstPar, Base: BaseFloat}
	VarFloat = Type{Inst: InstVar, Base: BaseFloat}
	ParBool  = Type{Inst: InstPar, Base: BaseBool}
	VarBool  = Type{Inst: InstVar, Base: BaseBool}
	ParStr   = Type{Inst: InstPar, Base: BaseString}
	ParSetOf = Type{Inst: InstPar, Base: BaseInt, Set: true}
	AnnType  = Type{Inst: InstPar, Base: BaseAnn}
)

// ArrayOf returns t lifted to a dim-dimensional array.
func ArrayOf(t Type, dim int8) Type {
	t.Dim = dim
	return t
}

// ElemOf returns the element type of an array type.
func ElemOf(t Type) Type {
	t.Dim = 0
	return t
}
