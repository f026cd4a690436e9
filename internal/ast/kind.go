package ast

// Kind is the syntactic kind of a node.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindId
	KindIntLit
	KindFloatLit
	KindBoolLit
	KindStringLit
	KindAnon
	KindSetLit
	KindArrayLit
	KindArrayAccess
	KindComprehension
	KindCall
	KindBinOp
	KindUnOp
	KindIfThenElse
	KindLet
	KindVarDecl
	KindTypeInst

	// top-level items
	KindVarDeclItem
	KindAssignItem
	KindConstraintItem
	KindSolveItem
	KindOutputItem
	KindFunctionItem
)

var kindNames = [...]string{
	KindInvalid:        "invalid",
	KindId:             "id",
	KindIntLit:         "int-lit",
	KindFloatLit:       "float-lit",
	KindBoolLit:        "bool-lit",
	KindStringLit:      "string-lit",
	KindAnon:           "anon",
	KindSetLit:         "set-lit",
	KindArrayLit:       "array-lit",
	KindArrayAccess:    "array-access",
	KindComprehension:  "comprehension",
	KindCall:           "call",
	KindBinOp:          "binop",
	KindUnOp:           "unop",
	KindIfThenElse:     "ite",
	KindLet:            "let",
	KindVarDecl:        "vardecl",
	KindTypeInst:       "typeinst",
	KindVarDeclItem:    "vardecl-item",
	KindAssignItem:     "assign-item",
	KindConstraintItem: "constraint-item",
	KindSolveItem:      "solve-item",
	KindOutputItem:     "output-item",
	KindFunctionItem:   "function-item",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsItem reports whether k is a top-level item kind.
func (k Kind) IsItem() bool {
	return k >= KindVarDeclItem && k <= KindFunctionItem
}

// BinOp is the operator of a binary operation node.
type BinOp uint8

const (
	OpInvalid BinOp = iota
	OpPlus
	OpMinus
	OpMult
	OpDiv
	OpIDiv
	OpMod
	OpPow
	OpLess
	OpLessEq
	OpGreater
	OpGreaterEq
	OpEq
	OpNotEq
	OpIn
	OpSubset
	OpSuperset
	OpUnion
	OpDiff
	OpSymDiff
	OpIntersect
	OpConcat
	OpEquiv
	OpImpl
	OpRImpl
	OpOr
	OpAnd
	OpXor
	OpDotDot
)

var binOpNames = [...]string{
	OpInvalid:   "<invalid>",
	OpPlus:      "+",
	OpMinus:     "-",
	OpMult:      "*",
	OpDiv:       "/",
	OpIDiv:      "div",
	OpMod:       "mod",
	OpPow:       "^",
	OpLess:      "<",
	OpLessEq:    "<=",
	OpGreater:   ">",
	OpGreaterEq: ">=",
	OpEq:        "=",
	OpNotEq:     "!=",
	OpIn:        "in",
	OpSubset:    "subset",
	OpSuperset:  "superset",
	OpUnion:     "union",
	OpDiff:      "diff",
	OpSymDiff:   "symdiff",
	OpIntersect: "intersect",
	OpConcat:    "++",
	OpEquiv:     "<->",
	OpImpl:      "->",
	OpRImpl:     "<-",
	OpOr:        "\\/",
	OpAnd:       "/\\",
	OpXor:       "xor",
	OpDotDot:    "..",
}

func (op BinOp) String() string {
	if int(op) < len(binOpNames) {
		return binOpNames[op]
	}
	return "<unknown>"
}

// UnOp is the operator of a unary operation node.
type UnOp uint8

const (
	OpNot UnOp = iota + 1
	OpUPlus
	OpUMinus
)

func (op UnOp) String() string {
	switch op {
	case OpNot:
		return "not"
	case OpUPlus:
		return "+"
	case OpUMinus:
		return "-"
	}
	return "<unknown>"
}

// SolveKind distinguishes satisfaction from optimisation goals.
type SolveKind uint8

const (
	SolveSatisfy SolveKind = iota
	SolveMinimize
	SolveMaximize
)

func (k SolveKind) String() string {
	switch k {
	case SolveSatisfy:
		return "satisfy"
	case SolveMinimize:
		return "minimize"
	case SolveMaximize:
		return "maximize"
	}
	return "<unknown>"
}
