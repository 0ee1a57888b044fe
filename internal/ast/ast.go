// Package ast defines the Hack-family expression and statement tree the
// analyzer walks. Every node carries its own byte-range position, which
// doubles as the node's identity everywhere downstream (expr_types,
// expr_effects, the data-flow graph): the engine never threads separate
// node ids alongside positions.
package ast

import "github.com/glintanalyzer/glint/internal/pos"

// Node is the base interface every AST node implements.
type Node interface {
	Pos() pos.Pos
	Accept(v Visitor)
}

// Statement is a Node that occurs in statement position.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that occurs in expression position and so
// eventually carries an inferred type.
type Expression interface {
	Node
	expressionNode()
}

// base embeds the common position field every concrete node carries. It
// is not itself a Node; each node type embeds it and supplies Accept.
type base struct {
	At pos.Pos
}

func (b base) Pos() pos.Pos { return b.At }

// Function is the root of one analyzed function, method, or closure body.
// Parameter identity and declared types live in the codebase's
// FunctionLikeInfo; this only carries the names in declaration order so
// the driver can bind them into a fresh scope.
type Function struct {
	base
	Name       string
	ParamNames []string
	Body       *Block
}

func (f *Function) Accept(v Visitor) { v.VisitFunction(f) }

// --- statements ----------------------------------------------------------

type Block struct {
	base
	Statements []Statement
}

func (b *Block) Accept(v Visitor) { v.VisitBlock(b) }
func (*Block) statementNode()     {}

type ExprStatement struct {
	base
	Expr Expression
}

func (s *ExprStatement) Accept(v Visitor) { v.VisitExprStatement(s) }
func (*ExprStatement) statementNode()     {}

type IfStatement struct {
	base
	Cond Expression
	Then *Block
	// Else is either another *IfStatement (else if) or a *Block, or nil.
	Else Statement
}

func (s *IfStatement) Accept(v Visitor) { v.VisitIfStatement(s) }
func (*IfStatement) statementNode()     {}

type WhileStatement struct {
	base
	Cond Expression
	Body *Block
}

func (s *WhileStatement) Accept(v Visitor) { v.VisitWhileStatement(s) }
func (*WhileStatement) statementNode()     {}

type DoWhileStatement struct {
	base
	Body *Block
	Cond Expression
}

func (s *DoWhileStatement) Accept(v Visitor) { v.VisitDoWhileStatement(s) }
func (*DoWhileStatement) statementNode()     {}

type ForStatement struct {
	base
	Init []Expression
	Cond Expression
	Step []Expression
	Body *Block
}

func (s *ForStatement) Accept(v Visitor) { v.VisitForStatement(s) }
func (*ForStatement) statementNode()     {}

type ForeachStatement struct {
	base
	Collection Expression
	KeyVar     *Variable // nil if the foreach has no `=> $k`
	ValueVar   *Variable
	ByRef      bool
	Body       *Block
}

func (s *ForeachStatement) Accept(v Visitor) { v.VisitForeachStatement(s) }
func (*ForeachStatement) statementNode()     {}

type SwitchCase struct {
	// Cond is nil for the `default:` case.
	Cond Expression
	Body []Statement
}

type SwitchStatement struct {
	base
	Subject Expression
	Cases   []*SwitchCase
}

func (s *SwitchStatement) Accept(v Visitor) { v.VisitSwitchStatement(s) }
func (*SwitchStatement) statementNode()     {}

type CatchClause struct {
	Types    []string
	VarName  string
	Body     *Block
}

type TryStatement struct {
	base
	Body    *Block
	Catches []*CatchClause
	Finally *Block
}

func (s *TryStatement) Accept(v Visitor) { v.VisitTryStatement(s) }
func (*TryStatement) statementNode()     {}

type ThrowStatement struct {
	base
	Expr Expression
}

func (s *ThrowStatement) Accept(v Visitor) { v.VisitThrowStatement(s) }
func (*ThrowStatement) statementNode()     {}

type ReturnStatement struct {
	base
	// Value is nil for a bare `return;`.
	Value Expression
}

func (s *ReturnStatement) Accept(v Visitor) { v.VisitReturnStatement(s) }
func (*ReturnStatement) statementNode()     {}

type BreakStatement struct {
	base
	Level int
}

func (s *BreakStatement) Accept(v Visitor) { v.VisitBreakStatement(s) }
func (*BreakStatement) statementNode()     {}

type ContinueStatement struct {
	base
	Level int
}

func (s *ContinueStatement) Accept(v Visitor) { v.VisitContinueStatement(s) }
func (*ContinueStatement) statementNode()     {}

type UnsetStatement struct {
	base
	Vars []Expression
}

func (s *UnsetStatement) Accept(v Visitor) { v.VisitUnsetStatement(s) }
func (*UnsetStatement) statementNode()     {}

// --- expressions -----------------------------------------------------------

type Variable struct {
	base
	Name string // includes the leading '$'
}

func (e *Variable) Accept(v Visitor) { v.VisitVariable(e) }
func (*Variable) expressionNode()    {}

type IntLiteral struct {
	base
	Value int64
}

func (e *IntLiteral) Accept(v Visitor) { v.VisitIntLiteral(e) }
func (*IntLiteral) expressionNode()    {}

type FloatLiteral struct {
	base
	Value float64
}

func (e *FloatLiteral) Accept(v Visitor) { v.VisitFloatLiteral(e) }
func (*FloatLiteral) expressionNode()    {}

type StringLiteral struct {
	base
	Value string
}

func (e *StringLiteral) Accept(v Visitor) { v.VisitStringLiteral(e) }
func (*StringLiteral) expressionNode()    {}

type BoolLiteral struct {
	base
	Value bool
}

func (e *BoolLiteral) Accept(v Visitor) { v.VisitBoolLiteral(e) }
func (*BoolLiteral) expressionNode()    {}

type NullLiteral struct {
	base
}

func (e *NullLiteral) Accept(v Visitor) { v.VisitNullLiteral(e) }
func (*NullLiteral) expressionNode()    {}

// BinaryExpr covers arithmetic (+ - * / % **), string concat (.), and
// equality/relational comparisons (=== !== == != < <= > >=).
type BinaryExpr struct {
	base
	Op    string
	Left  Expression
	Right Expression
}

func (e *BinaryExpr) Accept(v Visitor) { v.VisitBinaryExpr(e) }
func (*BinaryExpr) expressionNode()    {}

// LogicalExpr is `&&` or `||`, kept distinct from BinaryExpr because it
// short-circuits and reconciles the left side's formula against the
// right side's analysis.
type LogicalExpr struct {
	base
	Op    string // "&&" or "||"
	Left  Expression
	Right Expression
}

func (e *LogicalExpr) Accept(v Visitor) { v.VisitLogicalExpr(e) }
func (*LogicalExpr) expressionNode()    {}

type UnaryExpr struct {
	base
	Op      string // "!", "-", "+", "~"
	Operand Expression
}

func (e *UnaryExpr) Accept(v Visitor) { v.VisitUnaryExpr(e) }
func (*UnaryExpr) expressionNode()    {}

// NullCoalesceExpr is `LHS ?? RHS`.
type NullCoalesceExpr struct {
	base
	Left  Expression
	Right Expression
}

func (e *NullCoalesceExpr) Accept(v Visitor) { v.VisitNullCoalesceExpr(e) }
func (*NullCoalesceExpr) expressionNode()    {}

// TernaryExpr is `Cond ? Then : Else`; Then is nil for the Hack/PHP Elvis
// form `Cond ?: Else`.
type TernaryExpr struct {
	base
	Cond Expression
	Then Expression
	Else Expression
}

func (e *TernaryExpr) Accept(v Visitor) { v.VisitTernaryExpr(e) }
func (*TernaryExpr) expressionNode()    {}

// AssignExpr is `Target = Value` (Op == "") or a compound assignment like
// `Target += Value` (Op == "+").
type AssignExpr struct {
	base
	Target Expression
	Value  Expression
	Op     string
}

func (e *AssignExpr) Accept(v Visitor) { v.VisitAssignExpr(e) }
func (*AssignExpr) expressionNode()    {}

// CallExpr is a free function call (or a callable-value call). Name
// carries the statically-known global function name for a direct call
// (`f(...)`); Callee is nil in that case. For a call through a
// callable-valued expression (a closure held in a variable, a property,
// or the result of another call), Name is empty and Callee is the
// expression producing the callable.
type CallExpr struct {
	base
	Name   string
	Callee Expression
	Args   []Expression
}

func (e *CallExpr) Accept(v Visitor) { v.VisitCallExpr(e) }
func (*CallExpr) expressionNode()    {}

// MethodCallExpr is `Receiver->Method(Args)` or, when Static is true,
// `Receiver::Method(Args)`.
type MethodCallExpr struct {
	base
	Receiver Expression
	Method   string
	Args     []Expression
	Static   bool
	NullSafe bool
}

func (e *MethodCallExpr) Accept(v Visitor) { v.VisitMethodCallExpr(e) }
func (*MethodCallExpr) expressionNode()    {}

// PropertyFetchExpr is `Object->Property` or `Object?->Property`.
type PropertyFetchExpr struct {
	base
	Object   Expression
	Property string
	NullSafe bool
}

func (e *PropertyFetchExpr) Accept(v Visitor) { v.VisitPropertyFetchExpr(e) }
func (*PropertyFetchExpr) expressionNode()    {}

// ArrayFetchExpr is `Array[Key]`; Key is nil for the append form `Array[]`.
type ArrayFetchExpr struct {
	base
	Array Expression
	Key   Expression
}

func (e *ArrayFetchExpr) Accept(v Visitor) { v.VisitArrayFetchExpr(e) }
func (*ArrayFetchExpr) expressionNode()    {}

// AwaitExpr is `await Inner`.
type AwaitExpr struct {
	base
	Inner Expression
}

func (e *AwaitExpr) Accept(v Visitor) { v.VisitAwaitExpr(e) }
func (*AwaitExpr) expressionNode()    {}

// AsExpr is the `Inner as Type` (throwing) or `Inner as? Type` (nullable,
// non-throwing) cast.
type AsExpr struct {
	base
	Inner    Expression
	TypeName string
	Nullable bool // `as?` form
	Erased   bool // `as` target is itself erased generics, best-effort check
}

func (e *AsExpr) Accept(v Visitor) { v.VisitAsExpr(e) }
func (*AsExpr) expressionNode()    {}

// IsExpr is the `Inner is Type` boolean type test.
type IsExpr struct {
	base
	Inner    Expression
	TypeName string
}

func (e *IsExpr) Accept(v Visitor) { v.VisitIsExpr(e) }
func (*IsExpr) expressionNode()    {}

// IssetExpr is `isset(Vars...)`.
type IssetExpr struct {
	base
	Vars []Expression
}

func (e *IssetExpr) Accept(v Visitor) { v.VisitIssetExpr(e) }
func (*IssetExpr) expressionNode()    {}

// VecLiteral/DictLiteral/KeysetLiteral are the Hack collection literals.
type VecLiteral struct {
	base
	Items []Expression
}

func (e *VecLiteral) Accept(v Visitor) { v.VisitVecLiteral(e) }
func (*VecLiteral) expressionNode()    {}

type DictEntry struct {
	Key   Expression
	Value Expression
}

type DictLiteral struct {
	base
	Entries []DictEntry
}

func (e *DictLiteral) Accept(v Visitor) { v.VisitDictLiteral(e) }
func (*DictLiteral) expressionNode()    {}
