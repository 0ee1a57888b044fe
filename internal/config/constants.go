package config

const SourceFileExt = ".hack"

// SourceFileExtensions are every source file extension the file walker
// recognizes as analyzable.
var SourceFileExtensions = []string{".hack", ".hh", ".php"}

// Collection type names, mirroring the atomic kinds typesystem builds
// vec/dict/keyset literals into.
const (
	VecTypeName    = "vec"
	DictTypeName   = "dict"
	KeysetTypeName = "keyset"
	AwaitableName  = "Awaitable"
)

// Built-in global function names the analyzer special-cases during call
// analysis, beyond generic user-defined function resolution.
const (
	// InvariantFuncName narrows its first argument the same way an `if`
	// condition does: a call that survives is equivalent to having
	// asserted the condition true for the rest of the enclosing block.
	InvariantFuncName = "invariant"
	// IdxFuncName looks a key up in a dict/vec, returning a nullable
	// result (or the third argument as default) instead of raising on a
	// missing key.
	IdxFuncName = "idx"
	// IssetFuncName and UnsetFuncName name the pseudo-functions that have
	// dedicated AST nodes (ast.IssetExpr / ast.UnsetStatement) rather
	// than being resolved as ordinary calls.
	IssetFuncName = "isset"
	UnsetFuncName = "unset"
)
