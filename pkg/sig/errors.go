package sig

import "fmt"

// SymbolNotFoundError is raised by GetType, GetTree, and AddRules when
// no declaration exists for the requested qualified name.
type SymbolNotFoundError struct {
	Name string
}

func (e *SymbolNotFoundError) Error() string {
	return fmt.Sprintf("signature: symbol %q not found", e.Name)
}

// AlreadyDefinedError is raised by AddDeclaration when the name is
// already bound — the signature is monotonic, never overwritten.
type AlreadyDefinedError struct {
	Name string
}

func (e *AlreadyDefinedError) Error() string {
	return fmt.Sprintf("signature: symbol %q is already defined", e.Name)
}

// CannotRewriteStaticSymbolError is raised by AddRules when the head
// symbol is Static.
type CannotRewriteStaticSymbolError struct {
	Name string
}

func (e *CannotRewriteStaticSymbolError) Error() string {
	return fmt.Sprintf("signature: %q is static and may not receive rewrite rules", e.Name)
}

// ConfluenceCheckFailedError is raised by AddRules when the external
// confluence oracle reports (or fails to reach) a verdict in Fatal
// mode.
type ConfluenceCheckFailedError struct {
	Name   string
	Detail string
}

func (e *ConfluenceCheckFailedError) Error() string {
	return fmt.Sprintf("signature: confluence check failed for %q: %s", e.Name, e.Detail)
}
