// Package term implements the named/De-Bruijn hybrid term algebra of the
// core: Terms, Patterns, typed Rules, and the substitution operations
// (shift, subst, parallel substitution, unshift) that the reducer and
// typing judgement build on.
package term

import "strings"

// QName is a qualified symbol name: an optional module prefix plus a
// local name. The empty Module denotes a name in the current module.
type QName struct {
	Module string
	Name   string
}

// NewQName builds a qualified name in the given module.
func NewQName(module, name string) QName {
	return QName{Module: module, Name: name}
}

// Local builds an unqualified name in the current module.
func Local(name string) QName {
	return QName{Name: name}
}

// String renders "module.name", or just "name" when Module is empty.
func (q QName) String() string {
	if q.Module == "" {
		return q.Name
	}
	var b strings.Builder
	b.WriteString(q.Module)
	b.WriteByte('.')
	b.WriteString(q.Name)
	return b.String()
}

// Equal compares two qualified names for equality.
func (q QName) Equal(o QName) bool {
	return q.Module == o.Module && q.Name == o.Name
}
