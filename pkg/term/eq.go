package term

// Eq is structural equality modulo alpha: name hints are ignored, index
// equality of two DBs is sufficient, and Const compares by qualified
// name. This is strict equality, not convertibility — see pkg/reduce for
// the latter.
func Eq(a, b Term) bool {
	switch x := a.(type) {
	case *KindSort:
		_, ok := b.(*KindSort)
		return ok
	case *TypeSort:
		_, ok := b.(*TypeSort)
		return ok
	case *DB:
		y, ok := b.(*DB)
		return ok && x.Index == y.Index
	case *Const:
		y, ok := b.(*Const)
		return ok && x.Name.Equal(y.Name)
	case *Meta:
		y, ok := b.(*Meta)
		return ok && x.Index == y.Index
	case *App:
		y, ok := b.(*App)
		if !ok || len(x.Args) != len(y.Args) || !Eq(x.Head, y.Head) {
			return false
		}
		for i := range x.Args {
			if !Eq(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	case *Lam:
		y, ok := b.(*Lam)
		if !ok {
			return false
		}
		if (x.Domain == nil) != (y.Domain == nil) {
			return false
		}
		if x.Domain != nil && !Eq(x.Domain, y.Domain) {
			return false
		}
		return Eq(x.Body, y.Body)
	case *Pi:
		y, ok := b.(*Pi)
		return ok && Eq(x.Domain, y.Domain) && Eq(x.Codomain, y.Codomain)
	default:
		return false
	}
}
