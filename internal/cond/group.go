package cond

// Group adds conditions to one clause from inside a grouping callback.
// The first error stops further additions and is reported by the
// enclosing AddGroup.
type Group struct {
	b      *Builder
	clause Clause
	err    error
}

// And adds a condition joined with AND.
func (g *Group) And(cond string, args ...map[string]any) *Group {
	return g.add(And, cond, args)
}

// Or adds a condition joined with OR.
func (g *Group) Or(cond string, args ...map[string]any) *Group {
	return g.add(Or, cond, args)
}

// AndGroup adds a nested group joined with AND.
func (g *Group) AndGroup(fn func(*Group), args ...map[string]any) *Group {
	return g.addGroup(And, fn, args)
}

// OrGroup adds a nested group joined with OR.
func (g *Group) OrGroup(fn func(*Group), args ...map[string]any) *Group {
	return g.addGroup(Or, fn, args)
}

// Clause returns the clause the group writes to.
func (g *Group) Clause() Clause {
	return g.clause
}

// Err returns the first error recorded by the group.
func (g *Group) Err() error {
	return g.err
}

func (g *Group) add(conn Connective, cond string, args []map[string]any) *Group {
	if g.err != nil {
		return g
	}
	g.err = g.b.Add(g.clause, conn, cond, args...)
	return g
}

func (g *Group) addGroup(conn Connective, fn func(*Group), args []map[string]any) *Group {
	if g.err != nil {
		return g
	}
	g.err = g.b.AddGroup(g.clause, conn, fn, args...)
	return g
}
