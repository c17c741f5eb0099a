package postgres

import (
	"fmt"
	"strings"
)

// orderClause builds an ORDER BY from a per-repository column whitelist.
// Unknown sort keys fall back to the default so callers can never inject
// arbitrary SQL through query params.
func orderClause(allowed map[string]string, sortBy, sortDir, fallback string) string {
	col, ok := allowed[strings.ToLower(strings.TrimSpace(sortBy))]
	if !ok {
		col = fallback
	}
	dir := "ASC"
	if strings.EqualFold(strings.TrimSpace(sortDir), "desc") {
		dir = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s", col, dir)
}

// predicates accumulates optional WHERE conditions with positional args.
type predicates struct {
	conds []string
	args  []any
}

func (p *predicates) add(cond string, arg any) {
	p.args = append(p.args, arg)
	p.conds = append(p.conds, fmt.Sprintf(cond, len(p.args)))
}

// ilike adds a case-insensitive substring match on col.
func (p *predicates) ilike(col, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	p.add(col+" ILIKE '%%' || $%d || '%%'", value)
}

func (p *predicates) where() string {
	if len(p.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(p.conds, " AND ")
}

// next returns the placeholder index of the next appended argument.
func (p *predicates) next() int { return len(p.args) + 1 }
