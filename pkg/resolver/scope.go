package resolver

import "github.com/pviafore/CraftingInterpreters/pkg/ast"

type bindingKind int

const (
	bindingVariable bindingKind = iota
	bindingFunction
	bindingClass
	bindingImplicit
)

type binding struct {
	token      ast.Token
	slot       int
	kind       bindingKind
	defined    bool
	referenced bool
}

// scope mirrors one runtime frame: slots are handed out in declaration order.
type scope struct {
	bindings map[string]*binding
	order    []*binding
}

func newScope() *scope {
	return &scope{bindings: make(map[string]*binding)}
}

func (s *scope) lookup(name string) (*binding, bool) {
	b, ok := s.bindings[name]
	return b, ok
}

func (s *scope) declare(token ast.Token, kind bindingKind) *binding {
	b := &binding{token: token, slot: len(s.order), kind: kind}
	s.bindings[token.Lexeme] = b
	s.order = append(s.order, b)
	return b
}

// unused lists variable bindings that were never read or written, in slot order.
func (s *scope) unused() []*binding {
	var out []*binding
	for _, b := range s.order {
		if b.kind == bindingVariable && !b.referenced {
			out = append(out, b)
		}
	}
	return out
}
