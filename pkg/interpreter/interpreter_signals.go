package interpreter

import "github.com/pviafore/CraftingInterpreters/pkg/runtime"

// completionKind is how a statement finished. Break and return travel up as
// values rather than errors so that only real failures use the error path.
type completionKind int

const (
	completionNormal completionKind = iota
	completionBreak
	completionReturn
)

type completion struct {
	kind  completionKind
	value runtime.Value
}

var normalCompletion = completion{kind: completionNormal}

func breakCompletion() completion {
	return completion{kind: completionBreak}
}

func returnCompletion(value runtime.Value) completion {
	return completion{kind: completionReturn, value: value}
}

func (c completion) String() string {
	switch c.kind {
	case completionBreak:
		return "break"
	case completionReturn:
		return "return"
	default:
		return "normal"
	}
}
