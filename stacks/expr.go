package stacks

import (
	"log/slog"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Env is the expression environment for Expression conditions, e.g.
//
//	InCombat && TargetHP <= 30 && PartyBelow(50) >= 2
type Env struct {
	InCombat bool
	TargetHP float64 // percent
	SelfHP   float64 // percent

	partyBelow func(pct float64) int
}

// PartyBelow counts party members at or under pct percent health.
func (e Env) PartyBelow(pct int) int {
	if e.partyBelow == nil {
		return 0
	}
	return e.partyBelow(float64(pct))
}

// exprCache compiles each distinct source once. Sources that fail to compile
// are remembered as failures so the error is logged a single time.
type exprCache struct {
	mu       sync.Mutex
	programs map[string]*vm.Program
}

func newExprCache() *exprCache {
	return &exprCache{programs: make(map[string]*vm.Program)}
}

func (c *exprCache) program(src string) *vm.Program {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.programs[src]; ok {
		return p
	}
	p, err := CompileExpr(src)
	if err != nil {
		slog.Warn("stack condition expression rejected", "expr", src, "error", err)
		p = nil
	}
	c.programs[src] = p
	return p
}

// eval fails closed: empty, invalid or erroring expressions never pass.
func (c *exprCache) eval(src string, in Inputs) bool {
	if src == "" {
		return false
	}
	p := c.program(src)
	if p == nil {
		return false
	}
	env := Env{InCombat: in.InCombat, TargetHP: in.TargetHPPct, SelfHP: in.SelfHPPct, partyBelow: in.PartyBelow}
	out, err := vm.Run(p, env)
	if err != nil {
		slog.Debug("stack condition expression error", "expr", src, "error", err)
		return false
	}
	ok, _ := out.(bool)
	return ok
}

// CompileExpr validates an Expression condition source.
func CompileExpr(src string) (*vm.Program, error) {
	return expr.Compile(src, expr.Env(Env{}), expr.AsBool())
}
