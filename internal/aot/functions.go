package aot

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/loom-ml/loom/internal/function"
	"github.com/loom-ml/loom/internal/graph"
)

// AssociatedFunction describes one way a node references a function:
// by calling it directly, by naming it in a gradient node, or by
// carrying it in a function-valued attribute.
type AssociatedFunction interface {
	isAssociatedFunction()
}

// FunctionCall is a node whose op is itself a library function.
type FunctionCall struct {
	Name  string
	Attrs graph.AttrMap
}

// SymbolicGradient is a gradient node; the function it differentiates
// is named by its function attribute.
type SymbolicGradient struct {
	Attrs graph.AttrMap
}

// FunctionAttr is a function referenced through a function-valued
// attribute on an ordinary node.
type FunctionAttr struct {
	Name     string
	Attrs    graph.AttrMap
	AttrName string
}

func (FunctionCall) isAssociatedFunction()     {}
func (SymbolicGradient) isAssociatedFunction() {}
func (FunctionAttr) isAssociatedFunction()     {}

// HasAssociatedFunction reports whether def references any function:
// as a direct call, as a gradient, or through a function-valued attr.
func HasAssociatedFunction(def graph.NodeDef, lib *function.Library) bool {
	if lib.Contains(def.Op) {
		return true
	}
	if def.Op == function.GradientOp {
		return true
	}
	for _, v := range def.Attrs {
		if _, ok := v.(graph.FuncAttr); ok {
			return true
		}
	}
	return false
}

// AssociatedFunctions returns the functions n references. A node is
// classified exactly one way: a direct call beats a gradient, which
// beats attribute references. Attribute references are scanned in
// sorted attribute-name order so the result is deterministic.
func AssociatedFunctions(n *graph.Node, lib *function.Library) []AssociatedFunction {
	var assoc []AssociatedFunction
	switch {
	case lib.Contains(n.Op()):
		assoc = append(assoc, FunctionCall{Name: n.Op(), Attrs: n.Attrs().Clone()})
	case n.Op() == function.GradientOp:
		assoc = append(assoc, SymbolicGradient{Attrs: n.Attrs().Clone()})
	default:
		names := make([]string, 0, len(n.Attrs()))
		for name := range n.Attrs() {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fa, ok := n.Attrs()[name].(graph.FuncAttr)
			if !ok {
				continue
			}
			slog.Debug("found function attr", "node", n.Name(), "attr", name, "func", fa.Name)
			assoc = append(assoc, FunctionAttr{Name: fa.Name, Attrs: fa.Attrs.Clone(), AttrName: name})
		}
	}
	return assoc
}

// RewriteAssociatedFunction re-points one function reference on n to
// newName. Call nodes are replaced wholesale so the op name changes;
// gradient nodes update the library's gradient mapping; attribute
// references rewrite the attribute in place, keeping its attrs.
func RewriteAssociatedFunction(g *graph.Graph, n *graph.Node, lib *function.Library, assoc AssociatedFunction, newName string) error {
	switch a := assoc.(type) {
	case FunctionCall:
		def := n.Def()
		def.Op = newName
		if dev := n.AssignedDevice(); dev != "" {
			def.Device = dev
		}
		if _, err := g.ReplaceNode(n, def); err != nil {
			return err
		}
	case SymbolicGradient:
		v, ok := n.Attr(function.GradientFuncAttr)
		if !ok {
			return fmt.Errorf("%w: gradient node %s has no %q attr",
				graph.ErrInvalidArgument, n.Name(), function.GradientFuncAttr)
		}
		fa, ok := v.(graph.FuncAttr)
		if !ok {
			return fmt.Errorf("%w: attr %q of gradient node %s is not a function",
				graph.ErrInvalidArgument, function.GradientFuncAttr, n.Name())
		}
		switch current := lib.FindGradient(fa.Name); {
		case current == "":
			if err := lib.AddGradient(fa.Name, newName); err != nil {
				return err
			}
		case current != newName:
			if err := lib.ReplaceGradient(fa.Name, newName); err != nil {
				return err
			}
		}
	case FunctionAttr:
		v, ok := n.Attr(a.AttrName)
		if !ok {
			return fmt.Errorf("%w: node %s has no %q attr",
				graph.ErrInvalidArgument, n.Name(), a.AttrName)
		}
		fa, ok := v.(graph.FuncAttr)
		if !ok {
			return fmt.Errorf("%w: attr %q of node %s is not a function",
				graph.ErrInvalidArgument, a.AttrName, n.Name())
		}
		n.ClearAttr(a.AttrName)
		n.AddAttr(a.AttrName, graph.FuncAttr{Name: newName, Attrs: fa.Attrs})
	default:
		return fmt.Errorf("%w: unknown associated function %T", graph.ErrInvalidArgument, assoc)
	}
	return nil
}
