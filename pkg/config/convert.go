package config

import "github.com/shapestone/shape-core/pkg/ast"

// directive is the native view of one parsed directive. hasBlock tells a
// braced directive with an empty body apart from a simple one.
type directive struct {
	name     string
	args     []string
	block    []directive
	hasBlock bool
}

// blockDirectives converts a parsed block node into native directives,
// preserving order. Nodes that do not have the expected shape are
// skipped rather than failing: the parser only ever produces well-formed
// blocks.
func blockDirectives(node ast.SchemaNode) []directive {
	arr, ok := node.(*ast.ArrayDataNode)
	if !ok {
		return nil
	}

	var out []directive
	for _, el := range arr.Elements() {
		obj, ok := el.(*ast.ObjectNode)
		if !ok {
			continue
		}
		props := obj.Properties()

		var d directive
		if v, ok := props["name"]; ok {
			if lit, ok := v.(*ast.LiteralNode); ok {
				d.name, _ = lit.Value().(string)
			}
		}
		if v, ok := props["args"]; ok {
			if argArr, ok := v.(*ast.ArrayDataNode); ok {
				for _, a := range argArr.Elements() {
					if lit, ok := a.(*ast.LiteralNode); ok {
						if s, ok := lit.Value().(string); ok {
							d.args = append(d.args, s)
						}
					}
				}
			}
		}
		if v, ok := props["block"]; ok {
			d.block = blockDirectives(v)
			d.hasBlock = true
		}
		out = append(out, d)
	}
	return out
}

// firstArg returns the first argument of the first directive named name
// within block.
func firstArg(block []directive, name string) (string, bool) {
	for _, d := range block {
		if d.name == name && len(d.args) > 0 {
			return d.args[0], true
		}
	}
	return "", false
}
