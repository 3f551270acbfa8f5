// Package parser implements the directive-config parser. It produces
// shape-core AST nodes (ObjectNode, LiteralNode, ArrayDataNode) from
// nginx-style configuration text.
//
// A parsed block is an ArrayDataNode holding one ObjectNode per
// directive, in declaration order:
//
//	{ "name": "listen", "args": ["8080"] }
//	{ "name": "server", "args": [], "block": [ ...directives... ] }
//
// Order matters to consumers (route prefixes resolve ties by declaration
// order), which is why blocks are arrays of directives rather than
// name-keyed objects.
package parser

import (
	"fmt"

	"github.com/shapestone/shape-core/pkg/ast"
	"github.com/shapestone/shape-serve/internal/tokenizer"
)

var zeroPos = ast.Position{}

// Parse tokenizes and parses a config document, returning the top-level
// block as an ArrayDataNode of directive ObjectNodes.
func Parse(input string) (ast.SchemaNode, error) {
	tokens, err := tokenizer.Tokenize(input)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	return p.parseBlock(false)
}

// parser is a recursive-descent parser over the significant token list.
type parser struct {
	tokens []tokenizer.Token
	pos    int
}

func (p *parser) peek() (tokenizer.Token, bool) {
	if p.pos >= len(p.tokens) {
		return tokenizer.Token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) next() (tokenizer.Token, bool) {
	tok, ok := p.peek()
	if ok {
		p.pos++
	}
	return tok, ok
}

// parseBlock consumes directives until the closing brace of a nested
// block, or end of input at the top level. Unbalanced braces in either
// direction are syntax errors.
func (p *parser) parseBlock(nested bool) (ast.SchemaNode, error) {
	var directives []ast.SchemaNode
	for {
		tok, ok := p.peek()
		if !ok {
			if nested {
				return nil, fmt.Errorf("config: unexpected end of input: unclosed block")
			}
			return ast.NewArrayDataNode(directives, zeroPos), nil
		}
		if tok.Kind == tokenizer.TokenRBrace {
			if !nested {
				return nil, fmt.Errorf("config: unexpected '}' at line %d", tok.Line)
			}
			p.pos++
			return ast.NewArrayDataNode(directives, zeroPos), nil
		}

		directive, err := p.parseDirective()
		if err != nil {
			return nil, err
		}
		directives = append(directives, directive)
	}
}

// parseDirective consumes one "name args... ;" or "name arg? { ... }"
// form. Arguments are words or quoted strings.
func (p *parser) parseDirective() (ast.SchemaNode, error) {
	tok, _ := p.next()
	if tok.Kind != tokenizer.TokenWord {
		return nil, fmt.Errorf("config: expected directive name at line %d, got %q", tok.Line, tok.Value)
	}
	name, line := tok.Value, tok.Line

	var args []ast.SchemaNode
	for {
		tok, ok := p.next()
		if !ok {
			return nil, fmt.Errorf("config: unexpected end of input after %q at line %d: expected ';' or '{'", name, line)
		}
		switch tok.Kind {
		case tokenizer.TokenWord, tokenizer.TokenString:
			args = append(args, ast.NewLiteralNode(tok.Value, zeroPos))
		case tokenizer.TokenSemicolon:
			return directiveNode(name, args, nil), nil
		case tokenizer.TokenLBrace:
			if len(args) > 1 {
				return nil, fmt.Errorf("config: block %q at line %d takes at most one argument", name, line)
			}
			block, err := p.parseBlock(true)
			if err != nil {
				return nil, err
			}
			return directiveNode(name, args, block), nil
		default:
			return nil, fmt.Errorf("config: unexpected %q in arguments of %q at line %d", tok.Value, name, tok.Line)
		}
	}
}

func directiveNode(name string, args []ast.SchemaNode, block ast.SchemaNode) ast.SchemaNode {
	props := map[string]ast.SchemaNode{
		"name": ast.NewLiteralNode(name, zeroPos),
		"args": ast.NewArrayDataNode(args, zeroPos),
	}
	if block != nil {
		props["block"] = block
	}
	return ast.NewObjectNode(props, zeroPos)
}
