package tokenizer

import (
	"fmt"
	"strings"

	"github.com/shapestone/shape-core/pkg/tokenizer"
)

// NewTokenizer creates a tokenizer for the directive config language.
// Matchers in priority order:
// 1. Comment (# to end of line)
// 2. Quoted string
// 3. Structural single characters ({ } ;)
// 4. Newline (kept for line counting)
// 5. Blank run (spaces, tabs, carriage returns)
// 6. Word (everything the grammar treats as a bare value)
//
// Note: the default whitespace skipper is not used because newlines must
// come through as tokens for line numbering.
func NewTokenizer() tokenizer.Tokenizer {
	return tokenizer.NewTokenizerWithoutWhitespace(
		CommentMatcher(),
		StringMatcher(),
		tokenizer.StringMatcherFunc(TokenLBrace, "{"),
		tokenizer.StringMatcherFunc(TokenRBrace, "}"),
		tokenizer.StringMatcherFunc(TokenSemicolon, ";"),
		NewlineMatcher(),
		SpaceMatcher(),
		WordMatcher(),
	)
}

// Tokenize lexes an entire config document and returns the significant
// tokens: words, quoted strings (unquoted), braces, and semicolons, each
// tagged with its source line. Comments and whitespace are dropped here
// so the grammar never sees them.
func Tokenize(input string) ([]Token, error) {
	tok := NewTokenizer()
	tok.Initialize(input)
	raw, eos := tok.Tokenize()

	line := 1
	out := make([]Token, 0, len(raw))
	for _, t := range raw {
		switch t.Kind() {
		case TokenNewline:
			line++
		case TokenSpace, TokenComment:
			// dropped
		case TokenString:
			v := t.ValueString()
			out = append(out, Token{Kind: TokenString, Value: v[1 : len(v)-1], Line: line})
			line += strings.Count(v, "\n")
		default:
			out = append(out, Token{Kind: t.Kind(), Value: t.ValueString(), Line: line})
		}
	}
	if !eos {
		return nil, fmt.Errorf("config: unexpected character at line %d", line)
	}
	return out, nil
}

// CommentMatcher matches # through the end of the line, newline excluded.
func CommentMatcher() tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		r, ok := stream.PeekChar()
		if !ok || r != '#' {
			return nil
		}

		var value []rune
		for {
			r, ok := stream.PeekChar()
			if !ok || r == '\n' {
				break
			}
			stream.NextChar()
			value = append(value, r)
		}
		return tokenizer.NewToken(TokenComment, value)
	}
}

// StringMatcher matches a double-quoted string. There are no escape
// sequences: the value runs to the next quote. An unterminated string
// fails the match, which surfaces as a tokenize error.
func StringMatcher() tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		r, ok := stream.PeekChar()
		if !ok || r != '"' {
			return nil
		}
		stream.NextChar()

		value := []rune{'"'}
		for {
			r, ok := stream.PeekChar()
			if !ok {
				return nil
			}
			stream.NextChar()
			value = append(value, r)
			if r == '"' {
				return tokenizer.NewToken(TokenString, value)
			}
		}
	}
}

// NewlineMatcher matches a single \n.
func NewlineMatcher() tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		r, ok := stream.PeekChar()
		if !ok || r != '\n' {
			return nil
		}
		stream.NextChar()
		return tokenizer.NewToken(TokenNewline, []rune{'\n'})
	}
}

// SpaceMatcher matches a run of blanks: space, tab, or carriage return.
// Carriage returns ride along so CRLF files lex the same as LF files.
func SpaceMatcher() tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		var value []rune
		for {
			r, ok := stream.PeekChar()
			if !ok {
				break
			}
			if r != ' ' && r != '\t' && r != '\r' {
				break
			}
			stream.NextChar()
			value = append(value, r)
		}
		if len(value) == 0 {
			return nil
		}
		return tokenizer.NewToken(TokenSpace, value)
	}
}

// WordMatcher matches a run of word characters: letters, digits,
// underscore, dot, slash, and dash. This covers directive names,
// numbers, and unquoted paths.
func WordMatcher() tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		var value []rune
		for {
			r, ok := stream.PeekChar()
			if !ok {
				break
			}
			if !isWordChar(r) {
				break
			}
			stream.NextChar()
			value = append(value, r)
		}
		if len(value) == 0 {
			return nil
		}
		return tokenizer.NewToken(TokenWord, value)
	}
}

func isWordChar(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '_' || r == '.' || r == '/' || r == '-':
		return true
	}
	return false
}
