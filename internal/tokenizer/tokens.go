// Package tokenizer provides directive-config tokenization using Shape's
// tokenizer framework.
package tokenizer

// Raw token kinds produced by the matchers. Space, Newline, and Comment
// never survive Tokenize; they exist so the lexer can account for every
// byte and keep line numbers accurate.
const (
	TokenWord      = "Word"      // bare value: listen, 8080, /static/
	TokenString    = "String"    // quoted value, quotes included in the raw token
	TokenLBrace    = "LBrace"    // {
	TokenRBrace    = "RBrace"    // }
	TokenSemicolon = "Semicolon" // ;
	TokenComment   = "Comment"   // # to end of line
	TokenNewline   = "Newline"   // \n
	TokenSpace     = "Space"     // run of blanks
)

// Token is one significant config token and the line it starts on.
// Quoted strings arrive with the surrounding quotes already stripped.
type Token struct {
	Kind  string
	Value string
	Line  int
}
