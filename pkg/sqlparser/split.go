package sqlparser

import "strings"

type token uint8

const (
	tokenSemi token = iota
	tokenSpace
	tokenOther
	tokenExplain
	tokenCreate
	tokenTemp
	tokenTrigger
	tokenEnd
)

// Statement boundary states, the same machine SQLite's sqlite3_complete
// runs: 0 invalid, 1 start, 2 normal, 3 explain, 4 create, 5 trigger body,
// 6 semicolon in a trigger body, 7 end of a trigger body.
var transitions = [8][8]uint8{
	//  semi space other explain create temp trigger end
	{1, 0, 2, 3, 4, 2, 2, 2},
	{1, 1, 2, 3, 4, 2, 2, 2},
	{1, 2, 2, 2, 2, 2, 2, 2},
	{1, 3, 3, 2, 4, 2, 2, 2},
	{1, 4, 2, 2, 2, 4, 5, 2},
	{6, 5, 5, 5, 5, 5, 5, 5},
	{6, 6, 5, 5, 5, 5, 5, 7},
	{1, 7, 5, 5, 5, 5, 5, 5},
}

// SplitFirst splits query at the semicolon that ends its first statement
// and returns the statement without that semicolon and the text after it.
// Semicolons inside literals, quoted identifiers, comments and trigger
// bodies do not end a statement. An unterminated statement is returned
// whole with an empty rest.
func SplitFirst(query string) (first, rest string) {
	var state uint8
	for i := 0; i < len(query); {
		tok, n := nextToken(query[i:])
		next := transitions[state][tok]
		if tok == tokenSemi && next == 1 && state > 1 {
			return strings.TrimRight(query[:i], " \t\r\n\f"), query[i+n:]
		}
		state = next
		i += n
	}
	return query, ""
}

// nextToken classifies the token at the start of s and returns its length.
func nextToken(s string) (token, int) {
	c := s[0]
	switch {
	case c == ';':
		return tokenSemi, 1
	case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f':
		return tokenSpace, 1
	case strings.HasPrefix(s, "/*"):
		if end := strings.Index(s[2:], "*/"); end >= 0 {
			return tokenSpace, end + 4
		}
		return tokenSpace, len(s)
	case strings.HasPrefix(s, "--"):
		if end := strings.IndexByte(s, '\n'); end >= 0 {
			return tokenSpace, end + 1
		}
		return tokenSpace, len(s)
	case c == '[':
		return tokenOther, quoted(s, ']')
	case c == '\'' || c == '"' || c == '`':
		// A doubled quote scans as two adjacent tokens, which is harmless.
		return tokenOther, quoted(s, c)
	case isIdentByte(c):
		n := 1
		for n < len(s) && isIdentByte(s[n]) {
			n++
		}
		return keyword(s[:n]), n
	default:
		return tokenOther, 1
	}
}

func quoted(s string, closing byte) int {
	if end := strings.IndexByte(s[1:], closing); end >= 0 {
		return end + 2
	}
	return len(s)
}

func isIdentByte(c byte) bool {
	return c >= 0x80 || c == '_' || c == '$' ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

func keyword(word string) token {
	switch strings.ToLower(word) {
	case "create":
		return tokenCreate
	case "trigger":
		return tokenTrigger
	case "temp", "temporary":
		return tokenTemp
	case "end":
		return tokenEnd
	case "explain":
		return tokenExplain
	default:
		return tokenOther
	}
}
