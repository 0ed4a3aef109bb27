package ast

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokKind int

const (
	eofTok tokKind = iota
	// errTok is a malformed token. It never matches.
	errTok
	identTok
	intTok
	stringTok
	// opTok is a keyword or punctuation; the text is the operator.
	opTok
)

type token struct {
	kind       tokKind
	text       string
	data       string // unquoted string literal
	start, end int
}

var keywords = map[string]bool{
	"val":   true,
	"let":   true,
	"in":    true,
	"if":    true,
	"then":  true,
	"else":  true,
	"true":  true,
	"false": true,
}

// ops are the operators, longest first.
var ops = []string{"==", "=", "<", "+", "-", "*", "(", ")", ","}

// want returns the peg.Fail Want string for a token.
func want(kind tokKind, text string) string {
	switch {
	case text != "":
		return strconv.Quote(text)
	case kind == eofTok:
		return "EOF"
	case kind == identTok:
		return "identifier"
	case kind == intTok:
		return "integer"
	case kind == stringTok:
		return "string"
	default:
		panic("impossible")
	}
}

// lex returns the tokens of text, ending with an eofTok.
// Token offsets begin at base.
// Lexing stops at the first malformed token.
func lex(text string, base int) []token {
	var toks []token
	for i := 0; ; {
		i = skipSpace(text, i)
		if i == len(text) {
			return append(toks, token{kind: eofTok, start: base + i, end: base + i})
		}
		t := lex1(text, i)
		t.start += base
		t.end += base
		toks = append(toks, t)
		if t.kind == errTok {
			return toks
		}
		i = t.end - base
	}
}

func lex1(text string, i int) token {
	r, w := utf8.DecodeRuneInString(text[i:])
	switch {
	case r == '_' || unicode.IsLetter(r):
		j := i + w
		for j < len(text) {
			r, w := utf8.DecodeRuneInString(text[j:])
			if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				break
			}
			j += w
		}
		id := text[i:j]
		if keywords[id] {
			return token{kind: opTok, text: id, start: i, end: j}
		}
		return token{kind: identTok, text: id, start: i, end: j}

	case r >= '0' && r <= '9':
		j := i + 1
		for j < len(text) && text[j] >= '0' && text[j] <= '9' {
			j++
		}
		return token{kind: intTok, text: text[i:j], start: i, end: j}

	case r == '"':
		j := i + 1
		for j < len(text) && text[j] != '"' && text[j] != '\n' {
			if text[j] == '\\' && j+1 < len(text) {
				j++
			}
			j++
		}
		if j == len(text) || text[j] != '"' {
			return token{kind: errTok, text: text[i:j], start: i, end: j}
		}
		j++
		data, err := strconv.Unquote(text[i:j])
		if err != nil {
			return token{kind: errTok, text: text[i:j], start: i, end: j}
		}
		return token{kind: stringTok, text: text[i:j], data: data, start: i, end: j}
	}
	for _, op := range ops {
		if strings.HasPrefix(text[i:], op) {
			return token{kind: opTok, text: op, start: i, end: i + len(op)}
		}
	}
	return token{kind: errTok, text: string(r), start: i, end: i + w}
}

func skipSpace(text string, i int) int {
	for i < len(text) {
		switch r, w := utf8.DecodeRuneInString(text[i:]); {
		case strings.HasPrefix(text[i:], "//"):
			for i < len(text) && text[i] != '\n' {
				i++
			}
		case unicode.IsSpace(r):
			i += w
		default:
			return i
		}
	}
	return i
}
