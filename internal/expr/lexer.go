package expr

import "fmt"

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokOp // one of + - * / % ^
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind tokenKind
	pos  int
	text string
}

func (t token) String() string {
	switch t.kind {
	case tokEOF:
		return "end of input"
	case tokNumber:
		return fmt.Sprintf("number %q", t.text)
	case tokIdent:
		return fmt.Sprintf("identifier %q", t.text)
	default:
		return fmt.Sprintf("%q", t.text)
	}
}

// tokenize splits src into tokens. Number literals follow the bigint decimal
// grammar: digits ('.' digits)? ([eE] [+-]? digits)?.
func tokenize(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case isDigit(c):
			end, err := scanNumber(src, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{tokNumber, i, src[i:end]})
			i = end
		case isIdentStart(c):
			end := i + 1
			for end < len(src) && isIdentPart(src[end]) {
				end++
			}
			toks = append(toks, token{tokIdent, i, src[i:end]})
			i = end
		case c == '+' || c == '-' || c == '*' || c == '/' || c == '%' || c == '^':
			toks = append(toks, token{tokOp, i, src[i : i+1]})
			i++
		case c == '(':
			toks = append(toks, token{tokLParen, i, "("})
			i++
		case c == ')':
			toks = append(toks, token{tokRParen, i, ")"})
			i++
		case c == ',':
			toks = append(toks, token{tokComma, i, ","})
			i++
		default:
			return nil, syntaxErrorf(i, "unexpected character %q", rune(c))
		}
	}
	return append(toks, token{tokEOF, len(src), ""}), nil
}

func scanNumber(src string, start int) (int, error) {
	i := scanDigits(src, start)
	if i < len(src) && src[i] == '.' {
		j := scanDigits(src, i+1)
		if j == i+1 {
			return 0, syntaxErrorf(i, "missing digits after decimal point")
		}
		i = j
	}
	if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
		j := i + 1
		if j < len(src) && (src[j] == '+' || src[j] == '-') {
			j++
		}
		k := scanDigits(src, j)
		if k == j {
			return 0, syntaxErrorf(i, "missing exponent digits")
		}
		i = k
	}
	if i < len(src) && isIdentPart(src[i]) {
		return 0, syntaxErrorf(i, "unexpected character %q in number", rune(src[i]))
	}
	return i, nil
}

func scanDigits(src string, i int) int {
	for i < len(src) && isDigit(src[i]) {
		i++
	}
	return i
}

func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isIdentStart(c byte) bool { return c == '_' || (c|0x20 >= 'a' && c|0x20 <= 'z') }
func isIdentPart(c byte) bool  { return isIdentStart(c) || isDigit(c) }

// IsIdent reports whether s is a valid variable name.
func IsIdent(s string) bool {
	if s == "" || !isIdentStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentPart(s[i]) {
			return false
		}
	}
	return true
}
