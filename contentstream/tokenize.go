package contentstream

import (
	"errors"
	"strings"
)

// Parse splits decoded content into operations. Literal strings keep their
// parentheses and escapes; arrays are kept as one operand token.
func Parse(src []byte) ([]Operation, error) {
	tokens, err := tokenize(string(src))
	if err != nil {
		return nil, err
	}
	var ops []Operation
	var operands []string
	for _, tok := range tokens {
		if isOperand(tok) {
			operands = append(operands, tok)
			continue
		}
		ops = append(ops, Operation{Operator: tok, Operands: operands})
		operands = nil
	}
	if len(operands) > 0 {
		return ops, errors.New("dangling operands: " + strings.Join(operands, " "))
	}
	return ops, nil
}

// Operators returns just the operator names of ops.
func Operators(ops []Operation) []string {
	out := make([]string, len(ops))
	for i, op := range ops {
		out[i] = op.Operator
	}
	return out
}

func isOperand(tok string) bool {
	switch tok[0] {
	case '(', '[', '/', '<', '+', '-', '.':
		return true
	}
	return tok[0] >= '0' && tok[0] <= '9'
}

func tokenize(src string) ([]string, error) {
	var out []string
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case isSpace(c):
			i++
		case c == '(':
			end, err := stringEnd(src, i)
			if err != nil {
				return nil, err
			}
			out = append(out, src[i:end])
			i = end
		case c == '[':
			end := strings.IndexByte(src[i:], ']')
			if end < 0 {
				return nil, errors.New("unterminated array")
			}
			out = append(out, src[i:i+end+1])
			i += end + 1
		default:
			j := i
			for j < len(src) && !isSpace(src[j]) && src[j] != '(' && src[j] != '[' {
				j++
			}
			out = append(out, src[i:j])
			i = j
		}
	}
	return out, nil
}

// stringEnd returns the index just past the literal string starting at i.
func stringEnd(src string, i int) (int, error) {
	depth := 0
	for j := i; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return j + 1, nil
			}
		}
	}
	return 0, errors.New("unterminated string")
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t' || c == '\f' || c == 0
}
