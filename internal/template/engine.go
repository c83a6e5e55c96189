package template

import (
	"fmt"
	"strings"
)

// Render expands every `{{expression}}` occurrence in s against ctx.
// Output is not HTML-escaped. A rendering failure (unknown helper,
// malformed call, unresolved bare field reference) aborts the whole
// render and returns an error; callers fall back to a static body.
func Render(s string, ctx *Context) (string, error) {
	var out strings.Builder
	rest := s

	for {
		start := strings.Index(rest, "{{")
		if start < 0 {
			out.WriteString(rest)
			break
		}
		out.WriteString(rest[:start])
		rest = rest[start+2:]

		end := strings.Index(rest, "}}")
		if end < 0 {
			return "", fmt.Errorf("unterminated template expression")
		}
		expr := strings.TrimSpace(rest[:end])
		rest = rest[end+2:]

		rendered, err := evalExpr(expr, ctx)
		if err != nil {
			return "", err
		}
		out.WriteString(rendered)
	}

	return out.String(), nil
}

func evalExpr(expr string, ctx *Context) (string, error) {
	tokens, err := tokenize(expr)
	if err != nil {
		return "", err
	}
	if len(tokens) == 0 {
		return "", fmt.Errorf("empty template expression")
	}

	// "json" names both a helper (serializes an argument) and a bare
	// context field (the parsed request body); only the former takes
	// arguments, so a single bare "json" token resolves as the field.
	isBareJSONField := tokens[0].literal == "json" && len(tokens) == 1

	if helperNames[tokens[0].literal] && !tokens[0].isLit && !isBareJSONField {
		args := make([]arg, 0, len(tokens)-1)
		for _, t := range tokens[1:] {
			args = append(args, t)
		}
		return callHelper(ctx, tokens[0].literal, args)
	}

	if len(tokens) != 1 {
		return "", fmt.Errorf("unknown helper %q", tokens[0].literal)
	}

	v, ok := resolveField(ctx, tokens[0].literal)
	if !ok {
		return "", fmt.Errorf("unresolved template reference %q", expr)
	}
	return stringify(v), nil
}

// tokenize splits a `{{...}}` body into whitespace-separated tokens,
// respecting double-quoted string literals. Inside a literal, a
// backslash escapes the next character (so `\"` is a literal quote).
func tokenize(expr string) ([]arg, error) {
	var tokens []arg
	var cur strings.Builder
	inQuotes := false
	sawQuotes := false
	flush := func(isLit bool) {
		if cur.Len() > 0 || (isLit && sawQuotes) {
			tokens = append(tokens, arg{literal: cur.String(), isLit: isLit})
			cur.Reset()
		}
		sawQuotes = false
	}

	i := 0
	for i < len(expr) {
		ch := expr[i]
		switch {
		case ch == '"' && !inQuotes:
			inQuotes = true
			sawQuotes = true
		case ch == '\\' && inQuotes && i+1 < len(expr):
			i++
			cur.WriteByte(expr[i])
		case ch == '"' && inQuotes:
			flush(true)
			inQuotes = false
		case ch == ' ' && !inQuotes:
			flush(false)
		default:
			cur.WriteByte(ch)
		}
		i++
	}
	if inQuotes {
		return nil, fmt.Errorf("unterminated string literal in expression %q", expr)
	}
	flush(false)

	return tokens, nil
}
