// Package dsl parses Forkhestra's mini chain-expression grammar:
//
//	dsl   := step ( "->" step )*
//	step  := ident ( ":" integer )?
//	ident := [A-Za-z] [A-Za-z0-9_-]*
//
// Whitespace around "->" and ":" is ignored. An identifier alone is a
// single non-looping step; "ident:N" is a looping step with N
// iterations.
package dsl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/forkhestra/forkhestra/internal/chainspec"
)

// ParseError reports a malformed DSL expression.
type ParseError struct {
	Message   string
	Fragment  string
	StepIndex int
}

func (e *ParseError) Error() string {
	if e.Fragment != "" {
		return fmt.Sprintf("%s: %q", e.Message, e.Fragment)
	}
	return e.Message
}

// Parse converts a DSL expression into an ordered Step sequence.
func Parse(s string) ([]chainspec.Step, error) {
	if strings.TrimSpace(s) == "" {
		return nil, &ParseError{Message: "empty chain expression"}
	}

	fragments := strings.Split(s, "->")
	steps := make([]chainspec.Step, 0, len(fragments))
	for i, frag := range fragments {
		trimmed := strings.TrimSpace(frag)
		if trimmed == "" {
			return nil, &ParseError{Message: "empty step between arrows", StepIndex: i, Fragment: s}
		}
		step, err := parseStep(trimmed, i)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func parseStep(tok string, idx int) (chainspec.Step, error) {
	ident := tok
	countStr := ""
	if colon := strings.IndexByte(tok, ':'); colon >= 0 {
		ident = strings.TrimSpace(tok[:colon])
		countStr = strings.TrimSpace(tok[colon+1:])
	}

	if !isValidIdent(ident) {
		return chainspec.Step{}, &ParseError{Message: "invalid agent identifier", StepIndex: idx, Fragment: tok}
	}

	if countStr == "" && !strings.Contains(tok, ":") {
		return chainspec.Step{Agent: ident, Loop: false, MaxIterations: 1}, nil
	}

	n, err := strconv.Atoi(countStr)
	if err != nil {
		return chainspec.Step{}, &ParseError{Message: "iteration count is not an integer", StepIndex: idx, Fragment: tok}
	}
	if n < 1 {
		return chainspec.Step{}, &ParseError{Message: "iteration count must be >= 1", StepIndex: idx, Fragment: tok}
	}
	return chainspec.Step{Agent: ident, Loop: true, MaxIterations: n}, nil
}

func isValidIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case i == 0 && isAlpha(r):
		case i > 0 && (isAlpha(r) || isDigit(r) || r == '_' || r == '-'):
		default:
			return false
		}
	}
	return true
}

func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// Serialize re-renders a step sequence back into DSL form, used by tests
// to check the parse/print round-trip property.
func Serialize(steps []chainspec.Step) string {
	parts := make([]string, len(steps))
	for i, s := range steps {
		if s.Loop {
			parts[i] = fmt.Sprintf("%s:%d", s.Agent, s.MaxIterations)
		} else {
			parts[i] = s.Agent
		}
	}
	return strings.Join(parts, " -> ")
}
