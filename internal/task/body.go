package task

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	acBegin = "<!-- AC:BEGIN -->"
	acEnd   = "<!-- AC:END -->"
)

var acLinePattern = regexp.MustCompile(`^- \[( |x|X)\] #(\d+) (.*)$`)

type parsedBody struct {
	description         string
	implementationPlan  string
	acceptanceCriteria  []AcceptanceCriterion
	implementationNotes string
}

// parseBody extracts the four optional sections from a task's markdown
// body. Absence of either AC delimiter is tolerated by treating the AC
// set as empty, never inventing criteria.
func parseBody(body []byte) (parsedBody, error) {
	lines := strings.Split(string(body), "\n")

	var out parsedBody
	var current *string
	var acBuf []string
	inFence := false

	flushAC := func() error {
		acs, err := parseACLines(acBuf)
		if err != nil {
			return err
		}
		out.acceptanceCriteria = acs
		acBuf = nil
		return nil
	}

	for _, line := range lines {
		trimmed := strings.TrimRight(line, " \t")
		switch {
		case trimmed == acBegin:
			inFence = true
			current = nil
			continue
		case trimmed == acEnd:
			inFence = false
			if err := flushAC(); err != nil {
				return parsedBody{}, err
			}
			continue
		case strings.HasPrefix(trimmed, "## Description"):
			current = &out.description
			continue
		case strings.HasPrefix(trimmed, "## Implementation Plan"):
			current = &out.implementationPlan
			continue
		case strings.HasPrefix(trimmed, "## Implementation Notes"):
			current = &out.implementationNotes
			continue
		}

		if inFence {
			if strings.TrimSpace(line) != "" {
				acBuf = append(acBuf, line)
			}
			continue
		}

		if current != nil {
			if *current != "" {
				*current += "\n"
			}
			*current += line
		}
	}

	if inFence {
		// unterminated fence: tolerate it as an empty AC set rather
		// than inventing criteria from a half-open block.
		out.acceptanceCriteria = nil
	}

	out.description = strings.TrimSpace(out.description)
	out.implementationPlan = strings.TrimSpace(out.implementationPlan)
	out.implementationNotes = strings.TrimSpace(out.implementationNotes)
	return out, nil
}

func parseACLines(lines []string) ([]AcceptanceCriterion, error) {
	out := make([]AcceptanceCriterion, 0, len(lines))
	for _, line := range lines {
		m := acLinePattern.FindStringSubmatch(strings.TrimRight(line, " \t"))
		if m == nil {
			return nil, &MalformedTaskError{Reason: fmt.Sprintf("unparseable AC line: %q", line)}
		}
		idx, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, &MalformedTaskError{Reason: fmt.Sprintf("unparseable AC index: %q", line)}
		}
		out = append(out, AcceptanceCriterion{
			Index:   idx,
			Checked: m[1] == "x" || m[1] == "X",
			Text:    m[3],
		})
	}
	if err := validateACIndices(out); err != nil {
		return nil, err
	}
	return out, nil
}

// validateACIndices enforces the 1..k contiguous, strictly ascending
// invariant.
func validateACIndices(acs []AcceptanceCriterion) error {
	for i, ac := range acs {
		if ac.Index != i+1 {
			return &MalformedTaskError{Reason: fmt.Sprintf("AC indices must be contiguous starting at 1, got #%d at position %d", ac.Index, i+1)}
		}
	}
	return nil
}

// renderBody reassembles the four sections in canonical order. The AC
// fence is always emitted, even when empty.
func renderBody(b parsedBody) []byte {
	var sb strings.Builder

	sb.WriteString("## Description\n\n")
	sb.WriteString(strings.TrimSpace(b.description))
	sb.WriteString("\n\n")

	sb.WriteString("## Implementation Plan\n\n")
	sb.WriteString(strings.TrimSpace(b.implementationPlan))
	sb.WriteString("\n\n")

	sb.WriteString(acBegin + "\n")
	for _, ac := range b.acceptanceCriteria {
		box := " "
		if ac.Checked {
			box = "x"
		}
		sb.WriteString(fmt.Sprintf("- [%s] #%d %s\n", box, ac.Index, ac.Text))
	}
	sb.WriteString(acEnd + "\n\n")

	sb.WriteString("## Implementation Notes\n\n")
	sb.WriteString(strings.TrimSpace(b.implementationNotes))
	sb.WriteString("\n")

	return []byte(sb.String())
}
