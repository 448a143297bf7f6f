package grading

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMalformedAnswer marks a raw answer that could not be parsed in either
// supported encoding. Callers log it; the grade itself is already "wrong".
var ErrMalformedAnswer = errors.New("malformed answer encoding")

// letterSet splits a comma-separated letter answer ("B,C", " b , c ") into a
// normalized set.
func letterSet(s string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, tok := range strings.Split(s, ",") {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok != "" {
			out[tok] = struct{}{}
		}
	}
	return out
}

func letterSetsEqual(a, b string) bool {
	sa, sb := letterSet(a), letterSet(b)
	if len(sa) != len(sb) || len(sa) == 0 {
		return false
	}
	for k := range sa {
		if _, ok := sb[k]; !ok {
			return false
		}
	}
	return true
}

// splitSlots breaks a pipe-delimited value into trimmed slot values.
func splitSlots(s string) []string {
	parts := strings.Split(s, "|")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

// slotLabel matches the "A: " prefix the legacy client prepended to every
// slot ("A: value1 | B: value2").
var slotLabel = regexp.MustCompile(`^[A-Za-z]\s*:\s*`)

// normalizeSlots splits a raw slot answer and strips legacy labels. Labels
// are stripped only when every non-empty slot carries one: the old client
// always labeled all slots, and a lone "A: ..." in canonical form would be
// indistinguishable from content otherwise.
func normalizeSlots(raw string) []string {
	slots := splitSlots(raw)
	labeled := false
	for _, s := range slots {
		if s == "" {
			continue
		}
		if !slotLabel.MatchString(s) {
			return slots
		}
		labeled = true
	}
	if !labeled {
		return slots
	}
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = strings.TrimSpace(slotLabel.ReplaceAllString(s, ""))
	}
	return out
}

// component is one element of a mixed question: a tagged sub-answer.
type component struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type kind int

const (
	kindChoice kind = iota
	kindShort
)

func componentKind(t string) (kind, error) {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "multiplechoice", "mc":
		return kindChoice, nil
	case "shortanswer", "short":
		return kindShort, nil
	default:
		return 0, fmt.Errorf("%w: unknown component type %q", ErrMalformedAnswer, t)
	}
}

// parseComponents decodes the canonical JSON component list.
func parseComponents(s string) ([]component, error) {
	var out []component
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedAnswer, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty component list", ErrMalformedAnswer)
	}
	return out, nil
}

// parseSubmittedComponents accepts either the canonical JSON component list
// or the legacy labeled slot form ("A: B,C | B: paris"). The legacy form
// carries no type tags, so component types are taken positionally from the
// answer key.
func parseSubmittedComponents(raw string, key []component) ([]component, error) {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "[") {
		return parseComponents(trimmed)
	}
	slots := normalizeSlots(raw)
	if len(slots) == 1 && slots[0] == "" {
		return nil, fmt.Errorf("%w: empty submission", ErrMalformedAnswer)
	}
	out := make([]component, len(slots))
	for i, v := range slots {
		typ := ""
		if i < len(key) {
			typ = key[i].Type
		}
		out[i] = component{Type: typ, Value: v}
	}
	return out, nil
}

// ImpliedSlotCount recomputes the number of answer slots implied by a stored
// answer key. The second return is false for types whose key encodes no slot
// structure (long answers have none; choice questions are a single slot by
// construction).
func ImpliedSlotCount(qType, correctAnswer string) (int, bool) {
	switch qType {
	case TypeShort:
		return len(splitSlots(correctAnswer)), true
	case TypeMixed:
		comps, err := parseComponents(correctAnswer)
		if err != nil {
			return 0, false
		}
		return len(comps), true
	default:
		return 0, false
	}
}
