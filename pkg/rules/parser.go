package rules

import (
	"fmt"
	"os"
	"strconv"

	"github.com/OpenTraceLab/pcbdrc/pkg/sexp/kicadsexp"
)

// LoadRules parses a drc-rules file into its selectors and named rules, or
// returns a structured parse error carrying the offending (line, column)
// (spec.md §6, §7: "the offending file yields no rules"; the caller
// decides whether that's fatal or merely logged).
func LoadRules(path string) ([]Selector, []Rule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open rule file: %w", err)
	}
	defer f.Close()

	forms, err := kicadsexp.Parse(f)
	if err != nil {
		return nil, nil, err
	}

	var selectors []Selector
	var rulesOut []Rule
	for i, form := range forms {
		name, err := nodeName(form)
		if err != nil {
			return nil, nil, err
		}
		switch name {
		case "rule":
			r, err := parseRule(form, i)
			if err != nil {
				return nil, nil, err
			}
			rulesOut = append(rulesOut, r)
		case "selector":
			s, err := parseSelector(form, i)
			if err != nil {
				return nil, nil, err
			}
			selectors = append(selectors, s)
		default:
			return nil, nil, &kicadsexp.ParseError{Pos: form.Pos(), Msg: fmt.Sprintf("unknown top-level form %q", name)}
		}
	}

	return selectors, rulesOut, nil
}

func nodeName(s kicadsexp.Sexp) (string, error) {
	if s == nil {
		return "", &kicadsexp.ParseError{Pos: kicadsexp.Position{}, Msg: "expected a list at top level"}
	}
	if s.IsLeaf() {
		return "", &kicadsexp.ParseError{Pos: s.Pos(), Msg: "expected a list at top level"}
	}
	items := listItems(s)
	if len(items) == 0 {
		return "", &kicadsexp.ParseError{Pos: s.Pos(), Msg: "empty form"}
	}
	sym, ok := items[0].(kicadsexp.Symbol)
	if !ok {
		return "", &kicadsexp.ParseError{Pos: items[0].Pos(), Msg: "expected a form name"}
	}
	return sym.Value, nil
}

// listItems flattens a List's elements, using Head/Tail so it works against
// any Sexp implementation, not just *kicadsexp.List.
func listItems(s kicadsexp.Sexp) []kicadsexp.Sexp {
	var out []kicadsexp.Sexp
	for s != nil && !s.IsLeaf() && s.LeafCount() > 0 {
		out = append(out, s.Head())
		if s.LeafCount() <= 1 {
			break
		}
		s = s.Tail()
	}
	return out
}

func findChild(s kicadsexp.Sexp, key string) (kicadsexp.Sexp, bool) {
	for _, item := range listItems(s) {
		if item == nil || item.IsLeaf() {
			continue
		}
		sub := listItems(item)
		if len(sub) == 0 {
			continue
		}
		if sym, ok := sub[0].(kicadsexp.Symbol); ok && sym.Value == key {
			return item, true
		}
	}
	return nil, false
}

func symbolAt(s kicadsexp.Sexp, index int) (string, bool) {
	items := listItems(s)
	if index < 0 || index >= len(items) {
		return "", false
	}
	sym, ok := items[index].(kicadsexp.Symbol)
	if !ok {
		return "", false
	}
	return sym.Value, true
}

func parseRule(form kicadsexp.Sexp, order int) (Rule, error) {
	name, ok := symbolAt(form, 1)
	if !ok {
		return Rule{}, &kicadsexp.ParseError{Pos: form.Pos(), Msg: "rule missing name"}
	}
	r := Rule{Name: name, sourceOrder: order}

	if constraint, found := findChild(form, "constraint"); found {
		if kind, ok := symbolAt(constraint, 1); ok && kind == "clearance" {
			if minNode, found := findChild(constraint, "min"); found {
				if raw, ok := symbolAt(minNode, 1); ok {
					nm, err := parseNM(raw)
					if err != nil {
						return Rule{}, &kicadsexp.ParseError{Pos: minNode.Pos(), Msg: err.Error()}
					}
					r.HasClearance = true
					r.MinClearance = nm
				}
			}
		}
	}

	if condition, found := findChild(form, "condition"); found {
		if raw, ok := symbolAt(condition, 1); ok {
			r.Condition = raw
		}
	}

	return r, nil
}

func parseSelector(form kicadsexp.Sexp, order int) (Selector, error) {
	s := Selector{sourceOrder: order}

	if node, found := findChild(form, "match_layer"); found {
		if v, ok := symbolAt(node, 1); ok {
			s.MatchLayer = v
		}
	}
	if node, found := findChild(form, "match_netclass"); found {
		if v, ok := symbolAt(node, 1); ok {
			s.MatchNetclass = v
		}
	}
	if node, found := findChild(form, "rule"); found {
		if v, ok := symbolAt(node, 1); ok {
			s.RuleName = v
		}
	}
	if s.RuleName == "" {
		return Selector{}, &kicadsexp.ParseError{Pos: form.Pos(), Msg: "selector missing target rule"}
	}

	return s, nil
}

// parseNM parses a clearance literal, stored as millimeters in the rule
// file for consistency with board files, into nanometers.
func parseNM(raw string) (int64, error) {
	mm, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid clearance value %q: %w", raw, err)
	}
	if mm >= 0 {
		return int64(mm*1e6 + 0.5), nil
	}
	return int64(mm*1e6 - 0.5), nil
}
