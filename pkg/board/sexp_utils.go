package board

import (
	"fmt"
	"strconv"

	"github.com/OpenTraceLab/pcbdrc/pkg/sexp/kicadsexp"
)

// S-expression navigation helpers, grounded on the teacher's
// pkg/kicad/pcb/sexp_utils.go idiom (findNode/getString/getListItems),
// trimmed to what the integer board-unit model needs.

func findNode(s kicadsexp.Sexp, key string) (kicadsexp.Sexp, bool) {
	if s == nil || s.IsLeaf() {
		return nil, false
	}
	for _, item := range sexpToSlice(s) {
		if item == nil {
			continue
		}
		if item.IsLeaf() {
			if sym, ok := item.(kicadsexp.Symbol); ok && sym.Value == key {
				return item, true
			}
			continue
		}
		sub := sexpToSlice(item)
		if len(sub) > 0 {
			if sym, ok := sub[0].(kicadsexp.Symbol); ok && sym.Value == key {
				return item, true
			}
		}
	}
	return nil, false
}

func findAllNodes(s kicadsexp.Sexp, key string) []kicadsexp.Sexp {
	var results []kicadsexp.Sexp
	if s == nil || s.IsLeaf() {
		return results
	}
	for _, item := range sexpToSlice(s) {
		if item == nil || item.IsLeaf() {
			continue
		}
		sub := sexpToSlice(item)
		if len(sub) > 0 {
			if sym, ok := sub[0].(kicadsexp.Symbol); ok && sym.Value == key {
				results = append(results, item)
			}
		}
	}
	return results
}

func getListItems(s kicadsexp.Sexp) []kicadsexp.Sexp {
	all := sexpToSlice(s)
	if len(all) <= 1 {
		return nil
	}
	return all[1:]
}

func getString(s kicadsexp.Sexp, index int) (string, error) {
	if s == nil || s.IsLeaf() {
		return "", fmt.Errorf("expected list, got leaf")
	}
	items := sexpToSlice(s)
	if index < 0 || index >= len(items) {
		return "", fmt.Errorf("index %d out of bounds (length %d)", index, len(items))
	}
	if sym, ok := items[index].(kicadsexp.Symbol); ok {
		return sym.Value, nil
	}
	return "", fmt.Errorf("expected symbol at index %d, got %T", index, items[index])
}

func sexpToSlice(s kicadsexp.Sexp) []kicadsexp.Sexp {
	var items []kicadsexp.Sexp
	if s == nil || s.IsLeaf() {
		return items
	}
	for i := 0; i < 1_000_000; i++ {
		if s == nil {
			break
		}
		if s.LeafCount() == 0 {
			break
		}
		if head := s.Head(); head != nil {
			items = append(items, head)
		}
		if s.LeafCount() <= 1 {
			break
		}
		s = s.Tail()
		if s == nil || s.IsLeaf() {
			break
		}
	}
	return items
}

func getFloat(s kicadsexp.Sexp, index int) (float64, error) {
	str, err := getString(s, index)
	if err != nil {
		return 0, err
	}
	val, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse float %q: %w", str, err)
	}
	return val, nil
}

func getInt(s kicadsexp.Sexp, index int) (int, error) {
	str, err := getString(s, index)
	if err != nil {
		return 0, err
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("failed to parse int %q: %w", str, err)
	}
	return val, nil
}

// getQuotedString extracts a string value, tolerating the value having been
// lexed either as a bare symbol or a quoted string (both become a Symbol).
func getQuotedString(s kicadsexp.Sexp, index int) (string, error) {
	return getString(s, index)
}

// nmFromMM rounds a millimeter value (as it appears literally in the file)
// to the nearest nanometer, the engine's internal unit.
func nmFromMM(mm float64) int64 {
	if mm >= 0 {
		return int64(mm*1e6 + 0.5)
	}
	return int64(mm*1e6 - 0.5)
}

// getNM reads a coordinate field (stored in the file as millimeters) and
// returns it in nanometers.
func getNM(s kicadsexp.Sexp, index int) (int64, error) {
	mm, err := getFloat(s, index)
	if err != nil {
		return 0, err
	}
	return nmFromMM(mm), nil
}

// getAngle reads an angle field stored in degrees and returns tenths of a degree.
func getAngle(s kicadsexp.Sexp, index int) (Angle, error) {
	deg, err := getFloat(s, index)
	if err != nil {
		return 0, err
	}
	return Angle(deg * 10.0), nil
}

func getNodeName(s kicadsexp.Sexp) (string, error) {
	if s == nil || s.IsLeaf() {
		return "", fmt.Errorf("expected list")
	}
	return getString(s, 0)
}

func hasSymbol(s kicadsexp.Sexp, symbol string) bool {
	for _, item := range sexpToSlice(s) {
		if sym, ok := item.(kicadsexp.Symbol); ok && sym.Value == symbol {
			return true
		}
	}
	return false
}
