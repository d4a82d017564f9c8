package features

import (
	"fmt"
	"strings"
)

// Family is one acoustic feature family.
type Family struct {
	// Name is the display name used in logs and ledger lines.
	Name string
	// Dir is the output subdirectory under the output root.
	Dir string
}

var (
	Prosody      = Family{Name: "Prosody", Dir: "prosody"}
	Articulation = Family{Name: "Articulation", Dir: "articulation"}
	Phonation    = Family{Name: "Phonation", Dir: "phonation"}
	Glottal      = Family{Name: "Glottal", Dir: "glottal"}
)

// All returns the known families in their declared processing order.
func All() []Family {
	return []Family{Prosody, Articulation, Phonation, Glottal}
}

// Lookup resolves a family by directory key or display name, case-insensitively.
func Lookup(key string) (Family, bool) {
	key = strings.TrimSpace(key)
	for _, family := range All() {
		if strings.EqualFold(family.Dir, key) || strings.EqualFold(family.Name, key) {
			return family, true
		}
	}
	return Family{}, false
}

// Select resolves keys into families. Output follows the declared order, not the
// order of keys, and duplicates are dropped. Empty keys selects every family.
func Select(keys []string) ([]Family, error) {
	if len(keys) == 0 {
		return All(), nil
	}
	wanted := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if strings.TrimSpace(key) == "" {
			continue
		}
		family, ok := Lookup(key)
		if !ok {
			return nil, fmt.Errorf("unknown feature family %q", key)
		}
		wanted[family.Dir] = struct{}{}
	}
	if len(wanted) == 0 {
		return All(), nil
	}
	selected := make([]Family, 0, len(wanted))
	for _, family := range All() {
		if _, ok := wanted[family.Dir]; ok {
			selected = append(selected, family)
		}
	}
	return selected, nil
}
