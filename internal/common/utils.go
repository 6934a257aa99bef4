package common

import (
	"reflect"
	"strings"
	"unicode"
)

// IsStructPtr checks if the provided value is a pointer to a struct.
func IsStructPtr(v any) bool {
	t := reflect.TypeOf(v)
	return t != nil && t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct
}

// Fold converts an exported Go field name to the snake_case form used for
// command-line destinations, e.g. "OutputFile" -> "output_file" and
// "HTTPPort" -> "http_port". Already-folded names pass through unchanged.
func Fold(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			// Word boundary: previous rune is lower, or this upper starts the
			// last word of an acronym run (next rune is lower).
			if i > 0 {
				prevLower := unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if prevLower || (unicode.IsUpper(runes[i-1]) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FieldByDest looks up the exported struct field whose folded name matches the
// given destination. The destination may be given either in folded form
// ("output_file") or as the field name itself ("OutputFile").
func FieldByDest(t reflect.Type, dest string) (reflect.StructField, bool) {
	folded := Fold(dest)
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if f.Name == dest || Fold(f.Name) == folded {
			return f, true
		}
	}
	return reflect.StructField{}, false
}

// ClosestMatch returns the candidate with the smallest edit distance to target,
// or empty string if none are within a reasonable threshold.
func ClosestMatch(target string, candidates []string) string {
	if target == "" || len(candidates) == 0 {
		return ""
	}
	low := strings.ToLower(target)
	// Prefer prefix matches (case-insensitive)
	for _, c := range candidates {
		if strings.HasPrefix(strings.ToLower(c), low) {
			return c
		}
	}

	best := ""
	bestDist := -1
	for _, c := range candidates {
		lc := strings.ToLower(c)
		// Quick length check to avoid large distances
		if abs(len(lc)-len(low)) > 3 {
			continue
		}
		// Treat single transposition as distance 1
		if isTransposition(low, lc) {
			return c
		}
		d := levenshtein(low, lc)
		if bestDist == -1 || d < bestDist {
			bestDist = d
			best = c
		}
	}
	// Only suggest if distance is small (adaptive threshold)
	if bestDist >= 0 && bestDist <= max(2, len(low)/3) {
		return best
	}
	return ""
}

// isTransposition checks for one-character transposition (Damerau case)
func isTransposition(a, b string) bool {
	if len(a) != len(b) || len(a) < 2 {
		return false
	}
	var diff []int
	for i := 0; i < len(a); i++ {
		if a[i] != b[i] {
			diff = append(diff, i)
			if len(diff) > 2 {
				return false
			}
		}
	}
	if len(diff) != 2 {
		return false
	}
	return a[diff[0]] == b[diff[1]] && a[diff[1]] == b[diff[0]]
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

// levenshtein computes the Levenshtein edit distance between a and b.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	la := len(a)
	lb := len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}
	// Two rolling rows are enough for the distance.
	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr[0] = i
		ai := a[i-1]
		for j := 1; j <= lb; j++ {
			cost := 0
			if ai != b[j-1] {
				cost = 1
			}
			d := prev[j] + 1
			if ins := curr[j-1] + 1; ins < d {
				d = ins
			}
			if sub := prev[j-1] + cost; sub < d {
				d = sub
			}
			curr[j] = d
		}
		copy(prev, curr)
	}
	return prev[lb]
}
