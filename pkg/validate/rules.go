package validate

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// ─── Rule dispatcher ─────────────────────────────────────────────────────────

// applyRule runs one rule against a value that already passed its kind check.
// Size rules compare numerically for number kinds and by rune count otherwise.
func applyRule(rule, field string, kind Kind, v any) string {
	key, param, _ := strings.Cut(strings.TrimSpace(rule), "=")
	if key == "" {
		return ""
	}

	raw := fmt.Sprintf("%v", v)
	if s, ok := v.(string); ok {
		raw = strings.TrimSpace(s)
	}
	n, _ := toNumber(v)
	numeric := kind == Number || kind == Integer

	switch key {
	// ── Format ────────────────────────────────────────────────────────
	case "email":
		if !emailRE.MatchString(raw) {
			return fmt.Sprintf("The %s must be a valid email address.", field)
		}
	case "url":
		u, err := url.ParseRequestURI(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Sprintf("The %s must be a valid URL.", field)
		}
	case "uuid":
		if !uuidRE.MatchString(raw) {
			return fmt.Sprintf("The %s must be a valid UUID.", field)
		}

	// ── Character class ───────────────────────────────────────────────
	case "alpha":
		for _, c := range raw {
			if !unicode.IsLetter(c) {
				return fmt.Sprintf("The %s field must contain only letters.", field)
			}
		}
	case "alpha_num":
		for _, c := range raw {
			if !unicode.IsLetter(c) && !unicode.IsDigit(c) {
				return fmt.Sprintf("The %s field must contain only letters and numbers.", field)
			}
		}
	case "alpha_dash":
		for _, c := range raw {
			if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '-' && c != '_' {
				return fmt.Sprintf("The %s field may only contain letters, numbers, dashes, and underscores.", field)
			}
		}

	// ── Size / range ──────────────────────────────────────────────────
	case "min":
		limit := mustParseFloat(param)
		if numeric {
			if n < limit {
				return fmt.Sprintf("The %s must be at least %s.", field, param)
			}
		} else if float64(len([]rune(raw))) < limit {
			return fmt.Sprintf("The %s must be at least %s characters.", field, param)
		}
	case "max":
		limit := mustParseFloat(param)
		if numeric {
			if n > limit {
				return fmt.Sprintf("The %s must not be greater than %s.", field, param)
			}
		} else if float64(len([]rune(raw))) > limit {
			return fmt.Sprintf("The %s must not exceed %s characters.", field, param)
		}
	case "size":
		if float64(len([]rune(raw))) != mustParseFloat(param) {
			return fmt.Sprintf("The %s must be exactly %s characters.", field, param)
		}
	case "gt":
		if n <= mustParseFloat(param) {
			return fmt.Sprintf("The %s must be greater than %s.", field, param)
		}
	case "gte":
		if n < mustParseFloat(param) {
			return fmt.Sprintf("The %s must be greater than or equal to %s.", field, param)
		}
	case "lt":
		if n >= mustParseFloat(param) {
			return fmt.Sprintf("The %s must be less than %s.", field, param)
		}
	case "lte":
		if n > mustParseFloat(param) {
			return fmt.Sprintf("The %s must be less than or equal to %s.", field, param)
		}
	case "between":
		parts := strings.SplitN(param, ",", 2)
		if len(parts) != 2 {
			return ""
		}
		lo, hi := mustParseFloat(parts[0]), mustParseFloat(parts[1])
		if numeric {
			if n < lo || n > hi {
				return fmt.Sprintf("The %s must be between %s and %s.", field, parts[0], parts[1])
			}
		} else {
			l := float64(len([]rune(raw)))
			if l < lo || l > hi {
				return fmt.Sprintf("The %s must be between %s and %s characters.", field, parts[0], parts[1])
			}
		}

	// ── Inclusion / exclusion ─────────────────────────────────────────
	case "in":
		for _, a := range strings.Split(param, ",") {
			if raw == strings.TrimSpace(a) {
				return ""
			}
		}
		return fmt.Sprintf("The selected %s is invalid.", field)
	case "not_in":
		for _, f := range strings.Split(param, ",") {
			if raw == strings.TrimSpace(f) {
				return fmt.Sprintf("The selected %s is invalid.", field)
			}
		}

	// ── Pattern ───────────────────────────────────────────────────────
	case "regex":
		re, err := regexp.Compile(param)
		if err != nil {
			return fmt.Sprintf("The %s has an invalid validation pattern.", field)
		}
		if !re.MatchString(raw) {
			return fmt.Sprintf("The %s format is invalid.", field)
		}
	}

	return ""
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

var (
	emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	uuidRE  = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
)

func mustParseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

// splitRules splits a rule list by comma while keeping multi-value
// parameters (in=, not_in=, between=) intact.
// e.g. "in=admin,user,mod,max=100" → ["in=admin,user,mod","max=100"]
func splitRules(rules string) []string {
	if strings.TrimSpace(rules) == "" {
		return nil
	}

	var out []string
	var current strings.Builder
	inParam := false

	multiValuePrefixes := []string{"in=", "not_in=", "between="}

	for i := 0; i < len(rules); i++ {
		ch := rules[i]
		if ch != ',' {
			current.WriteByte(ch)
			if !inParam {
				for _, pfx := range multiValuePrefixes {
					if strings.HasSuffix(current.String(), pfx) {
						inParam = true
						break
					}
				}
			}
			continue
		}

		if inParam && !looksLikeNewRule(rules[i+1:]) {
			current.WriteByte(ch)
			continue
		}
		out = append(out, current.String())
		current.Reset()
		inParam = false
	}
	if current.Len() > 0 {
		out = append(out, current.String())
	}
	return out
}

// looksLikeNewRule reports whether s starts with a known rule keyword.
func looksLikeNewRule(s string) bool {
	known := []string{
		"email", "url", "uuid", "alpha", "alpha_num", "alpha_dash",
		"regex=", "min=", "max=", "size=", "gt=", "gte=", "lt=", "lte=",
		"in=", "not_in=", "between=",
	}
	for _, k := range known {
		if strings.HasPrefix(s, k) {
			return true
		}
	}
	return false
}
