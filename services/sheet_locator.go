package services

import (
	"regexp"
	"strings"
)

// SheetRole names the part a sheet plays in a proposal workbook.
type SheetRole string

const (
	RolePricing    SheetRole = "pricing"
	RoleRespMatrix SheetRole = "responsibility_matrix"
)

// RoleRule describes how to recognize one role. Matching runs in order:
// exact patterns against the full normalized name, then "all required tokens
// present", then "any one token set fully present".
type RoleRule struct {
	ExactPatterns []*regexp.Regexp
	AllTokens     []string
	AnyTokenSets  [][]string
}

// LocatorConfig is immutable configuration for sheet location. Tests pass
// alternate keyword sets instead of patching globals.
type LocatorConfig struct {
	Roles map[SheetRole]RoleRule
}

// DefaultLocatorConfig covers the sheet names seen across captured client
// workbooks, including the historical "Margin Analysis" pricing tab.
func DefaultLocatorConfig() LocatorConfig {
	return LocatorConfig{
		Roles: map[SheetRole]RoleRule{
			RolePricing: {
				ExactPatterns: []*regexp.Regexp{
					regexp.MustCompile(`^margin analysis$`),
					regexp.MustCompile(`^margin analysis cad$`),
					regexp.MustCompile(`^pricing$`),
				},
				AllTokens: []string{"margin", "analysis"},
				AnyTokenSets: [][]string{
					{"pricing"},
					{"cost", "summary"},
					{"sell", "sheet"},
				},
			},
			RoleRespMatrix: {
				ExactPatterns: []*regexp.Regexp{
					regexp.MustCompile(`^responsibility matrix$`),
				},
				AllTokens: []string{"responsibility", "matrix"},
				AnyTokenSets: [][]string{
					{"resp", "matrix"},
					{"scope", "of", "work"},
					{"sow"},
				},
			},
		},
	}
}

// normalizeSheetName lowercases a sheet name and collapses whitespace,
// dashes, underscores and parentheses into single spaces, so that
// "Margin-Analysis" and "Margin Analysis (CAD)" compare equal token-wise.
func normalizeSheetName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// sheetTokens returns the normalized token set of a sheet name.
func sheetTokens(name string) map[string]bool {
	tokens := make(map[string]bool)
	for _, t := range strings.Fields(normalizeSheetName(name)) {
		tokens[t] = true
	}
	return tokens
}

// LocateSheet returns the sheet name most likely to serve the requested
// role, or "" when nothing qualifies. Callers must handle absence.
func LocateSheet(sheetNames []string, role SheetRole, cfg LocatorConfig) string {
	rule, ok := cfg.Roles[role]
	if !ok {
		return ""
	}

	// Pass 1: exact regex patterns against the normalized full name.
	for _, name := range sheetNames {
		normalized := normalizeSheetName(name)
		for _, pat := range rule.ExactPatterns {
			if pat.MatchString(normalized) {
				return name
			}
		}
	}

	// Pass 2: all required keywords present as tokens.
	if len(rule.AllTokens) > 0 {
		for _, name := range sheetNames {
			if containsAllTokens(sheetTokens(name), rule.AllTokens) {
				return name
			}
		}
	}

	// Pass 3: any one keyword set fully present.
	for _, name := range sheetNames {
		tokens := sheetTokens(name)
		for _, set := range rule.AnyTokenSets {
			if containsAllTokens(tokens, set) {
				return name
			}
		}
	}

	return ""
}

func containsAllTokens(tokens map[string]bool, required []string) bool {
	if len(required) == 0 {
		return false
	}
	for _, t := range required {
		if !tokens[t] {
			return false
		}
	}
	return true
}
