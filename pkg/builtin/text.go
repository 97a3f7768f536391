package builtin

import "strings"

// Upper, Lower, Trim, Split, Join, Contains, StartsWith, EndsWith are
// the string builtins of this design's supplemented built-ins list,
// grounded on apoc/text's string-manipulation functions.

func Upper(s string) string { return strings.ToUpper(s) }
func Lower(s string) string { return strings.ToLower(s) }
func Trim(s string) string  { return strings.TrimSpace(s) }

func Split(s, sep string) []string {
	if sep == "" {
		return []string{s}
	}
	return strings.Split(s, sep)
}

func Join(parts []string, sep string) string { return strings.Join(parts, sep) }

func Contains(s, substr string) bool    { return strings.Contains(s, substr) }
func StartsWith(s, prefix string) bool  { return strings.HasPrefix(s, prefix) }
func EndsWith(s, suffix string) bool    { return strings.HasSuffix(s, suffix) }
