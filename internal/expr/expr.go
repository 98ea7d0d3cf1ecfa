// Package expr expands ${name} and ${env.KEY} expressions in configuration
// values and command templates.
package expr

import (
	"os"
	"strings"
	"unicode"
)

const (
	openExpr  = "${"
	envPrefix = "env."
)

// Lookup resolves a variable name; ok=false leaves the expression untouched.
type Lookup func(name string) (string, bool)

// Env expands ${env.KEY} with the value of the environment variable KEY
// ("" if unset). Any other expression is kept literal.
func Env(value string) string {
	return Expand(value, nil)
}

// Expand replaces ${env.KEY} with environment values and ${name} with values
// returned by lookup. Unknown names, malformed keys and unterminated
// expressions are written through unchanged.
func Expand(value string, lookup Lookup) string {
	if !strings.Contains(value, openExpr) {
		return value
	}
	var b strings.Builder
	i := 0
	for {
		idx := strings.Index(value[i:], openExpr)
		if idx < 0 {
			b.WriteString(value[i:])
			break
		}
		b.WriteString(value[i : i+idx])
		startKey := i + idx + len(openExpr)
		endKey := strings.IndexByte(value[startKey:], '}')
		if endKey < 0 {
			b.WriteString(value[i+idx:])
			break
		}
		key := value[startKey : startKey+endKey]
		if !isValidKey(key) {
			// keep the opening literal and rescan right after it so nested
			// expressions still resolve
			b.WriteString(openExpr)
			i = startKey
			continue
		}
		replacement, ok := resolve(key, lookup)
		if !ok {
			b.WriteString(value[i+idx : startKey+endKey+1])
		} else {
			b.WriteString(replacement)
		}
		i = startKey + endKey + 1
	}
	return b.String()
}

func resolve(key string, lookup Lookup) (string, bool) {
	if strings.HasPrefix(key, envPrefix) {
		return os.Getenv(key[len(envPrefix):]), true
	}
	if lookup == nil {
		return "", false
	}
	return lookup(key)
}

func isValidKey(key string) bool {
	if strings.HasPrefix(key, envPrefix) {
		key = key[len(envPrefix):]
		// ${env.} is accepted and expands to ""
		if key == "" {
			return true
		}
	}
	if key == "" {
		return false
	}
	for _, r := range key {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			return false
		}
	}
	return true
}

// MapLookup adapts a map to Lookup.
func MapLookup(values map[string]string) Lookup {
	return func(name string) (string, bool) {
		v, ok := values[name]
		return v, ok
	}
}
