package criteria

import (
	"strings"

	"github.com/viant/mint/service/dao"
)

// Match reports whether every parameter matching name accepts value.
// Values compare case-insensitively; a []string parameter accepts any of its
// items. Parameters with other names are ignored.
func Match(name, value string, parameters []*dao.Parameter) bool {
	for _, parameter := range parameters {
		if parameter == nil || parameter.Name != name {
			continue
		}
		if !accepts(parameter.Value, value) {
			return false
		}
	}
	return true
}

func accepts(expected interface{}, value string) bool {
	switch actual := expected.(type) {
	case string:
		return actual == "" || strings.EqualFold(actual, value)
	case []string:
		if len(actual) == 0 {
			return true
		}
		for _, candidate := range actual {
			if strings.EqualFold(candidate, value) {
				return true
			}
		}
		return false
	}
	return true
}
