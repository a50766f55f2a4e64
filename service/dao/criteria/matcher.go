package criteria

import (
	"github.com/promptops/steward/service/dao"
)

// MatchString reports whether a string attribute satisfies the named
// parameter. Records match when the parameter is absent, equals the value, or
// lists the value among accepted ones.
func MatchString(name, value string, parameters []*dao.Parameter) bool {
	for _, parameter := range parameters {
		if parameter == nil || parameter.Name != name {
			continue
		}
		switch actual := parameter.Value.(type) {
		case string:
			return value == actual
		case []string:
			for _, candidate := range actual {
				if value == candidate {
					return true
				}
			}
			return false
		}
	}
	return true
}

// MatchBool reports whether a bool attribute satisfies the named parameter.
func MatchBool(name string, value bool, parameters []*dao.Parameter) bool {
	for _, parameter := range parameters {
		if parameter == nil || parameter.Name != name {
			continue
		}
		if actual, ok := parameter.Value.(bool); ok {
			return value == actual
		}
	}
	return true
}
