package assert

import (
	"fmt"
	"sort"
	"strings"
)

// Fields the contextual key/values printed next to a failed assertion
type Fields map[string]interface{}

func (f Fields) String() string {
	if len(f) == 0 {
		return ""
	}
	var parts []string
	for k, v := range f {
		parts = append(parts, fmt.Sprintf("%v:%v", k, v))
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}
