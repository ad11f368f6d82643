package envutil

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

func ParseEnviron() map[string]string {
	mergedEnv := map[string]string{}

	for _, pair := range os.Environ() {
		splits := strings.SplitN(pair, "=", 2)
		key, value := splits[0], splits[1]
		mergedEnv[key] = value
	}

	return mergedEnv
}

// Merge overlays the given variables on the process environment and
// returns the result in the KEY=VALUE form accepted by exec.Cmd.Env.
func Merge(vars map[string]string) []string {
	merged := ParseEnviron()
	for key, value := range vars {
		merged[key] = value
	}

	pairs := make([]string, 0, len(merged))
	for key, value := range merged {
		pairs = append(pairs, fmt.Sprintf("%s=%s", key, value))
	}
	sort.Strings(pairs)

	return pairs
}
