// Package stringutil converts dotted input names into the spellings used
// on the command line and in the environment.
package stringutil

import (
	"regexp"
	"strings"

	"github.com/huandu/xstrings"
)

var (
	digits           = regexp.MustCompile(`-([0-9]+)`)
	argumentReplacer = strings.NewReplacer(".", "-")
	envReplacer      = strings.NewReplacer("-", "_", ".", "_")
)

// ToArgumentName turns a name like "deploy.numReplicas" into the flag
// spelling "deploy-num-replicas".
func ToArgumentName(name string) string {
	n := strings.Trim(digits.ReplaceAllString(xstrings.ToKebabCase(name), "$1-"), "-")
	return argumentReplacer.Replace(n)
}

// ToEnvironmentName turns a name like "deploy.numReplicas" into the
// variable spelling "DEPLOY_NUM_REPLICAS".
func ToEnvironmentName(name string) string {
	n := strings.Trim(digits.ReplaceAllString(xstrings.ToKebabCase(name), "$1-"), "-")
	return strings.ToUpper(envReplacer.Replace(n))
}
