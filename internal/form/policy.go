package form

import "fmt"

// Policy decides what happens to submissions made while a request is pending
type Policy string

const (
	// PolicyConcurrent sends every submission, the page shows whichever answer completes last
	PolicyConcurrent Policy = "concurrent"
	// PolicySingle ignores submissions while a request is pending
	PolicySingle Policy = "single"
	// PolicyLatest sends every submission but shows only the answer to the newest one
	PolicyLatest Policy = "latest"
)

// ParsePolicy parses a config value, empty means PolicyConcurrent
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case "":
		return PolicyConcurrent, nil
	case PolicyConcurrent, PolicySingle, PolicyLatest:
		return p, nil
	}
	return "", fmt.Errorf("unknown policy '%s'", s)
}
