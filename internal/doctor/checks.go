// Package doctor runs diagnostic checks against the config and the glftpd
// install glspy reads from.
package doctor

import (
	"fmt"
	"sync"

	"github.com/glftpd/glspy/internal/util"
)

// CheckStatus represents the result status of a check.
type CheckStatus int

const (
	StatusPass CheckStatus = iota
	StatusWarn
	StatusFail
)

// String returns a human-readable status string.
func (s CheckStatus) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

// MarshalText renders the status by name in JSON reports.
func (s CheckStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Check categories, in report order.
const (
	CategoryConfig = "CONFIG"
	CategorySite   = "SITE"
	CategoryTable  = "ONLINE TABLE"
	CategoryGeoIP  = "GEOIP"
)

// Categories lists the categories in the order reports show them.
var Categories = []string{CategoryConfig, CategorySite, CategoryTable, CategoryGeoIP}

// CheckResult contains the outcome of running a check.
type CheckResult struct {
	Name       string      `json:"name"`
	Status     CheckStatus `json:"status"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
	Fixable    bool        `json:"fixable,omitempty"` // Whether --fix can address this
}

// Check defines the interface for diagnostic checks.
type Check interface {
	// Name returns the check's identifier.
	Name() string

	// Category returns one of the Category constants.
	Category() string

	// Run executes the check and returns the result.
	Run() CheckResult

	// Fix attempts to automatically fix the issue (if supported).
	// Returns nil if fix was successful or not applicable.
	Fix() error
}

// RunAllParallel executes all checks in parallel. Results keep the order of
// checks.
func RunAllParallel(checks []Check) []CheckResult {
	results := make([]CheckResult, len(checks))
	var wg sync.WaitGroup

	for i, check := range checks {
		wg.Add(1)
		go func(idx int, c Check) {
			defer wg.Done()
			results[idx] = c.Run()
		}(i, check)
	}

	wg.Wait()
	return results
}

// FixAll runs Fix for every fixable issue and re-runs the fixed checks.
func FixAll(checks []Check, results []CheckResult) []CheckResult {
	for i, result := range results {
		if !result.Fixable || result.Status == StatusPass {
			continue
		}
		if err := checks[i].Fix(); err == nil {
			results[i] = checks[i].Run()
		}
	}
	return results
}

// CategoryResults holds the results of one category.
type CategoryResults struct {
	Name    string        `json:"name"`
	Results []CheckResult `json:"results"`
}

// GroupResults pairs checks with their results by category, in Categories
// order. Unknown categories follow in first-seen order.
func GroupResults(checks []Check, results []CheckResult) []CategoryResults {
	grouped := make(map[string][]CheckResult)
	var extra []string
	for i, check := range checks {
		cat := check.Category()
		if _, seen := grouped[cat]; !seen && !known(cat) {
			extra = append(extra, cat)
		}
		grouped[cat] = append(grouped[cat], results[i])
	}

	var out []CategoryResults
	for _, cat := range append(append([]string{}, Categories...), extra...) {
		if rs, ok := grouped[cat]; ok {
			out = append(out, CategoryResults{Name: cat, Results: rs})
		}
	}
	return out
}

func known(cat string) bool {
	for _, c := range Categories {
		if c == cat {
			return true
		}
	}
	return false
}

// CountByStatus counts results by status.
func CountByStatus(results []CheckResult) map[CheckStatus]int {
	counts := make(map[CheckStatus]int)
	for _, r := range results {
		counts[r.Status]++
	}
	return counts
}

// HasFailures returns true if any result has a fail status.
func HasFailures(results []CheckResult) bool {
	for _, r := range results {
		if r.Status == StatusFail {
			return true
		}
	}
	return false
}

// HasIssues returns true if any result has a fail or warn status.
func HasIssues(results []CheckResult) bool {
	for _, r := range results {
		if r.Status == StatusFail || r.Status == StatusWarn {
			return true
		}
	}
	return false
}

// FixableCount returns the number of issues that can be fixed automatically.
func FixableCount(results []CheckResult) int {
	count := 0
	for _, r := range results {
		if r.Fixable && (r.Status == StatusFail || r.Status == StatusWarn) {
			count++
		}
	}
	return count
}

// Summary returns a summary string of the check results.
func Summary(results []CheckResult) string {
	counts := CountByStatus(results)
	total := counts[StatusWarn] + counts[StatusFail]
	if total == 0 {
		return "Everything looks good"
	}
	return fmt.Sprintf("%d %s found", total, util.Pluralize(total, "issue", "issues"))
}

func pass(name, msg string) CheckResult {
	return CheckResult{Name: name, Status: StatusPass, Message: msg}
}

func warn(name, msg, suggestion string) CheckResult {
	return CheckResult{Name: name, Status: StatusWarn, Message: msg, Suggestion: suggestion}
}

func fail(name, msg, suggestion string) CheckResult {
	return CheckResult{Name: name, Status: StatusFail, Message: msg, Suggestion: suggestion}
}
