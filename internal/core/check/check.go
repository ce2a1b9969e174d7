// Package check resolves dice totals against difficulty thresholds.
package check

// Result is the outcome of a difficulty check. Margin is positive on
// success and negative on failure.
type Result struct {
	Success bool
	Margin  int
}

// Against compares a roll total to a difficulty threshold. Totals equal
// to the difficulty succeed.
func Against(total, difficulty int) Result {
	return Result{
		Success: total >= difficulty,
		Margin:  total - difficulty,
	}
}
