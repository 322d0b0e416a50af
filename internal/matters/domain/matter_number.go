package domain

import "fmt"

// CounterName returns the counters table key for matter numbering in a year,
// e.g. "matter_number_2025". Counters are additionally scoped by organization.
func CounterName(year int) string {
	return fmt.Sprintf("matter_number_%d", year)
}

// FormatMatterNumber renders a sequence value as a human-readable matter
// number, e.g. MAT-2025-001. The three digits are a minimum width, not a
// maximum: sequence 1000 becomes MAT-2025-1000, so numbers stay unique past
// 999 allocations in a year.
func FormatMatterNumber(year, sequence int) string {
	return fmt.Sprintf("MAT-%d-%03d", year, sequence)
}
