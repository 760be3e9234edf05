package pipeline

import (
	"fmt"
	"io"
	"strings"
)

const summaryRule = 50

// Print writes the FLOW SUMMARY block.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (s *Summary) Print(w io.Writer) {
	rule := strings.Repeat("=", summaryRule)
	fmt.Fprintf(w, "\n%s\n", rule)
	fmt.Fprintln(w, "FLOW SUMMARY:")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "User: %s\n", orNA(s.UserName))
	fmt.Fprintf(w, "Search Term: %s\n", orNA(s.SearchTerm))
	fmt.Fprintf(w, "Location: %s\n", orNA(s.Location))
	if s.JobListingsOK {
		fmt.Fprintf(w, "Job Listings: %d\n", s.JobCount)
	} else {
		fmt.Fprintln(w, "Job Listings: unavailable")
	}
	fmt.Fprintf(w, "Resume Output: %s\n", orNA(s.ResumePath))
	fmt.Fprintln(w, rule)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
