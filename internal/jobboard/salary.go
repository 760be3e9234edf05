package jobboard

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var amountRE = regexp.MustCompile(`\$\s?([0-9][0-9,]*(?:\.[0-9]+)?)\s?([kK])?`)

// ParseSalary extracts a min/max range from text such as
// "$120,000 - $150,000 a year" or "$60K/yr". A single amount sets both ends.
func ParseSalary(text string) (lo, hi *float64) {
	matches := amountRE.FindAllStringSubmatch(text, 2)
	var values []float64
	for _, m := range matches {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil {
			continue
		}
		if m[2] != "" {
			v *= 1000
		}
		values = append(values, v)
	}
	switch len(values) {
	case 0:
		return nil, nil
	case 1:
		return &values[0], &values[0]
	default:
		return &values[0], &values[1]
	}
}

var relativeRE = regexp.MustCompile(`(\d+)\+?\s*(minute|hour|day|week|month)s?`)

// RelativeDate turns "Posted 3 days ago" style text into a YYYY-MM-DD date.
// Text it cannot read is returned unchanged.
func RelativeDate(now time.Time, text string) string {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return ""
	}
	if strings.Contains(lower, "just posted") || strings.Contains(lower, "today") {
		return now.Format(time.DateOnly)
	}
	m := relativeRE.FindStringSubmatch(lower)
	if m == nil {
		return strings.TrimSpace(text)
	}
	n, _ := strconv.Atoi(m[1])
	var d time.Duration
	switch m[2] {
	case "minute":
		d = time.Duration(n) * time.Minute
	case "hour":
		d = time.Duration(n) * time.Hour
	case "day":
		d = time.Duration(n) * 24 * time.Hour
	case "week":
		d = time.Duration(n) * 7 * 24 * time.Hour
	case "month":
		d = time.Duration(n) * 30 * 24 * time.Hour
	}
	return now.Add(-d).Format(time.DateOnly)
}
