package types

// JobPosting is a single listing returned by a job board
type JobPosting struct {
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	JobURL      string   `json:"job_url"`
	Description string   `json:"description"`
	SalaryMin   *float64 `json:"salary_min,omitempty"`
	SalaryMax   *float64 `json:"salary_max,omitempty"`
	DatePosted  string   `json:"date_posted"`
	Site        string   `json:"site"`
}
