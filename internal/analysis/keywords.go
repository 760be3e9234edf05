// Package analysis produces the skills-gap analysis that compares a profile
// with discovered job listings.
package analysis

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/jonathan/job-search/internal/types"
)

// MaxMissing caps how many missing keywords a report lists.
const MaxMissing = 10

// skillAliases maps common spellings to a canonical skill name.
var skillAliases = map[string]string{
	"golang":              "Go",
	"go lang":             "Go",
	"javascript":          "JavaScript",
	"js":                  "JavaScript",
	"typescript":          "TypeScript",
	"ts":                  "TypeScript",
	"k8s":                 "Kubernetes",
	"kubernetes":          "Kubernetes",
	"react.js":            "React",
	"reactjs":             "React",
	"vue.js":              "Vue",
	"vuejs":               "Vue",
	"node.js":             "Node.js",
	"nodejs":              "Node.js",
	"postgres":            "PostgreSQL",
	"postgresql":          "PostgreSQL",
	"ml":                  "Machine Learning",
	"machine learning":    "Machine Learning",
	"amazon web services": "AWS",
	"gcp":                 "Google Cloud",
	"google cloud":        "Google Cloud",
}

// vocabulary lists keywords worth flagging when listings ask for them and the
// profile does not mention them.
var vocabulary = []string{
	"Go", "Python", "Java", "JavaScript", "TypeScript", "Rust", "C++", "C#", "Ruby", "Scala", "Kotlin", "SQL",
	"React", "Vue", "Angular", "Node.js", "Django", "Flask", "Spring",
	"AWS", "Azure", "Google Cloud", "Docker", "Kubernetes", "Terraform", "CI/CD", "Linux",
	"PostgreSQL", "MySQL", "MongoDB", "Redis", "Kafka", "Spark", "Airflow", "Snowflake",
	"GraphQL", "REST", "gRPC", "Microservices",
	"Machine Learning", "Deep Learning", "TensorFlow", "PyTorch", "NLP", "LLM", "Pandas", "Tableau", "Statistics",
}

// SkillHit is a keyword and the number of listings that mention it.
type SkillHit struct {
	Skill    string `json:"skill"`
	Listings int    `json:"listings"`
}

// KeywordReport is the deterministic part of the analysis.
type KeywordReport struct {
	Listings int        `json:"listings"`
	Matching []SkillHit `json:"matching"`
	Missing  []SkillHit `json:"missing"`
	// Unused are profile skills no listing mentions.
	Unused []string `json:"unused"`
	// Score is the share of profile skills that appear in at least one listing.
	Score float64 `json:"score"`
}

// NormalizeSkill maps a skill to its canonical spelling.
func NormalizeSkill(skill string) string {
	s := strings.TrimSpace(skill)
	if canonical, ok := skillAliases[strings.ToLower(s)]; ok {
		return canonical
	}
	return s
}

// KeywordMatch counts how many listings mention each profile skill and which
// common keywords the listings ask for that the profile lacks.
func KeywordMatch(profile types.UserProfile, jobs []types.JobPosting) KeywordReport {
	report := KeywordReport{Listings: len(jobs), Matching: []SkillHit{}, Missing: []SkillHit{}, Unused: []string{}}

	texts := make([]string, len(jobs))
	for i, job := range jobs {
		texts[i] = strings.ToLower(job.Title + "\n" + job.Description)
	}

	have := make(map[string]bool)
	var skills []string
	for _, s := range profile.AllSkills() {
		canonical := NormalizeSkill(s)
		key := strings.ToLower(canonical)
		if have[key] {
			continue
		}
		have[key] = true
		skills = append(skills, canonical)
	}

	for _, skill := range skills {
		n := countListings(texts, skill)
		if n > 0 {
			report.Matching = append(report.Matching, SkillHit{Skill: skill, Listings: n})
		} else {
			report.Unused = append(report.Unused, skill)
		}
	}
	if len(skills) > 0 {
		report.Score = math.Round(float64(len(report.Matching))/float64(len(skills))*100) / 100
	}

	for _, kw := range vocabulary {
		if have[strings.ToLower(kw)] {
			continue
		}
		if n := countListings(texts, kw); n > 0 {
			report.Missing = append(report.Missing, SkillHit{Skill: kw, Listings: n})
		}
	}
	sortHits(report.Matching)
	sortHits(report.Missing)
	if len(report.Missing) > MaxMissing {
		report.Missing = report.Missing[:MaxMissing]
	}
	return report
}

func sortHits(hits []SkillHit) {
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Listings != hits[j].Listings {
			return hits[i].Listings > hits[j].Listings
		}
		return hits[i].Skill < hits[j].Skill
	})
}

// countListings counts texts mentioning skill or one of its aliases as a
// whole word.
func countListings(texts []string, skill string) int {
	patterns := []*regexp.Regexp{wordPattern(skill)}
	for alias, canonical := range skillAliases {
		if canonical == skill && !strings.EqualFold(alias, skill) {
			patterns = append(patterns, wordPattern(alias))
		}
	}
	n := 0
	for _, text := range texts {
		for _, re := range patterns {
			if re.MatchString(text) {
				n++
				break
			}
		}
	}
	return n
}

// wordPattern matches term where it is not part of a longer identifier.
// "+" and "#" count as word characters so "C" does not match "C++" or "C#".
func wordPattern(term string) *regexp.Regexp {
	quoted := regexp.QuoteMeta(strings.ToLower(term))
	return regexp.MustCompile(`(?:^|[^a-z0-9+#])` + quoted + `(?:[^a-z0-9+#]|$)`)
}
