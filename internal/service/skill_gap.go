package service

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Skills currently in demand with recruiters.
var (
	TechnicalSkills = []string{
		"React", "Node.js", "Python", "Data Science", "Machine Learning",
		"AWS", "Azure", "Docker", "Kubernetes", "TypeScript", "Go",
		"Flutter", "Java", "Spring Boot", "DevOps", "CI/CD", "Firebase",
	}
	SoftSkills = []string{
		"Communication", "Teamwork", "Problem Solving", "Critical Thinking",
		"Adaptability", "Leadership", "Time Management", "Emotional Intelligence",
	}
)

// GapPreviewSize is how many missing skills the report lists before summarizing the rest.
const GapPreviewSize = 15

// SkillGapReport compares a student's skills with the in-demand list.
type SkillGapReport struct {
	Matched []string `json:"matched"`
	Gap     []string `json:"gap"`
	// Preview is the head of Gap; Overflow counts the entries left out of it.
	Preview  []string `json:"preview"`
	Overflow int      `json:"overflow"`
}

// ParseSkills splits a comma separated list, trimming each entry and dropping empties.
func ParseSkills(raw string) []string {
	var skills []string
	for _, part := range strings.Split(raw, ",") {
		if skill := strings.TrimSpace(part); skill != "" {
			skills = append(skills, skill)
		}
	}
	return skills
}

// AnalyzeSkills matches case-insensitively. Matched keeps the order of the student's list;
// Gap keeps the order of the in-demand list.
func AnalyzeSkills(skills []string) SkillGapReport {
	demand := make([]string, 0, len(TechnicalSkills)+len(SoftSkills))
	inDemand := make(map[string]struct{}, cap(demand))
	for _, skill := range append(append([]string{}, TechnicalSkills...), SoftSkills...) {
		lower := strings.ToLower(skill)
		demand = append(demand, lower)
		inDemand[lower] = struct{}{}
	}

	held := make(map[string]struct{}, len(skills))
	report := SkillGapReport{Matched: []string{}, Gap: []string{}}
	for _, skill := range skills {
		lower := strings.ToLower(strings.TrimSpace(skill))
		held[lower] = struct{}{}
		if _, ok := inDemand[lower]; ok {
			report.Matched = append(report.Matched, displaySkill(lower))
		}
	}
	for _, skill := range demand {
		if _, ok := held[skill]; !ok {
			report.Gap = append(report.Gap, displaySkill(skill))
		}
	}

	report.Preview = report.Gap
	if len(report.Gap) > GapPreviewSize {
		report.Preview = report.Gap[:GapPreviewSize]
		report.Overflow = len(report.Gap) - GapPreviewSize
	}
	return report
}

// displaySkill upper-cases the first letter only, so "node.js" reads "Node.js".
func displaySkill(skill string) string {
	r, size := utf8.DecodeRuneInString(skill)
	if r == utf8.RuneError {
		return skill
	}
	return string(unicode.ToUpper(r)) + skill[size:]
}
