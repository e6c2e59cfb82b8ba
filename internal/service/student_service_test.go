package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placement-hub/portal/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func TestParseSkills(t *testing.T) {
	assert.Equal(t, []string{"Go", "React", "Problem Solving"}, ParseSkills(" Go, React ,, Problem Solving ,"))
	assert.Nil(t, ParseSkills("  ,  "))
}

func TestAnalyzeSkills(t *testing.T) {
	report := AnalyzeSkills([]string{"go", "REACT", "Cooking", "problem solving"})

	assert.Equal(t, []string{"Go", "React", "Problem solving"}, report.Matched)
	assert.NotContains(t, report.Gap, "Go")
	assert.NotContains(t, report.Gap, "React")
	assert.Contains(t, report.Gap, "Node.js")
	assert.Contains(t, report.Gap, "Ci/cd", "display form capitalises only the first letter")
	assert.Contains(t, report.Gap, "Spring boot")
	assert.NotContains(t, report.Gap, "CI/CD")
	assert.Len(t, report.Gap, len(TechnicalSkills)+len(SoftSkills)-3)
	assert.Equal(t, "Python", report.Gap[1], "gap keeps in-demand order")

	assert.Len(t, report.Preview, GapPreviewSize)
	assert.Equal(t, len(report.Gap)-GapPreviewSize, report.Overflow)
}

func TestAnalyzeSkills_SmallGapHasNoOverflow(t *testing.T) {
	all := append(append([]string{}, TechnicalSkills...), SoftSkills...)
	report := AnalyzeSkills(all[3:])

	assert.Equal(t, []string{"React", "Node.js", "Python"}, report.Gap)
	assert.Equal(t, report.Gap, report.Preview)
	assert.Zero(t, report.Overflow)
}

func TestBuildResume(t *testing.T) {
	user := domain.UserIdentity{ID: "u1", Email: "s@example.com"}

	t.Run("incomplete profile", func(t *testing.T) {
		got := BuildResume(user, &domain.Student{ID: "u1", FullName: "A", CollegeName: "X"})
		assert.False(t, got.Complete)
		assert.Empty(t, got.Education)
	})

	t.Run("fallbacks", func(t *testing.T) {
		got := BuildResume(user, &domain.Student{ID: "u1", FullName: "A", Mobile: "1", CollegeName: "X"})
		require.True(t, got.Complete)
		assert.Equal(t, Education{Degree: "Not specified", Institution: "X", Year: "Not specified", Score: "Not specified"}, got.Education[0])
		assert.Equal(t, "s@example.com", got.Email)
	})

	t.Run("full education line", func(t *testing.T) {
		got := BuildResume(user, &domain.Student{
			ID: "u1", FullName: "A", Mobile: "1", CollegeName: "X",
			Course: ptr("B.Tech CSE"), YearOfStudy: ptr(3), CGPA: ptr(8.5),
			Skills: []string{"Go", "SQL"},
		})
		assert.Equal(t, Education{Degree: "B.Tech CSE", Institution: "X", Year: "3 Year", Score: "8.5 CGPA"}, got.Education[0])
		assert.Equal(t, "Go, SQL", got.Skills)
	})
}

func TestStudentService_SaveProfile(t *testing.T) {
	students := newMemStudents()
	svc := NewStudentService(students)

	saved, err := svc.SaveProfile(context.Background(), "u1", StudentProfileInput{
		FullName:    "Asha",
		Mobile:      "999",
		CollegeName: "X",
		Skills:      "Go, Docker",
		Course:      ptr("  "),
		GitHubURL:   ptr(" https://github.com/asha "),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Go", "Docker"}, saved.Skills)
	assert.Nil(t, saved.Course)
	assert.Equal(t, "https://github.com/asha", *saved.GitHubURL)
	assert.Equal(t, "Asha", students.rows["u1"].FullName)
}

func TestStudentService_SaveProfileValidation(t *testing.T) {
	svc := NewStudentService(newMemStudents())

	_, err := svc.SaveProfile(context.Background(), "u1", StudentProfileInput{YearOfStudy: ptr(9), CGPA: ptr(11.0)})

	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))
}

func TestStudentService_ProfileNotFound(t *testing.T) {
	svc := NewStudentService(newMemStudents())
	_, err := svc.Profile(context.Background(), "missing")
	assert.Equal(t, "NOT_FOUND", errCode(t, err))
}

func TestStudentService_SkillGapUsesProfileWhenBlank(t *testing.T) {
	students := newMemStudents()
	students.rows["u1"] = domain.Student{ID: "u1", Skills: []string{"Docker"}}
	svc := NewStudentService(students)

	report, err := svc.SkillGap(context.Background(), "u1", "   ")
	require.NoError(t, err)
	assert.Equal(t, []string{"Docker"}, report.Matched)

	_, err = svc.SkillGap(context.Background(), "nobody", "")
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))
}

func TestStudentService_ResumeWithoutRow(t *testing.T) {
	svc := NewStudentService(newMemStudents())
	got, err := svc.Resume(context.Background(), domain.UserIdentity{ID: "u1"})
	require.NoError(t, err)
	assert.False(t, got.Complete)
}

func TestStudentService_Dashboard(t *testing.T) {
	students := newMemStudents()
	students.rows["u1"] = domain.Student{ID: "u1", FullName: "A", Mobile: "1", CollegeName: "X", Skills: []string{"go", "aws", "cooking"}}
	svc := NewStudentService(students)

	dash, err := svc.Dashboard(context.Background(), domain.UserIdentity{ID: "u1"})
	require.NoError(t, err)
	assert.True(t, dash.ProfileComplete)
	assert.Equal(t, 2, dash.MatchedSkills)

	empty, err := svc.Dashboard(context.Background(), domain.UserIdentity{ID: "u2"})
	require.NoError(t, err)
	assert.Nil(t, empty.Profile)
	assert.False(t, empty.ProfileComplete)
}

func TestCollegeService_SearchScopedToCollege(t *testing.T) {
	colleges := newMemColleges()
	colleges.rows["c1"] = domain.College{ID: "c1", CollegeName: "IIT Madras"}
	students := newMemStudents()
	students.rows["s1"] = domain.Student{ID: "s1", FullName: "Asha Rao", CollegeName: "IIT Madras", Skills: []string{"Go"}}
	students.rows["s2"] = domain.Student{ID: "s2", FullName: "Ravi", CollegeName: "IIT Madras", Skills: []string{"Java"}}
	students.rows["s3"] = domain.Student{ID: "s3", FullName: "Asha Iyer", CollegeName: "NIT Trichy"}
	students.emails["s2"] = "ravi@example.com"
	svc := NewCollegeService(colleges, students)

	hits, err := svc.SearchStudents(context.Background(), "c1", " asha ", 0, -5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "s1", hits[0].ID)

	last := students.filters[len(students.filters)-1]
	assert.Equal(t, "asha", *last.SearchTerm)
	assert.Equal(t, defaultSearchLimit, last.Limit)
	assert.Zero(t, last.Offset)

	hits, err = svc.SearchStudents(context.Background(), "c1", "RAVI@", 1000, 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "s2", hits[0].ID)
	assert.Equal(t, maxSearchLimit, students.filters[len(students.filters)-1].Limit)

	hits, err = svc.SearchStudents(context.Background(), "c1", "", 0, 0)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
	assert.Nil(t, students.filters[len(students.filters)-1].SearchTerm)
}

func TestCollegeService_SearchWithoutCollegeRow(t *testing.T) {
	svc := NewCollegeService(newMemColleges(), newMemStudents())
	_, err := svc.SearchStudents(context.Background(), "ghost", "x", 0, 0)
	assert.Equal(t, "NOT_FOUND", errCode(t, err))
}
