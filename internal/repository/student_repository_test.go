package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestStudentSearchQuery_TermIsLiteral(t *testing.T) {
	cases := []string{"_", "50%", `a\b`}
	for _, term := range cases {
		t.Run(term, func(t *testing.T) {
			query, args := studentSearchQuery(StudentFilter{SearchTerm: strPtr(" " + term + " ")})

			require.Len(t, args, 3)
			assert.Equal(t, term, args[0], "term is passed as-is, without wildcards")
			assert.NotContains(t, query, "LIKE")
			assert.Contains(t, query, "strpos(lower(s.full_name), $1) > 0")
			assert.Contains(t, query, "strpos(lower(p.email), $1) > 0")
		})
	}
}

func TestStudentSearchQuery_MatchesSkillsOneByOne(t *testing.T) {
	query, _ := studentSearchQuery(StudentFilter{SearchTerm: strPtr("java,py")})

	assert.Contains(t, query, "EXISTS (SELECT 1 FROM unnest(s.skills) AS sk WHERE strpos(lower(sk), $1) > 0)")
	assert.NotContains(t, query, "array_to_string")
}

func TestStudentSearchQuery_Placeholders(t *testing.T) {
	query, args := studentSearchQuery(StudentFilter{
		CollegeName: strPtr(" IIT Madras "),
		SearchTerm:  strPtr("Asha"),
		Limit:       10,
		Offset:      -3,
	})

	assert.Equal(t, []any{"iit madras", "asha", 10, 0}, args)
	assert.Contains(t, query, "lower(s.college_name)=$1")
	assert.Contains(t, query, "strpos(lower(sk), $2)")
	assert.Contains(t, query, "LIMIT $3 OFFSET $4")

	_, args = studentSearchQuery(StudentFilter{SearchTerm: strPtr("   ")})
	assert.Equal(t, []any{50, 0}, args)
}
