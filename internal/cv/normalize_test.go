package cv

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCV = `JANE DOE
Software Engineer | jane@example.com

TECHNICAL SKILLS
Languages: C++, Python

EXPERIENCE
Backend Intern, Acme Corp | Jan 2023 - Jul 2023`

func TestNormalizeEndToEnd(t *testing.T) {
	t.Parallel()

	id := "E-1"
	draft := &EmployeeRecord{
		FullName:       "Jane Doe",
		Email:          "jane@example.com",
		EmployeeID:     &id,
		Designation:    "Backend Intern",
		AllSkills:      []Skill{{Name: "C++", Mentions: 0}, {Name: "Python", Mentions: 0}},
		PrimarySkill:   "model guess",
		WorkExperience: []WorkExperience{job("2023-01-01", "2023-07-01")},
		Education:      "B.Tech",
	}

	n := NewNormalizer(WithClock(func() time.Time { return fixedNow }))
	final, err := n.Normalize(sampleCV, draft)
	require.NoError(t, err)

	require.Len(t, final.AllSkills, 2)
	assert.Equal(t, 1, final.AllSkills[0].Mentions)
	assert.Equal(t, 1, final.AllSkills[1].Mentions)
	assert.InDelta(t, 0.5, final.ExperienceYears, 0.001)
	assert.Equal(t, DomainLanguages, final.PrimarySkill)
	assert.Equal(t, "", final.SecondarySkill)

	assert.Equal(t, "Jane Doe", final.FullName)
	assert.Equal(t, "Backend Intern", final.Designation)
	assert.Equal(t, "B.Tech", final.Education)
	assert.Nil(t, final.EmployeeID)
	assert.Nil(t, final.OfficeLocation)
	assert.Equal(t, draft.WorkExperience, final.WorkExperience)
}

func TestNormalizeLeavesDraftUntouched(t *testing.T) {
	t.Parallel()

	draft := &EmployeeRecord{
		FullName:       "A",
		AllSkills:      []Skill{{Name: "Go", Mentions: 9}},
		WorkExperience: []WorkExperience{job("2020", "2021")},
	}

	final, err := NewNormalizer().Normalize("Go and Go", draft)
	require.NoError(t, err)

	assert.Equal(t, 9, draft.AllSkills[0].Mentions)
	assert.Equal(t, 0.0, draft.ExperienceYears)
	assert.Equal(t, 2, final.AllSkills[0].Mentions)

	final.WorkExperience[0].Company = "changed"
	assert.Equal(t, "Acme", draft.WorkExperience[0].Company)
}

func TestNormalizeRejectsInvalidDraft(t *testing.T) {
	t.Parallel()

	n := NewNormalizer()

	_, err := n.Normalize("text", nil)
	assert.ErrorIs(t, err, ErrInvalidDraft)

	_, err = n.Normalize("text", &EmployeeRecord{AllSkills: []Skill{{Name: ""}}})
	assert.ErrorIs(t, err, ErrInvalidDraft)
}

func TestNormalizeOutputJSON(t *testing.T) {
	t.Parallel()

	final, err := NewNormalizer().Normalize("", &EmployeeRecord{FullName: "A"})
	require.NoError(t, err)

	data, err := json.Marshal(final)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, []any{}, got["allSkills"])
	assert.Equal(t, []any{}, got["workExperience"])
	assert.Nil(t, got["employeeId"])
	assert.Contains(t, got, "officeLocation")
	assert.Equal(t, "", got["primarySkill"])
	assert.Equal(t, 0.0, got["experienceYears"])
}
