// Package cv turns a draft employee record extracted by a language model into
// a finalized record whose skill mention counts, total experience and skill
// domains are computed from the CV text rather than trusted from the model.
//
// Everything in this package is synchronous and free of I/O. The only shared
// state is the read-only skill domain table.
package cv

import "time"

// Normalizer sequences recounting, experience aggregation and domain
// classification over a draft record.
type Normalizer struct {
	now func() time.Time
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithClock replaces the clock used to resolve open-ended employment.
func WithClock(now func() time.Time) Option {
	return func(n *Normalizer) {
		if now != nil {
			n.now = now
		}
	}
}

func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{now: time.Now}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize builds the finalized record. The draft is left untouched.
func (n *Normalizer) Normalize(cvText string, draft *EmployeeRecord) (*EmployeeRecord, error) {
	if err := ValidateDraft(draft); err != nil {
		return nil, err
	}

	skills := RecountMentions(cvText, draft.AllSkills)
	years := ExperienceYears(draft.WorkExperience, n.now())
	primary, secondary := ClassifyDomains(skills)

	final := draft.Clone()
	final.EmployeeID = nil
	final.OfficeLocation = nil
	final.AllSkills = skills
	final.PrimarySkill = primary
	final.SecondarySkill = secondary
	final.ExperienceYears = years

	return final, nil
}
