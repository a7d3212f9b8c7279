package cv

// Skill categories the extraction prompt allows.
const (
	CategoryTechnical = "technical"
	CategorySoft      = "soft"
	CategoryFinance   = "finance"
	CategoryDesign    = "design"
	CategoryDomain    = "domain"
	CategoryOther     = "other"
)

// Skill is a single technology or competence claimed by the CV.
type Skill struct {
	Name        string  `json:"name"`
	Mentions    int     `json:"mentions"`
	Category    string  `json:"category"`
	Proficiency *string `json:"proficiency"`
}

// WorkExperience is one entry of the work history. Dates are kept as received;
// EndDate may be the "Present" sentinel.
type WorkExperience struct {
	Company     string `json:"company"`
	Position    string `json:"position"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

// EmployeeRecord is both the draft produced by the model and the finalized,
// computation-backed record. PrimarySkill and SecondarySkill hold domain labels.
type EmployeeRecord struct {
	FullName         string `json:"fullName"`
	DOB              string `json:"dob"`
	Contact          string `json:"contact"`
	Email            string `json:"email"`
	EmergencyContact string `json:"emergencyContact"`

	EmployeeID     *string `json:"employeeId"`
	Designation    string  `json:"designation"`
	OfficeLocation *string `json:"officeLocation"`
	Department     string  `json:"department"`

	AllSkills      []Skill `json:"allSkills"`
	PrimarySkill   string  `json:"primarySkill"`
	SecondarySkill string  `json:"secondarySkill"`

	ExperienceYears float64          `json:"experienceYears"`
	WorkExperience  []WorkExperience `json:"workExperience"`

	Education string `json:"education"`
}

// Clone returns a deep copy of the record.
func (r *EmployeeRecord) Clone() *EmployeeRecord {
	if r == nil {
		return nil
	}

	out := *r
	out.EmployeeID = clonePtr(r.EmployeeID)
	out.OfficeLocation = clonePtr(r.OfficeLocation)
	out.AllSkills = cloneSkills(r.AllSkills)
	out.WorkExperience = append(make([]WorkExperience, 0, len(r.WorkExperience)), r.WorkExperience...)

	return &out
}

func cloneSkills(skills []Skill) []Skill {
	out := make([]Skill, 0, len(skills))
	for _, s := range skills {
		s.Proficiency = clonePtr(s.Proficiency)
		out = append(out, s)
	}
	return out
}

func clonePtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
