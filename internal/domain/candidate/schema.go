// Package candidate defines the typed candidate record, its form schema and
// the features derived from raw inputs before encoding.
package candidate

// Kind tells whether a feature carries a number or a category label.
type Kind string

// Feature kinds.
const (
	Numeric     Kind = "numeric"
	Categorical Kind = "categorical"
)

// Field names of the trained feature schema.
const (
	FieldAgeYears                = "age_years"
	FieldGender                  = "gender"
	FieldSSCPercentage           = "ssc_percentage"
	FieldHSCPercentage           = "hsc_percentage"
	FieldDegreePercentage        = "degree_percentage"
	FieldDegreeSpecialization    = "degree_specialization"
	FieldTechnicalScore          = "technical_score"
	FieldAptitudeScore           = "aptitude_score"
	FieldCommunicationScore      = "communication_score"
	FieldSkillsMatchPercentage   = "skills_match_percentage"
	FieldCertificationsCount     = "certifications_count"
	FieldInternshipExperience    = "internship_experience"
	FieldYearsOfExperience       = "years_of_experience"
	FieldCareerSwitchWillingness = "career_switch_willingness"
	FieldRelevantExperience      = "relevant_experience"
	FieldPreviousCTCLPA          = "previous_ctc_lpa"
	FieldExpectedCTCLPA          = "expected_ctc_lpa"
	FieldCompanyTier             = "company_tier"
	FieldJobRoleMatch            = "job_role_match"
	FieldCompetitionLevel        = "competition_level"
	FieldBondRequirement         = "bond_requirement"
	FieldNoticePeriodDays        = "notice_period_days"
	FieldLayoffHistory           = "layoff_history"
	FieldEmploymentGapMonths     = "employment_gap_months"
	FieldRelocationWillingness   = "relocation_willingness"

	FieldExperienceCategory = "experience_category"
	FieldAcademicAvg        = "academic_avg"
	FieldAcademicBand       = "academic_band"
	FieldInterviewAvg       = "interview_avg"
	FieldInterviewLevel     = "interview_level"
)

// FieldSpec describes one form field: its kind, UI bounds or vocabulary and
// the default the dashboard pre-fills.
type FieldSpec struct {
	Name       string   `json:"name"`
	Label      string   `json:"label"`
	Kind       Kind     `json:"kind"`
	Integer    bool     `json:"integer,omitempty"`
	Min        float64  `json:"min,omitempty"`
	Max        float64  `json:"max,omitempty"`
	Vocabulary []string `json:"vocabulary,omitempty"`
	Default    any      `json:"default"`
	Derived    bool     `json:"derived,omitempty"`
}

// rawFields lists the user-supplied fields in training order.
var rawFields = []FieldSpec{
	{Name: FieldAgeYears, Label: "Age", Kind: Numeric, Integer: true, Min: 18, Max: 60, Default: 23},
	{Name: FieldGender, Label: "Gender", Kind: Categorical, Vocabulary: []string{"male", "female"}, Default: "male"},
	{Name: FieldSSCPercentage, Label: "SSC Percentage", Kind: Numeric, Min: 40, Max: 100, Default: 75.0},
	{Name: FieldHSCPercentage, Label: "HSC Percentage", Kind: Numeric, Min: 40, Max: 100, Default: 78.0},
	{Name: FieldDegreePercentage, Label: "Degree Percentage", Kind: Numeric, Min: 40, Max: 100, Default: 72.0},
	{Name: FieldDegreeSpecialization, Label: "Degree Specialization", Kind: Categorical,
		Vocabulary: []string{"computer science", "science", "commerce", "arts", "other"}, Default: "computer science"},
	{Name: FieldTechnicalScore, Label: "Technical Score", Kind: Numeric, Integer: true, Min: 0, Max: 100, Default: 70},
	{Name: FieldAptitudeScore, Label: "Aptitude Score", Kind: Numeric, Integer: true, Min: 0, Max: 100, Default: 65},
	{Name: FieldCommunicationScore, Label: "Communication Score", Kind: Numeric, Integer: true, Min: 0, Max: 100, Default: 68},
	{Name: FieldSkillsMatchPercentage, Label: "Skills Match (%)", Kind: Numeric, Integer: true, Min: 0, Max: 100, Default: 70},
	{Name: FieldCertificationsCount, Label: "Certifications Count", Kind: Numeric, Integer: true, Min: 0, Max: 10, Default: 1},
	{Name: FieldInternshipExperience, Label: "Internship Experience", Kind: Categorical, Vocabulary: []string{"yes", "no"}, Default: "yes"},
	{Name: FieldYearsOfExperience, Label: "Years of Experience", Kind: Numeric, Integer: true, Min: 0, Max: 20, Default: 1},
	{Name: FieldCareerSwitchWillingness, Label: "Career Switch Willingness", Kind: Categorical,
		Vocabulary: []string{"not willing", "willing"}, Default: "not willing"},
	{Name: FieldRelevantExperience, Label: "Relevant Experience", Kind: Categorical,
		Vocabulary: []string{"relevant", "not relevant"}, Default: "relevant"},
	{Name: FieldPreviousCTCLPA, Label: "Previous CTC (LPA)", Kind: Numeric, Min: 0, Max: 50, Default: 3.0},
	{Name: FieldExpectedCTCLPA, Label: "Expected CTC (LPA)", Kind: Numeric, Min: 0, Max: 50, Default: 6.0},
	{Name: FieldCompanyTier, Label: "Company Tier", Kind: Categorical, Vocabulary: []string{"tier 1", "tier 2", "tier 3"}, Default: "tier 1"},
	{Name: FieldJobRoleMatch, Label: "Job Role Match", Kind: Categorical, Vocabulary: []string{"matched", "not matched"}, Default: "matched"},
	{Name: FieldCompetitionLevel, Label: "Competition Level", Kind: Categorical, Vocabulary: []string{"low", "medium", "high"}, Default: "low"},
	{Name: FieldBondRequirement, Label: "Bond Requirement", Kind: Categorical,
		Vocabulary: []string{"required", "not required"}, Default: "required"},
	{Name: FieldNoticePeriodDays, Label: "Notice Period (days)", Kind: Numeric, Integer: true, Min: 0, Max: 180, Default: 30},
	{Name: FieldLayoffHistory, Label: "Layoff History", Kind: Categorical, Vocabulary: []string{"yes", "no"}, Default: "yes"},
	{Name: FieldEmploymentGapMonths, Label: "Employment Gap (months)", Kind: Numeric, Integer: true, Min: 0, Max: 60, Default: 0},
	{Name: FieldRelocationWillingness, Label: "Relocation Willingness", Kind: Categorical,
		Vocabulary: []string{"willing", "not willing"}, Default: "willing"},
}

// derivedFields lists the computed fields appended after the raw inputs.
var derivedFields = []FieldSpec{
	{Name: FieldExperienceCategory, Label: "Experience Category", Kind: Categorical, Vocabulary: []string{"junior", "senior"}, Derived: true},
	{Name: FieldAcademicAvg, Label: "Academic Average", Kind: Numeric, Min: 40, Max: 100, Derived: true},
	{Name: FieldAcademicBand, Label: "Academic Band", Kind: Categorical, Vocabulary: []string{"high", "medium"}, Derived: true},
	{Name: FieldInterviewAvg, Label: "Interview Average", Kind: Numeric, Min: 0, Max: 100, Derived: true},
	{Name: FieldInterviewLevel, Label: "Interview Level", Kind: Categorical, Vocabulary: []string{"strong", "average"}, Derived: true},
}

// RawFields returns the user-supplied field specs in training order.
func RawFields() []FieldSpec {
	return cloneSpecs(rawFields)
}

// Schema returns every field of the trained feature schema: raw inputs
// followed by derived fields.
func Schema() []FieldSpec {
	out := make([]FieldSpec, 0, len(rawFields)+len(derivedFields))
	out = append(out, cloneSpecs(rawFields)...)
	return append(out, cloneSpecs(derivedFields)...)
}

// FieldNames returns the names of Schema in order.
func FieldNames() []string {
	specs := Schema()
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s.Name
	}
	return names
}

// NamesOfKind returns the schema field names with the given kind, in order.
func NamesOfKind(kind Kind) []string {
	var names []string
	for _, s := range Schema() {
		if s.Kind == kind {
			names = append(names, s.Name)
		}
	}
	return names
}

func cloneSpecs(in []FieldSpec) []FieldSpec {
	out := make([]FieldSpec, len(in))
	for i, s := range in {
		out[i] = s
		if s.Vocabulary != nil {
			out[i].Vocabulary = append([]string(nil), s.Vocabulary...)
		}
	}
	return out
}
