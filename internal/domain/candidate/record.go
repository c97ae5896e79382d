package candidate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidRecord marks a candidate payload that is malformed, incomplete or
// outside the form bounds.
var ErrInvalidRecord = errors.New("invalid candidate record")

// Record is one candidate as collected by the form. Field order follows the
// trained feature schema.
type Record struct {
	AgeYears                int     `json:"age_years" validate:"gte=18,lte=60"`
	Gender                  string  `json:"gender" validate:"oneof=male female"`
	SSCPercentage           float64 `json:"ssc_percentage" validate:"gte=40,lte=100"`
	HSCPercentage           float64 `json:"hsc_percentage" validate:"gte=40,lte=100"`
	DegreePercentage        float64 `json:"degree_percentage" validate:"gte=40,lte=100"`
	DegreeSpecialization    string  `json:"degree_specialization" validate:"oneof='computer science' science commerce arts other"`
	TechnicalScore          int     `json:"technical_score" validate:"gte=0,lte=100"`
	AptitudeScore           int     `json:"aptitude_score" validate:"gte=0,lte=100"`
	CommunicationScore      int     `json:"communication_score" validate:"gte=0,lte=100"`
	SkillsMatchPercentage   int     `json:"skills_match_percentage" validate:"gte=0,lte=100"`
	CertificationsCount     int     `json:"certifications_count" validate:"gte=0,lte=10"`
	InternshipExperience    string  `json:"internship_experience" validate:"oneof=yes no"`
	YearsOfExperience       int     `json:"years_of_experience" validate:"gte=0,lte=20"`
	CareerSwitchWillingness string  `json:"career_switch_willingness" validate:"oneof='not willing' willing"`
	RelevantExperience      string  `json:"relevant_experience" validate:"oneof=relevant 'not relevant'"`
	PreviousCTCLPA          float64 `json:"previous_ctc_lpa" validate:"gte=0,lte=50"`
	ExpectedCTCLPA          float64 `json:"expected_ctc_lpa" validate:"gte=0,lte=50"`
	CompanyTier             string  `json:"company_tier" validate:"oneof='tier 1' 'tier 2' 'tier 3'"`
	JobRoleMatch            string  `json:"job_role_match" validate:"oneof=matched 'not matched'"`
	CompetitionLevel        string  `json:"competition_level" validate:"oneof=low medium high"`
	BondRequirement         string  `json:"bond_requirement" validate:"oneof=required 'not required'"`
	NoticePeriodDays        int     `json:"notice_period_days" validate:"gte=0,lte=180"`
	LayoffHistory           string  `json:"layoff_history" validate:"oneof=yes no"`
	EmploymentGapMonths     int     `json:"employment_gap_months" validate:"gte=0,lte=60"`
	RelocationWillingness   string  `json:"relocation_willingness" validate:"oneof=willing 'not willing'"`
}

// Default returns the record the dashboard form starts from.
func Default() Record {
	return Record{
		AgeYears:                23,
		Gender:                  "male",
		SSCPercentage:           75,
		HSCPercentage:           78,
		DegreePercentage:        72,
		DegreeSpecialization:    "computer science",
		TechnicalScore:          70,
		AptitudeScore:           65,
		CommunicationScore:      68,
		SkillsMatchPercentage:   70,
		CertificationsCount:     1,
		InternshipExperience:    "yes",
		YearsOfExperience:       1,
		CareerSwitchWillingness: "not willing",
		RelevantExperience:      "relevant",
		PreviousCTCLPA:          3,
		ExpectedCTCLPA:          6,
		CompanyTier:             "tier 1",
		JobRoleMatch:            "matched",
		CompetitionLevel:        "low",
		BondRequirement:         "required",
		NoticePeriodDays:        30,
		LayoffHistory:           "yes",
		EmploymentGapMonths:     0,
		RelocationWillingness:   "willing",
	}
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func recordValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			return name
		})
	})
	return validate
}

// Validate checks every field against the form bounds and vocabularies.
func (r Record) Validate() error {
	err := recordValidator().Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "oneof":
			problems = append(problems, fmt.Sprintf("%s: %q is not one of [%s]", fe.Field(), fe.Value(), fe.Param()))
		default:
			problems = append(problems, fmt.Sprintf("%s: %v violates %s=%s", fe.Field(), fe.Value(), fe.Tag(), fe.Param()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidRecord, strings.Join(problems, "; "))
}

// Decode reads a JSON candidate. Every raw field must be present and no
// unknown field is accepted; the result is validated.
func Decode(r io.Reader) (Record, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Record{}, fmt.Errorf("%w: read body: %w", ErrInvalidRecord, err)
	}

	var present map[string]json.RawMessage
	if err := json.Unmarshal(raw, &present); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	var missing []string
	for _, f := range rawFields {
		if v, ok := present[f.Name]; !ok || string(v) == "null" {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		return Record{}, fmt.Errorf("%w: missing fields: %s", ErrInvalidRecord, strings.Join(missing, ", "))
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var rec Record
	if err := dec.Decode(&rec); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if err := rec.Validate(); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Value is a single named feature value: a number or a category label.
type Value struct {
	Name     string
	Kind     Kind
	Number   float64
	Category string
}

// Values returns the raw inputs followed by the derived features, in schema
// order.
func (r Record) Values() []Value {
	d := Derive(r)
	return []Value{
		num(FieldAgeYears, float64(r.AgeYears)),
		cat(FieldGender, r.Gender),
		num(FieldSSCPercentage, r.SSCPercentage),
		num(FieldHSCPercentage, r.HSCPercentage),
		num(FieldDegreePercentage, r.DegreePercentage),
		cat(FieldDegreeSpecialization, r.DegreeSpecialization),
		num(FieldTechnicalScore, float64(r.TechnicalScore)),
		num(FieldAptitudeScore, float64(r.AptitudeScore)),
		num(FieldCommunicationScore, float64(r.CommunicationScore)),
		num(FieldSkillsMatchPercentage, float64(r.SkillsMatchPercentage)),
		num(FieldCertificationsCount, float64(r.CertificationsCount)),
		cat(FieldInternshipExperience, r.InternshipExperience),
		num(FieldYearsOfExperience, float64(r.YearsOfExperience)),
		cat(FieldCareerSwitchWillingness, r.CareerSwitchWillingness),
		cat(FieldRelevantExperience, r.RelevantExperience),
		num(FieldPreviousCTCLPA, r.PreviousCTCLPA),
		num(FieldExpectedCTCLPA, r.ExpectedCTCLPA),
		cat(FieldCompanyTier, r.CompanyTier),
		cat(FieldJobRoleMatch, r.JobRoleMatch),
		cat(FieldCompetitionLevel, r.CompetitionLevel),
		cat(FieldBondRequirement, r.BondRequirement),
		num(FieldNoticePeriodDays, float64(r.NoticePeriodDays)),
		cat(FieldLayoffHistory, r.LayoffHistory),
		num(FieldEmploymentGapMonths, float64(r.EmploymentGapMonths)),
		cat(FieldRelocationWillingness, r.RelocationWillingness),
		cat(FieldExperienceCategory, d.ExperienceCategory),
		num(FieldAcademicAvg, d.AcademicAvg),
		cat(FieldAcademicBand, d.AcademicBand),
		num(FieldInterviewAvg, d.InterviewAvg),
		cat(FieldInterviewLevel, d.InterviewLevel),
	}
}

// Key returns a stable string identity for the record, used to cache
// predictions for identical inputs.
func (r Record) Key() string {
	vals := r.Values()[:len(rawFields)]
	parts := make([]string, len(vals))
	for i, v := range vals {
		if v.Kind == Categorical {
			parts[i] = v.Name + "=" + v.Category
			continue
		}
		parts[i] = fmt.Sprintf("%s=%g", v.Name, v.Number)
	}
	return strings.Join(parts, "|")
}

func num(name string, v float64) Value {
	return Value{Name: name, Kind: Numeric, Number: v}
}

func cat(name, v string) Value {
	return Value{Name: name, Kind: Categorical, Category: v}
}
