package candidate

// Derivation thresholds.
const (
	juniorMaxYears        = 3
	highAcademicDegreeMin = 75.0
	strongTechnicalMin    = 75
)

// Derived holds the features computed from raw inputs before encoding.
type Derived struct {
	ExperienceCategory string  `json:"experience_category"`
	AcademicAvg        float64 `json:"academic_avg"`
	AcademicBand       string  `json:"academic_band"`
	InterviewAvg       float64 `json:"interview_avg"`
	InterviewLevel     string  `json:"interview_level"`
}

// Derive computes the five derived features. It is pure and total over any
// record that passed Validate.
func Derive(r Record) Derived {
	d := Derived{
		ExperienceCategory: "senior",
		AcademicAvg:        (r.SSCPercentage + r.HSCPercentage + r.DegreePercentage) / 3,
		AcademicBand:       "medium",
		InterviewAvg:       float64(r.TechnicalScore+r.AptitudeScore+r.CommunicationScore) / 3,
		InterviewLevel:     "average",
	}
	if r.YearsOfExperience <= juniorMaxYears {
		d.ExperienceCategory = "junior"
	}
	// The band keys off the degree percentage alone, not the average.
	if r.DegreePercentage >= highAcademicDegreeMin {
		d.AcademicBand = "high"
	}
	if r.TechnicalScore >= strongTechnicalMin {
		d.InterviewLevel = "strong"
	}
	return d
}
