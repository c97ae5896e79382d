// Package kpi computes the dashboard summary statistics over historical
// candidate rows.
package kpi

import (
	"math"
	"sort"
)

// Status values of the historical outcome column.
const (
	StatusPlaced    = "placed"
	StatusNotPlaced = "not placed"
)

// High-risk rows have both skills match and communication below this value.
const highRiskThreshold = 50.0

// Row is the subset of a historical candidate record the KPIs read.
type Row struct {
	Status                string  `json:"status"`
	TechnicalScore        float64 `json:"technical_score"`
	AptitudeScore         float64 `json:"aptitude_score"`
	CommunicationScore    float64 `json:"communication_score"`
	SkillsMatchPercentage float64 `json:"skills_match_percentage"`
	CompanyTier           string  `json:"company_tier"`
}

// Summary holds the scalar KPIs. Rates are percentages, all values rounded to
// two decimals.
type Summary struct {
	TotalCandidates    int     `json:"total_candidates"`
	PlacementRate      float64 `json:"placement_rate"`
	NotPlacedRate      float64 `json:"not_placed_rate"`
	AvgInterviewScore  float64 `json:"avg_interview_score"`
	AvgSkillsMatch     float64 `json:"avg_skills_match"`
	HighRiskPercentage float64 `json:"high_risk_percentage"`
}

// Compute aggregates rows into a Summary. Statuses other than placed and
// not placed count toward the total only, so the two rates need not sum to 100.
func Compute(rows []Row) (Summary, error) {
	total := len(rows)
	if total == 0 {
		return Summary{}, ErrEmptyDataset
	}

	var placed, notPlaced, highRisk int
	var interviewSum, skillsSum float64
	for _, r := range rows {
		switch r.Status {
		case StatusPlaced:
			placed++
		case StatusNotPlaced:
			notPlaced++
		}
		interviewSum += (r.TechnicalScore + r.AptitudeScore + r.CommunicationScore) / 3
		skillsSum += r.SkillsMatchPercentage
		if r.SkillsMatchPercentage < highRiskThreshold && r.CommunicationScore < highRiskThreshold {
			highRisk++
		}
	}

	n := float64(total)
	return Summary{
		TotalCandidates:    total,
		PlacementRate:      round2(100 * float64(placed) / n),
		NotPlacedRate:      round2(100 * float64(notPlaced) / n),
		AvgInterviewScore:  round2(interviewSum / n),
		AvgSkillsMatch:     round2(skillsSum / n),
		HighRiskPercentage: round2(100 * float64(highRisk) / n),
	}, nil
}

// StatusCount is the number of rows with one status.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// TierStatusCount is the number of rows with one company tier and status.
type TierStatusCount struct {
	CompanyTier string `json:"company_tier"`
	Status      string `json:"status"`
	Count       int    `json:"count"`
}

// Breakdown feeds the dashboard charts.
type Breakdown struct {
	ByStatus     []StatusCount     `json:"by_status"`
	ByTierStatus []TierStatusCount `json:"by_tier_status"`
}

// ComputeBreakdown counts rows by status and by tier and status, sorted by
// key.
func ComputeBreakdown(rows []Row) (Breakdown, error) {
	if len(rows) == 0 {
		return Breakdown{}, ErrEmptyDataset
	}

	type tierStatus struct{ tier, status string }
	byStatus := make(map[string]int)
	byTier := make(map[tierStatus]int)
	for _, r := range rows {
		byStatus[r.Status]++
		byTier[tierStatus{r.CompanyTier, r.Status}]++
	}

	b := Breakdown{
		ByStatus:     make([]StatusCount, 0, len(byStatus)),
		ByTierStatus: make([]TierStatusCount, 0, len(byTier)),
	}
	for s, c := range byStatus {
		b.ByStatus = append(b.ByStatus, StatusCount{Status: s, Count: c})
	}
	for k, c := range byTier {
		b.ByTierStatus = append(b.ByTierStatus, TierStatusCount{CompanyTier: k.tier, Status: k.status, Count: c})
	}
	sort.Slice(b.ByStatus, func(i, j int) bool { return b.ByStatus[i].Status < b.ByStatus[j].Status })
	sort.Slice(b.ByTierStatus, func(i, j int) bool {
		if b.ByTierStatus[i].CompanyTier != b.ByTierStatus[j].CompanyTier {
			return b.ByTierStatus[i].CompanyTier < b.ByTierStatus[j].CompanyTier
		}
		return b.ByTierStatus[i].Status < b.ByTierStatus[j].Status
	})
	return b, nil
}

// round2 rounds half away from zero to two decimals.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
