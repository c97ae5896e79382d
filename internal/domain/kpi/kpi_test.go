package kpi

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCompute(t *testing.T) {
	Convey("Given four historical rows", t, func() {
		rows := []Row{
			{Status: StatusPlaced, TechnicalScore: 80, AptitudeScore: 70, CommunicationScore: 60, SkillsMatchPercentage: 90, CompanyTier: "tier 1"},
			{Status: StatusPlaced, TechnicalScore: 60, AptitudeScore: 60, CommunicationScore: 60, SkillsMatchPercentage: 70, CompanyTier: "tier 2"},
			{Status: StatusNotPlaced, TechnicalScore: 40, AptitudeScore: 50, CommunicationScore: 30, SkillsMatchPercentage: 40, CompanyTier: "tier 2"},
			{Status: StatusNotPlaced, TechnicalScore: 50, AptitudeScore: 50, CommunicationScore: 55, SkillsMatchPercentage: 45, CompanyTier: "tier 3"},
		}

		s, err := Compute(rows)

		Convey("Then the summary matches hand-computed values", func() {
			So(err, ShouldBeNil)
			So(s.TotalCandidates, ShouldEqual, 4)
			So(s.PlacementRate, ShouldEqual, 50.0)
			So(s.NotPlacedRate, ShouldEqual, 50.0)
			So(s.AvgSkillsMatch, ShouldEqual, 61.25)
			// (70 + 60 + 40 + 51.666...) / 4
			So(s.AvgInterviewScore, ShouldEqual, 55.42)
			So(s.HighRiskPercentage, ShouldEqual, 25.0)
		})
	})

	Convey("Given rows with a status outside placed and not placed", t, func() {
		rows := []Row{
			{Status: StatusPlaced, SkillsMatchPercentage: 60, CommunicationScore: 60},
			{Status: "withdrawn", SkillsMatchPercentage: 60, CommunicationScore: 60},
			{Status: StatusNotPlaced, SkillsMatchPercentage: 60, CommunicationScore: 60},
		}

		s, err := Compute(rows)

		Convey("Then every rate stays within 0 and 100 and they need not sum to 100", func() {
			So(err, ShouldBeNil)
			So(s.PlacementRate, ShouldEqual, 33.33)
			So(s.NotPlacedRate, ShouldEqual, 33.33)
			for _, rate := range []float64{s.PlacementRate, s.NotPlacedRate, s.HighRiskPercentage} {
				So(rate, ShouldBeBetweenOrEqual, 0.0, 100.0)
			}
		})
	})

	Convey("Given the high-risk boundary", t, func() {
		rows := []Row{
			{Status: StatusPlaced, SkillsMatchPercentage: 50, CommunicationScore: 10},
			{Status: StatusPlaced, SkillsMatchPercentage: 10, CommunicationScore: 50},
			{Status: StatusPlaced, SkillsMatchPercentage: 49.9, CommunicationScore: 49.9},
		}

		s, _ := Compute(rows)

		Convey("Then only rows strictly below both thresholds count", func() {
			So(s.HighRiskPercentage, ShouldEqual, 33.33)
		})
	})

	Convey("Given no rows", t, func() {
		Convey("Then Compute fails with ErrEmptyDataset without panicking", func() {
			So(func() { _, _ = Compute(nil) }, ShouldNotPanic)
			_, err := Compute(nil)
			So(errors.Is(err, ErrEmptyDataset), ShouldBeTrue)
		})
	})
}

func TestComputeBreakdown(t *testing.T) {
	Convey("Given rows across tiers", t, func() {
		rows := []Row{
			{Status: StatusPlaced, CompanyTier: "tier 2"},
			{Status: StatusNotPlaced, CompanyTier: "tier 1"},
			{Status: StatusPlaced, CompanyTier: "tier 1"},
			{Status: StatusPlaced, CompanyTier: "tier 1"},
		}

		b, err := ComputeBreakdown(rows)

		Convey("Then counts are grouped and sorted", func() {
			So(err, ShouldBeNil)
			So(b.ByStatus, ShouldResemble, []StatusCount{
				{Status: StatusNotPlaced, Count: 1},
				{Status: StatusPlaced, Count: 3},
			})
			So(b.ByTierStatus, ShouldResemble, []TierStatusCount{
				{CompanyTier: "tier 1", Status: StatusNotPlaced, Count: 1},
				{CompanyTier: "tier 1", Status: StatusPlaced, Count: 2},
				{CompanyTier: "tier 2", Status: StatusPlaced, Count: 1},
			})
		})
	})

	Convey("Given no rows", t, func() {
		_, err := ComputeBreakdown([]Row{})
		So(errors.Is(err, ErrEmptyDataset), ShouldBeTrue)
	})
}

func TestRound2(t *testing.T) {
	Convey("Given values on a rounding edge", t, func() {
		So(round2(90.0), ShouldEqual, 90.0)
		So(round2(33.333333), ShouldEqual, 33.33)
		So(round2(66.666666), ShouldEqual, 66.67)
		So(round2(-1.005), ShouldBeLessThan, 0.0)
	})
}
