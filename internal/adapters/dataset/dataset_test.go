package dataset

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/jobaccept/internal/domain/kpi"
	. "github.com/smartystreets/goconvey/convey"
)

const sampleCSV = "../../../data/job_acceptance.csv"

func TestReadCSV(t *testing.T) {
	Convey("Given a CSV with extra columns in any order", t, func() {
		data := `company_tier,age_years,status,technical_score,aptitude_score,communication_score,skills_match_percentage
tier 1,23,placed,80,70,60,90
 tier 2 ,30,not placed,40,50,30,40
`
		rows, err := ReadCSV(strings.NewReader(data))

		Convey("Then the KPI columns are picked by header name", func() {
			So(err, ShouldBeNil)
			So(len(rows), ShouldEqual, 2)
			So(rows[0], ShouldResemble, kpi.Row{
				Status: "placed", TechnicalScore: 80, AptitudeScore: 70,
				CommunicationScore: 60, SkillsMatchPercentage: 90, CompanyTier: "tier 1",
			})
			So(rows[1].CompanyTier, ShouldEqual, "tier 2")
		})
	})

	Convey("Given a CSV missing a KPI column", t, func() {
		_, err := ReadCSV(strings.NewReader("status,technical_score\nplaced,80\n"))

		Convey("Then the missing columns are named", func() {
			So(errors.Is(err, ErrDatasetLoad), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "aptitude_score")
			So(err.Error(), ShouldContainSubstring, "company_tier")
		})
	})

	Convey("Given a non-numeric score", t, func() {
		data := "status,technical_score,aptitude_score,communication_score,skills_match_percentage,company_tier\nplaced,high,70,60,90,tier 1\n"
		_, err := ReadCSV(strings.NewReader(data))

		So(errors.Is(err, ErrDatasetLoad), ShouldBeTrue)
		So(err.Error(), ShouldContainSubstring, "line 2 column technical_score")
	})

	Convey("Given non-finite scores", t, func() {
		header := "status,technical_score,aptitude_score,communication_score,skills_match_percentage,company_tier\n"

		Convey("Then NaN is rejected with its position", func() {
			_, err := ReadCSV(strings.NewReader(header + "placed,80,70,60,90,tier 1\nplaced,NaN,70,70,80,tier 1\n"))
			So(errors.Is(err, ErrDatasetLoad), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "line 3 column technical_score")
			So(err.Error(), ShouldContainSubstring, "not a finite number")
		})

		Convey("Then Inf is rejected with its position", func() {
			for _, v := range []string{"Inf", "+Inf", "-Inf"} {
				_, err := ReadCSV(strings.NewReader(header + "placed,80,70,60," + v + ",tier 1\n"))
				So(errors.Is(err, ErrDatasetLoad), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "line 2 column skills_match_percentage")
			}
		})
	})

	Convey("Given an empty file", t, func() {
		rows, err := ReadCSV(strings.NewReader(""))
		So(err, ShouldBeNil)
		So(rows, ShouldBeEmpty)
	})
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	Convey("Given the bundled sample CSV", t, func() {
		rows, err := Load(ctx, sampleCSV)

		Convey("Then every row loads and KPIs can be computed", func() {
			So(err, ShouldBeNil)
			So(len(rows), ShouldEqual, 60)
			s, err := kpi.Compute(rows)
			So(err, ShouldBeNil)
			So(s.TotalCandidates, ShouldEqual, 60)
			So(s.PlacementRate, ShouldEqual, 45.0)
		})
	})

	Convey("Given a SQLite database", t, func() {
		path := filepath.Join(t.TempDir(), "history.db")
		db, err := sql.Open("sqlite3", path)
		So(err, ShouldBeNil)
		_, err = db.Exec(`CREATE TABLE history (
			status TEXT, technical_score REAL, aptitude_score REAL, communication_score REAL,
			skills_match_percentage REAL, company_tier TEXT, age_years INTEGER)`)
		So(err, ShouldBeNil)
		_, err = db.Exec(`INSERT INTO history VALUES
			('placed', 80, 70, 60, 90, 'tier 1', 23),
			('not placed', 40, 50, 30, 40, 'tier 3', 31),
			('placed', 60, 60, 60, 70, 'tier 2', 27)`)
		So(err, ShouldBeNil)
		So(db.Close(), ShouldBeNil)

		Convey("When loading the configured table", func() {
			rows, err := Load(ctx, path, WithTable("history"))

			Convey("Then the rows are read", func() {
				So(err, ShouldBeNil)
				So(len(rows), ShouldEqual, 3)
				So(rows[1].Status, ShouldEqual, "not placed")
				So(rows[1].CommunicationScore, ShouldEqual, 30.0)
			})
		})

		Convey("When the default table does not exist", func() {
			_, err := Load(ctx, path)
			So(errors.Is(err, ErrDatasetLoad), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, DefaultTable)
		})

		Convey("When a score overflows to infinity", func() {
			db, err := sql.Open("sqlite3", path)
			So(err, ShouldBeNil)
			_, err = db.Exec(`INSERT INTO history VALUES ('placed', 80, 9e999, 60, 90, 'tier 1', 25)`)
			So(err, ShouldBeNil)
			So(db.Close(), ShouldBeNil)

			_, err = Load(ctx, path, WithTable("history"))
			So(errors.Is(err, ErrDatasetLoad), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "row 4 column aptitude_score")
		})

		Convey("When the table name is unsafe", func() {
			_, err := LoadSQLite(ctx, path, `history"; DROP TABLE history; --`)
			So(errors.Is(err, ErrDatasetLoad), ShouldBeTrue)
		})
	})

	Convey("Given unusable paths", t, func() {
		_, err := Load(ctx, "")
		So(errors.Is(err, ErrDatasetLoad), ShouldBeTrue)

		_, err = Load(ctx, "candidates.parquet")
		So(errors.Is(err, ErrDatasetLoad), ShouldBeTrue)

		_, err = Load(ctx, filepath.Join(t.TempDir(), "missing.csv"))
		So(errors.Is(err, ErrDatasetLoad), ShouldBeTrue)

		_, err = Load(ctx, filepath.Join(t.TempDir(), "missing.db"))
		So(errors.Is(err, ErrDatasetLoad), ShouldBeTrue)
	})
}
