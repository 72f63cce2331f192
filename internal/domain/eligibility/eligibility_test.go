package eligibility_test

import (
	"errors"
	"testing"
	"time"

	eligibility "github.com/ppgmetrics/engiv/internal/domain/eligibility"
	model "github.com/ppgmetrics/engiv/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

var period = model.Period{Start: 2021, End: 2024}

func date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func buildSnapshot(recs model.Records) *model.Snapshot {
	snap, err := model.NewSnapshot(model.Academic, period, recs)
	So(err, ShouldBeNil)
	return snap
}

func TestPermanentIn(t *testing.T) {
	Convey("Given faculty whose category changes across years", t, func() {
		snap := buildSnapshot(model.Records{
			Faculty: []model.Faculty{
				{ID: "f1", Category: model.Permanent},
				{ID: "f2", Category: model.Permanent, CategoryByYear: map[int]model.Category{2023: model.Collaborating}},
				{ID: "f3", Category: model.Visiting},
			},
		})

		Convey("When listing permanent faculty per year", func() {
			perm, err := eligibility.PermanentIn(snap, 2022)
			So(err, ShouldBeNil)
			So(perm, ShouldHaveLength, 2)

			perm, err = eligibility.PermanentIn(snap, 2023)
			So(err, ShouldBeNil)
			So(perm, ShouldHaveLength, 1)
			So(perm[0].ID, ShouldEqual, "f1")
		})

		Convey("When the year lies outside the period", func() {
			_, err := eligibility.PermanentIn(snap, 2019)
			So(errors.Is(err, model.ErrInvalidPeriod), ShouldBeTrue)
		})
	})
}

func TestQualifyingPublication(t *testing.T) {
	Convey("Given publications of different kinds and strata", t, func() {
		So(eligibility.IsQualifyingPublication(model.Publication{Kind: model.Journal, Stratum: model.StratumB4}), ShouldBeTrue)
		So(eligibility.IsQualifyingPublication(model.Publication{Kind: model.Journal, Stratum: model.StratumOther}), ShouldBeFalse)
		So(eligibility.IsQualifyingPublication(model.Publication{Kind: model.Conference, Stratum: model.StratumA1}), ShouldBeFalse)
	})
}

func TestCompletedIn(t *testing.T) {
	Convey("Given students with mixed outcomes", t, func() {
		snap := buildSnapshot(model.Records{
			Students: []model.Student{
				{ID: "s1", Level: model.Masters, Enrollment: date(2020, 3, 1), DefenseDate: date(2022, 2, 20), Outcome: model.Defended},
				{ID: "s2", Level: model.Doctoral, Enrollment: date(2018, 3, 1), DefenseDate: date(2022, 11, 5), Outcome: model.Defended},
				{ID: "s3", Level: model.Masters, Enrollment: date(2021, 3, 1), Outcome: model.InProgress},
			},
		})

		Convey("When filtering by year only", func() {
			done, err := eligibility.CompletedIn(snap, 2022, "")
			So(err, ShouldBeNil)
			So(done, ShouldHaveLength, 2)
		})

		Convey("When filtering by level", func() {
			done, err := eligibility.CompletedIn(snap, 2022, model.Doctoral)
			So(err, ShouldBeNil)
			So(done, ShouldHaveLength, 1)
			So(done[0].ID, ShouldEqual, "s2")
		})

		Convey("When no one defended in the year", func() {
			done, err := eligibility.CompletedIn(snap, 2024, "")
			So(err, ShouldBeNil)
			So(done, ShouldBeEmpty)
		})
	})
}

func TestEligibleAdvisor(t *testing.T) {
	Convey("Given advisors with and without period defenses", t, func() {
		snap := buildSnapshot(model.Records{
			Faculty: []model.Faculty{
				{ID: "f1", Category: model.Permanent},
				{ID: "f2", Category: model.Permanent},
				{ID: "f3", Category: model.Visiting},
			},
			Students: []model.Student{
				{ID: "s1", Level: model.Masters, AdvisorID: "f1", Enrollment: date(2020, 3, 1), DefenseDate: date(2022, 6, 1), Outcome: model.Defended},
				{ID: "s2", Level: model.Masters, AdvisorID: "f3", Enrollment: date(2020, 3, 1), DefenseDate: date(2022, 6, 1), Outcome: model.Defended},
			},
		})

		f1, _ := snap.FacultyByID("f1")
		f2, _ := snap.FacultyByID("f2")
		f3, _ := snap.FacultyByID("f3")

		So(eligibility.IsEligibleAdvisor(snap, f1), ShouldBeTrue)
		// No advised defense in the period.
		So(eligibility.IsEligibleAdvisor(snap, f2), ShouldBeFalse)
		// Never permanent.
		So(eligibility.IsEligibleAdvisor(snap, f3), ShouldBeFalse)
	})
}

func TestYoungDoctorate(t *testing.T) {
	Convey("Given collaborators at different doctorate ages", t, func() {
		recent := model.Faculty{ID: "f1", Category: model.Collaborating, DoctorateYear: 2020}
		old := model.Faculty{ID: "f2", Category: model.Collaborating, DoctorateYear: 2010}
		permanent := model.Faculty{ID: "f3", Category: model.Permanent, DoctorateYear: 2020}
		unknown := model.Faculty{ID: "f4", Category: model.Collaborating}

		So(eligibility.IsYoungDoctorate(recent, 2023, 5), ShouldBeTrue)
		So(eligibility.IsYoungDoctorate(recent, 2026, 5), ShouldBeFalse)
		So(eligibility.IsYoungDoctorate(old, 2023, 5), ShouldBeFalse)
		// Permanent faculty are already in DP and never count as young doctorates.
		So(eligibility.IsYoungDoctorate(permanent, 2023, 5), ShouldBeFalse)
		So(eligibility.IsYoungDoctorate(unknown, 2023, 5), ShouldBeFalse)
		// A doctorate in the future never qualifies.
		So(eligibility.IsYoungDoctorate(recent, 2019, 5), ShouldBeFalse)
	})
}

func TestCohortIn(t *testing.T) {
	Convey("Given students reaching terminal outcomes in different years", t, func() {
		snap := buildSnapshot(model.Records{
			Students: []model.Student{
				{ID: "s1", Level: model.Masters, Enrollment: date(2020, 3, 1), DefenseDate: date(2022, 6, 1), Outcome: model.Defended},
				{ID: "s2", Level: model.Masters, Enrollment: date(2020, 3, 1), WithdrawalDate: date(2022, 9, 1), Outcome: model.Withdrawn},
				{ID: "s3", Level: model.Masters, Enrollment: date(2022, 3, 1), Outcome: model.Withdrawn},
				{ID: "s4", Level: model.Doctoral, Enrollment: date(2019, 3, 1), DefenseDate: date(2022, 12, 1), Outcome: model.Defended},
				{ID: "s5", Level: model.Masters, Enrollment: date(2021, 3, 1), Outcome: model.InProgress},
			},
		})

		Convey("When building the masters cohort for 2022", func() {
			c, err := eligibility.CohortIn(snap, 2022, model.Masters)
			So(err, ShouldBeNil)
			// s3 has no withdrawal date, attributed to its 2022 enrollment.
			So(c.Defended, ShouldEqual, 1)
			So(c.Withdrawn, ShouldEqual, 2)
			So(c.Size(), ShouldEqual, 3)
		})

		Convey("When building the cohort for both levels", func() {
			c, err := eligibility.CohortIn(snap, 2022, "")
			So(err, ShouldBeNil)
			So(c.Defended, ShouldEqual, 2)
			So(c.Size(), ShouldEqual, 4)
		})

		Convey("When the year has no terminal outcomes", func() {
			c, err := eligibility.CohortIn(snap, 2024, "")
			So(err, ShouldBeNil)
			So(c.Size(), ShouldEqual, 0)
		})
	})
}
