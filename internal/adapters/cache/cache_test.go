package cache

import (
	"testing"

	"github.com/okian/jobaccept/internal/domain/prediction"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPredictionCache(t *testing.T) {
	Convey("Given a cache of two entries", t, func() {
		c, err := New(2)
		So(err, ShouldBeNil)
		So(c.Enabled(), ShouldBeTrue)

		c.Add("a", prediction.Result{Label: "placed", Confidence: 81.2})
		c.Add("b", prediction.Result{Label: "not placed", Confidence: 64.0})

		Convey("When reading a stored key", func() {
			res, ok := c.Get("a")

			Convey("Then the result is returned", func() {
				So(ok, ShouldBeTrue)
				So(res.Label, ShouldEqual, "placed")
				So(res.Confidence, ShouldEqual, 81.2)
			})
		})

		Convey("When a third entry is added after touching the first", func() {
			_, _ = c.Get("a")
			c.Add("c", prediction.Result{Label: "placed"})

			Convey("Then the least recently used entry is evicted", func() {
				So(c.Len(), ShouldEqual, 2)
				_, ok := c.Get("b")
				So(ok, ShouldBeFalse)
				_, ok = c.Get("a")
				So(ok, ShouldBeTrue)
			})
		})

		Convey("When purged", func() {
			c.Purge()
			So(c.Len(), ShouldEqual, 0)
		})
	})

	Convey("Given a disabled cache", t, func() {
		c, err := New(0)
		So(err, ShouldBeNil)
		So(c.Enabled(), ShouldBeFalse)

		c.Add("a", prediction.Result{Label: "placed"})
		_, ok := c.Get("a")
		So(ok, ShouldBeFalse)
		So(c.Len(), ShouldEqual, 0)
		So(func() { c.Purge() }, ShouldNotPanic)
	})

	Convey("Given a negative size", t, func() {
		_, err := New(-1)
		So(err, ShouldNotBeNil)
	})
}
