package safepay_test

import (
	"testing"

	"github.com/iov-one/safepay"
	. "github.com/smartystreets/goconvey/convey"
)

type staticQuery []safepay.Model

func (q staticQuery) Query(safepay.ReadOnlyKVStore, string, []byte) ([]safepay.Model, error) {
	return q, nil
}

func TestQueryRouter(t *testing.T) {
	Convey("Given a router with grant paths", t, func() {
		grants := staticQuery{safepay.Pair([]byte("state"), []byte("grant"))}
		bySender := staticQuery{}
		r := safepay.NewQueryRouter()
		r.RegisterAll(func(r safepay.QueryRouter) {
			r.Register("/grants", grants)
			r.Register("/grants/sender", bySender)
		})

		Convey("Plain paths use the key modifier", func() {
			h, mod := r.Route("/grants")
			So(h, ShouldResemble, grants)
			So(mod, ShouldEqual, safepay.KeyQueryMod)
		})

		Convey("Modifier follows the question mark", func() {
			h, mod := r.Route("/grants/sender?prefix")
			So(h, ShouldResemble, bySender)
			So(mod, ShouldEqual, safepay.PrefixQueryMod)
		})

		Convey("Unknown paths have no handler", func() {
			h, _ := r.Route("/wallets?prefix")
			So(h, ShouldBeNil)
			So(r.Handler("/grants/receiver"), ShouldBeNil)
		})

		Convey("A path cannot be registered twice", func() {
			So(func() { r.Register("/grants", grants) }, ShouldPanic)
		})
	})
}
