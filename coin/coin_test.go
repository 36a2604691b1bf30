package coin

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/iov-one/swapd/errors"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCoinArithmetic(t *testing.T) {
	Convey("Given coins of one currency", t, func() {
		a := NewCoin(500, "ABC")
		b := NewCoin(200, "ABC")

		Convey("Add sums amounts", func() {
			sum, err := a.Add(b)
			So(err, ShouldBeNil)
			So(sum, ShouldResemble, NewCoin(700, "ABC"))
		})

		Convey("Subtract reduces amounts", func() {
			diff, err := a.Subtract(b)
			So(err, ShouldBeNil)
			So(diff, ShouldResemble, NewCoin(300, "ABC"))

			zero, err := a.Subtract(a)
			So(err, ShouldBeNil)
			So(zero.IsZero(), ShouldBeTrue)
		})

		Convey("Subtracting too much fails", func() {
			_, err := b.Subtract(a)
			So(errors.ErrInsufficientAmount.Is(err), ShouldBeTrue)
		})

		Convey("Adding beyond the maximum overflows", func() {
			max := NewCoin(math.MaxUint64, "ABC")
			_, err := max.Add(NewCoin(1, "ABC"))
			So(errors.ErrOverflow.Is(err), ShouldBeTrue)

			same, err := max.Add(NewCoin(0, "ABC"))
			So(err, ShouldBeNil)
			So(same, ShouldResemble, max)
		})

		Convey("Comparison ignores the currency", func() {
			So(a.Compare(b), ShouldEqual, 1)
			So(b.Compare(a), ShouldEqual, -1)
			So(a.Compare(NewCoin(500, "XYZ")), ShouldEqual, 0)
			So(a.IsGTE(b), ShouldBeTrue)
			So(b.IsGTE(a), ShouldBeFalse)
			So(a.IsGTE(NewCoin(1, "XYZ")), ShouldBeFalse)
		})
	})

	Convey("Given coins of different currencies", t, func() {
		a := NewCoin(5, "ABC")
		x := NewCoin(5, "XYZ")

		Convey("Add and Subtract fail", func() {
			_, err := a.Add(x)
			So(errors.ErrCurrency.Is(err), ShouldBeTrue)
			_, err = a.Subtract(x)
			So(errors.ErrCurrency.Is(err), ShouldBeTrue)
		})

		Convey("A zero coin without ticker is neutral", func() {
			sum, err := a.Add(Coin{})
			So(err, ShouldBeNil)
			So(sum, ShouldResemble, a)
			sum, err = Coin{}.Add(a)
			So(err, ShouldBeNil)
			So(sum, ShouldResemble, a)
		})
	})
}

func TestCoinValidate(t *testing.T) {
	Convey("Validation checks the ticker", t, func() {
		So(NewCoin(1, "ABC").Validate(), ShouldBeNil)
		So(NewCoin(0, "ABCD").Validate(), ShouldBeNil)
		So(errors.ErrCurrency.Is(NewCoin(1, "AB").Validate()), ShouldBeTrue)
		So(errors.ErrCurrency.Is(NewCoin(1, "abc").Validate()), ShouldBeTrue)
		So(errors.ErrCurrency.Is(NewCoin(1, "ABCDE").Validate()), ShouldBeTrue)
		So(errors.ErrCurrency.Is(Coin{}.Validate()), ShouldBeTrue)
	})
}

func TestCoinHelpers(t *testing.T) {
	Convey("Coin helpers", t, func() {
		So(IsEmpty(nil), ShouldBeTrue)
		So(IsEmpty(NewCoinp(0, "ABC")), ShouldBeTrue)
		So(IsEmpty(NewCoinp(1, "ABC")), ShouldBeFalse)
		So(NewCoin(1, "ABC").IsPositive(), ShouldBeTrue)
		So(NewCoin(1, "ABC").Equals(NewCoin(1, "ABC")), ShouldBeTrue)
		So(NewCoin(1, "ABC").Equals(NewCoin(1, "ABD")), ShouldBeFalse)

		var nilCoin *Coin
		So(nilCoin.Clone(), ShouldBeNil)
		c := NewCoinp(3, "ABC")
		cpy := c.Clone()
		cpy.Amount = 4
		So(c.Amount, ShouldEqual, 3)
	})
}

func TestCoinHumanFormat(t *testing.T) {
	Convey("Human readable format", t, func() {
		Convey("round trips", func() {
			c := NewCoin(1234, "IOV")
			So(c.String(), ShouldEqual, "1234 IOV")
			parsed, err := ParseHumanFormat(c.String())
			So(err, ShouldBeNil)
			So(parsed, ShouldResemble, c)
		})

		Convey("tolerates spacing", func() {
			parsed, err := ParseHumanFormat(" 7ABC ")
			So(err, ShouldBeNil)
			So(parsed, ShouldResemble, NewCoin(7, "ABC"))
		})

		Convey("rejects malformed input", func() {
			for _, raw := range []string{"", "ABC", "1.5 ABC", "-3 ABC", "3 abc", "3 ABCDE"} {
				_, err := ParseHumanFormat(raw)
				So(errors.ErrInvalidInput.Is(err), ShouldBeTrue)
			}
			_, err := ParseHumanFormat("18446744073709551616 ABC")
			So(errors.ErrOverflow.Is(err), ShouldBeTrue)
		})

		Convey("is accepted as a flag value", func() {
			var c Coin
			So(c.Set("42 DOGE"), ShouldBeNil)
			So(c, ShouldResemble, NewCoin(42, "DOGE"))
			So(c.Type(), ShouldEqual, "coin")
			So(c.Set("nope"), ShouldNotBeNil)
		})

		Convey("a coin without ticker prints its amount", func() {
			So(Coin{Amount: 5}.String(), ShouldEqual, "5")
		})
	})
}

func TestCoinJSON(t *testing.T) {
	Convey("Coins unmarshal from JSON", t, func() {
		var c Coin
		So(json.Unmarshal([]byte(`"12 ETH"`), &c), ShouldBeNil)
		So(c, ShouldResemble, NewCoin(12, "ETH"))

		So(json.Unmarshal([]byte(`{"ticker": "BTC", "amount": 3}`), &c), ShouldBeNil)
		So(c, ShouldResemble, NewCoin(3, "BTC"))

		So(json.Unmarshal([]byte(`"12"`), &c), ShouldNotBeNil)
		So(json.Unmarshal([]byte(`[1]`), &c), ShouldNotBeNil)

		raw, err := json.Marshal(NewCoin(9, "ABC"))
		So(err, ShouldBeNil)
		So(string(raw), ShouldEqual, `{"ticker":"ABC","amount":9}`)
	})
}

func TestCoinSerialization(t *testing.T) {
	Convey("Coins serialize to protobuf", t, func() {
		c := NewCoin(math.MaxUint64, "ABC")
		raw, err := c.Marshal()
		So(err, ShouldBeNil)

		var got Coin
		So(got.Unmarshal(raw), ShouldBeNil)
		So(got, ShouldResemble, c)

		So(got.Unmarshal([]byte{0x10}), ShouldNotBeNil)

		raw, err = NewCoinp(1, "ABC").Marshal()
		So(err, ShouldBeNil)
		So(raw, ShouldResemble, []byte{0x0a, 0x03, 'A', 'B', 'C', 0x10, 0x01})

		// Zero values are not written.
		raw, err = new(Coin).Marshal()
		So(err, ShouldBeNil)
		So(raw, ShouldBeEmpty)
	})
}
