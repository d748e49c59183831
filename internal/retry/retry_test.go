package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	retry "github.com/robalobadob/hoopdle/apps/go-server/internal/retry"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPolicyDo(t *testing.T) {
	ctx := context.Background()

	Convey("Given a three-attempt policy with no backoff", t, func() {
		p := retry.Policy{MaxAttempts: 3}

		Convey("When the operation succeeds immediately", func() {
			calls := 0
			err := p.Do(ctx, func() error {
				calls++
				return nil
			})

			Convey("Then it runs exactly once", func() {
				So(err, ShouldBeNil)
				So(calls, ShouldEqual, 1)
			})
		})

		Convey("When the operation succeeds on the second try", func() {
			calls := 0
			err := p.Do(ctx, func() error {
				calls++
				if calls < 2 {
					return errors.New("flaky")
				}
				return nil
			})

			Convey("Then the first failure is absorbed", func() {
				So(err, ShouldBeNil)
				So(calls, ShouldEqual, 2)
			})
		})

		Convey("When the operation never succeeds", func() {
			calls := 0
			last := errors.New("down")
			err := p.Do(ctx, func() error {
				calls++
				return last
			})

			Convey("Then the budget is spent and the last error surfaces", func() {
				So(calls, ShouldEqual, 3)
				So(err, ShouldEqual, last)
			})
		})
	})

	Convey("Given a policy with a retryable classifier", t, func() {
		fatal := errors.New("bad request")
		p := retry.Policy{
			MaxAttempts: 5,
			Retryable:   func(err error) bool { return !errors.Is(err, fatal) },
		}

		Convey("When the operation fails with a non-retryable error", func() {
			calls := 0
			err := p.Do(ctx, func() error {
				calls++
				return fatal
			})

			Convey("Then it stops after the first attempt", func() {
				So(calls, ShouldEqual, 1)
				So(err, ShouldEqual, fatal)
			})
		})

		Convey("When a retryable failure precedes a fatal one", func() {
			calls := 0
			err := p.Do(ctx, func() error {
				calls++
				if calls == 1 {
					return errors.New("transient")
				}
				return fatal
			})

			Convey("Then it retries once and then gives up", func() {
				So(calls, ShouldEqual, 2)
				So(err, ShouldEqual, fatal)
			})
		})
	})

	Convey("Given a zero-value policy", t, func() {
		var p retry.Policy

		Convey("When the operation fails", func() {
			calls := 0
			err := p.Do(ctx, func() error {
				calls++
				return errors.New("nope")
			})

			Convey("Then it still runs exactly once", func() {
				So(calls, ShouldEqual, 1)
				So(err, ShouldNotBeNil)
			})
		})
	})

	Convey("Given a policy that waits between attempts", t, func() {
		p := retry.Policy{
			MaxAttempts: 3,
			Backoff:     retry.Linear(5 * time.Millisecond),
		}

		Convey("When all attempts fail", func() {
			start := time.Now()
			calls := 0
			err := p.Do(ctx, func() error {
				calls++
				return errors.New("down")
			})

			Convey("Then both waits happen (5ms then 10ms)", func() {
				So(err, ShouldNotBeNil)
				So(calls, ShouldEqual, 3)
				So(time.Since(start), ShouldBeGreaterThanOrEqualTo, 15*time.Millisecond)
			})
		})

		Convey("When the context is cancelled mid-wait", func() {
			waitCtx, cancel := context.WithTimeout(ctx, 2*time.Millisecond)
			defer cancel()

			calls := 0
			err := p.Do(waitCtx, func() error {
				calls++
				return errors.New("down")
			})

			Convey("Then the wait aborts with the context error", func() {
				So(calls, ShouldEqual, 1)
				So(errors.Is(err, context.DeadlineExceeded), ShouldBeTrue)
			})
		})
	})
}

func TestLinear(t *testing.T) {
	Convey("Given a linear backoff with a 2s step", t, func() {
		b := retry.Linear(2 * time.Second)

		Convey("Then waits grow by the step per attempt", func() {
			So(b(1), ShouldEqual, 2*time.Second)
			So(b(2), ShouldEqual, 4*time.Second)
			So(b(3), ShouldEqual, 6*time.Second)
		})

		Convey("Then out-of-range attempts wait nothing", func() {
			So(b(0), ShouldEqual, time.Duration(0))
			So(b(-1), ShouldEqual, time.Duration(0))
		})
	})
}
