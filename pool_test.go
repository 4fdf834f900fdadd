package qverify

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

const testTimeout = 5 * time.Second

func awaitResult(ch chan Result) Result {
	select {
	case result := <-ch:
		return result
	case <-time.After(testTimeout):
		return Result{Error: errors.New("test timed out waiting for result")}
	}
}

func TestPool(t *testing.T) {
	Convey("Given a new pool", t, func() {
		pool := NewPool(context.Background(), &Config{Workers: 2})

		Reset(func() {
			pool.Close()
		})

		Convey("When scheduling a simple job", func() {
			result := awaitResult(pool.Schedule("simple", func(context.Context) (any, error) {
				return "success", nil
			}))

			So(result.Error, ShouldBeNil)
			So(result.Value, ShouldEqual, "success")
			So(result.ID, ShouldEqual, "simple")
		})

		Convey("When a job fails", func() {
			result := awaitResult(pool.Schedule("failing", func(context.Context) (any, error) {
				return nil, ErrInvalidParameter
			}))

			So(errors.Is(result.Error, ErrInvalidParameter), ShouldBeTrue)

			Convey("Metrics should count the failure", func() {
				exported := pool.Metrics().Export()
				So(exported["job_count"], ShouldEqual, int64(1))
				So(exported["failed_jobs"], ShouldEqual, int64(1))
				So(exported["worker_count"], ShouldEqual, 2)
			})
		})

		Convey("When a job panics", func() {
			result := awaitResult(pool.Schedule("panicking", func(context.Context) (any, error) {
				panic("boom")
			}))

			So(result.Error, ShouldNotBeNil)
			So(result.Error.Error(), ShouldContainSubstring, "boom")
		})

		Convey("When scheduling many jobs", func() {
			channels := make([]chan Result, 20)
			for i := range channels {
				n := i
				channels[i] = pool.Schedule(fmt.Sprintf("job-%d", i), func(context.Context) (any, error) {
					return n * n, nil
				})
			}

			Convey("Every job should report its own result", func() {
				for i, ch := range channels {
					result := awaitResult(ch)
					So(result.Error, ShouldBeNil)
					So(result.Value, ShouldEqual, i*i)
				}
				So(pool.Metrics().Export()["success_rate"], ShouldEqual, 1.0)
			})
		})

		Convey("When Schedule races with Close", func() {
			Convey("Every scheduled job should still be resolved", func() {
				for trial := range 200 {
					racing := NewPool(context.Background(), &Config{Workers: 1})
					channels := make(chan chan Result, 8)

					go func() {
						defer close(channels)
						for i := range 8 {
							channels <- racing.Schedule(fmt.Sprintf("race-%d-%d", trial, i), func(context.Context) (any, error) {
								return i, nil
							})
						}
					}()
					racing.Close()

					for ch := range channels {
						result := awaitResult(ch)
						if result.Error != nil {
							So(errors.Is(result.Error, context.Canceled), ShouldBeTrue)
						}
					}
				}
			})
		})

		Convey("When the pool is closed", func() {
			pool.Close()

			Convey("New jobs should be rejected", func() {
				result := awaitResult(pool.Schedule("late", func(context.Context) (any, error) {
					return "never", nil
				}))
				So(errors.Is(result.Error, context.Canceled), ShouldBeTrue)
				So(pool.Metrics().Export()["scheduling_failures"], ShouldEqual, int64(1))
			})
		})
	})
}
