package timelock

import (
	"encoding/json"
	"math"
	"time"

	"github.com/iov-one/timelock/errors"
)

// Timestamp is a reading of the ledger clock. The clock counts opaque,
// monotonically non-decreasing units. The default clock counts seconds since
// the UNIX epoch, which is what Time and AsTimestamp assume.
type Timestamp uint64

// AsTimestamp converts given Time structure into its clock representation.
// Moments before the epoch are clamped to zero.
func AsTimestamp(t time.Time) Timestamp {
	if t.Unix() < 0 {
		return 0
	}
	return Timestamp(t.Unix())
}

// Time returns a time.Time structure that represents the same moment in time,
// assuming the clock counts seconds.
func (t Timestamp) Time() time.Time {
	if t > math.MaxInt64 {
		return time.Unix(math.MaxInt64, 0)
	}
	return time.Unix(int64(t), 0)
}

// IsZero returns true if this time represents a zero value.
func (t Timestamp) IsZero() bool {
	return t == 0
}

// Add moves this timestamp forward by given amount of clock units. The result
// saturates instead of wrapping around.
func (t Timestamp) Add(units uint64) Timestamp {
	if uint64(t) > math.MaxUint64-units {
		return Timestamp(math.MaxUint64)
	}
	return t + Timestamp(units)
}

// Since returns the number of clock units elapsed from earlier until t. It is
// zero when earlier is not before t.
func (t Timestamp) Since(earlier Timestamp) uint64 {
	if earlier >= t {
		return 0
	}
	return uint64(t - earlier)
}

// UnmarshalJSON supports unmarshaling both as time.Time and from a number.
// Usually a number is used as a representation of this time in JSON but it is
// convenient to use a string format in configurations (ie genesis file).
func (t *Timestamp) UnmarshalJSON(raw []byte) error {
	var units uint64
	if err := json.Unmarshal(raw, &units); err == nil {
		*t = Timestamp(units)
		return nil
	}

	var stdtime time.Time
	if err := json.Unmarshal(raw, &stdtime); err == nil {
		if stdtime.Unix() < 0 {
			return errors.Wrap(errors.ErrInput, "time before epoch")
		}
		*t = AsTimestamp(stdtime)
		return nil
	}

	return errors.Wrap(errors.ErrInput, "invalid time format")
}

// Clock is the source of the current ledger time. Readings must never
// decrease between calls.
type Clock interface {
	Now() Timestamp
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() Timestamp

// Now returns the result of calling the function.
func (fn ClockFunc) Now() Timestamp {
	return fn()
}

// SystemClock reads the wall clock with a second precision. Readings never go
// backward, even if the wall clock does.
type SystemClock struct {
	last Timestamp
}

var _ Clock = (*SystemClock)(nil)

// Now returns the current wall clock time in seconds since epoch.
func (c *SystemClock) Now() Timestamp {
	now := AsTimestamp(time.Now())
	if now < c.last {
		return c.last
	}
	c.last = now
	return now
}
