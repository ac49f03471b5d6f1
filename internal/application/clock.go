package application

import "time"

// Clock abstracts time so services can be tested with a fixed clock.
type Clock interface {
	Now() time.Time
}

// SystemClock uses time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Since is time.Since measured on c.
func Since(c Clock, start time.Time) time.Duration {
	return c.Now().Sub(start)
}
