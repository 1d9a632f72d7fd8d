package model

import "time"

// Clock abstracts time reads so tests can simulate arbitrary elapsed time.
type Clock interface {
	Now() time.Time
}

// WallClock reads the system time.
type WallClock struct{}

func (WallClock) Now() time.Time { return time.Now() }
