package clock

import "time"

// Clock abstracts the current time so services can be tested with a fixed clock
type Clock interface {
	Now() time.Time
}

// systemClock reads the real system time
type systemClock struct{}

// New returns a Clock backed by the system time
func New() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}
