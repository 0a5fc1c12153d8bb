package clock

import "time"

// Clock supplies the current time. The ledger services take it as a
// dependency instead of calling time.Now directly, so accrual periods are
// deterministic under test.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// System returns the wall-clock implementation used in production.
func System() Clock {
	return systemClock{}
}
