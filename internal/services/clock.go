package services

import "time"

// timeNow is swapped out in tests that depend on the clock.
var timeNow = time.Now
