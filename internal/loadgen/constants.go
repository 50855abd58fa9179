package loadgen

// Score bounds the service must respect.
const (
	minScore = 300
	maxScore = 850
)

// Worker configuration constants.
const (
	workerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	percentageMultiplier = 100
)
