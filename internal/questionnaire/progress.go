package questionnaire

import "math"

// Batch schedule: the first batch holds InitialBatchSize answers, each later
// one BatchIncrement more. Repopulation and continuation prompts both follow it.
const (
	InitialBatchSize = 10
	BatchIncrement   = 5
)

// BatchTarget is the answered count that closes the batch containing n,
// capped at total.
func BatchTarget(n, total int) int {
	target := InitialBatchSize
	if n > InitialBatchSize {
		extra := int(math.Ceil(float64(n-InitialBatchSize) / BatchIncrement))
		target = InitialBatchSize + BatchIncrement*extra
	}
	if total > 0 && target > total {
		target = total
	}
	return target
}

// ProgressPercent is the progress within the current batch, rounded to one
// decimal. It is 100 once n reaches total.
func ProgressPercent(n, total int) float64 {
	if n >= total {
		return 100
	}
	target := BatchTarget(n, total)
	if target <= 0 {
		return 0
	}
	return round1(math.Min(100, float64(n)/float64(target)*100))
}

// OverallPercent is n over total, rounded to one decimal. Unlike
// ProgressPercent it never drops when a new batch starts.
func OverallPercent(n, total int) float64 {
	if n >= total {
		return 100
	}
	return round1(math.Min(100, float64(n)/float64(total)*100))
}

// IsContinuationPoint reports whether n answers sit exactly on a batch
// boundary.
func IsContinuationPoint(n int) bool {
	if n == InitialBatchSize {
		return true
	}
	return n > InitialBatchSize && (n-InitialBatchSize)%BatchIncrement == 0
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
