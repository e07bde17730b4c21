package usecase

import (
	"github.com/xavierca1/leadflow/internal/entity"
)

// DefaultHotThresholdCents is 10,000.00 in currency units. Override via
// HOT_INCOME_THRESHOLD_CENTS; tests inject their own values directly.
const DefaultHotThresholdCents int64 = 1_000_000


// Classifier rates leads against the hot-income threshold. The boundary
// is inclusive: income equal to the threshold rates HOT.
type Classifier struct {
	ThresholdCents int64
}

func NewClassifier(thresholdCents int64) *Classifier {
	if thresholdCents <= 0 {
		thresholdCents = DefaultHotThresholdCents
	}
	return &Classifier{ThresholdCents: thresholdCents}
}


func (c *Classifier) Rate(incomeCents int64) string {
	if incomeCents >= c.ThresholdCents {
		return entity.RatingHot
	}
	return entity.RatingCold
}
