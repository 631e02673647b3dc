package inference

import (
	"errors"

	"gradesense/artifact"
)

// Classify finds the bucket containing score. Buckets are inclusive at the
// lower bound and exclusive at the upper, except the topmost bucket which
// is closed at both ends. Linear extrapolation can push a score outside
// the covered range; such scores clamp to the nearest edge bucket.
func Classify(score float64, buckets []artifact.Bucket) (artifact.Bucket, error) {
	if len(buckets) == 0 {
		return artifact.Bucket{}, errors.New("empty bucket table")
	}

	if score < buckets[0].Low {
		return buckets[0], nil
	}
	last := buckets[len(buckets)-1]
	if score >= last.Low {
		return last, nil
	}
	for _, b := range buckets {
		if score >= b.Low && score < b.High {
			return b, nil
		}
	}
	// Unreachable for a bucket table that passed load-time checks.
	return artifact.Bucket{}, errors.New("score not covered by bucket table")
}
