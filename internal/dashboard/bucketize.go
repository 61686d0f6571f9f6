// Package dashboard aggregates sales for the admin back office. Aggregation
// is a pure function over the orders in range, rebuilt per request; there is
// no persistent aggregation state.
package dashboard

import (
	"time"

	"github.com/Davi09-8/chipset-komputer-sub000/internal/order"
)

type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityMonth Granularity = "month"
)

type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
	Sum   int64  `json:"sum"`
}

func label(t time.Time, g Granularity) string {
	if g == GranularityMonth {
		return t.Format("2006-01")
	}
	return t.Format("2006-01-02")
}

func next(t time.Time, g Granularity) time.Time {
	if g == GranularityMonth {
		return t.AddDate(0, 1, 0)
	}
	return t.AddDate(0, 0, 1)
}

func truncate(t time.Time, g Granularity) time.Time {
	if g == GranularityMonth {
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Bucketize groups orders by day or month between from (inclusive) and to
// (exclusive). Buckets cover the whole range in chronological order; periods
// without orders appear with zero count and sum. Cancelled orders are
// excluded from sums but still counted, so the back office can see volume and
// revenue side by side.
func Bucketize(orders []order.Order, from, to time.Time, g Granularity) []Bucket {
	byLabel := make(map[string]*Bucket)

	var buckets []Bucket
	for t := truncate(from, g); t.Before(to); t = next(t, g) {
		buckets = append(buckets, Bucket{Label: label(t, g)})
	}
	for i := range buckets {
		byLabel[buckets[i].Label] = &buckets[i]
	}

	for _, o := range orders {
		if o.CreatedAt.Before(from) || !o.CreatedAt.Before(to) {
			continue
		}
		b, ok := byLabel[label(o.CreatedAt, g)]
		if !ok {
			continue
		}
		b.Count++
		if o.Status != order.StatusCancelled {
			b.Sum += o.TotalAmount
		}
	}

	return buckets
}
