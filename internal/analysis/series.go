package analysis

import (
	"sort"

	"github.com/verte-zerg/hublog/internal/model"
)

// MovingAverageSeries computes the trailing rolling mean over one
// sensor's samples. The first window-1 points average however many
// samples exist so far, so every input sample produces a point. Input
// is sorted by timestamp defensively; the caller's slice is not
// modified. Output order follows ascending timestamps.
func MovingAverageSeries(samples []model.Sample, window int) []model.MovingAveragePoint {
	if len(samples) == 0 {
		return nil
	}
	if window < 1 {
		window = 1
	}
	ordered := append([]model.Sample(nil), samples...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].TimestampMs < ordered[j].TimestampMs
	})

	points := make([]model.MovingAveragePoint, len(ordered))
	var sum float64
	for i, s := range ordered {
		sum += s.Value
		if i >= window {
			sum -= ordered[i-window].Value
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		points[i] = model.MovingAveragePoint{
			TimestampMs: s.TimestampMs,
			Raw:         s.Value,
			RollingMean: sum / den,
		}
	}
	return points
}

// BySensor groups samples by channel, keeping input order within each
// group.
func BySensor(samples []model.Sample) map[model.SensorType][]model.Sample {
	grouped := map[model.SensorType][]model.Sample{}
	for _, s := range samples {
		grouped[s.Sensor] = append(grouped[s.Sensor], s)
	}
	return grouped
}
