package analysis

import (
	"math"
	"sort"

	"github.com/verte-zerg/hublog/internal/model"
)

// Summarize computes one SummaryRow per sensor present in the samples,
// sorted by sensor name. Sensors with zero samples are omitted rather
// than zero-filled. Alert counts are matched by sensor regardless of
// whether an alert lines up with any sample.
func Summarize(samples []model.Sample, alerts []model.Alert) []model.SummaryRow {
	grouped := map[model.SensorType][]float64{}
	for _, s := range samples {
		grouped[s.Sensor] = append(grouped[s.Sensor], s.Value)
	}
	alertCounts := AlertCounts(alerts)

	sensors := make([]model.SensorType, 0, len(grouped))
	for sensor := range grouped {
		sensors = append(sensors, sensor)
	}
	sort.Slice(sensors, func(i, j int) bool { return sensors[i] < sensors[j] })

	rows := make([]model.SummaryRow, 0, len(sensors))
	for _, sensor := range sensors {
		values := grouped[sensor]
		row := model.SummaryRow{
			Sensor:     sensor,
			Count:      len(values),
			AlertCount: alertCounts[sensor],
		}
		row.Min, row.Max = minMax(values)
		row.Mean = mean(values)
		if len(values) >= 2 {
			row.Std = sampleStd(values, row.Mean)
			row.HasStd = true
		}
		rows = append(rows, row)
	}
	return rows
}

func minMax(values []float64) (float64, float64) {
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	return minVal, maxVal
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStd is the sample standard deviation (n-1 denominator).
func sampleStd(values []float64, mu float64) float64 {
	var sum float64
	for _, v := range values {
		d := v - mu
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}
