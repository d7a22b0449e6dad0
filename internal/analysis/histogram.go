package analysis

// Histogram bins values into equal-width buckets over [min, max].
type Histogram struct {
	Min    float64
	Max    float64
	Counts []int
}

// BinValues builds a histogram with the given bin count. The maximum
// value lands in the last bin. A constant-valued input collapses to a
// single occupied bin.
func BinValues(values []float64, bins int) Histogram {
	if bins < 1 {
		bins = 1
	}
	if len(values) == 0 {
		return Histogram{Counts: make([]int, bins)}
	}
	minVal, maxVal := minMax(values)
	hist := Histogram{Min: minVal, Max: maxVal, Counts: make([]int, bins)}
	width := (maxVal - minVal) / float64(bins)
	for _, v := range values {
		idx := bins - 1
		if width > 0 {
			idx = int((v - minVal) / width)
			if idx >= bins {
				idx = bins - 1
			}
			if idx < 0 {
				idx = 0
			}
		}
		hist.Counts[idx]++
	}
	return hist
}

// Total returns the number of binned values.
func (h Histogram) Total() int {
	total := 0
	for _, c := range h.Counts {
		total += c
	}
	return total
}
