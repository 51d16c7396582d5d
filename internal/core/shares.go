package core

// ShareSegment is one slice of a participation bar: Start and End are
// cumulative percentage bounds, ready to drive a gradient or a fixed-width
// text bar.
type ShareSegment struct {
	Label string
	Share float64
	Start float64
	End   float64
}

// ShareSegments turns raw participation percentages into ordered cumulative
// segments. Negative shares count as zero and the bar is clamped so the
// last segment never runs past 100. Input order is preserved.
func ShareSegments(labels []string, shares []float64) []ShareSegment {
	n := len(shares)
	if len(labels) < n {
		n = len(labels)
	}
	out := make([]ShareSegment, 0, n)
	cursor := 0.0
	for i := 0; i < n; i++ {
		share := shares[i]
		if share < 0 {
			share = 0
		}
		start := cursor
		end := start + share
		if end > 100 {
			end = 100
			share = end - start
		}
		out = append(out, ShareSegment{Label: labels[i], Share: share, Start: start, End: end})
		cursor = end
	}
	return out
}
