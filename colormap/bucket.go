package colormap

// destinationRangeCeiling computes R = ceil(queriesCount / 1000) * 1000,
// the rounding-up-to-a-multiple-of-1000 bound used to keep destination
// bucket boundaries aligned and to keep the last bucket from attracting
// a long tail of high query indices.
func destinationRangeCeiling(queriesCount uint64) uint64 {
	if queriesCount == 0 {
		return 1000
	}
	return (queriesCount + 999) / 1000 * 1000
}

// destinationBucket computes b(q) = min(bucketsCount-1, q*bucketsCount/R)
// for query index q.
func destinationBucket(q uint64, bucketsCount int, rangeCeiling uint64) int {
	b := q * uint64(bucketsCount) / rangeCeiling
	if b >= uint64(bucketsCount) {
		return bucketsCount - 1
	}
	return int(b)
}
