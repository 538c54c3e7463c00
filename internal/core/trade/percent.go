package trade

// PercentOf returns floor(total * percent / 100). Both arguments must be
// non-negative; negative input is a domain error. The split computation
// keeps the intermediate product from overflowing for any uint64 total.
func PercentOf(total, percent int64) (uint64, error) {
	if total < 0 || percent < 0 {
		return 0, ErrNegativePercent
	}
	t, p := uint64(total), uint64(percent)
	// floor((100q+r)*p/100) == q*p + floor(r*p/100) with r < 100.
	return (t/100)*p + (t%100)*p/100, nil
}

// percentOfUint is PercentOf for values already known non-negative.
func percentOfUint(total, percent uint64) uint64 {
	return (total/100)*percent + (total%100)*percent/100
}
