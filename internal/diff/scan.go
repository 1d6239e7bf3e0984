package diff

// Scan walks left and right once and groups consecutive mismatching
// positions into runs, ordered by offset. A single matching byte always
// splits two runs.
//
// The inputs must have the same length; Scan does not check it and only
// inspects the first len(left) bytes of right.
func Scan(left, right []byte) []Run {
	runs := []Run{}

	open := -1
	for i := range left {
		if left[i] != right[i] {
			if open < 0 {
				open = i
			}
			continue
		}
		if open >= 0 {
			runs = append(runs, Run{Offset: open, Length: i - open})
			open = -1
		}
	}

	if open >= 0 {
		runs = append(runs, Run{Offset: open, Length: len(left) - open})
	}
	return runs
}
