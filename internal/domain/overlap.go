package domain

// Overlaps reports whether two slot sets share at least one index.
// Both sets must be normalized (sorted, unique). Empty sets never overlap.
func Overlaps(a, b SlotSet) bool {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			return true
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return false
}

// Intersection returns the slots present in both sets
func Intersection(a, b SlotSet) SlotSet {
	result := SlotSet{}
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			result = append(result, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return result
}
