package container

// Welford maintains a numerically stable running mean.
type Welford struct {
	count uint64
	mean  float64
}

// Update folds x into the running mean. Complexity: O(1).
func (w *Welford) Update(x float64) {
	w.count++
	w.mean += (x - w.mean) / float64(w.count)
}

// Mean returns the current mean, 0 when no sample was seen.
func (w *Welford) Mean() float64 { return w.mean }

// Reset discards all samples.
func (w *Welford) Reset() {
	w.count = 0
	w.mean = 0
}
