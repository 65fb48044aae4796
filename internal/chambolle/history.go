package chambolle

// historySize is the number of past best-error values the reference policy
// compares against.
const historySize = 100

// history is a fixed-capacity ring buffer; pushing onto a full buffer
// evicts the oldest entry.
type history struct {
	values []float64
	start  int
	n      int
}

func newHistory(capacity int) *history {
	return &history{values: make([]float64, capacity)}
}

// Push appends v, evicting the oldest value when full.
func (h *history) Push(v float64) {
	if h.n < len(h.values) {
		h.values[(h.start+h.n)%len(h.values)] = v
		h.n++
		return
	}
	h.values[h.start] = v
	h.start = (h.start + 1) % len(h.values)
}

// Len returns the number of stored values.
func (h *history) Len() int { return h.n }

// Oldest returns the earliest stored value. Panics when empty.
func (h *history) Oldest() float64 {
	if h.n == 0 {
		panic("chambolle: empty history")
	}
	return h.values[h.start]
}

// Newest returns the most recently pushed value. Panics when empty.
func (h *history) Newest() float64 {
	if h.n == 0 {
		panic("chambolle: empty history")
	}
	return h.values[(h.start+h.n-1)%len(h.values)]
}
