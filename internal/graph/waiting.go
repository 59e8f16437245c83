package graph

// WaitingTimes maps a node label to the minutes lost when a route passes
// through that node. Labels without an entry cost nothing.
type WaitingTimes map[string]int

// Minutes returns the penalty for label, or 0 when none is recorded.
func (w WaitingTimes) Minutes(label string) int {
	return w[label]
}

// Set records minutes for label; a later call for the same label wins.
func (w WaitingTimes) Set(label string, minutes int) {
	w[label] = minutes
}
