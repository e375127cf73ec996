package api

import "sync"

// Busy is the shared "api busy" indicator behind loader spinners. It counts
// holders so overlapping calls keep it set until the last one finishes.
type Busy struct {
	mu       sync.Mutex
	n        int
	onChange func(active bool)
}

// NewBusy returns an idle indicator. onChange, if non-nil, is called on every
// idle/busy transition while the indicator's lock is held, so it must not
// call back into Busy.
func NewBusy(onChange func(active bool)) *Busy {
	return &Busy{onChange: onChange}
}

// Acquire registers one holder.
func (b *Busy) Acquire() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.n++
	if b.n == 1 && b.onChange != nil {
		b.onChange(true)
	}
}

// Release drops one holder. Extra releases are ignored.
func (b *Busy) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.n == 0 {
		return
	}
	b.n--
	if b.n == 0 && b.onChange != nil {
		b.onChange(false)
	}
}

// Active reports whether any call currently holds the indicator.
func (b *Busy) Active() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.n > 0
}

// Holders returns the number of calls holding the indicator.
func (b *Busy) Holders() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.n
}
