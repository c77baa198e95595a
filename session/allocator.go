package session

import "sync"

// maxCookie is the largest usable cookie value; bit 15 of the header's
// cookie field is reserved for the continuation flag.
const maxCookie = 0x7FFF

// Allocator hands out cookies in 1..=0x7FFF for application-initiated
// sessions, guarding against reuse of a cookie that is still live.
type Allocator struct {
	mu   sync.Mutex
	next uint16
	used map[uint16]struct{}
}

// NewAllocator returns an Allocator ready to hand out cookies starting at 1.
func NewAllocator() *Allocator {
	return &Allocator{next: 1, used: make(map[uint16]struct{})}
}

// Allocate reserves and returns the next free cookie, wrapping around the
// 1..=0x7FFF space as needed.
func (a *Allocator) Allocate() (uint16, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.used) >= maxCookie {
		return 0, ErrCookieSpaceExhausted
	}

	for {
		c := a.next
		a.next++
		if a.next > maxCookie {
			a.next = 1
		}
		if _, taken := a.used[c]; !taken {
			a.used[c] = struct{}{}
			return c, nil
		}
	}
}

// Release frees cookie for reuse. Releasing a cookie that isn't held is a
// no-op.
func (a *Allocator) Release(cookie uint16) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.used, cookie)
}
