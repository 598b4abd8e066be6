package observability

import "sync"

type observe struct {
	Kind   string
	Name   string
	Detail string
	Status int
	OK     bool
	Dur    float64
}

// Inmem keeps the last max observations and running cache totals. Tests
// use it to assert on what the service reported.
type Inmem struct {
	mu     sync.Mutex
	last   []*observe
	max    int
	totals struct {
		cacheHits, cacheMiss int
	}
}

func NewInmem(max int) *Inmem {
	return &Inmem{
		max:  max,
		last: []*observe{},
	}
}

func (m *Inmem) push(v *observe) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.last == nil {
		m.last = []*observe{}
	}
	if m.max <= 0 {
		return
	}
	m.last = append(m.last, v)
	if len(m.last) > m.max {
		m.last = m.last[1:]
	}
}

func (m *Inmem) ObserveLookup(cache string, hit bool, loadMs float64) {
	m.mu.Lock()
	if hit {
		m.totals.cacheHits++
	} else {
		m.totals.cacheMiss++
	}
	m.mu.Unlock()
	m.push(&observe{Kind: "lookup", Name: cache, OK: hit, Dur: loadMs})
}

func (m *Inmem) ObserveHTTP(method, route string, status int, durMs float64) {
	m.push(&observe{Kind: "http", Name: method, Detail: route, Status: status, Dur: durMs})
}

func (m *Inmem) ObserveTransition(from, to string) {
	m.push(&observe{Kind: "transition", Name: from, Detail: to})
}

func (m *Inmem) ObservePayment(method, outcome string, durMs float64) {
	m.push(&observe{Kind: "payment", Name: method, Detail: outcome, Dur: durMs})
}

func (m *Inmem) ObserveEvent(ok bool) {
	m.push(&observe{Kind: "event", OK: ok})
}

// Transitions returns the recorded "from>to" pairs in order.
func (m *Inmem) Transitions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, o := range m.last {
		if o.Kind == "transition" {
			out = append(out, o.Name+">"+o.Detail)
		}
	}
	return out
}

func (m *Inmem) CacheTotals() (hits, misses int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totals.cacheHits, m.totals.cacheMiss
}
