package observability

type Metrics interface {
	ObserveLookup(cache string, hit bool, loadMs float64)
	ObserveHTTP(method, route string, status int, durMs float64)
	ObserveTransition(from, to string)
	ObservePayment(method, outcome string, durMs float64)
	ObserveEvent(ok bool)
}

type Noop struct{}

func NewNoop() Noop { return Noop{} }

func (Noop) ObserveLookup(string, bool, float64)      {}
func (Noop) ObserveHTTP(string, string, int, float64) {}
func (Noop) ObserveTransition(string, string)         {}
func (Noop) ObservePayment(string, string, float64)   {}
func (Noop) ObserveEvent(bool)                        {}
