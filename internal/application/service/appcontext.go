package service

import "sync"

// AppContext holds the process-wide switches. They are not persisted and
// start from their defaults on every run.
type AppContext struct {
	mu          sync.RWMutex
	maintenance bool
	promotions  bool
}

func NewAppContext() *AppContext {
	return &AppContext{promotions: true}
}

func (a *AppContext) Maintenance() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.maintenance
}

func (a *AppContext) SetMaintenance(on bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.maintenance = on
}

func (a *AppContext) PromotionsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.promotions
}

func (a *AppContext) SetPromotionsEnabled(on bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.promotions = on
}
