package services

import "sync"

// MarketLocks hands out one mutex per market so wager placement and
// settlement are mutually exclusive for the same market. Locks are created
// lazily and never released; markets are never deleted.
type MarketLocks struct {
	locks sync.Map // marketID -> *sync.Mutex
}

func NewMarketLocks() *MarketLocks {
	return &MarketLocks{}
}

// Get returns the mutex guarding the given market
func (ml *MarketLocks) Get(marketID uint) *sync.Mutex {
	if mu, ok := ml.locks.Load(marketID); ok {
		return mu.(*sync.Mutex)
	}
	mu, _ := ml.locks.LoadOrStore(marketID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
