package publish

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultHourlyCallCeiling is the safe per-account API call budget.
const DefaultHourlyCallCeiling = 180

// CallBudget enforces a per-account API call ceiling over a rolling
// hour. Once the budget is spent, further calls for that account are
// refused locally without contacting the remote service.
type CallBudget struct {
	ceiling  int
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
}

// NewCallBudget creates a budget of ceiling calls per account per
// rolling hour. A non-positive ceiling uses the default.
func NewCallBudget(ceiling int) *CallBudget {
	if ceiling <= 0 {
		ceiling = DefaultHourlyCallCeiling
	}
	return &CallBudget{
		ceiling:  ceiling,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Allow reports whether the account may spend one API call now. Tokens
// replenish continuously at ceiling per hour, so a drained account
// recovers gradually instead of all at once.
func (b *CallBudget) Allow(accountID string) bool {
	b.mu.Lock()
	limiter, ok := b.limiters[accountID]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(time.Hour/time.Duration(b.ceiling)), b.ceiling)
		b.limiters[accountID] = limiter
	}
	b.mu.Unlock()

	return limiter.Allow()
}
