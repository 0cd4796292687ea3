package diet

import (
	"math/rand"
	"sync"
	"time"
)

// Allocation is one filled meal slot.
type Allocation struct {
	Day      int
	MealType MealType
	Recipe   Recipe
	Calories int
}

// MealPlanAllocator fills each day's slots by uniform random choice, with
// replacement across days. It is safe for concurrent use.
type MealPlanAllocator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewMealPlanAllocator creates an allocator. A nil source seeds from the clock.
func NewMealPlanAllocator(src rand.Source) *MealPlanAllocator {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &MealPlanAllocator{rng: rand.New(src)}
}

// Allocate returns up to three allocations per day for days 1..durationDays.
// A slot whose pool is empty is omitted.
func (a *MealPlanAllocator) Allocate(pools CandidatePools, durationDays int) ([]Allocation, error) {
	if durationDays <= 0 {
		return nil, ErrInvalidDuration
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]Allocation, 0, durationDays*len(PlanMealTypes))
	for day := 1; day <= durationDays; day++ {
		for _, m := range PlanMealTypes {
			pool := pools.For(m)
			if len(pool) == 0 {
				continue
			}
			r := pool[a.rng.Intn(len(pool))]
			out = append(out, Allocation{
				Day:      day,
				MealType: m,
				Recipe:   r,
				Calories: int(r.Calories()),
			})
		}
	}
	return out, nil
}
