package mealplan

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"nutrition-planner/internal/catalog"
)

// ErrEmptyCatalog is returned before any slot is resolved when the recipe
// pool is empty. The engine never returns an empty plan silently.
var ErrEmptyCatalog = errors.New("recipe catalog is empty")

// InsufficientCatalogError reports that a slot needs more recipes than the
// pool holds, even with the reuse cap fully relaxed.
type InsufficientCatalogError struct {
	Slot string
	Need int
	Have int
}

func (e *InsufficientCatalogError) Error() string {
	return fmt.Sprintf("slot %q needs %d recipes but the catalog only has %d distinct (short by %d)",
		e.Slot, e.Need, e.Have, e.Need-e.Have)
}

// Policy holds the selection constants for one plan-generation run.
type Policy struct {
	CandidatePool int   `json:"candidate_pool"` // K: lowest-score recipes considered per slot
	PerSlot       int   `json:"per_slot"`       // N: recipes selected per slot
	MaxReuse      int   `json:"max_reuse"`      // max slots one recipe may appear in per run
	PickRandom    bool  `json:"pick_random"`    // sample N from the top-K pool instead of strict top-N
	Seed          int64 `json:"seed"`           // seed for PickRandom; identical seeds give identical plans
}

// DefaultPolicy mirrors the reference constants: a pool of 6 candidates,
// 5 recipes per slot, at most 2 appearances per recipe across the plan.
func DefaultPolicy() Policy {
	return Policy{CandidatePool: 6, PerSlot: 5, MaxReuse: 2}
}

func (p Policy) validate() error {
	if p.PerSlot <= 0 {
		return fmt.Errorf("per-slot recipe count must be positive, got %d", p.PerSlot)
	}
	if p.CandidatePool < p.PerSlot {
		return fmt.Errorf("candidate pool (%d) must be at least the per-slot count (%d)",
			p.CandidatePool, p.PerSlot)
	}
	if p.MaxReuse <= 0 {
		return fmt.Errorf("max reuse must be positive, got %d", p.MaxReuse)
	}
	return nil
}

// Engine selects recipes for each meal slot against its macro target.
type Engine struct {
	scorer Scorer
	policy Policy
}

func NewEngine(scorer Scorer, policy Policy) *Engine {
	return &Engine{scorer: scorer, policy: policy}
}

// SlotSelection is one resolved slot: its target and the chosen recipes.
type SlotSelection struct {
	Target  SlotTarget
	Recipes []catalog.Record
}

// Select resolves every slot in order against the shared pool. The pool is
// read-only for the whole run; scores and the usage ledger live in state
// local to this call, so concurrent runs over the same pool are safe.
func (e *Engine) Select(pool []catalog.Record, targets []SlotTarget) ([]SlotSelection, error) {
	if err := e.policy.validate(); err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, ErrEmptyCatalog
	}

	// One generator per run, seeded explicitly. The global source would make
	// plans irreproducible under test.
	var rng *rand.Rand
	if e.policy.PickRandom {
		rng = rand.New(rand.NewSource(e.policy.Seed))
	}

	usage := make(map[string]int, len(pool))
	selections := make([]SlotSelection, 0, len(targets))

	for _, st := range targets {
		chosen, err := e.selectSlot(pool, st, usage, rng)
		if err != nil {
			return nil, err
		}
		for _, rec := range chosen {
			usage[rec.ID]++
		}
		selections = append(selections, SlotSelection{Target: st, Recipes: chosen})
	}
	return selections, nil
}

func (e *Engine) selectSlot(
	pool []catalog.Record,
	st SlotTarget,
	usage map[string]int,
	rng *rand.Rand,
) ([]catalog.Record, error) {
	// Rank the whole pool by score, ascending. The stable sort keeps catalog
	// order as the tiebreak, so equal scores resolve deterministically.
	scores := make([]float64, len(pool))
	ranked := make([]int, len(pool))
	for i, rec := range pool {
		scores[i] = e.scorer.Score(rec, st.Macros)
		ranked[i] = i
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return scores[ranked[a]] < scores[ranked[b]]
	})

	n := e.policy.PerSlot
	k := min(e.policy.CandidatePool, len(ranked))

	// Top-K pool minus recipes already at their reuse cap.
	candidates := make([]int, 0, k)
	inSet := make(map[int]struct{}, k)
	for _, idx := range ranked[:k] {
		if usage[pool[idx].ID] < e.policy.MaxReuse {
			candidates = append(candidates, idx)
			inSet[idx] = struct{}{}
		}
	}

	// Backfill from the rest of the ranked pool, still honoring the cap.
	for _, idx := range ranked[k:] {
		if len(candidates) >= n {
			break
		}
		if usage[pool[idx].ID] < e.policy.MaxReuse {
			candidates = append(candidates, idx)
			inSet[idx] = struct{}{}
		}
	}

	// Every remaining recipe is at its cap: relax it for this slot only and
	// take the best-scoring leftovers rather than failing the run.
	if len(candidates) < n {
		for _, idx := range ranked {
			if len(candidates) >= n {
				break
			}
			if _, ok := inSet[idx]; !ok {
				candidates = append(candidates, idx)
				inSet[idx] = struct{}{}
			}
		}
	}

	if len(candidates) < n {
		return nil, &InsufficientCatalogError{Slot: st.Slot.Name, Need: n, Have: len(candidates)}
	}

	if rng != nil {
		// Sample N from the top of the candidate list (at most K wide).
		width := min(len(candidates), e.policy.CandidatePool)
		sample := make([]int, width)
		copy(sample, candidates[:width])
		rng.Shuffle(width, func(a, b int) {
			sample[a], sample[b] = sample[b], sample[a]
		})
		candidates = sample[:n]
		// Present the sampled recipes best-first.
		sort.SliceStable(candidates, func(a, b int) bool {
			return scores[candidates[a]] < scores[candidates[b]]
		})
	} else {
		candidates = candidates[:n]
	}

	chosen := make([]catalog.Record, n)
	for i, idx := range candidates {
		chosen[i] = pool[idx]
	}
	return chosen, nil
}
