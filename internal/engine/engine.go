package engine

import (
	"errors"
	"fmt"
	"sync"

	"github.com/censusstack/income-explorer/internal/dataset"
	"github.com/censusstack/income-explorer/internal/models"
)

// ErrInvalidParam marks a rejected parameter write. Rejected writes
// leave the parameter state and the cached view untouched.
var ErrInvalidParam = errors.New("invalid filter parameter")

// Observer receives cache telemetry from the engine. Implementations
// must be safe for concurrent use; the engine calls them under its
// lock.
type Observer interface {
	ViewRecomputed(size int)
	ViewCacheHit()
}

// Engine owns one session's filter parameters and the memoized global
// view derived from them. Writes bump a version counter; CurrentView
// recomputes only when the cached view's version lags the counter, so
// any number of consumers pulling under one parameter state share a
// single recomputation.
//
// All methods are safe for concurrent use. The dataset is shared
// read-only across engines; everything else is per-engine state.
type Engine struct {
	mu   sync.Mutex
	ds   *dataset.Dataset
	obs  Observer
	p    models.Params
	ver  uint64
	view *View
}

// New constructs an engine over ds starting from the default
// parameters. obs may be nil.
func New(ds *dataset.Dataset, obs Observer) *Engine {
	return &Engine{ds: ds, obs: obs, p: models.DefaultParams(), ver: 1}
}

// Params returns a snapshot of the current parameter state.
func (e *Engine) Params() models.Params {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.p
}

// Version returns the current parameter version. Each accepted write
// bumps it exactly once.
func (e *Engine) Version() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ver
}

// SetGender writes the gender parameter.
func (e *Engine) SetGender(v string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := validateCategory("gender", v, e.ds.Facets().Genders); err != nil {
		return err
	}
	e.p.Gender = v
	e.ver++
	return nil
}

// SetAgeRange writes the inclusive age range.
func (e *Engine) SetAgeRange(lo, hi int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	r := models.Range{Lo: lo, Hi: hi}
	if !r.Valid() {
		return fmt.Errorf("%w: age range %d > %d", ErrInvalidParam, lo, hi)
	}
	e.p.Age = r
	e.ver++
	return nil
}

// SetRace writes the race parameter.
func (e *Engine) SetRace(v string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := validateCategory("race", v, e.ds.Facets().Races); err != nil {
		return err
	}
	e.p.Race = v
	e.ver++
	return nil
}

// SetEducation writes the education refinement.
func (e *Engine) SetEducation(v string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := validateCategory("education", v, e.ds.Facets().Educations); err != nil {
		return err
	}
	e.p.Education = v
	e.ver++
	return nil
}

// SetOccupation writes the occupation refinement.
func (e *Engine) SetOccupation(v string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := validateCategory("occupation", v, e.ds.Facets().Occupations); err != nil {
		return err
	}
	e.p.Occupation = v
	e.ver++
	return nil
}

// SetCapitalGainOnly writes the capital-gain refinement flag.
func (e *Engine) SetCapitalGainOnly(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.p.CapitalGainOnly = v
	e.ver++
}

// SetHoursRange writes the inclusive hours-per-week range.
func (e *Engine) SetHoursRange(lo, hi int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	r := models.Range{Lo: lo, Hi: hi}
	if !r.Valid() {
		return fmt.Errorf("%w: hours range %d > %d", ErrInvalidParam, lo, hi)
	}
	e.p.Hours = r
	e.ver++
	return nil
}

// Apply validates and applies a partial update atomically: either
// every field in the patch is accepted and the version bumps once, or
// nothing changes. An empty patch is a no-op and does not invalidate.
func (e *Engine) Apply(patch models.ParamPatch) (models.Params, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if patch.IsEmpty() {
		return e.p, nil
	}

	f := e.ds.Facets()
	if patch.Gender != nil {
		if err := validateCategory("gender", *patch.Gender, f.Genders); err != nil {
			return e.p, err
		}
	}
	if patch.Age != nil && !patch.Age.Valid() {
		return e.p, fmt.Errorf("%w: age range %d > %d", ErrInvalidParam, patch.Age.Lo, patch.Age.Hi)
	}
	if patch.Race != nil {
		if err := validateCategory("race", *patch.Race, f.Races); err != nil {
			return e.p, err
		}
	}
	if patch.Education != nil {
		if err := validateCategory("education", *patch.Education, f.Educations); err != nil {
			return e.p, err
		}
	}
	if patch.Occupation != nil {
		if err := validateCategory("occupation", *patch.Occupation, f.Occupations); err != nil {
			return e.p, err
		}
	}
	if patch.Hours != nil && !patch.Hours.Valid() {
		return e.p, fmt.Errorf("%w: hours range %d > %d", ErrInvalidParam, patch.Hours.Lo, patch.Hours.Hi)
	}

	e.p = patch.ApplyTo(e.p)
	e.ver++
	return e.p, nil
}

// Reset restores the default parameters and invalidates the view.
func (e *Engine) Reset() models.Params {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.p = models.DefaultParams()
	e.ver++
	return e.p
}

// CurrentView returns the view consistent with the parameters at the
// moment of the call. If no parameter changed since the last call the
// previously computed view is returned as-is, pointer-identical, with
// no recomputation.
func (e *Engine) CurrentView() *View {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.view != nil && e.view.version == e.ver {
		if e.obs != nil {
			e.obs.ViewCacheHit()
		}
		return e.view
	}

	e.view = e.recompute()
	return e.view
}

// recompute filters the dataset under the current parameters. Global
// predicates only: gender equality, age range, race equality, in that
// order. Local refinements stay with the consumers that own them.
func (e *Engine) recompute() *View {
	indices := make([]int, 0, e.ds.Len())
	for i := 0; i < e.ds.Len(); i++ {
		r := e.ds.Record(i)
		if e.p.Gender != models.All && r.Gender != e.p.Gender {
			continue
		}
		if !e.p.Age.Contains(r.Age) {
			continue
		}
		if e.p.Race != models.All && r.Race != e.p.Race {
			continue
		}
		indices = append(indices, i)
	}
	if e.obs != nil {
		e.obs.ViewRecomputed(len(indices))
	}
	return &View{ds: e.ds, params: e.p, version: e.ver, indices: indices}
}

func validateCategory(name, value string, observed []string) error {
	if value == models.All {
		return nil
	}
	for _, v := range observed {
		if v == value {
			return nil
		}
	}
	return fmt.Errorf("%w: unknown %s %q", ErrInvalidParam, name, value)
}
