// Package favorites implements the add/remove toggle for a course card.
//
// Each card is Idle or Submitting. [Workflow.Begin] moves a card to Submitting and refuses a
// second request for the same code until [Workflow.Complete] returns it to Idle; a refused
// request is dropped, not queued. Complete applies the outcome to the local [models.FavoriteSet]
// and returns the notice to show.
package favorites

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/desertthunder/skillstream/internal/models"
	"github.com/desertthunder/skillstream/internal/notify"
	"github.com/desertthunder/skillstream/internal/services"
	"github.com/desertthunder/skillstream/internal/shared"
)

type Op int

const (
	Add Op = iota
	Remove
)

func (o Op) String() string {
	if o == Remove {
		return "remove"
	}
	return "add"
}

// Notice texts.
const (
	AddedText        = "Added to favorites"
	RemovedText      = "Removed from favorites"
	LoginText        = "Please login to add favorites"
	DuplicateText    = "Already in your favorites"
	AddFailedText    = "Failed to add favorite"
	RemoveFailedText = "Failed to remove favorite"
)

// API is the part of the catalog client the toggle needs.
type API interface {
	AddFavourite(ctx context.Context, course models.Course) error
	RemoveFavourite(ctx context.Context, code int) error
}

// Outcome classifies a completed request.
type Outcome int

const (
	Succeeded Outcome = iota
	Unauthenticated
	Duplicate
	Failed
)

// Result is the completion of one request started with Begin.
type Result struct {
	Op     Op
	Course models.Course
	Err    error
}

// Workflow tracks in-flight requests per course code. It is safe for concurrent use.
type Workflow struct {
	mu      sync.Mutex
	pending map[int]Op
	set     *models.FavoriteSet

	// Authenticated, when set, is consulted before a request is sent. A false result completes
	// the request locally as unauthenticated.
	Authenticated func() bool
}

func New(set *models.FavoriteSet) *Workflow {
	if set == nil {
		set = models.NewFavoriteSet(nil)
	}
	return &Workflow{pending: map[int]Op{}, set: set}
}

// Set returns the local favorites. Callers must not mutate it while requests are in flight.
func (w *Workflow) Set() *models.FavoriteSet {
	return w.set
}

// Begin marks code as submitting. It returns false when a request for code is already pending.
func (w *Workflow) Begin(code int, op Op) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, busy := w.pending[code]; busy {
		return false
	}
	w.pending[code] = op
	return true
}

func (w *Workflow) IsSubmitting(code int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, busy := w.pending[code]
	return busy
}

// Toggle picks Remove when code is already a favorite and Add otherwise.
func (w *Workflow) Toggle(code int) Op {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.set.Has(code) {
		return Remove
	}
	return Add
}

// Complete returns the card to Idle, applies a successful result to the set and returns the
// notice for the outcome.
func (w *Workflow) Complete(r Result) notify.Notice {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.pending, r.Course.Code)

	outcome := Classify(r.Err)
	if outcome == Succeeded {
		switch r.Op {
		case Add:
			w.set.Add(r.Course)
		case Remove:
			w.set.Remove(r.Course.Code)
		}
	}
	return NoticeFor(r.Op, outcome, r.Err)
}

// Run performs Begin, the API call and Complete. ok is false when the request was dropped
// because one is already pending for the course.
func (w *Workflow) Run(ctx context.Context, api API, op Op, course models.Course) (n notify.Notice, ok bool) {
	if !w.Begin(course.Code, op) {
		return notify.Notice{}, false
	}
	return w.Complete(w.Send(ctx, api, op, course)), true
}

// Send issues the request for op without touching workflow state. It is the body of the
// asynchronous half between Begin and Complete.
func (w *Workflow) Send(ctx context.Context, api API, op Op, course models.Course) Result {
	r := Result{Op: op, Course: course.Clone()}
	if w.Authenticated != nil && !w.Authenticated() {
		r.Err = shared.ErrNotAuthenticated
		return r
	}

	switch op {
	case Add:
		r.Err = api.AddFavourite(ctx, r.Course)
	case Remove:
		r.Err = api.RemoveFavourite(ctx, r.Course.Code)
	}
	return r
}

// Load replaces the local set with a server copy. It must run on the goroutine that owns the
// set; pending toggles are left alone and complete against the new set.
func (w *Workflow) Load(courses []models.Course) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.set.Replace(courses)
}

// Classify maps a request error onto an outcome.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return Succeeded
	case errors.Is(err, shared.ErrNotAuthenticated), errors.Is(err, shared.ErrInvalidToken):
		return Unauthenticated
	case errors.Is(err, shared.ErrConflict):
		return Duplicate
	default:
		return Failed
	}
}

// NoticeFor builds the user-facing notice for an outcome.
func NoticeFor(op Op, outcome Outcome, err error) notify.Notice {
	switch outcome {
	case Succeeded:
		if op == Remove {
			return notify.New(notify.Success, RemovedText, notify.RemovedTTL)
		}
		return notify.New(notify.Success, AddedText, notify.SuccessTTL)
	case Unauthenticated:
		return notify.New(notify.Error, LoginText, notify.ErrorTTL)
	case Duplicate:
		return notify.New(notify.Info, DuplicateText, notify.InfoTTL)
	default:
		if op == Remove {
			return notify.New(notify.Error, RemoveFailedText, notify.ErrorTTL)
		}
		return notify.New(notify.Error, fmt.Sprintf("%s: %s", AddFailedText, services.MessageOf(err)), notify.ErrorTTL)
	}
}
