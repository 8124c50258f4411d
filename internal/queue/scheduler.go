package queue

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"backend-sevapali/internal/helper"
	"backend-sevapali/internal/models"

	"github.com/google/uuid"
)

// Actor is the authenticated caller of a scheduler operation. Office
// and department come from the identity collaborator (JWT claims) and
// bound which queue keys the actor may touch.
type Actor struct {
	ID           string
	Role         string // citizen, official, super_user
	OfficeID     string
	DepartmentID string
}

const (
	RoleCitizen  = "citizen"
	RoleOfficial = "official"
	RoleSuper    = "super_user"
)

// Scheduler owns every token status transition. All conflict-sensitive
// operations take the per-key advisory lock and write through
// conditional updates, so two officials hammering the same counter can
// never promote two tokens at once.
type Scheduler struct {
	store    Store
	notifier Notifier
	times    ServiceTimes

	locks *keyLocks
	now   func() time.Time
}

func NewScheduler(store Store, notifier Notifier, times ServiceTimes) *Scheduler {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if times == nil {
		times = StaticServiceTimes(DefaultAvgServiceMinutes)
	}
	return &Scheduler{
		store:    store,
		notifier: notifier,
		times:    times,
		locks:    newKeyLocks(),
		now:      time.Now,
	}
}

/*
|--------------------------------------------------------------------------
| Booking & Check-in
|--------------------------------------------------------------------------
*/

// Book creates a pending token. Pending tokens are not part of any
// waiting set yet, so no key lock is needed here.
func (s *Scheduler) Book(ctx context.Context, citizenID string, req models.BookTokenRequest) (*models.Token, error) {
	key, err := ResolveKeyDate(req.OfficeID, req.DepartmentID, req.AppointmentDate)
	if err != nil {
		return nil, err
	}
	if req.AppointmentTime != "" {
		if _, err := time.Parse("15:04", req.AppointmentTime); err != nil {
			return nil, fmt.Errorf("%w: appointment time must be HH:MM", ErrInvalidArgument)
		}
	}

	number, err := s.generateTokenNumber(ctx, key.Date)
	if err != nil {
		return nil, err
	}

	now := s.now()
	token := &models.Token{
		ID:              uuid.NewString(),
		TokenNumber:     number,
		CitizenID:       citizenID,
		OfficeID:        key.OfficeID,
		DepartmentID:    key.DepartmentID,
		Status:          models.StatusPending,
		AppointmentDate: key.Date,
		AppointmentTime: req.AppointmentTime,
		DocumentRefs:    req.DocumentRefs,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.store.Insert(ctx, token); err != nil {
		return nil, s.storeErr(err)
	}

	s.emit(key, token, "", models.StatusPending)
	return token, nil
}

// CheckIn admits an arrived citizen into the waiting set. The check-in
// instant, not the booking instant, becomes the FIFO ordering key: book
// early, arrive late, queue behind earlier arrivals.
//
// Scanning a token that is already waiting or serving is a no-op
// success, so repeated QR scans never duplicate-enqueue.
func (s *Scheduler) CheckIn(ctx context.Context, tokenID string, actor Actor) (*models.Token, error) {
	token, err := s.getToken(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	if err := s.checkScope(actor, token); err != nil {
		return nil, err
	}

	if token.AppointmentDate != helper.ServiceDate(s.now()) {
		return nil, fmt.Errorf("%w: appointment date %s", ErrStaleDate, token.AppointmentDate)
	}

	switch token.Status {
	case models.StatusWaiting, models.StatusServing:
		// Already admitted.
		return token, nil
	case models.StatusPending:
		// Fall through to the transition below.
	default:
		return nil, fmt.Errorf("%w: cannot check in from %s", ErrInvalidTransition, token.Status)
	}

	key := s.keyOf(token)
	lock := s.locks.get(key)
	lock.Lock()
	defer lock.Unlock()

	arrivedAt := s.now()
	ok, err := s.store.ConditionalUpdate(ctx, token.ID, models.StatusPending, Mutation{
		Status:       models.StatusWaiting,
		SetCreatedAt: &arrivedAt,
	})
	if err != nil {
		return nil, s.storeErr(err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: check-in of %s", ErrConcurrencyConflict, token.TokenNumber)
	}

	token.Status = models.StatusWaiting
	token.CreatedAt = arrivedAt
	token.UpdatedAt = arrivedAt

	s.emit(key, token, models.StatusPending, models.StatusWaiting)
	return token, nil
}

/*
|--------------------------------------------------------------------------
| Call Next
|--------------------------------------------------------------------------
*/

// CallNext completes the token currently at the counter (if any) and
// promotes the earliest waiting token to serving. Both steps run under
// the key lock as one unit; a concurrent CallNext on the same key sees
// either the full effect or nothing.
//
// An empty queue returns (nil, nil); that is the normal end of a
// service day, not an error.
func (s *Scheduler) CallNext(ctx context.Context, key Key, actor Actor) (*models.Token, error) {
	if err := s.checkKeyScope(actor, key); err != nil {
		return nil, err
	}

	lock := s.locks.get(key)
	lock.Lock()
	defer lock.Unlock()

	// Step 1: clear the counter. Safe to retry; if a previous attempt
	// timed out after this step, there is simply nothing serving now.
	current, err := s.store.FindServing(ctx, key)
	if err != nil {
		return nil, s.storeErr(err)
	}
	if current != nil {
		now := s.now()
		mut := Mutation{Status: models.StatusCompleted, SetServedAt: &now}
		if current.ServedBy == nil {
			mut.SetServedBy = &actor.ID
		}
		ok, err := s.store.ConditionalUpdate(ctx, current.ID, models.StatusServing, mut)
		if err != nil {
			return nil, s.storeErr(err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: completing %s", ErrConcurrencyConflict, current.TokenNumber)
		}
		current.Status = models.StatusCompleted
		current.ServedAt = &now
		if mut.SetServedBy != nil {
			current.ServedBy = mut.SetServedBy
		}
		s.emit(key, current, models.StatusServing, models.StatusCompleted)
	}

	// Step 2: promote the earliest waiting token.
	waiting, err := s.store.QueryWaiting(ctx, key)
	if err != nil {
		return nil, s.storeErr(err)
	}
	if len(waiting) == 0 {
		return nil, nil
	}

	next := waiting[0]
	ok, err := s.store.ConditionalUpdate(ctx, next.ID, models.StatusWaiting, Mutation{
		Status:      models.StatusServing,
		SetServedBy: &actor.ID,
	})
	if err != nil {
		return nil, s.storeErr(err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: calling %s", ErrConcurrencyConflict, next.TokenNumber)
	}

	next.Status = models.StatusServing
	next.ServedBy = &actor.ID
	s.emit(key, next, models.StatusWaiting, models.StatusServing)
	return next, nil
}

/*
|--------------------------------------------------------------------------
| Skip
|--------------------------------------------------------------------------
*/

// skipReinsertDepth is how many waiting citizens a skipped token lets
// pass before being served again.
const skipReinsertDepth = 5

// Skip defers a serving or waiting token back into the waiting set.
// With at least skipReinsertDepth tokens waiting, the skipped token is
// re-timestamped one second behind the fifth, so it re-queues mid-line
// instead of at the tail. With a shorter queue the new timestamp is
// now, which lands it at the tail. Position is pure timestamp
// manipulation; there is no separate priority field to fight the FIFO
// order.
func (s *Scheduler) Skip(ctx context.Context, tokenID string, actor Actor) (*models.Token, error) {
	token, err := s.getToken(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	if err := s.checkScope(actor, token); err != nil {
		return nil, err
	}
	if token.Status != models.StatusServing && token.Status != models.StatusWaiting {
		return nil, fmt.Errorf("%w: cannot skip from %s", ErrInvalidTransition, token.Status)
	}

	key := s.keyOf(token)
	lock := s.locks.get(key)
	lock.Lock()
	defer lock.Unlock()

	waiting, err := s.store.QueryWaiting(ctx, key)
	if err != nil {
		return nil, s.storeErr(err)
	}

	// A waiting token being skipped is itself part of the result set;
	// reinsertion counts everyone but it.
	others := waiting[:0:0]
	for _, w := range waiting {
		if w.ID != token.ID {
			others = append(others, w)
		}
	}

	newCreatedAt := s.now()
	if len(others) >= skipReinsertDepth {
		anchor := others[skipReinsertDepth-1]
		newCreatedAt = anchor.CreatedAt.Add(time.Second)
	}

	oldStatus := token.Status
	ok, err := s.store.ConditionalUpdate(ctx, token.ID, oldStatus, Mutation{
		Status:       models.StatusWaiting,
		SetCreatedAt: &newCreatedAt,
		ClearServed:  true,
	})
	if err != nil {
		return nil, s.storeErr(err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: skipping %s", ErrConcurrencyConflict, token.TokenNumber)
	}

	token.Status = models.StatusWaiting
	token.CreatedAt = newCreatedAt
	token.ServedBy = nil
	token.ServedAt = nil

	// The skipped state never persists, but dashboards want to see the
	// deferral distinctly from a plain re-queue.
	s.emit(key, token, oldStatus, models.StatusSkipped)
	s.emit(key, token, models.StatusSkipped, models.StatusWaiting)
	return token, nil
}

/*
|--------------------------------------------------------------------------
| Complete / Cancel
|--------------------------------------------------------------------------
*/

// Complete closes out the token at the counter without calling the
// next one.
func (s *Scheduler) Complete(ctx context.Context, tokenID string, actor Actor) (*models.Token, error) {
	token, err := s.getToken(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	if err := s.checkScope(actor, token); err != nil {
		return nil, err
	}
	if token.Status != models.StatusServing {
		return nil, fmt.Errorf("%w: cannot complete from %s", ErrInvalidTransition, token.Status)
	}

	key := s.keyOf(token)
	lock := s.locks.get(key)
	lock.Lock()
	defer lock.Unlock()

	now := s.now()
	mut := Mutation{Status: models.StatusCompleted, SetServedAt: &now}
	if token.ServedBy == nil {
		mut.SetServedBy = &actor.ID
	}
	ok, err := s.store.ConditionalUpdate(ctx, token.ID, models.StatusServing, mut)
	if err != nil {
		return nil, s.storeErr(err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: completing %s", ErrConcurrencyConflict, token.TokenNumber)
	}

	token.Status = models.StatusCompleted
	token.ServedAt = &now
	if mut.SetServedBy != nil {
		token.ServedBy = mut.SetServedBy
	}

	s.emit(key, token, models.StatusServing, models.StatusCompleted)
	return token, nil
}

// Cancel withdraws a token that has not reached the counter yet. Legal
// only from pending or waiting; a citizen may only cancel their own.
func (s *Scheduler) Cancel(ctx context.Context, tokenID string, actor Actor) (*models.Token, error) {
	token, err := s.getToken(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	if actor.Role == RoleCitizen {
		if token.CitizenID != actor.ID {
			return nil, fmt.Errorf("%w: token belongs to another citizen", ErrPermissionScope)
		}
	} else if err := s.checkScope(actor, token); err != nil {
		return nil, err
	}

	oldStatus := token.Status
	if oldStatus != models.StatusPending && oldStatus != models.StatusWaiting {
		return nil, fmt.Errorf("%w: cannot cancel from %s", ErrInvalidTransition, oldStatus)
	}

	key := s.keyOf(token)
	lock := s.locks.get(key)
	lock.Lock()
	defer lock.Unlock()

	ok, err := s.store.ConditionalUpdate(ctx, token.ID, oldStatus, Mutation{
		Status: models.StatusCancelled,
	})
	if err != nil {
		return nil, s.storeErr(err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: cancelling %s", ErrConcurrencyConflict, token.TokenNumber)
	}

	token.Status = models.StatusCancelled
	s.emit(key, token, oldStatus, models.StatusCancelled)
	return token, nil
}

/*
|--------------------------------------------------------------------------
| Internals
|--------------------------------------------------------------------------
*/

func (s *Scheduler) getToken(ctx context.Context, tokenID string) (*models.Token, error) {
	if tokenID == "" {
		return nil, fmt.Errorf("%w: token id is required", ErrInvalidArgument)
	}
	token, err := s.store.Get(ctx, tokenID)
	if err != nil {
		return nil, s.storeErr(err)
	}
	return token, nil
}

func (s *Scheduler) keyOf(token *models.Token) Key {
	return Key{
		OfficeID:     token.OfficeID,
		DepartmentID: token.DepartmentID,
		Date:         token.AppointmentDate,
	}
}

// checkScope rejects officials acting on tokens outside their assigned
// office/department. Super users and citizens' own reads pass through;
// citizen ownership is enforced per operation.
func (s *Scheduler) checkScope(actor Actor, token *models.Token) error {
	return s.checkKeyScope(actor, s.keyOf(token))
}

func (s *Scheduler) checkKeyScope(actor Actor, key Key) error {
	if actor.Role == RoleSuper {
		return nil
	}
	if actor.OfficeID != "" && actor.OfficeID != key.OfficeID {
		return fmt.Errorf("%w: office %s", ErrPermissionScope, key.OfficeID)
	}
	if actor.DepartmentID != "" && actor.DepartmentID != key.DepartmentID {
		return fmt.Errorf("%w: department %s", ErrPermissionScope, key.DepartmentID)
	}
	return nil
}

// generateTokenNumber builds JS-YYMMDD-NNN with a random 3-digit
// suffix. The suffix space is narrow, so collisions are checked against
// the store and regenerated a few times before giving up and keeping
// the last candidate.
func (s *Scheduler) generateTokenNumber(ctx context.Context, date string) (string, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", fmt.Errorf("%w: service date must be YYYY-MM-DD", ErrInvalidArgument)
	}

	var number string
	for attempt := 0; attempt < 3; attempt++ {
		number = fmt.Sprintf("JS-%s-%03d", day.Format("060102"), rand.Intn(1000))
		_, err := s.store.GetByNumber(ctx, number)
		if errors.Is(err, ErrNotFound) {
			return number, nil
		}
		if err != nil {
			return "", s.storeErr(err)
		}
	}
	log.Printf("[scheduler] token number %s still colliding after retries, keeping it", number)
	return number, nil
}

// storeErr maps a caller-supplied deadline to the Timeout sentinel so
// handlers can tell a retryable abort from a store failure.
func (s *Scheduler) storeErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}

func (s *Scheduler) emit(key Key, token *models.Token, oldStatus, newStatus string) {
	s.notifier.QueueChanged(Event{
		QueueKey:    key.String(),
		TokenID:     token.ID,
		TokenNumber: token.TokenNumber,
		OldStatus:   oldStatus,
		NewStatus:   newStatus,
		Timestamp:   s.now(),
	})
}
