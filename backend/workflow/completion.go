// Package workflow implements the completion state machine: a student
// signals intent, answers the shared passphrase challenge, and only a
// verified answer persists the completion. Marking complete is one-way.
package workflow

import (
	"crypto/subtle"
	"errors"

	"classroom/backend/store"
)

type State string

const (
	NotCompleted        State = "not_completed"
	PendingVerification State = "pending_verification"
	Completed           State = "completed"
)

var ErrIncorrectPassphrase = errors.New("incorrect passphrase")

// Intent is the per-session record of open verification dialogs. The
// session manager provides the real implementation; tests use a map.
type Intent interface {
	Set(lessonID uint) error
	Clear(lessonID uint) error
	Has(lessonID uint) bool
}

type Completions struct {
	lessons    *store.Lessons
	ledger     *store.Completions
	passphrase []byte
}

func NewCompletions(lessons *store.Lessons, ledger *store.Completions, passphrase string) *Completions {
	return &Completions{lessons: lessons, ledger: ledger, passphrase: []byte(passphrase)}
}

// State reports where the (student, lesson) pair sits in the machine.
// A persisted completion wins over any stale pending intent.
func (w *Completions) State(intent Intent, studentID, lessonID uint) (State, error) {
	done, err := w.ledger.Exists(studentID, lessonID)
	if err != nil {
		return NotCompleted, err
	}
	if done {
		return Completed, nil
	}
	if intent.Has(lessonID) {
		return PendingVerification, nil
	}
	return NotCompleted, nil
}

// Request moves the pair to PendingVerification. Nothing is persisted; an
// already-completed pair stays Completed because that transition is
// terminal.
func (w *Completions) Request(intent Intent, studentID, lessonID uint) (State, error) {
	if _, err := w.lessons.Get(lessonID); err != nil {
		return NotCompleted, err
	}

	done, err := w.ledger.Exists(studentID, lessonID)
	if err != nil {
		return NotCompleted, err
	}
	if done {
		return Completed, nil
	}

	if err := intent.Set(lessonID); err != nil {
		return NotCompleted, err
	}
	return PendingVerification, nil
}

// Verify checks the entered passphrase against the configured shared
// secret. A match persists the completion idempotently; a mismatch reverts
// the pair to NotCompleted with no side effect.
func (w *Completions) Verify(intent Intent, studentID, lessonID uint, passphrase string) (State, error) {
	if _, err := w.lessons.Get(lessonID); err != nil {
		return NotCompleted, err
	}

	if len(w.passphrase) == 0 ||
		subtle.ConstantTimeCompare([]byte(passphrase), w.passphrase) != 1 {
		if err := intent.Clear(lessonID); err != nil {
			return NotCompleted, err
		}
		return NotCompleted, ErrIncorrectPassphrase
	}

	// A duplicate insert is swallowed into success: re-entry, a stale UI,
	// or a concurrent verify all land on the same single row.
	if _, err := w.ledger.Insert(studentID, lessonID); err != nil {
		return NotCompleted, err
	}
	if err := intent.Clear(lessonID); err != nil {
		return Completed, err
	}
	return Completed, nil
}

// Cancel abandons a pending verification (dialog closed or navigated
// away). No persisted side effect.
func (w *Completions) Cancel(intent Intent, lessonID uint) error {
	return intent.Clear(lessonID)
}
