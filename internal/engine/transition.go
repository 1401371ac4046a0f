package engine

import (
	"github.com/username/rangepicker/internal/modifiers"
	"github.com/username/rangepicker/internal/window"
	"github.com/username/rangepicker/pkg/dateutil"
)

// Report summarizes one applied transition
type Report struct {
	Changes   Change
	Rules     []string
	Mutations int
}

type transaction struct {
	old, new  *Inputs
	store     *modifiers.Store
	view      span
	allDays   []dateutil.Date
	dirty     map[dateutil.Date]struct{}
	mutations int
}

func isBlockingTag(tag modifiers.Tag) bool {
	return tag == modifiers.TagBlockedCalendar ||
		tag == modifiers.TagBlockedOutOfRange ||
		tag == modifiers.TagBlockedMinimumNights
}

func (tx *transaction) days() []dateutil.Date {
	if tx.allDays == nil {
		tx.allDays = tx.store.AllDays()
	}
	return tx.allDays
}

func (tx *transaction) commit(next *modifiers.Store, day dateutil.Date, tag modifiers.Tag) {
	if next == tx.store {
		return
	}
	tx.store = next
	tx.mutations++
	if isBlockingTag(tag) {
		tx.dirty[day] = struct{}{}
	}
}

func (tx *transaction) add(day dateutil.Date, tag modifiers.Tag) {
	tx.commit(tx.store.AddTag(day, tag), day, tag)
}

func (tx *transaction) remove(day dateutil.Date, tag modifiers.Tag) {
	tx.commit(tx.store.RemoveTag(day, tag), day, tag)
}

func (tx *transaction) addRange(s span, tag modifiers.Tag) {
	if s.empty() {
		return
	}
	if !isBlockingTag(tag) {
		tx.commitRange(tx.store.AddTagToRange(s.from, s.to, tag))
		return
	}
	for d := s.from; d.Before(s.to); d = d.AddDays(1) {
		tx.add(d, tag)
	}
}

func (tx *transaction) removeRange(s span, tag modifiers.Tag) {
	if s.empty() {
		return
	}
	if !isBlockingTag(tag) {
		tx.commitRange(tx.store.RemoveTagFromRange(s.from, s.to, tag))
		return
	}
	for d := s.from; d.Before(s.to); d = d.AddDays(1) {
		tx.remove(d, tag)
	}
}

func (tx *transaction) commitRange(next *modifiers.Store) {
	if next != tx.store {
		tx.store = next
		tx.mutations++
	}
}

// reconcile sets tag on exactly those of days where want holds
func (tx *transaction) reconcile(tag modifiers.Tag, days []dateutil.Date, want func(dateutil.Date) bool) {
	for _, d := range days {
		if want(d) {
			tx.add(d, tag)
		} else {
			tx.remove(d, tag)
		}
	}
}

// ApplyTransition patches store, which must reflect prev, so that it reflects
// next. The result equals RebuildWindow over the same window with next.
func ApplyTransition(prev, next Inputs, store *modifiers.Store) *modifiers.Store {
	out, _ := applyTransition(prev, next, store)
	return out
}

func applyTransition(prev, next Inputs, store *modifiers.Store) (*modifiers.Store, Report) {
	changes := Diff(prev, next)
	report := Report{Changes: changes}
	if changes == 0 || store == nil {
		return store, report
	}

	tx := &transaction{
		old:   &prev,
		new:   &next,
		store: store,
		dirty: make(map[dateutil.Date]struct{}),
	}
	all := tx.days()
	if len(all) == 0 {
		return store, report
	}
	tx.view = span{from: all[0], to: all[len(all)-1].AddDays(1)}

	// transitionRules is already sorted by phase
	for _, r := range transitionRules {
		if !changes.Has(r.triggers) {
			continue
		}
		before := tx.mutations
		r.apply(tx)
		if tx.mutations != before {
			report.Rules = append(report.Rules, r.name)
		}
	}

	report.Mutations = tx.mutations
	return tx.store, report
}

// RebuildWindow computes a fresh store for every day of every loaded month
func RebuildWindow(w window.Window, in Inputs) *modifiers.Store {
	store := modifiers.NewStore()
	for _, m := range w.Months() {
		store = putMonth(store, w, m, in)
	}
	return store
}

func putMonth(store *modifiers.Store, w window.Window, m dateutil.Month, in Inputs) *modifiers.Store {
	firstDay := w.Options().FirstDayOfWeek
	return store.PutMonth(m, w.Days(m), func(d dateutil.Date) modifiers.TagSet {
		return ComputeModifiers(d, in, firstDay)
	})
}
