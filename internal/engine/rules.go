package engine

import (
	"strings"

	"github.com/username/rangepicker/internal/modifiers"
)

// Change is a bit set of the inputs that differ between two transitions
type Change uint32

const (
	ChangeStart Change = 1 << iota
	ChangeEnd
	ChangeFocus
	ChangeHover
	ChangeMinimumNights
	ChangeClickable
	ChangeDayBlocked
	ChangeOutsideRange
	ChangeDayHighlighted
	ChangeMinNightsForHover
	ChangeToday
	ChangeStartOffset
	ChangeEndOffset
)

const offsetInputs = ChangeStartOffset | ChangeEndOffset

var changeNames = []struct {
	bit  Change
	name string
}{
	{ChangeStart, "startDate"},
	{ChangeEnd, "endDate"},
	{ChangeFocus, "focusedInput"},
	{ChangeHover, "hoverDate"},
	{ChangeMinimumNights, "minimumNights"},
	{ChangeClickable, "daysViolatingMinNightsCanBeClicked"},
	{ChangeDayBlocked, "isDayBlocked"},
	{ChangeOutsideRange, "isOutsideRange"},
	{ChangeDayHighlighted, "isDayHighlighted"},
	{ChangeMinNightsForHover, "getMinNightsForHoverDate"},
	{ChangeToday, "today"},
	{ChangeStartOffset, "startDateOffset"},
	{ChangeEndOffset, "endDateOffset"},
}

func (c Change) Has(bits Change) bool {
	return c&bits != 0
}

func (c Change) String() string {
	if c == 0 {
		return "none"
	}
	var parts []string
	for _, cn := range changeNames {
		if c&cn.bit != 0 {
			parts = append(parts, cn.name)
		}
	}
	return strings.Join(parts, "|")
}

// Diff reports which inputs changed. Predicates compare by Version only.
func Diff(prev, next Inputs) Change {
	var c Change
	if prev.StartDate != next.StartDate {
		c |= ChangeStart
	}
	if prev.EndDate != next.EndDate {
		c |= ChangeEnd
	}
	if prev.FocusedInput != next.FocusedInput {
		c |= ChangeFocus
	}
	if prev.Hover != next.Hover {
		c |= ChangeHover
	}
	if prev.MinimumNights != next.MinimumNights {
		c |= ChangeMinimumNights
	}
	if prev.DaysViolatingMinNightsCanBeClicked != next.DaysViolatingMinNightsCanBeClicked {
		c |= ChangeClickable
	}
	if prev.Predicates.IsDayBlocked.Version != next.Predicates.IsDayBlocked.Version {
		c |= ChangeDayBlocked
	}
	if prev.Predicates.IsOutsideRange.Version != next.Predicates.IsOutsideRange.Version {
		c |= ChangeOutsideRange
	}
	if prev.Predicates.IsDayHighlighted.Version != next.Predicates.IsDayHighlighted.Version {
		c |= ChangeDayHighlighted
	}
	if prev.Predicates.GetMinNightsForHoverDate.Version != next.Predicates.GetMinNightsForHoverDate.Version {
		c |= ChangeMinNightsForHover
	}
	if prev.Today != next.Today {
		c |= ChangeToday
	}
	if prev.StartDateOffset.Version != next.StartDateOffset.Version {
		c |= ChangeStartOffset
	}
	if prev.EndDateOffset.Version != next.EndDateOffset.Version {
		c |= ChangeEndOffset
	}
	return c
}

// Phase orders rules inside a transition
type Phase int

const (
	PhaseSelection Phase = iota
	PhaseSpan
	PhaseHover
	PhaseBlocked
	PhaseToday
)

func (p Phase) String() string {
	switch p {
	case PhaseSelection:
		return "selection"
	case PhaseSpan:
		return "span"
	case PhaseHover:
		return "hover"
	case PhaseBlocked:
		return "blocked"
	case PhaseToday:
		return "today"
	default:
		return "unknown"
	}
}

// hoverGate is every input that can flip whether the hovered day is blocked
const hoverGate = ChangeStart | ChangeFocus | ChangeMinimumNights | ChangeClickable | ChangeDayBlocked | ChangeOutsideRange

const blockingInputs = ChangeStart | ChangeFocus | ChangeMinimumNights | ChangeDayBlocked | ChangeOutsideRange

type rule struct {
	name     string
	phase    Phase
	triggers Change
	apply    func(tx *transaction)
}

// RuleInfo describes one entry of the transition table
type RuleInfo struct {
	Name     string
	Phase    Phase
	Triggers Change
}

// moveExtent removes tag from the old extent and adds it to the new one
func moveExtent(tag modifiers.Tag, extent extentFunc) func(tx *transaction) {
	return func(tx *transaction) {
		oldSpan, newSpan := extent(tx.old, tx.view), extent(tx.new, tx.view)
		if oldSpan == newSpan {
			return
		}
		tx.removeRange(oldSpan, tag)
		tx.addRange(newSpan, tag)
	}
}

// reevaluate recomputes tag on every visible day from a host predicate
func reevaluate(tag modifiers.Tag, pick func(*Inputs) Predicate) func(tx *transaction) {
	return func(tx *transaction) {
		p := pick(tx.new)
		tx.reconcile(tag, tx.days(), p.Test)
	}
}

func extentOf(tag modifiers.Tag) extentFunc {
	for _, rt := range rangeTags {
		if rt.tag == tag {
			return rt.extent
		}
	}
	panic("engine: no extent for tag " + string(tag))
}

func rangeRule(tag modifiers.Tag, phase Phase, triggers Change) rule {
	return rule{name: string(tag), phase: phase, triggers: triggers, apply: moveExtent(tag, extentOf(tag))}
}

// transitionRules is the complete transition table, in application order
var transitionRules = []rule{
	rangeRule(modifiers.TagSelectedStart, PhaseSelection, ChangeStart),
	rangeRule(modifiers.TagSelectedEnd, PhaseSelection, ChangeEnd),
	rangeRule(modifiers.TagSelectedStartNoSelectedEnd, PhaseSelection, ChangeStart|ChangeEnd),
	rangeRule(modifiers.TagSelectedEndNoSelectedStart, PhaseSelection, ChangeStart|ChangeEnd),
	rangeRule(modifiers.TagNoSelectedStartBeforeSelectedEnd, PhaseSelection, ChangeStart|ChangeEnd),

	rangeRule(modifiers.TagSelectedSpan, PhaseSpan, ChangeStart|ChangeEnd),
	rangeRule(modifiers.TagLastInRange, PhaseSpan, ChangeStart|ChangeEnd),

	rangeRule(modifiers.TagHovered, PhaseHover, ChangeHover|ChangeFocus|offsetInputs),
	rangeRule(modifiers.TagHoveredSpan, PhaseHover, ChangeEnd|ChangeHover|hoverGate|offsetInputs),
	rangeRule(modifiers.TagSelectedStartInHoveredSpan, PhaseHover, ChangeEnd|ChangeHover|hoverGate|offsetInputs),
	rangeRule(modifiers.TagSelectedEndInHoveredSpan, PhaseHover, ChangeEnd|ChangeHover|hoverGate|offsetInputs),
	rangeRule(modifiers.TagAfterHoveredStart, PhaseHover, ChangeStart|ChangeEnd|ChangeHover|ChangeMinimumNights|offsetInputs),
	rangeRule(modifiers.TagBeforeHoveredEnd, PhaseHover, ChangeStart|ChangeEnd|ChangeHover|ChangeMinimumNights|offsetInputs),
	rangeRule(modifiers.TagHoveredStartBlockedMinNights, PhaseHover, ChangeHover|ChangeMinNightsForHover|hoverGate|offsetInputs),
	rangeRule(modifiers.TagHoveredStartFirstPossibleEnd, PhaseHover, ChangeHover|ChangeMinNightsForHover|hoverGate|offsetInputs),
	rangeRule(modifiers.TagHoveredOffset, PhaseHover, ChangeHover|ChangeFocus|offsetInputs),

	{
		name:     string(modifiers.TagBlockedCalendar),
		phase:    PhaseBlocked,
		triggers: ChangeFocus | ChangeDayBlocked,
		apply:    reevaluate(modifiers.TagBlockedCalendar, func(in *Inputs) Predicate { return in.Predicates.IsDayBlocked }),
	},
	{
		name:     string(modifiers.TagBlockedOutOfRange),
		phase:    PhaseBlocked,
		triggers: ChangeFocus | ChangeOutsideRange,
		apply:    reevaluate(modifiers.TagBlockedOutOfRange, func(in *Inputs) Predicate { return in.Predicates.IsOutsideRange }),
	},
	{
		name:     string(modifiers.TagHighlightedCalendar),
		phase:    PhaseBlocked,
		triggers: ChangeFocus | ChangeDayHighlighted,
		apply:    reevaluate(modifiers.TagHighlightedCalendar, func(in *Inputs) Predicate { return in.Predicates.IsDayHighlighted }),
	},
	{
		name:     string(modifiers.TagBlockedMinimumNights),
		phase:    PhaseBlocked,
		triggers: ChangeStart | ChangeFocus | ChangeMinimumNights | ChangeOutsideRange,
		apply:    applyMinimumNights,
	},
	{
		name:     string(modifiers.TagBlocked),
		phase:    PhaseBlocked,
		triggers: blockingInputs,
		apply:    applyBlocked,
	},

	{
		name:     string(modifiers.TagToday),
		phase:    PhaseToday,
		triggers: ChangeToday,
		apply:    moveExtent(modifiers.TagToday, fixed(func(in *Inputs) span { return single(in.Today) })),
	},
}

// applyMinimumNights moves the [start, start+minimumNights) block. Without a
// start the tag depends on isOutsideRange of every day, so the whole window
// is re-evaluated instead.
func applyMinimumNights(tx *transaction) {
	if tx.old.minNightsNeedsWindow() || tx.new.minNightsNeedsWindow() {
		tx.reconcile(modifiers.TagBlockedMinimumNights, tx.days(), tx.new.DoesNotMeetMinimumNights)
		return
	}
	oldSpan, newSpan := tx.old.minNightsRange(), tx.new.minNightsRange()
	if oldSpan == newSpan {
		return
	}
	tx.removeRange(oldSpan, modifiers.TagBlockedMinimumNights)
	tx.addRange(newSpan, modifiers.TagBlockedMinimumNights)
}

// applyBlocked derives blocked and valid for every day whose blocking
// sub-tags were touched earlier in the transaction.
func applyBlocked(tx *transaction) {
	for day := range tx.dirty {
		tags := tx.store.Tags(day)
		blocked := tags.Has(modifiers.TagBlockedCalendar) ||
			tags.Has(modifiers.TagBlockedOutOfRange) ||
			tags.Has(modifiers.TagBlockedMinimumNights)
		if blocked {
			tx.add(day, modifiers.TagBlocked)
			tx.remove(day, modifiers.TagValid)
		} else {
			tx.remove(day, modifiers.TagBlocked)
			tx.add(day, modifiers.TagValid)
		}
	}
}

// Rules lists the transition table in application order
func Rules() []RuleInfo {
	out := make([]RuleInfo, len(transitionRules))
	for i, r := range transitionRules {
		out[i] = RuleInfo{Name: r.name, Phase: r.phase, Triggers: r.triggers}
	}
	return out
}
