package payrule

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/payrule"
	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/shift"
)

// Options configures rule evaluation.
type Options struct {
	// Location defines calendar days and rule windows. Nil means UTC.
	Location *time.Location
	Stacking payrule.StackingPolicy
}

// Breakdown maps rule ID to premium minutes.
type Breakdown map[string]int

// Total sums minutes over all rules. Under additive stacking the same worked
// minute can be counted once per matching rule.
func (b Breakdown) Total() int {
	total := 0
	for _, m := range b {
		total += m
	}
	return total
}

// Add merges o into b.
func (b Breakdown) Add(o Breakdown) {
	for id, m := range o {
		b[id] += m
	}
}

// Engine evaluates worked intervals against a fixed rule and holiday set.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	rules    []payrule.PayRule
	skipped  []string
	holidays map[time.Time]struct{}
	loc      *time.Location
	stacking payrule.StackingPolicy
}

func NewEngine(rules []payrule.PayRule, holidays []shift.Holiday, opts Options) *Engine {
	e := &Engine{
		holidays: make(map[time.Time]struct{}, len(holidays)),
		loc:      opts.Location,
		stacking: opts.Stacking,
	}
	if e.loc == nil {
		e.loc = time.UTC
	}
	if e.stacking == "" {
		e.stacking = payrule.StackingAdditive
	}
	for _, h := range holidays {
		e.holidays[calendarDate(h.Date)] = struct{}{}
	}
	for _, r := range rules {
		if err := r.Validate(); err != nil {
			e.skipped = append(e.skipped, r.ID)
			continue
		}
		e.rules = append(e.rules, r)
	}
	sort.Slice(e.rules, func(i, j int) bool { return e.rules[i].ID < e.rules[j].ID })
	sort.Strings(e.skipped)
	return e
}

// Skipped returns IDs of rules rejected by validation.
func (e *Engine) Skipped() []string {
	return e.skipped
}

type span struct {
	from time.Time
	to   time.Time
}

type piece struct {
	rule payrule.PayRule
	span
}

// Evaluate returns premium minutes per rule for the worked interval [start, end).
// The interval is split at local midnights and every day is matched with its own date.
func (e *Engine) Evaluate(userID string, start, end time.Time) Breakdown {
	credited := make(map[string]time.Duration)

	y, m, d := start.In(e.loc).Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, e.loc)
	for day.Before(end) {
		next := day.AddDate(0, 0, 1)
		seg := span{from: maxTime(start, day), to: minTime(end, next)}
		if seg.from.Before(seg.to) {
			pieces := e.dayPieces(userID, day, seg)
			if e.stacking == payrule.StackingHighestPercent {
				creditHighest(pieces, credited)
			} else {
				for _, p := range pieces {
					credited[p.rule.ID] += p.to.Sub(p.from)
				}
			}
		}
		day = next
	}

	out := make(Breakdown, len(credited))
	for id, dur := range credited {
		if mins := int(dur / time.Minute); mins > 0 {
			out[id] = mins
		}
	}
	return out
}

// dayPieces clips every rule window matching the day to seg.
func (e *Engine) dayPieces(userID string, day time.Time, seg span) []piece {
	date := calendarDate(day)
	weekday := (int(date.Weekday()) + 6) % 7
	_, isHoliday := e.holidays[date]

	var pieces []piece
	for _, r := range e.rules {
		if !r.AppliesTo(userID) || !r.ValidOn(date) || !r.HasDay(weekday) {
			continue
		}
		if r.HolidayOnly && !isHoliday {
			continue
		}
		if r.ExcludeHolidays && isHoliday {
			continue
		}
		for _, w := range windowSpans(r, day) {
			clipped := span{from: maxTime(w.from, seg.from), to: minTime(w.to, seg.to)}
			if clipped.from.Before(clipped.to) {
				pieces = append(pieces, piece{rule: r, span: clipped})
			}
		}
	}
	return pieces
}

// windowSpans projects the rule window onto day. A wrapping window yields the
// evening and the early-morning part of the same calendar day. Equal bounds
// cover the whole day.
func windowSpans(r payrule.PayRule, day time.Time) []span {
	y, m, d := day.Date()
	at := func(min int) time.Time {
		return time.Date(y, m, d, 0, min, 0, 0, day.Location())
	}
	switch {
	case r.WindowStartMin == r.WindowEndMin:
		return []span{{from: at(0), to: at(24 * 60)}}
	case r.WindowStartMin < r.WindowEndMin:
		return []span{{from: at(r.WindowStartMin), to: at(r.WindowEndMin)}}
	default:
		return []span{
			{from: at(0), to: at(r.WindowEndMin)},
			{from: at(r.WindowStartMin), to: at(24 * 60)},
		}
	}
}

// creditHighest gives each elementary slice of time to the covering rule with the
// highest percent. Ties go to the smallest rule ID.
func creditHighest(pieces []piece, credited map[string]time.Duration) {
	if len(pieces) == 0 {
		return
	}
	var bounds []time.Time
	for _, p := range pieces {
		bounds = append(bounds, p.from, p.to)
	}
	sort.Slice(bounds, func(i, j int) bool { return bounds[i].Before(bounds[j]) })

	for i := 0; i+1 < len(bounds); i++ {
		from, to := bounds[i], bounds[i+1]
		if !from.Before(to) {
			continue
		}
		var winner *payrule.PayRule
		for k := range pieces {
			p := &pieces[k]
			if p.from.After(from) || p.to.Before(to) {
				continue
			}
			if winner == nil || p.rule.Percent.GreaterThan(winner.Percent) ||
				(p.rule.Percent.Equal(winner.Percent) && p.rule.ID < winner.ID) {
				winner = &p.rule
			}
		}
		if winner != nil {
			credited[winner.ID] += to.Sub(from)
		}
	}
}

func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
