package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"
)

// WasteLimitMinutes is the daily allowance; WasteDelta is measured against it.
const WasteLimitMinutes = 50

// Study keys and the field names older documents stored them under.
const (
	StudyBK = "BK"
	StudySD = "SD"
	StudyAP = "AP"
)

var StudyKeys = []string{StudyBK, StudySD, StudyAP}

var legacyStudyKeys = map[string]string{
	StudyBK: "leetcode",
	StudySD: "systemDesign",
	StudyAP: "resumeApply",
}

// Event counters. Incrementing one stamps the matching timestamp field.
const (
	CounterNews  = "newsAccessCount"
	CounterMusic = "musicListenCount"
	CounterJL    = "jlCount"
)

var CounterKeys = []string{CounterNews, CounterMusic, CounterJL}

// EventTimestampKeys maps a counter to the document field holding the
// instant it was last incremented.
var EventTimestampKeys = map[string]string{
	CounterNews:  "lastNewsTs",
	CounterMusic: "lastMusicTs",
	CounterJL:    "lastJlTs",
}

// Numeric document fields settable by key.
const (
	FieldWeight    = "weight"
	FieldWastedMin = "wastedMin"
)

const (
	fieldWasteDelta = "wasteDelta"
	fieldStudy      = "study"
)

// DefaultHabits is the boolean habit list shown when none is configured.
var DefaultHabits = []string{
	"Weight Check",
	"Cold Shower",
	"Sand",
	"Abishek",
	"Ab",
	"Pull/Push",
	"HIIT",
	"Steps",
	"LT",
	"Typing",
	"Comm",
	"No mins wasted AT ALL",
}

// HabitDay is the habit document for one calendar date. Boolean habits are
// stored flat next to the numeric fields when encoded.
type HabitDay struct {
	Habits     map[string]bool
	Weight     *float64
	WastedMin  *float64
	WasteDelta *float64
	Study      map[string]float64
	Counters   map[string]float64
	LastEvent  map[string]time.Time
}

// Done reports whether the boolean habit is checked.
func (d HabitDay) Done(habit string) bool {
	return d.Habits[habit]
}

// IsEmpty reports whether the document carries no data at all.
func (d HabitDay) IsEmpty() bool {
	return len(d.Habits) == 0 && d.Weight == nil && d.WastedMin == nil &&
		d.WasteDelta == nil && len(d.Study) == 0 && len(d.Counters) == 0 && len(d.LastEvent) == 0
}

// StudyMinutes resolves a study key, falling back to the legacy field name.
func (d HabitDay) StudyMinutes(key string) float64 {
	if v, ok := d.Study[key]; ok && isFinite(v) {
		return v
	}
	if legacy, ok := legacyStudyKeys[key]; ok {
		if v, ok := d.Study[legacy]; ok && isFinite(v) {
			return v
		}
	}
	return 0
}

// TotalStudy sums StudyMinutes over StudyKeys.
func (d HabitDay) TotalStudy() float64 {
	var total float64
	for _, k := range StudyKeys {
		total += d.StudyMinutes(k)
	}
	return total
}

// EffectiveWasteDelta returns the stored delta, deriving it from WastedMin
// when only that is present. ok is false when the day has no waste data.
func (d HabitDay) EffectiveWasteDelta() (delta float64, ok bool) {
	if d.WasteDelta != nil {
		return *d.WasteDelta, true
	}
	if d.WastedMin != nil {
		return *d.WastedMin - WasteLimitMinutes, true
	}
	return 0, false
}

// PositiveWeight returns the weight when it is finite and positive.
func (d HabitDay) PositiveWeight() (float64, bool) {
	if d.Weight == nil || !isFinite(*d.Weight) || *d.Weight <= 0 {
		return 0, false
	}
	return *d.Weight, true
}

// Counter returns a counter value and whether it was entered.
func (d HabitDay) Counter(key string) (float64, bool) {
	v, ok := d.Counters[key]
	return v, ok
}

// WithDerivedWaste caches WasteDelta alongside WastedMin, or clears it when
// WastedMin is absent.
func (d HabitDay) WithDerivedWaste() HabitDay {
	return d.WithWasteLimit(WasteLimitMinutes)
}

// WithWasteLimit is WithDerivedWaste against a configured allowance.
func (d HabitDay) WithWasteLimit(limit float64) HabitDay {
	if d.WastedMin != nil {
		d.WasteDelta = Float64Ptr(*d.WastedMin - limit)
	} else {
		d.WasteDelta = nil
	}
	return d
}

// ErrUnknownField is returned when a numeric key names no document field.
var ErrUnknownField = errors.New("unknown habit field")

// WithNumber returns a copy with the numeric field or counter key set to
// value. Negative values clamp to zero and non-finite values become zero.
// Raising an event counter stamps its timestamp with now.
func (d HabitDay) WithNumber(key string, value float64, now time.Time) (HabitDay, error) {
	if !isFinite(value) || value < 0 {
		value = 0
	}
	out := d.Clone()
	switch key {
	case FieldWeight:
		out.Weight = Float64Ptr(value)
		return out, nil
	case FieldWastedMin:
		out.WastedMin = Float64Ptr(value)
		return out, nil
	}
	if _, ok := EventTimestampKeys[key]; !ok {
		return d, fmt.Errorf("%w: %q", ErrUnknownField, key)
	}
	prev, _ := out.Counter(key)
	if out.Counters == nil {
		out.Counters = map[string]float64{}
	}
	out.Counters[key] = value
	if value > prev {
		if out.LastEvent == nil {
			out.LastEvent = map[string]time.Time{}
		}
		out.LastEvent[key] = now
	}
	return out, nil
}

// WithStudy returns a copy with the study minutes for key set, clamped like
// WithNumber.
func (d HabitDay) WithStudy(key string, minutes float64) HabitDay {
	if !isFinite(minutes) || minutes < 0 {
		minutes = 0
	}
	out := d.Clone()
	if out.Study == nil {
		out.Study = map[string]float64{}
	}
	out.Study[key] = minutes
	return out
}

// Toggled returns a copy with the boolean habit flipped.
func (d HabitDay) Toggled(habit string) HabitDay {
	out := d.Clone()
	if out.Habits == nil {
		out.Habits = map[string]bool{}
	}
	out.Habits[habit] = !out.Habits[habit]
	return out
}

// Clone returns a deep copy so callers can mutate maps safely.
func (d HabitDay) Clone() HabitDay {
	out := HabitDay{}
	if d.Weight != nil {
		out.Weight = Float64Ptr(*d.Weight)
	}
	if d.WastedMin != nil {
		out.WastedMin = Float64Ptr(*d.WastedMin)
	}
	if d.WasteDelta != nil {
		out.WasteDelta = Float64Ptr(*d.WasteDelta)
	}
	if d.Habits != nil {
		out.Habits = make(map[string]bool, len(d.Habits))
		for k, v := range d.Habits {
			out.Habits[k] = v
		}
	}
	if d.Study != nil {
		out.Study = make(map[string]float64, len(d.Study))
		for k, v := range d.Study {
			out.Study[k] = v
		}
	}
	if d.Counters != nil {
		out.Counters = make(map[string]float64, len(d.Counters))
		for k, v := range d.Counters {
			out.Counters[k] = v
		}
	}
	if d.LastEvent != nil {
		out.LastEvent = make(map[string]time.Time, len(d.LastEvent))
		for k, v := range d.LastEvent {
			out.LastEvent[k] = v
		}
	}
	return out
}

func (d HabitDay) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(d.Habits)+8)
	for name, done := range d.Habits {
		doc[name] = done
	}
	if d.Weight != nil {
		doc[FieldWeight] = *d.Weight
	}
	if d.WastedMin != nil {
		doc[FieldWastedMin] = *d.WastedMin
	}
	if d.WasteDelta != nil {
		doc[fieldWasteDelta] = *d.WasteDelta
	}
	if len(d.Study) > 0 {
		doc[fieldStudy] = d.Study
	}
	for k, v := range d.Counters {
		doc[k] = v
	}
	for counter, ts := range d.LastEvent {
		if field, ok := EventTimestampKeys[counter]; ok {
			doc[field] = ts.UTC().Format(time.RFC3339Nano)
		}
	}
	return json.Marshal(doc)
}

// UnmarshalJSON is lenient: fields with an unexpected type are dropped
// rather than failing the whole document.
func (d *HabitDay) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	tsFields := make(map[string]string, len(EventTimestampKeys))
	for counter, field := range EventTimestampKeys {
		tsFields[field] = counter
	}

	*d = HabitDay{}
	for key, msg := range raw {
		switch key {
		case FieldWeight:
			d.Weight = decodeNumber(msg)
		case FieldWastedMin:
			d.WastedMin = decodeNumber(msg)
		case fieldWasteDelta:
			d.WasteDelta = decodeNumber(msg)
		case fieldStudy:
			var study map[string]json.RawMessage
			if json.Unmarshal(msg, &study) != nil {
				continue
			}
			for k, v := range study {
				if n := decodeNumber(v); n != nil {
					if d.Study == nil {
						d.Study = make(map[string]float64, len(study))
					}
					d.Study[k] = *n
				}
			}
		case CounterNews, CounterMusic, CounterJL:
			if n := decodeNumber(msg); n != nil {
				if d.Counters == nil {
					d.Counters = make(map[string]float64, len(CounterKeys))
				}
				d.Counters[key] = *n
			}
		default:
			if counter, ok := tsFields[key]; ok {
				var s string
				if json.Unmarshal(msg, &s) != nil {
					continue
				}
				ts, err := time.Parse(time.RFC3339Nano, s)
				if err != nil {
					continue
				}
				if d.LastEvent == nil {
					d.LastEvent = make(map[string]time.Time, len(EventTimestampKeys))
				}
				d.LastEvent[counter] = ts
				continue
			}
			var b bool
			if json.Unmarshal(msg, &b) == nil {
				if d.Habits == nil {
					d.Habits = make(map[string]bool)
				}
				d.Habits[key] = b
			}
		}
	}
	return nil
}

// decodeNumber accepts JSON numbers and numeric strings.
func decodeNumber(msg json.RawMessage) *float64 {
	var f float64
	if json.Unmarshal(msg, &f) == nil && isFinite(f) {
		return &f
	}
	var s string
	if json.Unmarshal(msg, &s) == nil {
		if f, err := strconv.ParseFloat(s, 64); err == nil && isFinite(f) {
			return &f
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Float64Ptr returns a pointer to v.
func Float64Ptr(v float64) *float64 {
	return &v
}
