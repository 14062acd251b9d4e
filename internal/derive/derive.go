package derive

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shearsapp/shears/internal/fieldpath"
	"github.com/shearsapp/shears/internal/types"
)

// Engine recomputes derived aggregates for one record edit session. It is
// stateful only in lastAutoAmount — the last amount value the engine
// itself wrote — which backs the non-clobber rule: a manually edited
// payment amount is never silently overwritten by recomputation. One
// engine per open record; never share across sessions.
type Engine struct {
	lastAutoAmount string
}

// NewEngine creates a derivation engine with no auto-write history.
func NewEngine() *Engine {
	return &Engine{}
}

// scan is the result of one deep walk over a record value.
type scan struct {
	total         float64 // sum of price*quantity over priced shapes
	totalMinutes  int     // sum over duration shapes
	priceCount    int
	durationCount int
}

// Recompute deep-walks the record's data (not its schema) for the two
// known line-item shapes — {raw:{price}, quantity} and
// {raw:{duration:{hours,minutes}}} — and embeds the derived values back
// into the record:
//
//   - duration.{hours,minutes} whenever any duration shape contributed;
//   - time.endTime when a start time is set, wrapped mod 24h;
//   - payment.amount per the non-clobber rule: written only when the
//     current amount is empty or still equals the engine's last
//     auto-computed value.
//
// Malformed prices and durations contribute zero; the walk never fails.
func (e *Engine) Recompute(record types.RecordValue) types.Aggregates {
	var s scan
	scanValue(record, nil, &s)

	agg := types.Aggregates{
		Duration: formatDuration(s.totalMinutes),
	}

	if s.durationCount > 0 {
		fieldpath.Set(record, fieldpath.Parse("duration.hours"), agg.Duration.Hours)
		fieldpath.Set(record, fieldpath.Parse("duration.minutes"), agg.Duration.Minutes)

		start := fieldpath.GetString(record, fieldpath.Parse("time.startTime"))
		if start != "" {
			if end, ok := AddMinutesToClock(start, s.totalMinutes); ok {
				agg.EndTime = end
				fieldpath.Set(record, fieldpath.Parse("time.endTime"), end)
			}
		}
	}

	amountPath := fieldpath.Parse("payment.amount")
	current := fieldpath.GetString(record, amountPath)
	agg.Amount = current
	if s.priceCount > 0 {
		auto := FormatCurrency(s.total)
		if current == "" || current == e.lastAutoAmount {
			fieldpath.Set(record, amountPath, auto)
			e.lastAutoAmount = auto
			agg.Amount = auto
		}
	}
	return agg
}

// scanValue recurses through maps and slices looking for line-item
// shapes. The parent node rides along so a quantity declared next to a
// link-select value (entry {service:{raw:...}, quantity}) is found as
// well as one inside the raw-bearing node itself; slices reset the
// parent, a quantity never applies across entries.
func scanValue(v any, parent map[string]any, s *scan) {
	switch node := v.(type) {
	case map[string]any:
		scanShape(node, parent, s)
		for _, child := range node {
			scanValue(child, node, s)
		}
	case []any:
		for _, item := range node {
			scanValue(item, nil, s)
		}
	}
}

// scanShape checks one object node for the priced and timed shapes.
func scanShape(node, parent map[string]any, s *scan) {
	raw, ok := node["raw"].(map[string]any)
	if !ok {
		return
	}
	if price, has := raw["price"]; has {
		s.total += ParseCurrency(price) * quantityFor(node, parent)
		s.priceCount++
	}
	if dur, has := raw["duration"].(map[string]any); has {
		h, _ := parseNumber(dur["hours"])
		m, _ := parseNumber(dur["minutes"])
		s.totalMinutes += int(h)*60 + int(m)
		s.durationCount++
	}
}

// quantityFor reads the quantity sibling, defaulting to 1 for missing or
// unusable values.
func quantityFor(node, parent map[string]any) float64 {
	if q, ok := parseNumber(node["quantity"]); ok && q > 0 {
		return q
	}
	if parent != nil {
		if q, ok := parseNumber(parent["quantity"]); ok && q > 0 {
			return q
		}
	}
	return 1
}

// formatDuration splits total minutes into display components: hours as a
// plain number string, minutes zero-padded to two digits.
func formatDuration(totalMinutes int) types.ClockDuration {
	if totalMinutes < 0 {
		totalMinutes = 0
	}
	return types.ClockDuration{
		Hours:   strconv.Itoa(totalMinutes / 60),
		Minutes: fmt.Sprintf("%02d", totalMinutes%60),
	}
}

// AddMinutesToClock adds minutes to an "HH:mm" clock time, wrapping mod
// 24 hours. The wrap carries no date: 23:30 plus 90 minutes is 01:00 with
// no record of the day rollover, matching the form's day-less time field.
func AddMinutesToClock(clock string, minutes int) (string, bool) {
	h, m, ok := parseClock(clock)
	if !ok {
		return "", false
	}
	total := h*60 + m + minutes
	const day = 24 * 60
	total %= day
	if total < 0 {
		total += day
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60), true
}

func parseClock(clock string) (h, m int, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(clock), ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, false
	}
	m, err = strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}
