package derive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shearsapp/shears/internal/types"
)

// serviceItem builds the line-item shape a selected service leaves in the
// record: the picker stores the referenced record under raw.
func serviceItem(price string, hours, minutes, quantity any) map[string]any {
	raw := map[string]any{"price": price}
	if hours != nil || minutes != nil {
		raw["duration"] = map[string]any{"hours": hours, "minutes": minutes}
	}
	item := map[string]any{
		"service": map[string]any{"_id": "svc-1", "name": "Cut", "raw": raw},
	}
	if quantity != nil {
		item["quantity"] = quantity
	}
	return item
}

func TestRecompute_TotalsAcrossLineItems(t *testing.T) {
	record := types.RecordValue{
		"services": []any{
			serviceItem("$10.00", nil, nil, "2"),
			serviceItem("$5.50", nil, nil, nil), // quantity defaults to 1
		},
	}

	agg := NewEngine().Recompute(record)
	assert.Equal(t, "$25.50", agg.Amount)
	assert.Equal(t, "$25.50", record["payment"].(map[string]any)["amount"])
}

func TestRecompute_DurationAndEndTime(t *testing.T) {
	record := types.RecordValue{
		"time": map[string]any{"startTime": "14:00"},
		"services": []any{
			serviceItem("$40.00", "1", "0", nil),
			serviceItem("$20.00", "0", "15", nil),
		},
	}

	agg := NewEngine().Recompute(record)
	assert.Equal(t, types.ClockDuration{Hours: "1", Minutes: "15"}, agg.Duration)
	assert.Equal(t, "15:15", agg.EndTime)

	timeData := record["time"].(map[string]any)
	assert.Equal(t, "15:15", timeData["endTime"])
	dur := record["duration"].(map[string]any)
	assert.Equal(t, "1", dur["hours"])
	assert.Equal(t, "15", dur["minutes"])
}

func TestRecompute_ManualAmountNotClobbered(t *testing.T) {
	engine := NewEngine()
	record := types.RecordValue{
		"services": []any{serviceItem("$30.00", nil, nil, nil)},
	}

	// First pass: amount is empty, engine fills it.
	agg := engine.Recompute(record)
	require.Equal(t, "$30.00", agg.Amount)

	// Line items change while amount still equals the last auto value:
	// the engine keeps tracking.
	record["services"] = []any{serviceItem("$35.00", nil, nil, nil)}
	agg = engine.Recompute(record)
	require.Equal(t, "$35.00", agg.Amount)

	// The user types a different amount. From now on, line-item changes
	// must never overwrite it.
	record["payment"].(map[string]any)["amount"] = "$50.00"
	record["services"] = []any{serviceItem("$45.00", nil, nil, nil)}
	agg = engine.Recompute(record)
	assert.Equal(t, "$50.00", agg.Amount)
	assert.Equal(t, "$50.00", record["payment"].(map[string]any)["amount"])

	// Clearing the field hands control back to the engine.
	record["payment"].(map[string]any)["amount"] = ""
	agg = engine.Recompute(record)
	assert.Equal(t, "$45.00", agg.Amount)
}

func TestRecompute_EnginesDoNotShareHistory(t *testing.T) {
	record := types.RecordValue{
		"services": []any{serviceItem("$30.00", nil, nil, nil)},
	}
	NewEngine().Recompute(record)

	// A different engine has no memory of that auto-write, so for it the
	// current amount counts as a manual value.
	record["services"] = []any{serviceItem("$45.00", nil, nil, nil)}
	agg := NewEngine().Recompute(record)
	assert.Equal(t, "$30.00", agg.Amount)
}

func TestRecompute_MalformedValuesContributeZero(t *testing.T) {
	record := types.RecordValue{
		"services": []any{
			serviceItem("not a price", "x", "y", nil),
			serviceItem("$12.00", nil, nil, "oops"), // bad quantity falls back to 1
		},
	}

	agg := NewEngine().Recompute(record)
	assert.Equal(t, "$12.00", agg.Amount)
	assert.Equal(t, types.ClockDuration{Hours: "0", Minutes: "00"}, agg.Duration)
}

func TestRecompute_NoLineItemsLeavesAmountAlone(t *testing.T) {
	record := types.RecordValue{"name": "Ada"}
	agg := NewEngine().Recompute(record)
	assert.Equal(t, "", agg.Amount)
	_, wrote := record["payment"]
	assert.False(t, wrote, "no priced shapes means no payment write")
}

func TestRecompute_NestedShapesAnywhereInTree(t *testing.T) {
	record := types.RecordValue{
		"extras": map[string]any{
			"addons": []any{
				map[string]any{"raw": map[string]any{"price": "$3.00"}, "quantity": "3"},
			},
		},
	}
	agg := NewEngine().Recompute(record)
	assert.Equal(t, "$9.00", agg.Amount)
}

func TestAddMinutesToClock(t *testing.T) {
	cases := []struct {
		clock   string
		minutes int
		want    string
	}{
		{"14:00", 75, "15:15"},
		{"09:30", 30, "10:00"},
		{"23:30", 90, "01:00"}, // wraps mod 24, no day carry
		{"00:00", 0, "00:00"},
	}
	for _, c := range cases {
		got, ok := AddMinutesToClock(c.clock, c.minutes)
		require.True(t, ok, c.clock)
		assert.Equal(t, c.want, got, "%s + %dm", c.clock, c.minutes)
	}

	_, ok := AddMinutesToClock("nonsense", 10)
	assert.False(t, ok)
	_, ok = AddMinutesToClock("25:00", 10)
	assert.False(t, ok)
}

func TestParseCurrency(t *testing.T) {
	assert.Equal(t, 12.34, ParseCurrency("$12.34"))
	assert.Equal(t, 12.34, ParseCurrency("12.34"))
	assert.Equal(t, 1500.0, ParseCurrency("$1,500.00"))
	assert.Equal(t, 0.0, ParseCurrency("free"))
	assert.Equal(t, 0.0, ParseCurrency(nil))
	assert.Equal(t, 7.0, ParseCurrency(7))
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$30.00", FormatCurrency(30))
	assert.Equal(t, "$25.50", FormatCurrency(25.5))
	assert.Equal(t, "$0.30", FormatCurrency(0.1+0.2))
}
