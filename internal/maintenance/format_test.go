package maintenance

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "12", FormatNumber(12))
	assert.Equal(t, "12.5", FormatNumber(12.5))
	assert.Equal(t, "0.25", FormatNumber(0.25))
	assert.Equal(t, "0", FormatNumber(math.NaN()))
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$45.50", FormatMoney(45.5))
	assert.Equal(t, "$1,234.00", FormatMoney(1234))
	assert.Equal(t, "-$3.10", FormatMoney(-3.1))
	assert.Equal(t, "$0.00", FormatMoney(math.Inf(-1)))
}

func TestDateLabel(t *testing.T) {
	assert.Equal(t, "Unknown date", DateLabel(time.Time{}))
	est := time.FixedZone("EST", -5*3600)
	assert.Equal(t, "Mar 9, 1:05 PM", DateLabel(time.Date(2024, 3, 9, 8, 5, 0, 0, est)))
}

func TestISOTimestamp(t *testing.T) {
	assert.Equal(t, "", ISOTimestamp(time.Time{}))
	assert.Equal(t, "2024-03-09T13:05:00.120Z", ISOTimestamp(time.Date(2024, 3, 9, 13, 5, 0, 120_000_000, time.UTC)))
}

func TestSafeFilename(t *testing.T) {
	tests := map[string]string{
		"Sea Ray 240":    "sea-ray-240",
		"--Big__Rig--":   "big-rig",
		"Ünïcode Boat":   "n-code-boat",
		"":               "asset",
		"   ":            "asset",
		"Generator #3 A": "generator-3-a",
	}
	for in, expected := range tests {
		assert.Equal(t, expected, SafeFilename(in), in)
	}
}

func TestFormatRemaining(t *testing.T) {
	assert.Equal(t, "Due now", formatRemaining(0))
	assert.Equal(t, "9.5", formatRemaining(9.5))
	assert.Equal(t, "10", formatRemaining(10))
	assert.Equal(t, "13", formatRemaining(12.5))
}
