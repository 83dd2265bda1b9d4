package maintenance

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ukydev/fleet-maintenance/internal/models"
)

const (
	dateLabelLayout = "Jan 2, 3:04 PM"
	isoLayout       = "2006-01-02T15:04:05.000Z07:00"
	unknownDate     = "Unknown date"
	bullet          = " • "
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// newTitleCollator returns a collator for ordering display names. Collators
// are not safe for concurrent use, so each sort gets its own.
func newTitleCollator() *collate.Collator {
	return collate.New(language.English)
}

// FormatNumber renders v in its shortest decimal form: 12, 12.5, 0.25.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(finite(v), 'f', -1, 64)
}

// FormatMoney renders an amount in US dollars with two decimals.
func FormatMoney(v float64) string {
	v = finite(v)
	p := message.NewPrinter(language.English)
	if v < 0 {
		return p.Sprintf("-$%.2f", -v)
	}
	return p.Sprintf("$%.2f", v)
}

// DateLabel renders t for timelines, or "Unknown date" for the zero time.
func DateLabel(t time.Time) string {
	if t.IsZero() {
		return unknownDate
	}
	return t.UTC().Format(dateLabelLayout)
}

// ISOTimestamp renders t with millisecond precision in UTC, or "" for the
// zero time.
func ISOTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(isoLayout)
}

// SafeFilename lowercases name and collapses every run of characters other
// than a-z and 0-9 into a single dash.
func SafeFilename(name string) string {
	clean := nonSlug.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	clean = strings.Trim(clean, "-")
	if clean == "" {
		return "asset"
	}
	return clean
}

func daysLabel(remainingDays float64) string {
	return strconv.FormatFloat(math.Ceil(remainingDays), 'f', 0, 64) + " days"
}

func usageLabel(remaining float64, unit models.TriggerUnit) string {
	return formatRemaining(remaining) + " " + string(unit)
}

func formatRemaining(v float64) string {
	if v <= 0 {
		return "Due now"
	}
	if v < 10 {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(math.Round(v), 'f', 0, 64)
}

// formatInterval renders a rule interval for alert details:
// "1 day interval", "30 days interval", "250 hours interval", "2.5 hours interval".
func formatInterval(value float64, unit models.TriggerUnit) string {
	value = finite(value)
	if unit == models.TriggerDays {
		rounded := math.Round(value)
		if rounded == 1 {
			return "1 day interval"
		}
		return strconv.FormatFloat(rounded, 'f', 0, 64) + " days interval"
	}
	if value == math.Trunc(value) {
		return strconv.FormatFloat(value, 'f', 0, 64) + " " + string(unit) + " interval"
	}
	return strconv.FormatFloat(value, 'f', 1, 64) + " " + string(unit) + " interval"
}

func lastCompletedLabel(rule models.MaintenanceRule) string {
	if rule.IsCalendar() {
		if rule.LastCompletedDate == nil {
			return "Not set"
		}
		return DateLabel(*rule.LastCompletedDate)
	}
	if rule.LastCompletedValue == nil {
		return "Not set"
	}
	return FormatNumber(*rule.LastCompletedValue) + " " + string(rule.TriggerUnit)
}

func withNotes(summary, notes string) string {
	if notes == "" {
		return summary
	}
	return summary + bullet + notes
}
