// Package maintenance evaluates maintenance rules against an asset's usage and
// the calendar, and aggregates the results into asset status, fleet health,
// alert feeds and event timelines.
//
// Every function here is pure: callers fetch records from the store and pass
// an explicit evaluation instant, so one aggregation pass sees one "now".
package maintenance

// RuleStatus is the urgency of a single maintenance rule.
type RuleStatus string

const (
	RuleOverdue  RuleStatus = "overdue"
	RuleDueSoon  RuleStatus = "due_soon"
	RuleOK       RuleStatus = "ok"
	RuleBaseline RuleStatus = "baseline" // no completion recorded yet
)

// AssetStatus is the urgency of an asset, taken from its most urgent rule.
type AssetStatus string

const (
	AssetOverdue AssetStatus = "overdue"
	AssetDueSoon AssetStatus = "due_soon"
	AssetOK      AssetStatus = "ok"
)

// AlertSeverity is the severity of an alert. SeverityNone means the rule
// produces no alert.
type AlertSeverity string

const (
	SeverityNone    AlertSeverity = ""
	SeverityOverdue AlertSeverity = "overdue"
	SeverityDueSoon AlertSeverity = "due_soon"
)

// Rank orders rule statuses by urgency: overdue=3, due_soon and baseline=2,
// ok=1.
func (s RuleStatus) Rank() int {
	switch s {
	case RuleOverdue:
		return 3
	case RuleDueSoon, RuleBaseline:
		return 2
	case RuleOK:
		return 1
	default:
		return 0
	}
}

// Severity maps a rule status to the alert it raises. An unset baseline needs
// attention soon even though nothing is numerically overdue.
func (s RuleStatus) Severity() AlertSeverity {
	switch s {
	case RuleOverdue:
		return SeverityOverdue
	case RuleDueSoon, RuleBaseline:
		return SeverityDueSoon
	default:
		return SeverityNone
	}
}

// AssetStatus converts a rule status into the status reported for its asset.
func (s RuleStatus) AssetStatus() AssetStatus {
	switch s {
	case RuleOverdue:
		return AssetOverdue
	case RuleDueSoon, RuleBaseline:
		return AssetDueSoon
	default:
		return AssetOK
	}
}

// Rank orders asset statuses for listings, most urgent first.
func (s AssetStatus) Rank() int {
	switch s {
	case AssetOverdue:
		return 0
	case AssetDueSoon:
		return 1
	default:
		return 2
	}
}
