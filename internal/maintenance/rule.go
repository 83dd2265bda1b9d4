package maintenance

import (
	"math"
	"time"

	"github.com/ukydev/fleet-maintenance/internal/models"
)

const (
	dayMillis = float64(24 * time.Hour / time.Millisecond)

	// calendar rules turn due_soon this many days before they are due
	dueSoonDays = 7.0
	// usage rules turn due_soon within this fraction of their interval
	dueSoonFraction = 0.1
)

// RuleResult is the classification of one rule.
type RuleResult struct {
	Status       RuleStatus `json:"status"`
	NextDueLabel string     `json:"next_due_label"`
}

// ClassifyRule returns the rule's status and a human-readable next-due label
// for an asset at currentUsage, evaluated at now.
//
// Non-finite numbers are treated as zero.
func ClassifyRule(rule models.MaintenanceRule, currentUsage float64, now time.Time) RuleResult {
	interval := finite(rule.IntervalValue)

	if rule.IsCalendar() {
		if rule.LastCompletedDate == nil || rule.LastCompletedDate.IsZero() {
			return RuleResult{Status: RuleBaseline, NextDueLabel: "Set baseline date"}
		}
		dueMs := float64(rule.LastCompletedDate.UnixMilli()) + interval*dayMillis
		remainingDays := (dueMs - float64(now.UnixMilli())) / dayMillis

		switch {
		case remainingDays <= 0:
			return RuleResult{Status: RuleOverdue, NextDueLabel: "Overdue"}
		case remainingDays <= dueSoonDays:
			return RuleResult{Status: RuleDueSoon, NextDueLabel: daysLabel(remainingDays)}
		default:
			return RuleResult{Status: RuleOK, NextDueLabel: daysLabel(remainingDays)}
		}
	}

	if rule.LastCompletedValue == nil {
		return RuleResult{Status: RuleBaseline, NextDueLabel: "Set baseline " + string(rule.TriggerUnit)}
	}

	remaining := finite(*rule.LastCompletedValue) + interval - finite(currentUsage)
	switch {
	case remaining <= 0:
		return RuleResult{Status: RuleOverdue, NextDueLabel: "Overdue"}
	case remaining <= interval*dueSoonFraction:
		return RuleResult{Status: RuleDueSoon, NextDueLabel: usageLabel(remaining, rule.TriggerUnit)}
	default:
		return RuleResult{Status: RuleOK, NextDueLabel: usageLabel(remaining, rule.TriggerUnit)}
	}
}

// CompleteRule returns a copy of rule with its baseline reset to the moment of
// completion: the asset's current usage for usage rules, now for calendar rules.
func CompleteRule(rule models.MaintenanceRule, currentUsage float64, now time.Time) models.MaintenanceRule {
	done := rule
	if done.IsCalendar() {
		at := now
		done.LastCompletedDate = &at
	} else {
		usage := finite(currentUsage)
		done.LastCompletedValue = &usage
	}
	done.NormalizeBaseline()
	done.UpdatedAt = now
	return done
}

// finite coerces NaN and infinities to zero.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
