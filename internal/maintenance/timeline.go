package maintenance

import (
	"slices"
	"strings"
	"time"

	"github.com/ukydev/fleet-maintenance/internal/models"
)

// EventKind names the source of a timeline entry.
type EventKind string

const (
	KindUsage       EventKind = "usage"
	KindMaintenance EventKind = "maintenance"
	KindDowntime    EventKind = "downtime"
)

// Order is the direction of a chronological merge.
type Order int

const (
	// Descending puts the most recent event first, for display.
	Descending Order = iota
	// Ascending puts the oldest event first, for export.
	Ascending
)

// UnknownAsset names events whose asset is not known to the caller.
const UnknownAsset = "Unknown asset"

// EventSet is the event history of one asset or one account.
type EventSet struct {
	Usage       []models.UsageEvent
	Maintenance []models.MaintenanceEvent
	Downtime    []models.DowntimeEvent
}

// Len returns the number of events in the set.
func (s EventSet) Len() int {
	return len(s.Usage) + len(s.Maintenance) + len(s.Downtime)
}

// TimelineItem is one event rendered for display.
type TimelineItem struct {
	ID        string    `json:"id"`
	Kind      EventKind `json:"kind"`
	AssetID   string    `json:"asset_id"`
	AssetName string    `json:"asset_name"`
	Summary   string    `json:"summary"`
	DateLabel string    `json:"date_label"`
	Timestamp time.Time `json:"timestamp"`

	key eventKey
}

// eventKey orders events: by timestamp, then kind name, then event id.
// Events with a zero timestamp are unknown and sort after all known ones in
// either direction.
type eventKey struct {
	at   time.Time
	kind EventKind
	id   string
}

func compareEvents(a, b eventKey, order Order) int {
	aUnknown, bUnknown := a.at.IsZero(), b.at.IsZero()
	switch {
	case aUnknown && !bUnknown:
		return 1
	case !aUnknown && bUnknown:
		return -1
	case !aUnknown:
		if c := a.at.Compare(b.at); c != 0 {
			if order == Descending {
				return -c
			}
			return c
		}
	}
	if c := strings.Compare(string(a.kind), string(b.kind)); c != 0 {
		return c
	}
	return strings.Compare(a.id, b.id)
}

// MergeTimeline merges the events into one chronological sequence. names maps
// asset ids to display names; assets missing from it show as UnknownAsset.
func MergeTimeline(events EventSet, names map[string]string, order Order) []TimelineItem {
	items := make([]TimelineItem, 0, events.Len())

	for _, ev := range events.Usage {
		summary := "Usage +" + FormatNumber(ev.Value) + " " + ev.Unit
		items = append(items, newTimelineItem(KindUsage, ev.ID.Hex(), ev.AssetID.Hex(), ev.Date, withNotes(summary, ev.Notes), names))
	}
	for _, ev := range events.Maintenance {
		summary := ev.Category
		if ev.Cost != nil && finite(*ev.Cost) != 0 {
			summary += bullet + FormatMoney(*ev.Cost)
		}
		items = append(items, newTimelineItem(KindMaintenance, ev.ID.Hex(), ev.AssetID.Hex(), ev.Date, withNotes(summary, ev.Notes), names))
	}
	for _, ev := range events.Downtime {
		summary := ev.Reason + bullet + "Active"
		if !ev.IsOpen() {
			summary = ev.Reason + bullet + "Closed"
		}
		items = append(items, newTimelineItem(KindDowntime, ev.ID.Hex(), ev.AssetID.Hex(), ev.StartDate, withNotes(summary, ev.Notes), names))
	}

	slices.SortStableFunc(items, func(a, b TimelineItem) int {
		return compareEvents(a.key, b.key, order)
	})
	return items
}

// RecentActivity merges the events newest first and keeps at most limit items.
func RecentActivity(events EventSet, names map[string]string, limit int) []TimelineItem {
	return head(MergeTimeline(events, names, Descending), limit)
}

func newTimelineItem(kind EventKind, id, assetID string, at time.Time, summary string, names map[string]string) TimelineItem {
	name, ok := names[assetID]
	if !ok {
		name = UnknownAsset
	}
	return TimelineItem{
		ID:        string(kind) + "-" + id,
		Kind:      kind,
		AssetID:   assetID,
		AssetName: name,
		Summary:   summary,
		DateLabel: DateLabel(at),
		Timestamp: at,
		key:       eventKey{at: at, kind: kind, id: id},
	}
}
