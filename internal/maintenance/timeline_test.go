package maintenance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukydev/fleet-maintenance/internal/models"
)

var (
	t1 = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	t2 = time.Date(2024, 5, 3, 14, 45, 0, 0, time.UTC)
)

func timelineFixture() EventSet {
	asset := oid(10)
	return EventSet{
		Usage: []models.UsageEvent{
			{ID: oid(3), AssetID: asset, Date: t1, Value: 12.5, Unit: "hours", Notes: "sea trial"},
		},
		Maintenance: []models.MaintenanceEvent{
			{ID: oid(2), AssetID: asset, Date: t2, Category: "Oil service", Cost: float(45.5), Notes: "filter"},
			{ID: oid(5), AssetID: oid(77), Date: t1.Add(-time.Hour), Category: "Inspection", Cost: float(0)},
		},
		Downtime: []models.DowntimeEvent{
			{ID: oid(4), AssetID: asset, StartDate: t1, Reason: "Impeller"},
			{ID: oid(1), AssetID: asset, Reason: "Storm", EndDate: timePtr(t2)},
		},
	}
}

func itemIDs(items []TimelineItem) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids
}

func TestMergeTimeline_Descending(t *testing.T) {
	names := map[string]string{oid(10).Hex(): "Sea Ray"}
	items := MergeTimeline(timelineFixture(), names, Descending)

	assert.Equal(t, []string{
		"maintenance-" + oid(2).Hex(),
		"downtime-" + oid(4).Hex(), // same instant as the usage event, kind breaks the tie
		"usage-" + oid(3).Hex(),
		"maintenance-" + oid(5).Hex(),
		"downtime-" + oid(1).Hex(), // unknown start date goes last
	}, itemIDs(items))

	require.Len(t, items, 5)
	assert.Equal(t, "Oil service • $45.50 • filter", items[0].Summary)
	assert.Equal(t, "May 3, 2:45 PM", items[0].DateLabel)
	assert.Equal(t, "Sea Ray", items[0].AssetName)
	assert.Equal(t, "Impeller • Active", items[1].Summary)
	assert.Equal(t, "Usage +12.5 hours • sea trial", items[2].Summary)
	assert.Equal(t, "Inspection", items[3].Summary, "zero cost is omitted")
	assert.Equal(t, UnknownAsset, items[3].AssetName)
	assert.Equal(t, "Storm • Closed", items[4].Summary)
	assert.Equal(t, "Unknown date", items[4].DateLabel)
}

func TestMergeTimeline_Ascending(t *testing.T) {
	items := MergeTimeline(timelineFixture(), nil, Ascending)

	assert.Equal(t, []string{
		"maintenance-" + oid(5).Hex(),
		"downtime-" + oid(4).Hex(),
		"usage-" + oid(3).Hex(),
		"maintenance-" + oid(2).Hex(),
		"downtime-" + oid(1).Hex(),
	}, itemIDs(items))
}

func TestMergeTimeline_TieBreakIsDeterministic(t *testing.T) {
	at := t1
	events := EventSet{
		Usage:       []models.UsageEvent{{ID: oid(9), Date: at}, {ID: oid(1), Date: at}},
		Maintenance: []models.MaintenanceEvent{{ID: oid(5), Date: at}},
		Downtime:    []models.DowntimeEvent{{ID: oid(7), StartDate: at}},
	}
	want := []string{
		"downtime-" + oid(7).Hex(),
		"maintenance-" + oid(5).Hex(),
		"usage-" + oid(1).Hex(),
		"usage-" + oid(9).Hex(),
	}

	for i := 0; i < 10; i++ {
		assert.Equal(t, want, itemIDs(MergeTimeline(events, nil, Descending)))
		assert.Equal(t, want, itemIDs(MergeTimeline(events, nil, Ascending)))
	}

	// input order does not matter
	events.Usage[0], events.Usage[1] = events.Usage[1], events.Usage[0]
	assert.Equal(t, want, itemIDs(MergeTimeline(events, nil, Descending)))
}

func TestRecentActivity(t *testing.T) {
	items := RecentActivity(timelineFixture(), nil, 2)
	assert.Equal(t, []string{
		"maintenance-" + oid(2).Hex(),
		"downtime-" + oid(4).Hex(),
	}, itemIDs(items))

	assert.Empty(t, RecentActivity(EventSet{}, nil, 5))
}
