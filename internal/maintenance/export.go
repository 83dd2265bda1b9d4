package maintenance

import (
	"slices"
	"strings"

	"github.com/ukydev/fleet-maintenance/internal/models"
)

// ExportHeaders is the column order of the timeline export.
var ExportHeaders = []string{
	"event_type",
	"event_timestamp",
	"event_end_timestamp",
	"asset_id",
	"asset_name",
	"usage_value",
	"usage_unit",
	"maintenance_category",
	"maintenance_cost",
	"downtime_reason",
	"downtime_status",
	"notes",
	"attachment_url",
}

// ExportRow is one event flattened into the export schema. Columns that do not
// apply to the event kind are empty.
type ExportRow struct {
	EventType           string
	EventTimestamp      string
	EventEndTimestamp   string
	AssetID             string
	AssetName           string
	UsageValue          string
	UsageUnit           string
	MaintenanceCategory string
	MaintenanceCost     string
	DowntimeReason      string
	DowntimeStatus      string
	Notes               string
	AttachmentURL       string

	key eventKey
}

// Fields returns the row in ExportHeaders order.
func (r ExportRow) Fields() []string {
	return []string{
		r.EventType,
		r.EventTimestamp,
		r.EventEndTimestamp,
		r.AssetID,
		r.AssetName,
		r.UsageValue,
		r.UsageUnit,
		r.MaintenanceCategory,
		r.MaintenanceCost,
		r.DowntimeReason,
		r.DowntimeStatus,
		r.Notes,
		r.AttachmentURL,
	}
}

// BuildExportRows flattens the full event history of one asset, oldest first.
func BuildExportRows(asset models.Asset, events EventSet) []ExportRow {
	assetID := asset.ID.Hex()
	assetName := asset.Name
	if assetName == "" {
		assetName = "Asset"
	}

	rows := make([]ExportRow, 0, events.Len())
	for _, ev := range events.Usage {
		rows = append(rows, ExportRow{
			EventType:      string(KindUsage),
			EventTimestamp: ISOTimestamp(ev.Date),
			AssetID:        assetID,
			AssetName:      assetName,
			UsageValue:     FormatNumber(ev.Value),
			UsageUnit:      ev.Unit,
			Notes:          ev.Notes,
			key:            eventKey{at: ev.Date, kind: KindUsage, id: ev.ID.Hex()},
		})
	}
	for _, ev := range events.Maintenance {
		cost := ""
		if ev.Cost != nil {
			cost = FormatNumber(*ev.Cost)
		}
		rows = append(rows, ExportRow{
			EventType:           string(KindMaintenance),
			EventTimestamp:      ISOTimestamp(ev.Date),
			AssetID:             assetID,
			AssetName:           assetName,
			MaintenanceCategory: ev.Category,
			MaintenanceCost:     cost,
			Notes:               ev.Notes,
			AttachmentURL:       ev.AttachmentURL,
			key:                 eventKey{at: ev.Date, kind: KindMaintenance, id: ev.ID.Hex()},
		})
	}
	for _, ev := range events.Downtime {
		status, end := "active", ""
		if !ev.IsOpen() {
			status, end = "closed", ISOTimestamp(*ev.EndDate)
		}
		rows = append(rows, ExportRow{
			EventType:         string(KindDowntime),
			EventTimestamp:    ISOTimestamp(ev.StartDate),
			EventEndTimestamp: end,
			AssetID:           assetID,
			AssetName:         assetName,
			DowntimeReason:    ev.Reason,
			DowntimeStatus:    status,
			Notes:             ev.Notes,
			key:               eventKey{at: ev.StartDate, kind: KindDowntime, id: ev.ID.Hex()},
		})
	}

	slices.SortStableFunc(rows, func(a, b ExportRow) int {
		return compareEvents(a.key, b.key, Ascending)
	})
	return rows
}

// ExportCSV renders rows under ExportHeaders.
func ExportCSV(rows []ExportRow) string {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.Fields())
	}
	return ToCSV(ExportHeaders, records)
}

// ExportFilename is the download name of an asset's timeline export.
func ExportFilename(assetName string) string {
	return SafeFilename(assetName) + "-timeline.csv"
}

// ToCSV joins a header line and records with "\n". A cell is quoted, with
// embedded quotes doubled, only when it contains a quote, comma or line break.
func ToCSV(headers []string, records [][]string) string {
	lines := make([]string, 0, len(records)+1)
	lines = append(lines, csvLine(headers, len(headers)))
	for _, rec := range records {
		lines = append(lines, csvLine(rec, len(headers)))
	}
	return strings.Join(lines, "\n")
}

func csvLine(cells []string, width int) string {
	out := make([]string, width)
	for i := range out {
		if i < len(cells) {
			out[i] = EscapeCSVCell(cells[i])
		}
	}
	return strings.Join(out, ",")
}

// EscapeCSVCell quotes value if it contains a quote, comma, CR or LF.
func EscapeCSVCell(value string) string {
	if strings.ContainsAny(value, "\",\r\n") {
		return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
	}
	return value
}
