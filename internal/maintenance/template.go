package maintenance

import (
	"time"

	"github.com/ukydev/fleet-maintenance/internal/models"
)

type templateTask struct {
	task     string
	interval float64
}

var templates = map[models.AssetType][]templateTask{
	models.AssetMarine: {
		{"Engine Oil Change", 100},
		{"Safety Check", 50},
		{"Hull Inspection", 200},
		{"Bilge Pump Test", 25},
	},
	models.AssetVehicle: {
		{"Oil Change", 5000},
		{"Tire Rotation", 6000},
		{"Brake Inspection", 12000},
	},
}

var defaultTemplate = []templateTask{
	{"General Inspection", 100},
	{"Safety Check", 50},
}

// TemplateRules returns the starter rules for an asset type. Rules use the
// asset's usage unit and start measured from its current usage.
func TemplateRules(asset models.Asset, now time.Time) []models.MaintenanceRule {
	tasks, ok := templates[asset.Type]
	if !ok {
		tasks = defaultTemplate
	}

	rules := make([]models.MaintenanceRule, 0, len(tasks))
	for _, t := range tasks {
		baseline := finite(asset.CurrentUsage)
		rules = append(rules, models.MaintenanceRule{
			AssetID:            asset.ID,
			OwnerID:            asset.OwnerID,
			Task:               t.task,
			TriggerUnit:        models.TriggerUnit(asset.UsageUnit),
			IntervalValue:      t.interval,
			LastCompletedValue: &baseline,
			CreatedAt:          now,
			UpdatedAt:          now,
		})
	}
	return rules
}
