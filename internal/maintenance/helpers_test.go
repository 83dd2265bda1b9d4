package maintenance

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ukydev/fleet-maintenance/internal/models"
)

var evalTime = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

// oid returns a deterministic ObjectID whose hex form sorts by n.
func oid(n int) primitive.ObjectID {
	id, err := primitive.ObjectIDFromHex(fmt.Sprintf("%024x", n))
	if err != nil {
		panic(err)
	}
	return id
}

func float(v float64) *float64 { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func usageRule(id int, unit models.TriggerUnit, interval float64, last *float64) models.MaintenanceRule {
	return models.MaintenanceRule{
		ID:                 oid(id),
		TriggerUnit:        unit,
		IntervalValue:      interval,
		LastCompletedValue: last,
	}
}

func calendarRule(id int, interval float64, last *time.Time) models.MaintenanceRule {
	return models.MaintenanceRule{
		ID:                oid(id),
		TriggerUnit:       models.TriggerDays,
		IntervalValue:     interval,
		LastCompletedDate: last,
	}
}
