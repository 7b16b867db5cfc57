package checkout

import (
	"strings"
	"time"

	"github.com/dmoralesv/floreria-backend/pkg/config"
	pkgerrors "github.com/dmoralesv/floreria-backend/pkg/errors"
)

const dateLayout = "2006-01-02"

// TimeSlot is one deliverable window. StartHour drives the filtering rules.
type TimeSlot struct {
	Label     string `json:"label"`
	StartHour int    `json:"start_hour"`
}

var deliverySlots = []TimeSlot{
	{Label: "09:00 - 13:00", StartHour: 9},
	{Label: "13:00 - 16:00", StartHour: 13},
	{Label: "16:00 - 20:00", StartHour: 16},
}

// SlotsResult is the availability payload for a district and date.
type SlotsResult struct {
	Slots         []TimeSlot `json:"slots"`
	NoneAvailable bool       `json:"none_available"`
}

// AvailableSlots filters the fixed slot set by two independent rules: a
// restricted district only gets afternoon slots, and a same-day order only
// gets slots starting after the current hour in the store timezone.
func AvailableSlots(cfg config.StorefrontConfig, district, date string, now time.Time) (*SlotsResult, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date is required")
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading store timezone")
	}
	requested, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date must be formatted YYYY-MM-DD")
	}

	localNow := now.In(loc)
	sameDay := requested.Year() == localNow.Year() && requested.YearDay() == localNow.YearDay()
	restricted := cfg.IsRestrictedDistrict(district)

	slots := make([]TimeSlot, 0, len(deliverySlots))
	for _, slot := range deliverySlots {
		if restricted && slot.StartHour < cfg.RestrictedStartHour {
			continue
		}
		if sameDay && slot.StartHour <= localNow.Hour() {
			continue
		}
		slots = append(slots, slot)
	}

	return &SlotsResult{Slots: slots, NoneAvailable: len(slots) == 0}, nil
}

// ValidSlotLabel reports whether the label belongs to the configured set.
func ValidSlotLabel(label string) bool {
	for _, slot := range deliverySlots {
		if slot.Label == label {
			return true
		}
	}
	return false
}
