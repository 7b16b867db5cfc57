package checkout

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/dmoralesv/floreria-backend/pkg/config"
	"github.com/dmoralesv/floreria-backend/pkg/enums"
	pkgerrors "github.com/dmoralesv/floreria-backend/pkg/errors"
)

// Form is the raw checkout payload. Validation is conditioned on the
// delivery type: pickup orders ignore the address block entirely.
type Form struct {
	CustomerName  string `json:"customer_name" validate:"required"`
	CustomerPhone string `json:"customer_phone" validate:"required"`
	DeliveryType  string `json:"delivery_type" validate:"required"`
	RecipientName string `json:"recipient_name,omitempty"`
	Address       string `json:"address,omitempty"`
	District      string `json:"district,omitempty"`
	Reference     string `json:"reference,omitempty"`
	DeliveryDate  string `json:"delivery_date" validate:"required"`
	TimeSlot      string `json:"time_slot" validate:"required"`
	CardMessage   string `json:"card_message,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// ValidForm is the normalized output of a successful validation.
type ValidForm struct {
	CustomerName  string
	CustomerPhone string
	DeliveryType  enums.DeliveryType
	RecipientName string
	Address       string
	District      string
	Reference     string
	DeliveryDate  string
	TimeSlot      string
	CardMessage   string
	Notes         string
}

type fieldError struct {
	field   string
	message string
}

func (e fieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.field, e.message)
}

// Validate normalizes and checks the form against the store rules. All field
// failures are aggregated into a single validation error whose details map
// the offending fields to their messages.
func (f Form) Validate(cfg config.StorefrontConfig, now time.Time) (*ValidForm, error) {
	var errs error
	fail := func(field, message string) {
		errs = multierr.Append(errs, fieldError{field: field, message: message})
	}

	out := &ValidForm{
		CustomerName:  strings.TrimSpace(f.CustomerName),
		RecipientName: strings.TrimSpace(f.RecipientName),
		Address:       strings.TrimSpace(f.Address),
		District:      strings.TrimSpace(f.District),
		Reference:     strings.TrimSpace(f.Reference),
		DeliveryDate:  strings.TrimSpace(f.DeliveryDate),
		TimeSlot:      strings.TrimSpace(f.TimeSlot),
		CardMessage:   strings.TrimSpace(f.CardMessage),
		Notes:         strings.TrimSpace(f.Notes),
	}

	if out.CustomerName == "" {
		fail("customer_name", "el nombre es obligatorio")
	}

	phone, ok := NormalizeCustomerPhone(f.CustomerPhone)
	if !ok {
		fail("customer_phone", "el teléfono debe tener 9 dígitos y empezar con 9")
	}
	out.CustomerPhone = phone

	deliveryType, err := enums.ParseDeliveryType(strings.TrimSpace(f.DeliveryType))
	if err != nil {
		fail("delivery_type", "el tipo de entrega debe ser delivery o pickup")
	}
	out.DeliveryType = deliveryType

	if deliveryType == enums.DeliveryTypeDelivery {
		if out.Address == "" {
			fail("address", "la dirección es obligatoria para delivery")
		}
		if out.District == "" {
			fail("district", "el distrito es obligatorio para delivery")
		} else if !cfg.HasDistrict(out.District) {
			fail("district", "no hacemos entregas en ese distrito")
		}
	} else {
		// Irrelevant for pickup; never serialized.
		out.RecipientName = ""
		out.Address = ""
		out.District = ""
		out.Reference = ""
	}

	loc, locErr := time.LoadLocation(cfg.Timezone)
	if locErr != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, locErr, "loading store timezone")
	}
	localNow := now.In(loc)

	if out.DeliveryDate == "" {
		fail("delivery_date", "la fecha es obligatoria")
	} else if requested, parseErr := time.ParseInLocation(dateLayout, out.DeliveryDate, loc); parseErr != nil {
		fail("delivery_date", "la fecha debe tener el formato YYYY-MM-DD")
	} else {
		today := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, loc)
		if requested.Before(today) {
			fail("delivery_date", "la fecha no puede ser anterior a hoy")
		} else if out.TimeSlot != "" {
			if !ValidSlotLabel(out.TimeSlot) {
				fail("time_slot", "el horario no es válido")
			} else if !slotAvailable(cfg, out.District, requested, out.TimeSlot, localNow) {
				fail("time_slot", "el horario ya no está disponible")
			}
		}
	}

	if out.TimeSlot == "" {
		fail("time_slot", "el horario es obligatorio")
	}

	if errs != nil {
		details := map[string]string{}
		for _, e := range multierr.Errors(errs) {
			var fe fieldError
			if errors.As(e, &fe) {
				if _, seen := details[fe.field]; !seen {
					details[fe.field] = fe.message
				}
			}
		}
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "el formulario tiene errores").WithDetails(details)
	}

	return out, nil
}

func slotAvailable(cfg config.StorefrontConfig, district string, requested time.Time, label string, localNow time.Time) bool {
	for _, slot := range deliverySlots {
		if slot.Label != label {
			continue
		}
		if cfg.IsRestrictedDistrict(district) && slot.StartHour < cfg.RestrictedStartHour {
			return false
		}
		sameDay := requested.Year() == localNow.Year() && requested.YearDay() == localNow.YearDay()
		if sameDay && slot.StartHour <= localNow.Hour() {
			return false
		}
		return true
	}
	return false
}
