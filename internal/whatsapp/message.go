package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dmoralesv/floreria-backend/pkg/enums"
	pkgerrors "github.com/dmoralesv/floreria-backend/pkg/errors"
)

const (
	cardPlaceholder  = "Sin tarjeta"
	notesPlaceholder = "Ninguna"
)

// OrderLine is the snapshot of a cart line the serializer renders.
type OrderLine struct {
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Subtotal returns unit price times quantity.
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// OrderForm carries the validated checkout form fields the message renders.
type OrderForm struct {
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

// ComposeOrder renders the order into the outgoing text and its wa.me link.
/// It is pure: same lines, form and phone always produce the same pair.
func ComposeOrder(lines []OrderLine, form OrderForm, businessPhone, callingCode string) (string, string, error) {
	digits, err := NormalizeBusinessPhone(businessPhone, callingCode)
	if err != nil {
		return "", "", err
	}
	if len(lines) == 0 {
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, "el carrito está vacío")
	}

	message := BuildOrderMessage(lines, form)
	return message, BuildDeepLink(digits, message), nil
}

// BuildOrderMessage renders the fixed Spanish template. Address and district
// lines appear only for delivery orders.
func BuildOrderMessage(lines []OrderLine, form OrderForm) string {
	var b strings.Builder

	b.WriteString("¡Hola! Quiero hacer un pedido 🌹\n\n")
	b.WriteString("*Productos:*\n")

	total := decimal.Zero
	for _, line := range lines {
		subtotal := line.Subtotal()
		total = total.Add(subtotal)
		fmt.Fprintf(&b, "- %s x%d - S/. %s\n", line.Name, line.Quantity, subtotal.StringFixed(2))
	}

	fmt.Fprintf(&b, "\n*Total: S/. %s*\n\n", total.StringFixed(2))

	b.WriteString("*Datos del pedido:*\n")
	fmt.Fprintf(&b, "Nombre: %s\n", form.CustomerName)
	if form.CustomerPhone != "" {
		fmt.Fprintf(&b, "Teléfono: %s\n", form.CustomerPhone)
	}

	if form.DeliveryType == enums.DeliveryTypePickup {
		b.WriteString("Entrega: Recojo en tienda\n")
	} else {
		b.WriteString("Entrega: Delivery\n")
		if form.RecipientName != "" {
			fmt.Fprintf(&b, "Recibe: %s\n", form.RecipientName)
		}
		fmt.Fprintf(&b, "Dirección: %s\n", form.Address)
		fmt.Fprintf(&b, "Distrito: %s\n", form.District)
		if form.Reference != "" {
			fmt.Fprintf(&b, "Referencia: %s\n", form.Reference)
		}
	}

	fmt.Fprintf(&b, "Fecha: %s\n", form.DeliveryDate)
	if form.TimeSlot != "" {
		fmt.Fprintf(&b, "Horario: %s\n", form.TimeSlot)
	}

	fmt.Fprintf(&b, "Dedicatoria: %s\n", orPlaceholder(form.CardMessage, cardPlaceholder))
	fmt.Fprintf(&b, "Observaciones: %s", orPlaceholder(form.Notes, notesPlaceholder))

	return b.String()
}

// BuildContactMessage renders a contact form submission for the same link
// machinery the checkout uses.
func BuildContactMessage(name, phone, message string) string {
	var b strings.Builder
	b.WriteString("¡Hola! Tengo una consulta 💐\n\n")
	fmt.Fprintf(&b, "Nombre: %s\n", name)
	fmt.Fprintf(&b, "Teléfono: %s\n", phone)
	fmt.Fprintf(&b, "Mensaje: %s", message)
	return b.String()
}

// BuildDeepLink produces the wa.me URL for a digits-only phone and a plain
// text message.
func BuildDeepLink(phoneDigits, message string) string {
	encoded := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return fmt.Sprintf("https://wa.me/%s?text=%s", phoneDigits, encoded)
}

func orPlaceholder(value, placeholder string) string {
	if strings.TrimSpace(value) == "" {
		return placeholder
	}
	return value
}
