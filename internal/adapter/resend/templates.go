package resend

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mercadillo/mercadillo/internal/domain/model"
)

const orderConfirmationHTML = `<!DOCTYPE html>
<html lang="es">
<body style="font-family: Arial, sans-serif; color: #222;">
  <h1>¡Gracias por tu compra{{if .CustomerName}}, {{.CustomerName}}{{end}}!</h1>
  <p>Recibimos el pago de tu pedido <strong>#{{short .OrderID}}</strong> el {{date .CreatedAt}}.</p>
  <table cellpadding="6" style="border-collapse: collapse; width: 100%;">
    <thead>
      <tr><th align="left">Producto</th><th align="right">Cantidad</th><th align="right">Precio</th></tr>
    </thead>
    <tbody>
    {{- range .Items}}
      <tr><td>{{.Title}}</td><td align="right">{{.Quantity}}</td><td align="right">{{money .UnitPrice}}</td></tr>
    {{- end}}
    </tbody>
  </table>
  <p>Subtotal: {{money .Subtotal}}</p>
  {{- if gt .Discount 0.0}}
  <p>Descuento{{if .CouponCode}} ({{.CouponCode}}){{end}}: -{{money .Discount}}</p>
  {{- end}}
  <p><strong>Total: {{money .Total}}</strong></p>
  {{- with .ShippingAddress}}
  <h2>Envío</h2>
  <p>{{if .FullName}}{{.FullName}}<br>{{end}}{{.Street}}{{if .City}}<br>{{.City}}{{end}}{{if .State}}, {{.State}}{{end}}{{if .PostalCode}} ({{.PostalCode}}){{end}}</p>
  {{- end}}
  {{- if .DeliveryMethod}}
  <p>Método de entrega: {{.DeliveryMethod}}</p>
  {{- end}}
  {{- if .PaymentID}}
  <p>Pago MercadoPago #{{.PaymentID}}</p>
  {{- end}}
</body>
</html>`

var funcs = template.FuncMap{
	"money": func(v float64) string {
		return "$" + decimal.NewFromFloat(v).StringFixed(2)
	},
	"date": func(v time.Time) string {
		return v.Format("02/01/2006 15:04")
	},
	"short": func(id string) string {
		if len(id) > 8 {
			id = id[:8]
		}
		return strings.ToUpper(id)
	},
}

var templates = map[model.NotificationKind]*template.Template{
	model.NotificationOrderConfirmation: template.Must(template.New("order_confirmation").Funcs(funcs).Parse(orderConfirmationHTML)),
}

// Render produces the HTML body of notification.
func Render(n model.Notification) (string, error) {
	tmpl, ok := templates[n.Kind]
	if !ok {
		return "", fmt.Errorf("unknown notification kind %q", n.Kind)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, n.Data); err != nil {
		return "", fmt.Errorf("render %s: %w", n.Kind, err)
	}
	return buf.String(), nil
}
