package notifier

import (
	htmltemplate "html/template"
	texttemplate "text/template"

	"kurtis-boutique/internal/models"

	"github.com/shopspring/decimal"
)

var funcs = map[string]interface{}{
	"money": func(d decimal.Decimal) string { return "Rs. " + d.StringFixed(2) },
	"lineTotal": func(it models.OrderItem) decimal.Decimal {
		return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
	},
}

var confirmationHTML = htmltemplate.Must(htmltemplate.New("confirmation").Funcs(funcs).Parse(`<html>
<body>
  <p>Dear {{.Order.Name}},</p>
  <p>Thank you for your order! Order <strong>{{.Order.OrderNumber}}</strong> has been placed.</p>
  <table cellpadding="4">
    {{range .Items}}<tr><td>{{.ProductName}}{{if .Size}} ({{.Size}}){{end}} x {{.Quantity}}</td><td>{{money (lineTotal .)}}</td></tr>
    {{end}}<tr><td>Shipping</td><td>{{money .Order.ShippingFee}}</td></tr>
    {{if .Order.CODFee.IsPositive}}<tr><td>Cash on delivery fee</td><td>{{money .Order.CODFee}}</td></tr>{{end}}
    <tr><td><strong>Total</strong></td><td><strong>{{money .Order.Total}}</strong></td></tr>
  </table>
  <p>Delivering to: {{.Order.Line1}}, {{.Order.City}}, {{.Order.State}} {{.Order.Pincode}}</p>
  <p>We'll email you again when your order ships.</p>
  <p>Kurtis Boutique</p>
</body>
</html>`))

var confirmationText = texttemplate.Must(texttemplate.New("confirmation").Funcs(funcs).Parse(`Dear {{.Order.Name}},

Thank you for your order! Order {{.Order.OrderNumber}} has been placed.

{{range .Items}}- {{.ProductName}}{{if .Size}} ({{.Size}}){{end}} x {{.Quantity}}: {{money (lineTotal .)}}
{{end}}Shipping: {{money .Order.ShippingFee}}
{{if .Order.CODFee.IsPositive}}Cash on delivery fee: {{money .Order.CODFee}}
{{end}}Total: {{money .Order.Total}}

Delivering to: {{.Order.Line1}}, {{.Order.City}}, {{.Order.State}} {{.Order.Pincode}}

We'll email you again when your order ships.

Kurtis Boutique
`))

var shipmentHTML = htmltemplate.Must(htmltemplate.New("shipment").Funcs(funcs).Parse(`<html>
<body>
  <p>Dear {{.Name}},</p>
  <p>Your order <strong>{{.OrderNumber}}</strong> has been handed to {{if .CourierName}}{{.CourierName}}{{else}}our courier partner{{end}}.</p>
  {{if .AWBCode}}<p>AWB: {{.AWBCode}}</p>{{end}}
  {{if .TrackingURL}}<p><a href="{{.TrackingURL}}">Track your shipment</a></p>{{end}}
  <p>Kurtis Boutique</p>
</body>
</html>`))

var shipmentText = texttemplate.Must(texttemplate.New("shipment").Funcs(funcs).Parse(`Dear {{.Name}},

Your order {{.OrderNumber}} has been handed to {{if .CourierName}}{{.CourierName}}{{else}}our courier partner{{end}}.
{{if .AWBCode}}AWB: {{.AWBCode}}
{{end}}{{if .TrackingURL}}Track it at {{.TrackingURL}}
{{end}}
Kurtis Boutique
`))
