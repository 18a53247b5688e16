package email

import (
	"fmt"
	"strings"

	"github.com/seramoda/storefront/internal/orders"
)

func orderConfirmationTemplate(o *orders.Order) (subject, html string) {
	subject = fmt.Sprintf("Siparişiniz alındı — %s", o.OrderID)

	var items strings.Builder
	for _, it := range o.Items {
		size := ""
		if it.Size != "" {
			size = " (" + it.Size + ")"
		}
		fmt.Fprintf(&items, "<li>%s%s × %d — %.2f %s</li>", it.Name, size, it.Quantity, it.UnitPrice, o.Currency)
	}

	html = fmt.Sprintf(`<h2>Teşekkürler, %s!</h2>
<p>Siparişiniz (%s) alındı ve hazırlanıyor.</p>
<ul>%s</ul>
<p><strong>Toplam: %.2f %s</strong></p>
<p>Teslimat adresi: %s, %s %s, %s</p>`,
		o.ShippingAddress.Name, o.OrderID, items.String(), o.Total, o.Currency,
		o.ShippingAddress.Street, o.ShippingAddress.PostalCode, o.ShippingAddress.City, o.ShippingAddress.Country)
	return subject, html
}

func shippingNoticeTemplate(o *orders.Order, trackingNumber, trackingURL, carrier string) (subject, html string) {
	subject = fmt.Sprintf("Siparişiniz kargoya verildi — %s", o.OrderID)
	html = fmt.Sprintf(`<h2>Siparişiniz yolda!</h2>
<p>%s numaralı siparişiniz %s ile gönderildi.</p>
<p>Takip numarası: <a href="%s">%s</a></p>`,
		o.OrderID, carrier, trackingURL, trackingNumber)
	return subject, html
}
