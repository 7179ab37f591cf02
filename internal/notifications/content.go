package notifications

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

// Template data values are strings so that they survive the JSON hop
// through the queue unchanged.
var textTemplates = map[NotificationType]*texttemplate.Template{
	NotificationTypeBookingConfirmed: texttemplate.Must(texttemplate.New("booking").Parse(`Dear {{.name}},

Your flight booking has been confirmed.

Booking Details:
Booking Reference: {{.booking_ref}}
Flight Number: {{.flight_number}}
Departure Airport: {{.departure_airport}}
Arrival Airport: {{.arrival_airport}}
Departure Time: {{.departure_time}}
Seats Reserved: {{.seats}}
Total Price: {{.total_price}}

Thank you for booking with us.

Best regards,
The AirBooking Team
`)),
	NotificationTypeAccountApproved: texttemplate.Must(texttemplate.New("approved").Parse(`Dear {{.name}},

Your account on AirBooking has been approved. You can now log in and start booking flights!

Best regards,
The AirBooking Team
`)),
}

var htmlTemplates = map[NotificationType]*htmltemplate.Template{
	NotificationTypeBookingConfirmed: htmltemplate.Must(htmltemplate.New("booking").Parse(`<h2>Booking Confirmed</h2>
<p>Dear {{.name}},</p>
<p>Your flight booking has been confirmed.</p>
<table>
<tr><td>Booking Reference</td><td><strong>{{.booking_ref}}</strong></td></tr>
<tr><td>Flight Number</td><td>{{.flight_number}}</td></tr>
<tr><td>Departure Airport</td><td>{{.departure_airport}}</td></tr>
<tr><td>Arrival Airport</td><td>{{.arrival_airport}}</td></tr>
<tr><td>Departure Time</td><td>{{.departure_time}}</td></tr>
<tr><td>Seats Reserved</td><td>{{.seats}}</td></tr>
<tr><td>Total Price</td><td>{{.total_price}}</td></tr>
</table>
<p>Thank you for booking with us.</p>
<p>Best regards,<br>The AirBooking Team</p>
`)),
	NotificationTypeAccountApproved: htmltemplate.Must(htmltemplate.New("approved").Parse(`<h2>Welcome aboard</h2>
<p>Dear {{.name}},</p>
<p>Your account on AirBooking has been approved. You can now log in and start booking flights!</p>
<p>Best regards,<br>The AirBooking Team</p>
`)),
}

var defaultSubjects = map[NotificationType]string{
	NotificationTypeBookingConfirmed: "Your Flight Booking Confirmation",
	NotificationTypeAccountApproved:  "Your AirBooking Account Has Been Approved!",
}

// renderContent produces the HTML and plain text bodies of a notification.
func renderContent(n *EmailNotification) (htmlBody, textBody string, err error) {
	data := map[string]interface{}{"name": n.RecipientName}
	for k, v := range n.TemplateData {
		data[k] = v
	}

	textTmpl, ok := textTemplates[n.Type]
	if !ok {
		return "", "", fmt.Errorf("no template for notification type %s", n.Type)
	}
	var textBuf, htmlBuf bytes.Buffer
	if err := textTmpl.Execute(&textBuf, data); err != nil {
		return "", "", fmt.Errorf("failed to render text body: %w", err)
	}
	if err := htmlTemplates[n.Type].Execute(&htmlBuf, data); err != nil {
		return "", "", fmt.Errorf("failed to render html body: %w", err)
	}
	return htmlBuf.String(), textBuf.String(), nil
}

func subjectFor(t NotificationType) string {
	if s, ok := defaultSubjects[t]; ok {
		return s
	}
	return "Notification from AirBooking"
}
