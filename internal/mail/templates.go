package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"time"
)

const verificationText = `Dear %s,

Please click the link below to verify your email address:
%s

If you didn't create an account, please ignore this email.

Thank you,
Your E-Commerce Team`

// VerificationEmail builds the account verification message
func VerificationEmail(to, name, baseURL, token string) Message {
	link := fmt.Sprintf("%s/auth/verify-email?token=%s", baseURL, url.QueryEscape(token))
	return Message{
		To:      to,
		Subject: "Verify Your Email Address",
		Body:    fmt.Sprintf(verificationText, name, link),
	}
}

var productOperationTmpl = template.Must(template.New("product-operation").Parse(`<html>
  <body>
    <h2 style="color: #2c3e50;">Product Operation Notification</h2>
    <p>Dear {{.Admin}},</p>
    <p>You have successfully <strong>{{.Operation}}</strong> the product: <strong>{{.Product}}</strong></p>
    <h3 style="color: #3498db;">Operation Details:</h3>
    <ul>
      <li>Operation Type: {{.Operation}}</li>
      <li>Product: {{.Product}}</li>
      <li>Timestamp: {{.At}}</li>
    </ul>
    <p style="margin-top: 20px;">
      <a href="{{.Dashboard}}" style="background-color: #3498db; color: white; padding: 10px 15px; text-decoration: none; border-radius: 5px;">View Dashboard</a>
    </p>
  </body>
</html>`))

// ProductOperationEmail tells an admin that their product change went through.
// operation is a past-tense verb such as "added" or "deleted".
func ProductOperationEmail(to, adminName, operation, product, baseURL string, at time.Time) (Message, error) {
	if adminName == "" {
		adminName = "Admin"
	}

	var buf bytes.Buffer
	err := productOperationTmpl.Execute(&buf, struct {
		Admin, Operation, Product, At, Dashboard string
	}{
		Admin:     adminName,
		Operation: operation,
		Product:   product,
		At:        at.Format(time.RFC1123),
		Dashboard: baseURL + "/admin/dashboard",
	})
	if err != nil {
		return Message{}, err
	}

	return Message{
		To:      to,
		Subject: "Product Operation Notification",
		Body:    buf.String(),
		HTML:    true,
	}, nil
}
