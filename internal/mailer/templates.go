package mailer

import (
	"fmt"
	"html"
	"strings"
)

func creditRequestOperatorHTML(req CreditRequest) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family:Arial,sans-serif;max-width:600px">`)
	b.WriteString(`<h2 style="color:#1a7f4e">Nouvelle demande de crédits</h2>`)
	b.WriteString(`<table style="border-collapse:collapse;width:100%">`)
	writeRow(&b, "Pack", req.Pack)
	writeRow(&b, "Nom", req.FullName)
	writeRow(&b, "Téléphone", req.PhoneNumber)
	writeRow(&b, "Email", req.Email)
	b.WriteString(`</table>`)
	if req.Screenshot != nil {
		b.WriteString(`<p>La capture d'écran du paiement est en pièce jointe.</p>`)
	} else {
		b.WriteString(`<p><strong>Aucune capture d'écran fournie.</strong></p>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func creditRequestClientHTML(req CreditRequest) string {
	name := req.FullName
	if name == "" {
		name = "cher utilisateur"
	}
	return fmt.Sprintf(`<div style="font-family:Arial,sans-serif;max-width:600px">
<h2 style="color:#1a7f4e">Petit Marché</h2>
<p>Bonjour %s,</p>
<p>Nous avons bien reçu votre demande de crédits pour le pack <strong>%s</strong>.</p>
<p>Votre compte sera crédité dès validation de votre paiement, généralement sous 24 heures.</p>
<p>Merci de votre confiance,<br>L'équipe Petit Marché</p>
</div>`, html.EscapeString(name), html.EscapeString(req.Pack))
}

func manualPaymentHTML(payment ManualPayment) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family:Arial,sans-serif;max-width:600px">`)
	b.WriteString(`<h2 style="color:#1a7f4e">Preuve de paiement reçue</h2>`)
	b.WriteString(`<table style="border-collapse:collapse;width:100%">`)
	writeRow(&b, "Téléphone", payment.Phone)
	writeRow(&b, "Compte", payment.Account)
	writeRow(&b, "Pack", payment.Pack)
	writeRow(&b, "Email utilisateur", payment.UserEmail)
	b.WriteString(`</table>`)
	if payment.Screenshot != nil {
		b.WriteString(`<p>La capture d'écran est en pièce jointe.</p>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func writeRow(b *strings.Builder, label, value string) {
	if value == "" {
		value = "—"
	}
	fmt.Fprintf(b,
		`<tr><td style="padding:6px;border:1px solid #ddd;font-weight:bold">%s</td><td style="padding:6px;border:1px solid #ddd">%s</td></tr>`,
		html.EscapeString(label), html.EscapeString(value))
}
