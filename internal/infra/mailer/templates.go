package mailer

import (
	"bytes"
	"html/template"
)

var verifyTmpl = template.Must(template.New("verify").Parse(`<p>Hola {{.Name}},</p>
<p>Gracias por registrarte en la Academia Impulsa. Confirma tu correo para empezar:</p>
<p><a href="{{.Link}}">Verificar mi correo</a></p>
<p>Si no creaste esta cuenta, ignora este mensaje.</p>`))

// VerificationEmail builds the subject and body of the sign-up confirmation.
func VerificationEmail(name, link string) (string, string, error) {
	var buf bytes.Buffer
	err := verifyTmpl.Execute(&buf, struct{ Name, Link string }{name, link})
	return "Verifica tu correo - Impulsa Marketing", buf.String(), err
}
