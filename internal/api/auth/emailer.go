package auth

import (
	"net/url"

	"impulsa-web/internal/domain/users"
	"impulsa-web/internal/infra/mailer"
)

func (h *Handler) verificationLink(token string) string {
	return h.appURL + "/auth/verify?token=" + url.QueryEscape(token)
}

func (h *Handler) sendVerification(user users.User, token string) error {
	subject, body, err := mailer.VerificationEmail(user.Name, h.verificationLink(token))
	if err != nil {
		return err
	}
	return h.mail.Send(user.Email, subject, body)
}
