package email

import (
	"fmt"
	"html"
	"time"
)

// PromotionSubject is the subject of the congratulation email
const PromotionSubject = "Congratulations on your graduation!"

// PromotionBody renders the congratulation email sent with the diploma
func PromotionBody(studentName, belt, schoolName string) string {
	return fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Congratulations, %s!</h2>
				<p>You passed your graduation and now hold the <strong>%s</strong> belt.</p>
				<p>Your diploma is attached to this email.</p>
				<p>Oss,<br>%s</p>
			</div>
		</body>
		</html>
	`, html.EscapeString(studentName), html.EscapeString(belt), html.EscapeString(schoolName))
}

// PasswordResetSubject is the subject of the password reset email
const PasswordResetSubject = "Reset your password"

// PasswordResetBody renders the password reset email. link may be empty when
// no public base URL is configured.
func PasswordResetBody(name, token, link string, validFor time.Duration, schoolName string) string {
	action := fmt.Sprintf(`<p>Your reset code is <strong>%s</strong></p>`, html.EscapeString(token))
	if link != "" {
		action += fmt.Sprintf(`<p><a href="%s">Choose a new password</a></p>`, html.EscapeString(link))
	}
	return fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Hello, %s</h2>
				<p>We received a request to reset your password.</p>
				%s
				<p>The code expires in %s. If you did not ask for it, ignore this email.</p>
				<p>Oss,<br>%s</p>
			</div>
		</body>
		</html>
	`, html.EscapeString(name), action, validFor.String(), html.EscapeString(schoolName))
}
