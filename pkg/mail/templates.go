package mail

import "fmt"

// InvitationMessage builds the email sent for a workspace or board
// invitation. The accept and reject URLs embed the invite token.
func InvitationMessage(to, inviterName, resourceNoun, acceptURL, rejectURL string) Message {
	html := fmt.Sprintf(`<div style="font-family: Arial, sans-serif;">
  <h2 style="color: #4CAF50;">%s Invitation</h2>
  <p>You have been invited by <strong>%s</strong> to join a %s.</p>
  <p>Click <a href="%s">here</a> to accept the invite.</p>
  <p>Or <a href="%s">reject</a> this invitation.</p>
  <hr />
  <small>This is an automated message. Please do not reply directly.</small>
</div>`, titleCase(resourceNoun), inviterName, resourceNoun, acceptURL, rejectURL)

	return Message{
		To:      to,
		Subject: fmt.Sprintf("%s Invitation", titleCase(resourceNoun)),
		Text:    fmt.Sprintf("You have been invited by %s to join a %s.\n\nAccept: %s\nReject: %s\n", inviterName, resourceNoun, acceptURL, rejectURL),
		HTML:    html,
	}
}

// WelcomeMessage builds the note sent after a successful signup
func WelcomeMessage(to, name string) Message {
	return Message{
		To:      to,
		Subject: "Welcome to Tack",
		Text:    fmt.Sprintf("Hi %s,\n\nYou have successfully signed up for Tack.\n\nStay productive,\nTeam Tack", name),
	}
}

// PasswordResetMessage builds the email carrying a reset link
func PasswordResetMessage(to, name, resetURL string) Message {
	return Message{
		To:      to,
		Subject: "Reset your Tack password",
		Text:    fmt.Sprintf("Hi %s,\n\nA password reset was requested for your account. The link below is valid for 15 minutes:\n\n%s\n\nIf you did not request this, ignore this email.\n", name, resetURL),
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
