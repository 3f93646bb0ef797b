// Package mail sends transactional email: invitations, the signup welcome
// note and password reset links.
//
// Services depend on the Mailer interface. SMTPMailer is the production
// implementation; Recorder captures messages in tests and can be told to
// fail for specific recipients, which is how partial invitation batches
// are exercised.
package mail
