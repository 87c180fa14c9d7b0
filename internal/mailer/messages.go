package mailer

import "fmt"

const (
	centerName  = "Nirvana Buddha Meditation Center"
	centerPhone = "+91 98256 32306"
)

// ProgramConfirmation is the acknowledgement for an anonymous modal
// registration. Only the program name is known at this point.
func ProgramConfirmation(email, programName string) Message {
	html := fmt.Sprintf(`
<html>
  <body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; background-color: #f9f9f9; padding: 20px; border-radius: 8px;">
      <h2 style="color: #8b6bb6;">Registration Confirmed!</h2>
      <p>Thank you for registering for our program!</p>
      <div style="background-color: #f0e6f6; padding: 15px; border-radius: 5px; margin: 20px 0;">
        <h3 style="color: #8b6bb6; margin-top: 0;">Program Details:</h3>
        <ul style="list-style: none; padding: 0;">
          <li><strong>Program:</strong> %s</li>
        </ul>
      </div>
      <p><strong>Note:</strong> We'll send you program details and schedule information soon.</p>
      <p>We look forward to seeing you at our meditation center!</p>
      <p style="font-size: 14px; color: #666;">Best regards,<br><strong>%s</strong><br>%s</p>
    </div>
  </body>
</html>`, programName, centerName, centerPhone)

	return Message{
		To:      []string{email},
		Subject: "Program Registration Confirmed - " + centerName,
		HTML:    html,
	}
}

// SessionConfirmation acknowledges a modal session registration. sessionTime
// is "start - end" when the program still exists, "See schedule" otherwise.
func SessionConfirmation(email, name, sessionName, sessionTime string) Message {
	html := fmt.Sprintf(`
<html>
  <body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; background-color: #f9f9f9; padding: 20px; border-radius: 8px;">
      <h2 style="color: #8b6bb6;">Session Registration Confirmed!</h2>
      <p>Hi <strong>%s</strong>,</p>
      <p>Thank you for registering for our session!</p>
      <div style="background-color: #f0e6f6; padding: 15px; border-radius: 5px; margin: 20px 0;">
        <h3 style="color: #8b6bb6; margin-top: 0;">Session Details:</h3>
        <ul style="list-style: none; padding: 0;">
          <li><strong>Session:</strong> %s</li>
          <li><strong>Time:</strong> %s</li>
        </ul>
      </div>
      <p><strong>Note:</strong> Please arrive 10 minutes early. Bring your yoga mat and water bottle.</p>
      <p>We look forward to seeing you at our meditation center!</p>
      <p style="font-size: 14px; color: #666;">Best regards,<br><strong>%s</strong><br>%s</p>
    </div>
  </body>
</html>`, name, sessionName, sessionTime, centerName, centerPhone)

	return Message{
		To:      []string{email},
		Subject: "Session Registration Confirmed - " + centerName,
		HTML:    html,
	}
}

// RegistrationConfirmation acknowledges an account-bound registration.
func RegistrationConfirmation(email, userName, programName, programDate, programTime, programType string) Message {
	html := fmt.Sprintf(`
<h2>Registration Confirmed!</h2>
<p>Dear %s,</p>
<p>Thank you for registering for our program: <strong>%s</strong></p>
<p><strong>Program Details:</strong></p>
<ul>
  <li>Date: %s</li>
  <li>Time: %s</li>
  <li>Type: %s</li>
</ul>
<p>We look forward to seeing you!</p>
<p>Best regards,<br>%s</p>`, userName, programName, programDate, programTime, programType, centerName)

	return Message{
		To:      []string{email},
		Subject: "Registration Confirmation - " + centerName,
		HTML:    html,
	}
}

// ContactNotification alerts the operator address about a new contact form
// submission.
func ContactNotification(operator, name, email, phone, message string) Message {
	body := fmt.Sprintf("Name: %s\nEmail: %s\nPhone: %s\nMessage: %s\n", name, email, phone, message)

	return Message{
		To:      []string{operator},
		Subject: fmt.Sprintf("New Contact Form Submission from %s", name),
		Body:    body,
	}
}

// Reply is a free-form admin reply to a contact message.
func Reply(email, subject, body string) Message {
	return Message{
		To:      []string{email},
		Subject: subject,
		Body:    body,
	}
}
