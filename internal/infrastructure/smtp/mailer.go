package smtp

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"
	"github.com/notio-app/notio-api/internal/config"
)

// Mailer sends account emails.
type Mailer interface {
	SendOTP(to, name, code string) error
}

type mailer struct {
	host     string
	port     string
	from     string
	username string
	password string
}

func NewMailer(cfg *config.Config) Mailer {
	return &mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.SMTPFrom,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
	}
}

const otpBody = `
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #ddd; border-radius: 10px;">
    <h2 style="color: #4CAF50; text-align: center;">Notio Verification</h2>
    <p>Hello <b>%s</b>,</p>
    <p>Your One-Time Password (OTP) for account verification is:</p>
    <div style="text-align: center; margin: 20px 0;">
        <span style="font-size: 24px; font-weight: bold; padding: 10px 20px; background-color: #f4f4f4; border-radius: 5px; letter-spacing: 2px;">
            %s
        </span>
    </div>
    <p>This code is valid for 10 minutes. Please do not share this code with anyone.</p>
    <p>If you didn't request this, you can ignore this email.</p>
    <br>
    <p style="font-size: 12px; color: #888; text-align: center;">&copy; %d Notio App. All rights reserved.</p>
</div>`

// SendOTP delivers the verification code as a templated HTML email.
func (m *mailer) SendOTP(to, name, code string) error {
	e := email.NewEmail()
	e.From = fmt.Sprintf("\"Notio App\" <%s>", m.from)
	e.To = []string{to}
	e.Subject = "Notio - Your OTP Code"
	e.HTML = []byte(fmt.Sprintf(otpBody, name, code, time.Now().Year()))
	e.Text = []byte(fmt.Sprintf("Hello %s, your Notio verification code is %s. It is valid for 10 minutes.", name, code))

	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	if err := e.Send(addr, auth); err != nil {
		return fmt.Errorf("send otp email: %w", err)
	}
	return nil
}
