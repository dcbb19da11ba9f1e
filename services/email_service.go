package services

import (
	"crypto/tls"
	"errors"
	"fmt"
	"log"
	"net/smtp"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/atma-chethana/counselling-api/config"
	"github.com/atma-chethana/counselling-api/model"
)

// Mailer is the delivery contract consumed by the notification service.
type Mailer interface {
	Send(to, subject, htmlBody string) error
	Verify() error
}

// SMTPMailer sends email over SMTP with STARTTLS.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
	appName  string
}

// NewSMTPMailer creates a mailer from the environment configuration.
func NewSMTPMailer(env *config.EnvironmentVariable) *SMTPMailer {
	from := env.EMAIL_FROM
	if from == "" {
		from = env.EMAIL_USER
	}
	return &SMTPMailer{
		host:     env.SMTP_HOST,
		port:     env.SMTP_PORT,
		username: env.EMAIL_USER,
		password: env.EMAIL_PASSWORD,
		from:     from,
		appName:  env.APP_NAME,
	}
}

// IsConfigured checks if SMTP credentials are present
func (m *SMTPMailer) IsConfigured() bool {
	return m.host != "" && m.username != "" && m.password != ""
}

// Send delivers a single HTML email
func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	if !m.IsConfigured() {
		return errors.New("SMTP not configured")
	}

	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", m.appName, m.from)
	headers["To"] = to
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	var message strings.Builder
	for k, v := range headers {
		message.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	message.WriteString("\r\n")
	message.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	auth := smtp.PlainAuth("", m.username, m.password, m.host)

	tlsConfig := &tls.Config{
		InsecureSkipVerify: false,
		ServerName:         m.host,
	}

	conn, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	if err := conn.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if err := conn.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}

	if err := conn.Mail(m.from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	if err := conn.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := conn.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}

	if _, err = w.Write([]byte(message.String())); err != nil {
		return fmt.Errorf("failed to write email body: %w", err)
	}

	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	conn.Quit()

	log.Printf("Email sent to: %s", to)
	return nil
}

// Verify opens an SMTP connection, negotiates TLS and authenticates,
// without sending anything.
func (m *SMTPMailer) Verify() error {
	if !m.IsConfigured() {
		return errors.New("SMTP not configured")
	}

	addr := fmt.Sprintf("%s:%s", m.host, m.port)

	conn, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	tlsConfig := &tls.Config{ServerName: m.host}
	if err := conn.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	if err := conn.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}

	return conn.Quit()
}

// NotificationService templates counselling emails and records the audit
// trail. Delivery and audit writes are two separate steps: a failed stamp
// after a successful send is reported, never rolled back.
type NotificationService struct {
	db      *gorm.DB
	mailer  Mailer
	appName string
}

// NewNotificationService creates a notification service.
func NewNotificationService(db *gorm.DB, mailer Mailer, appName string) *NotificationService {
	if appName == "" {
		appName = "Atma Chethana"
	}
	return &NotificationService{db: db, mailer: mailer, appName: appName}
}

// SendOTP emails a one-time password for signup or password reset.
func (n *NotificationService) SendOTP(email, name, otp, purpose string) error {
	subject := fmt.Sprintf("Your verification code - %s", n.appName)
	if purpose == "reset" {
		subject = fmt.Sprintf("Password reset code - %s", n.appName)
	}

	body := fmt.Sprintf(`
      <div style="font-family: Arial; padding:20px;">
        <h2>Verification Code</h2>
        <p>Dear <b>%s</b>,</p>
        <p>Your one-time code is:</p>
        <p style="font-size:28px; letter-spacing:6px;"><b>%s</b></p>
        <p>This code expires in 10 minutes.</p>
      </div>
    `, name, otp)

	return n.mailer.Send(email, subject, body)
}

// SendAppointmentConfirmation emails the student and stamps the appointment
// email-audit fields on success. Returns the recipient address.
func (n *NotificationService) SendAppointmentConfirmation(sender model.Principal, appointmentID uint, customMessage string) (string, error) {
	var appointment model.Appointment
	if err := n.db.Preload("Student").First(&appointment, appointmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}

	student := appointment.Student
	studentName := student.FullName()

	date := appointment.RequestedDate
	if appointment.ConfirmedDate != nil {
		date = *appointment.ConfirmedDate
	}
	timeOfDay := appointment.RequestedTime
	if appointment.ConfirmedTime != nil {
		timeOfDay = *appointment.ConfirmedTime
	}

	subject := fmt.Sprintf("Appointment Confirmation - %s", n.appName)

	note := ""
	if customMessage != "" {
		note = fmt.Sprintf("<p><b>Note:</b> %s</p>", customMessage)
	}

	body := fmt.Sprintf(`
      <div style="font-family: Arial; padding:20px;">
        <h2>Appointment Confirmation</h2>
        <p>Dear <b>%s</b>,</p>
        <p>Your appointment is confirmed. Details:</p>

        <p><b>Date:</b> %s</p>
        <p><b>Time:</b> %s</p>
        <p><b>Type:</b> %s</p>

        %s
      </div>
    `, studentName, date.Format("Monday, 2 January 2006"), timeOfDay, appointment.Type, note)

	if err := n.mailer.Send(student.Email, subject, body); err != nil {
		return "", err
	}

	now := time.Now()
	stamp := map[string]interface{}{
		"email_sent":    true,
		"email_sent_at": &now,
		"email_sent_by": sender.ID,
	}
	if err := n.db.Model(&model.Appointment{}).Where("id = ?", appointmentID).Updates(stamp).Error; err != nil {
		// Message is already out; surface the audit failure to the caller.
		return student.Email, fmt.Errorf("email sent but audit update failed: %w", err)
	}

	return student.Email, nil
}

// SendFollowUp delivers an ad-hoc message to a student. When tied to an
// appointment it appends a FollowUpEmail audit row.
func (n *NotificationService) SendFollowUp(sender model.Principal, studentID uint, subject, message string, appointmentID *uint) (string, error) {
	var student model.Student
	if err := n.db.First(&student, studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}

	if subject == "" {
		subject = fmt.Sprintf("Follow-up - %s", n.appName)
	}

	var paragraphs strings.Builder
	for _, para := range strings.Split(message, "\n") {
		paragraphs.WriteString(fmt.Sprintf(`<p style="line-height:1.6; margin-bottom:10px;">%s</p>`, para))
	}

	body := fmt.Sprintf(`
      <div style="font-family: Arial; padding:20px;">
        <h2>Follow-up Message</h2>
        <p>Dear <b>%s</b>,</p>
        <div style="margin-top: 10px;">
          %s
        </div>
      </div>
    `, student.FullName(), paragraphs.String())

	if err := n.mailer.Send(student.Email, subject, body); err != nil {
		return "", err
	}

	if appointmentID != nil {
		record := model.FollowUpEmail{
			AppointmentID: *appointmentID,
			StudentID:     student.ID,
			Subject:       subject,
			Message:       message,
			SentAt:        time.Now(),
			SentBy:        sender.ID,
		}
		if err := n.db.Create(&record).Error; err != nil {
			return student.Email, fmt.Errorf("email sent but audit record failed: %w", err)
		}
	}

	return student.Email, nil
}

// Verify checks that the mail transport is usable.
func (n *NotificationService) Verify() error {
	return n.mailer.Verify()
}
