package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/smtp"
	"time"
)

var (
	// ErrRateLimited is returned when the endpoint answers 429.
	ErrRateLimited = errors.New("contact: rate limited")
	// ErrNetwork wraps transport failures.
	ErrNetwork = errors.New("contact: network error")
)

const genericRejection = "Form submission failed. Please try again later."

// RejectedError is a non-2xx answer from the relay.
type RejectedError struct {
	Status int
	Msg    string
	Fields FieldErrors
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("contact: rejected (%d): %s", e.Status, e.Msg)
}

// Relay delivers a validated submission.
type Relay interface {
	Send(ctx context.Context, s Submission) error
}

// FormRelay posts JSON to a hosted form endpoint such as Formspree.
type FormRelay struct {
	Endpoint string
	Subject  string
	Client   *http.Client
}

func NewFormRelay(endpoint, subject string) *FormRelay {
	return &FormRelay{
		Endpoint: endpoint,
		Subject:  subject,
		Client:   &http.Client{Timeout: 15 * time.Second},
	}
}

type formPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
	Subject string `json:"_subject"`
	Gotcha  string `json:"_gotcha"`
}

type formReply struct {
	Error  string `json:"error"`
	Errors []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

func (r *FormRelay) Send(ctx context.Context, s Submission) error {
	body, err := json.Marshal(formPayload{
		Name:    s.Name,
		Email:   s.Email,
		Message: s.Message,
		Subject: r.Subject,
	})
	if err != nil {
		return fmt.Errorf("encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	var reply formReply
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&reply)

	fields := FieldErrors{}
	for _, fe := range reply.Errors {
		if fe.Field != "" && fe.Message != "" {
			fields[fe.Field] = fe.Message
		}
	}
	if len(fields) > 0 {
		return &RejectedError{Status: resp.StatusCode, Msg: "field errors", Fields: fields}
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	msg := reply.Error
	if msg == "" {
		msg = genericRejection
	}
	return &RejectedError{Status: resp.StatusCode, Msg: msg}
}

// SMTPRelay emails the submission to the site owner.
type SMTPRelay struct {
	Host string
	Port string
	User string
	Pass string
	To   string

	// send is swapped in tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func (r *SMTPRelay) Send(ctx context.Context, s Submission) error {
	if r.User == "" || r.Pass == "" {
		return fmt.Errorf("SMTP credentials not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	subject := fmt.Sprintf("Portfolio Contact: %s", s.Name)
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, s.Name, s.Email, s.Message)

	msg := []byte("To: " + r.To + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + r.User + "\r\n" +
		"Reply-To: " + s.Email + "\r\n" +
		"\r\n" +
		body + "\r\n")

	send := r.send
	if send == nil {
		send = smtp.SendMail
	}
	auth := smtp.PlainAuth("", r.User, r.Pass, r.Host)
	if err := send(r.Host+":"+r.Port, auth, r.User, []string{r.To}, msg); err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	return nil
}
