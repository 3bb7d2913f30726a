package contact

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"
)

func validSubmission() Submission {
	return Submission{Name: "Ada", Email: "ada@example.com", Message: "Hello there"}
}

func TestValidate(t *testing.T) {
	assert.Nil(t, Validate(validSubmission()))

	fe := Validate(Submission{Name: "  ", Email: "", Message: "hey"})
	assert.Equal(t, FieldErrors{
		FieldName:    "Please enter your name.",
		FieldEmail:   "Please enter your email address.",
		FieldMessage: "Please enter a brief message (4+ characters).",
	}, fe)
	assert.Equal(t, FieldName, fe.First())

	fe = Validate(Submission{Name: "Ada", Email: "ada@nowhere", Message: "  hello  "})
	assert.Equal(t, FieldErrors{FieldEmail: "Please enter a valid email (example: you@example.com)."}, fe)
	assert.Equal(t, FieldEmail, fe.First())
}

func TestFormRelaySendsPayload(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	relay := NewFormRelay(srv.URL, "A raven arrives")
	require.NoError(t, relay.Send(context.Background(), validSubmission()))

	assert.Equal(t, "Ada", got["name"])
	assert.Equal(t, "A raven arrives", got["_subject"])
	assert.Equal(t, "", got["_gotcha"])
}

func TestFormRelayErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "field errors",
			status: http.StatusUnprocessableEntity,
			body:   `{"errors":[{"field":"email","message":"should be an email"}]}`,
			check: func(t *testing.T, err error) {
				var rej *RejectedError
				require.ErrorAs(t, err, &rej)
				assert.Equal(t, FieldErrors{"email": "should be an email"}, rej.Fields)
			},
		},
		{
			name:   "rate limited",
			status: http.StatusTooManyRequests,
			body:   `{}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrRateLimited)
			},
		},
		{
			name:   "server message",
			status: http.StatusBadRequest,
			body:   `{"error":"Form not found"}`,
			check: func(t *testing.T, err error) {
				var rej *RejectedError
				require.ErrorAs(t, err, &rej)
				assert.Equal(t, "Form not found", rej.Msg)
			},
		},
		{
			name:   "no body",
			status: http.StatusInternalServerError,
			body:   ``,
			check: func(t *testing.T, err error) {
				var rej *RejectedError
				require.ErrorAs(t, err, &rej)
				assert.Equal(t, genericRejection, rej.Msg)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := NewFormRelay(srv.URL, "").Send(context.Background(), validSubmission())
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestFormRelayNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := NewFormRelay(url, "").Send(context.Background(), validSubmission())
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestSMTPRelay(t *testing.T) {
	var sentTo []string
	var sentMsg string
	r := &SMTPRelay{
		Host: "smtp.example.com", Port: "587", User: "me@example.com", Pass: "secret", To: "owner@example.com",
		send: func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			assert.Equal(t, "smtp.example.com:587", addr)
			sentTo = to
			sentMsg = string(msg)
			return nil
		},
	}
	require.NoError(t, r.Send(context.Background(), validSubmission()))
	assert.Equal(t, []string{"owner@example.com"}, sentTo)
	assert.Contains(t, sentMsg, "Subject: Portfolio Contact: Ada")
	assert.Contains(t, sentMsg, "Reply-To: ada@example.com")

	r.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("dial tcp: refused") }
	assert.ErrorIs(t, r.Send(context.Background(), validSubmission()), ErrNetwork)

	err := (&SMTPRelay{}).Send(context.Background(), validSubmission())
	assert.EqualError(t, err, "SMTP credentials not configured")
}

type relayFunc func(ctx context.Context, s Submission) error

func (f relayFunc) Send(ctx context.Context, s Submission) error { return f(ctx, s) }

func TestServiceOutcomes(t *testing.T) {
	tests := []struct {
		name string
		sub  Submission
		err  error
		want Outcome
	}{
		{"success", validSubmission(), nil, OutcomeSuccess},
		{"validation", Submission{Name: "Ada"}, nil, OutcomeValidation},
		{"server fields", validSubmission(), &RejectedError{Status: 422, Fields: FieldErrors{"email": "bad"}}, OutcomeValidation},
		{"rejected", validSubmission(), &RejectedError{Status: 400, Msg: "nope"}, OutcomeRejected},
		{"rate limited", validSubmission(), ErrRateLimited, OutcomeRateLimit},
		{"network", validSubmission(), errors.New("boom"), OutcomeNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(relayFunc(func(context.Context, Submission) error { return tt.err }), nil)
			res := svc.Submit(context.Background(), tt.sub)
			assert.Equal(t, tt.want, res.Outcome)
			assert.Equal(t, tt.want == OutcomeSuccess, res.OK())
		})
	}
}

func TestServiceHoneypotSkipsRelay(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	called := false
	svc := NewService(relayFunc(func(context.Context, Submission) error {
		called = true
		return nil
	}), zap.New(core))

	sub := validSubmission()
	sub.Honeypot = "http://spam.example"
	res := svc.Submit(context.Background(), sub)

	assert.False(t, called)
	assert.True(t, res.OK())
	assert.Equal(t, OutcomeSpam, res.Outcome)
	assert.Equal(t, 1, logs.FilterMessage("dropping honeypot submission").Len())
}

func TestServiceTrimsBeforeRelay(t *testing.T) {
	var got Submission
	svc := NewService(relayFunc(func(_ context.Context, s Submission) error {
		got = s
		return nil
	}), nil)
	svc.Submit(context.Background(), Submission{Name: " Ada ", Email: " ada@example.com", Message: "hi there  "})
	assert.Equal(t, "Ada", got.Name)
	assert.False(t, strings.HasSuffix(got.Message, " "))
}
