package api

import (
	"bytes"
	"context"
	"errors"
	"mime"
	"net/http"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"servicepro/internal/domain"
)

// Notification titles emitted by the classifier.
const (
	TitleSuccess         = "Success"
	TitleValidationError = "Validation Error"
	TitleSessionExpired  = "Session Expired"
	TitleAccessDenied    = "Access Denied"
	TitleNotFound        = "Not Found"
	TitleServerError     = "Server Error"
)

// errInvalidJSON is the cause carried by a MalformedPayloadError whose
// content type claimed JSON.
var errInvalidJSON = errors.New("body is not valid JSON")

// maxRawDiagnostic caps how much of a malformed body is retained.
const maxRawDiagnostic = 2 << 10

// Classifier maps raw responses to outcomes.
type Classifier struct {
	notifier domain.Notifier
	log      logrus.FieldLogger

	mu      sync.RWMutex
	expirer domain.SessionExpirer
}

// NewClassifier returns a Classifier with no session bound yet.
func NewClassifier(notifier domain.Notifier, log logrus.FieldLogger) *Classifier {
	return &Classifier{
		notifier: notifier,
		log:      log.WithField("component", "classifier"),
	}
}

// Bind sets the session torn down on 401 responses.
func (c *Classifier) Bind(expirer domain.SessionExpirer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expirer = expirer
}

// Classify maps one response to an outcome. Non-JSON bodies yield a
// *MalformedPayloadError; a 401 yields the outcome together with
// ErrAuthExpired.
func (c *Classifier) Classify(
	ctx context.Context,
	status int,
	contentType string,
	body []byte,
	opts domain.RequestOptions,
) (domain.Outcome, error) {
	out := domain.Outcome{Status: status}

	payload, perr := c.parse(status, contentType, body)

	// The session is torn down on 401 before anything else, even when the
	// body is unusable or the caller asked for silence.
	if status == http.StatusUnauthorized {
		c.expire(ctx)
	}
	if perr != nil {
		return out, perr
	}
	out.Payload = payload
	msg := payload.Message()

	switch {
	case status == http.StatusOK:
		out.Kind = domain.OutcomeSuccess
		if payload.Success() && msg != "" && !opts.ShowErrorMessage && opts.ShowSuccessMessage {
			c.notify(domain.NotifySuccess, TitleSuccess, msg)
		}
	case status == http.StatusCreated:
		out.Kind = domain.OutcomeSuccess
	case status == http.StatusBadRequest:
		out.Kind = domain.OutcomeValidationError
		if opts.ShowErrorMessage && msg != "" {
			c.notify(domain.NotifyError, TitleValidationError, msg)
		}
	case status == http.StatusUnauthorized:
		out.Kind = domain.OutcomeAuthExpired
		if opts.ShowErrorMessage {
			c.notify(domain.NotifyError, TitleSessionExpired, orDefault(msg, "Please log in again"))
		}
		return out, ErrAuthExpired
	case status == http.StatusForbidden:
		out.Kind = domain.OutcomeForbidden
		if opts.ShowErrorMessage {
			c.notify(domain.NotifyError, TitleAccessDenied, orDefault(msg, "You do not have access to this resource"))
		}
	case status == http.StatusNotFound:
		out.Kind = domain.OutcomeNotFound
		if opts.ShowErrorMessage {
			c.notify(domain.NotifyError, TitleNotFound, orDefault(msg, "The requested resource was not found"))
		}
	case status >= http.StatusInternalServerError && status < 600:
		out.Kind = domain.OutcomeServerError
		if opts.ShowErrorMessage {
			c.notify(domain.NotifyError, TitleServerError, orDefault(msg, "Something went wrong, please try again later"))
		}
	default:
		out.Kind = domain.OutcomeUnclassified
	}
	return out, nil
}

// parse accepts JSON bodies only. An empty body is a null payload.
func (c *Classifier) parse(status int, contentType string, body []byte) (domain.Payload, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	if !isJSON(contentType) {
		return nil, c.malformed(status, contentType, body, nil)
	}
	if !gjson.ValidBytes(body) {
		return nil, c.malformed(status, contentType, body, errInvalidJSON)
	}
	return domain.Payload(body), nil
}

func (c *Classifier) malformed(status int, contentType string, body []byte, cause error) error {
	raw := string(body)
	if len(raw) > maxRawDiagnostic {
		raw = raw[:maxRawDiagnostic]
	}
	c.log.WithFields(logrus.Fields{
		"status":       status,
		"content_type": contentType,
		"raw":          raw,
	}).Debug("malformed response body")
	return &MalformedPayloadError{Status: status, ContentType: contentType, Raw: raw, Err: cause}
}

func (c *Classifier) expire(ctx context.Context) {
	c.mu.RLock()
	expirer := c.expirer
	c.mu.RUnlock()
	if expirer == nil {
		c.log.Warn("401 received but no session is bound")
		return
	}
	expirer.Expire(ctx)
}

func (c *Classifier) notify(t domain.NotificationType, title, detail string) {
	c.notifier.Notify(domain.Notification{Type: t, Title: title, Detail: detail})
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == contentTypeJSON || strings.HasSuffix(mt, "+json")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
