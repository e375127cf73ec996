package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"servicepro/internal/connectivity"
	"servicepro/internal/crypto"
	"servicepro/internal/domain"
)

// DefaultTimeout bounds every call.
const DefaultTimeout = 30 * time.Second

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 8 << 20

// Timeout notification text.
const (
	TimeoutTitle  = "Request Timeout"
	TimeoutDetail = "please try again"
)

// errDeadline is the cancellation cause of the dispatcher's own timeout,
// distinguishing it from a caller cancelling ctx.
var errDeadline = errors.New("dispatcher deadline exceeded")

// Config holds transport options for a Dispatcher.
type Config struct {
	BaseURL string        // prefix for relative endpoints
	Timeout time.Duration // defaults to DefaultTimeout
	HTTP    *http.Client  // defaults to a client without its own timeout
	Limiter *rate.Limiter // optional outgoing throttle
	Now     func() time.Time
}

// Deps are the collaborators a Dispatcher consults on every call.
type Deps struct {
	Gate     domain.ConnectivityGate
	Tokens   domain.TokenSource
	Devices  domain.DeviceStore
	Notifier domain.Notifier
	Busy     *Busy    // optional; a private indicator is used when nil
	Metrics  *Metrics // optional; unregistered collectors are used when nil
	Log      logrus.FieldLogger
}

// Dispatcher builds, sends and classifies API calls.
type Dispatcher struct {
	base     string
	timeout  time.Duration
	http     *http.Client
	limiter  *rate.Limiter
	now      func() time.Time
	gate     domain.ConnectivityGate
	tokens   domain.TokenSource
	devices  domain.DeviceStore
	notifier domain.Notifier
	busy     *Busy
	metrics  *Metrics
	log      logrus.FieldLogger

	classifier *Classifier
}

// New returns a Dispatcher. Bind a session before the first authenticated
// call so 401 responses can tear it down.
func New(cfg Config, deps Deps) *Dispatcher {
	d := &Dispatcher{
		base:     strings.TrimSuffix(cfg.BaseURL, "/"),
		timeout:  cfg.Timeout,
		http:     cfg.HTTP,
		limiter:  cfg.Limiter,
		now:      cfg.Now,
		gate:     deps.Gate,
		tokens:   deps.Tokens,
		devices:  deps.Devices,
		notifier: deps.Notifier,
		busy:     deps.Busy,
		metrics:  deps.Metrics,
		log:      deps.Log.WithField("component", "api"),
	}
	if d.timeout <= 0 {
		d.timeout = DefaultTimeout
	}
	if d.http == nil {
		d.http = &http.Client{}
	}
	if d.now == nil {
		d.now = time.Now
	}
	if d.busy == nil {
		d.busy = NewBusy(nil)
	}
	if d.metrics == nil {
		d.metrics = NewMetrics(nil)
	}
	d.classifier = NewClassifier(deps.Notifier, deps.Log)
	return d
}

// BindSession routes 401 responses to expirer.
func (d *Dispatcher) BindSession(expirer domain.SessionExpirer) { d.classifier.Bind(expirer) }

// Busy exposes the shared loader indicator.
func (d *Dispatcher) Busy() *Busy { return d.busy }

// Send executes req and classifies the response.
func (d *Dispatcher) Send(ctx context.Context, req domain.Request) (domain.Outcome, error) {
	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}
	log := d.log.WithFields(logrus.Fields{"method": method, "endpoint": req.Endpoint})

	if !d.gate.IsOnline() {
		d.notifier.Notify(domain.Notification{
			Type:   domain.NotifyError,
			Title:  connectivity.OfflineTitle,
			Detail: connectivity.OfflineDetail,
		})
		d.metrics.observe(method, "network_unavailable", 0)
		log.Debug("offline, request not sent")
		return domain.Outcome{}, fmt.Errorf("%s %s: %w", method, req.Endpoint, ErrNetworkUnavailable)
	}

	if req.Options.ShowLoader {
		d.busy.Acquire()
		defer d.busy.Release()
	}

	parent := ctx
	ctx, cancel := context.WithTimeoutCause(ctx, d.timeout, errDeadline)
	defer cancel()

	if d.limiter != nil {
		if err := d.limiter.Wait(ctx); err != nil {
			return domain.Outcome{}, d.throttled(parent, ctx, log, method, req.Endpoint, err)
		}
	}

	httpReq, err := d.build(ctx, method, req)
	if err != nil {
		d.metrics.observe(method, "build_error", 0)
		return domain.Outcome{}, fmt.Errorf("%s %s: %w", method, req.Endpoint, err)
	}
	if auth := httpReq.Header.Get("Authorization"); auth != "" {
		log = log.WithField("token_fp", crypto.Fingerprint([]byte(strings.TrimPrefix(auth, "Bearer "))))
	}

	start := d.now()
	d.metrics.inflight.Inc()
	status, contentType, body, err := d.roundTrip(httpReq)
	d.metrics.inflight.Dec()
	took := d.now().Sub(start)
	if err != nil {
		return domain.Outcome{}, d.failed(ctx, log, method, req.Endpoint, err)
	}

	out, err := d.classifier.Classify(ctx, status, contentType, body, req.Options)
	label := out.Kind.String()
	if errors.Is(err, ErrMalformedPayload) {
		label = "malformed"
	}
	d.metrics.observe(method, label, took)
	log.WithFields(logrus.Fields{
		"status":  status,
		"outcome": label,
		"took":    took,
	}).Debug("request completed")
	return out, err
}

// roundTrip performs the call and reads the capped body. The body is closed
// on every path.
func (d *Dispatcher) roundTrip(req *http.Request) (int, string, []byte, error) {
	resp, err := d.http.Do(req)
	if err != nil {
		return 0, "", nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return 0, "", nil, err
	}
	if len(body) > maxBodyBytes {
		return 0, "", nil, fmt.Errorf("response body exceeds %d bytes", maxBodyBytes)
	}
	return resp.StatusCode, resp.Header.Get("Content-Type"), body, nil
}

// throttled maps a limiter refusal. Wait gives up early when the next token
// would only arrive after the deadline; that is a timeout when the deadline
// is the dispatcher's own, and the caller's deadline otherwise.
func (d *Dispatcher) throttled(parent, ctx context.Context, log logrus.FieldLogger, method, endpoint string, err error) error {
	if ctx.Err() != nil {
		return d.failed(ctx, log, method, endpoint, err)
	}
	own, _ := ctx.Deadline()
	if callerDL, ok := parent.Deadline(); ok && !callerDL.After(own) {
		d.metrics.observe(method, "canceled", 0)
		return fmt.Errorf("%s %s: %w: %v", method, endpoint, context.DeadlineExceeded, err)
	}
	return d.timedOut(log, method, endpoint)
}

// failed maps transport errors. Only the dispatcher's own deadline is
// reported as a timeout toast.
func (d *Dispatcher) failed(ctx context.Context, log logrus.FieldLogger, method, endpoint string, err error) error {
	if errors.Is(context.Cause(ctx), errDeadline) {
		return d.timedOut(log, method, endpoint)
	}
	if ctx.Err() != nil {
		d.metrics.observe(method, "canceled", 0)
		return fmt.Errorf("%s %s: %w", method, endpoint, ctx.Err())
	}
	d.metrics.observe(method, "transport_error", 0)
	log.WithError(err).Warn("request failed")
	return fmt.Errorf("%s %s: %w", method, endpoint, err)
}

func (d *Dispatcher) timedOut(log logrus.FieldLogger, method, endpoint string) error {
	d.notifier.Notify(domain.Notification{
		Type:   domain.NotifyError,
		Title:  TimeoutTitle,
		Detail: TimeoutDetail,
	})
	d.metrics.observe(method, "timeout", 0)
	log.WithField("timeout", d.timeout).Warn("request timed out")
	return fmt.Errorf("%s %s: %w", method, endpoint, ErrTimeout)
}

// Compile-time assertion that Dispatcher implements domain.Dispatcher.
var _ domain.Dispatcher = (*Dispatcher)(nil)
