package app

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"servicepro/internal/api"
	"servicepro/internal/connectivity"
	"servicepro/internal/domain"
	"servicepro/internal/notify"
	"servicepro/internal/services/onboarding"
	"servicepro/internal/services/profile"
	"servicepro/internal/services/session"
	"servicepro/internal/store"
)

// Wire bundles all stores, services, and clients for the CLI.
type Wire struct {
	Config   Config
	Log      *logrus.Logger
	Notifier domain.Notifier
	Registry *prometheus.Registry

	Devices  *store.DeviceFileStore
	Sessions *store.SessionFileStore
	Monitor  *connectivity.Monitor
	Prober   connectivity.Prober
	API      *api.Dispatcher
	Session  *session.Service
	Profile  *profile.Service
	Router   onboarding.Router
}

type wireOptions struct {
	http      *http.Client
	notifier  domain.Notifier
	logOut    io.Writer
	storeOpts []store.Option
}

// Option customises NewWire.
type Option func(*wireOptions)

// WithHTTPClient replaces the client used for API calls and probes.
func WithHTTPClient(c *http.Client) Option { return func(o *wireOptions) { o.http = c } }

// WithNotifier adds n next to the log notifier.
func WithNotifier(n domain.Notifier) Option { return func(o *wireOptions) { o.notifier = n } }

// WithLogOutput redirects log output (stderr by default).
func WithLogOutput(w io.Writer) Option { return func(o *wireOptions) { o.logOut = w } }

// WithStoreOptions forwards options to the session store.
func WithStoreOptions(opts ...store.Option) Option {
	return func(o *wireOptions) { o.storeOpts = append(o.storeOpts, opts...) }
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config, opts ...Option) (*Wire, error) {
	o := wireOptions{logOut: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := NewLogger(cfg.Log, o.logOut)
	if err != nil {
		return nil, err
	}

	var notifier domain.Notifier = notify.Log{Logger: log}
	if o.notifier != nil {
		notifier = notify.Multi{notifier, o.notifier}
	}

	// File-based stores
	devices := store.NewDeviceFileStore(cfg.Home)
	secret := cfg.StoreSecret
	if secret == "" {
		id, err := devices.DeviceID()
		if err != nil {
			return nil, fmt.Errorf("device id: %w", err)
		}
		secret = id.String()
	}
	sessions := store.NewSessionFileStore(cfg.Home, secret, o.storeOpts...)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	monitor := connectivity.New(notifier, log)

	var limiter *rate.Limiter
	if cfg.RateLimit.PerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.PerSecond), cfg.RateLimit.Burst)
	}

	busy := api.NewBusy(func(active bool) {
		log.WithField("active", active).Debug("loader")
	})

	// Transport (uses provided HTTP client)
	dispatcher := api.New(api.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		HTTP:    o.http,
		Limiter: limiter,
	}, api.Deps{
		Gate:     monitor,
		Tokens:   sessions,
		Devices:  devices,
		Notifier: notifier,
		Busy:     busy,
		Metrics:  api.NewMetrics(reg),
		Log:      log,
	})

	// High-level services
	sessionSvc := session.New(sessions, dispatcher, notifier, log, session.Endpoints{
		Login:   cfg.Endpoints.Login,
		Logout:  cfg.Endpoints.Logout,
		Profile: cfg.Endpoints.Profile,
	})
	dispatcher.BindSession(sessionSvc)

	profileSvc := profile.New(dispatcher, sessionSvc, profile.Endpoints{
		Profile:  cfg.Endpoints.Profile,
		KYC:      cfg.Endpoints.KYC,
		Training: cfg.Endpoints.Training,
	})

	probeURL := cfg.Endpoints.Health
	if u, err := joinURL(cfg.BaseURL, probeURL); err == nil {
		probeURL = u
	}

	return &Wire{
		Config:   cfg,
		Log:      log,
		Notifier: notifier,
		Registry: reg,
		Devices:  devices,
		Sessions: sessions,
		Monitor:  monitor,
		Prober:   connectivity.HTTPProber{URL: probeURL, Client: o.http, Timeout: cfg.Probe.Timeout},
		API:      dispatcher,
		Session:  sessionSvc,
		Profile:  profileSvc,
		Router:   onboarding.Router{RequireTraining: cfg.RequireTraining},
	}, nil
}
