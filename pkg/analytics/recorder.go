package analytics

import (
	"context"
	"time"

	"excesoluz/pkg/config"
	"excesoluz/pkg/logger"
	"excesoluz/pkg/ratelimit"
)

// DefaultCollection is where wallpaper events are stored
const DefaultCollection = "eventos_fondos"

// Recorder records wallpaper events. It is safe to call when analytics are
// disabled, in which case every call is a no-op.
type Recorder struct {
	client     *Client
	limiter    ratelimit.Limiter
	collection string
	userAgent  string
	enabled    bool
	now        func() time.Time
	logger     logger.Logger
}

// RecorderOption configures a Recorder
type RecorderOption func(*Recorder)

// WithClient replaces the Firestore client
func WithClient(c *Client) RecorderOption {
	return func(r *Recorder) { r.client = c }
}

// WithLimiter replaces the events-per-minute limiter
func WithLimiter(l ratelimit.Limiter) RecorderOption {
	return func(r *Recorder) { r.limiter = l }
}

// WithRecorderClock replaces time.Now for event timestamps
func WithRecorderClock(now func() time.Time) RecorderOption {
	return func(r *Recorder) { r.now = now }
}

// WithRecorderLogger sets the logger
func WithRecorderLogger(l logger.Logger) RecorderOption {
	return func(r *Recorder) { r.logger = l }
}

// NewRecorder builds a recorder from cfg
func NewRecorder(cfg config.AnalyticsConfig, opts ...RecorderOption) *Recorder {
	collection := cfg.Collection
	if collection == "" {
		collection = DefaultCollection
	}

	r := &Recorder{
		collection: collection,
		userAgent:  cfg.UserAgent,
		enabled:    cfg.Enabled,
		now:        time.Now,
		logger:     logger.GetLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.client == nil {
		r.client = NewClient(cfg, r.logger)
	}
	if r.limiter == nil && cfg.EventsPerMinute > 0 {
		r.limiter = ratelimit.NewSlidingWindow(cfg.EventsPerMinute, time.Minute)
	}

	logger.LogComponentStart("analytics", map[string]interface{}{
		"enabled":    r.enabled,
		"project":    cfg.ProjectID,
		"collection": r.collection,
	})
	return r
}

// Enabled reports whether events are sent anywhere
func (r *Recorder) Enabled() bool {
	return r.enabled
}

// RecordEvent appends an event for wallpaperID. Errors are logged and
// swallowed; the return value only reports whether the event was stored.
func (r *Recorder) RecordEvent(ctx context.Context, kind EventKind, wallpaperID string) bool {
	if !r.enabled {
		r.logger.WithField("tipo", string(kind)).Debug("Analytics disabled, event dropped")
		return false
	}

	if r.limiter != nil && !r.limiter.Allow() {
		r.logger.WithFields(map[string]interface{}{
			"tipo":    string(kind),
			"fondoId": wallpaperID,
		}).Warn("Analytics rate limit reached, event dropped")
		return false
	}

	event := Event{
		Kind:        kind,
		WallpaperID: wallpaperID,
		Time:        r.now(),
		UserAgent:   r.userAgent,
	}

	_, err := r.client.CreateDocument(ctx, r.collection, event.Fields())
	logger.LogAnalyticsEvent(r.logger, string(kind), wallpaperID, err)
	return err == nil
}
