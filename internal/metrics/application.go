package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ApplicationMetrics tracks feed, post lifecycle and engagement
type ApplicationMetrics struct {
	// Feed
	FeedReadsTotal     *prometheus.CounterVec
	FeedReadDuration   prometheus.Histogram
	FeedResultSize     prometheus.Histogram
	FeedCandidateCount prometheus.Histogram

	// Post lifecycle
	PostsCreated    *prometheus.CounterVec
	PostsDeleted    prometheus.Counter
	PostsSwept      prometheus.Counter
	SweepRunsTotal  *prometheus.CounterVec
	SweepDuration   prometheus.Histogram
	ContentRejected *prometheus.CounterVec
	ProfileUploads  *prometheus.CounterVec
	PasswordResets  prometheus.Counter
	AuthAttempts    *prometheus.CounterVec
	BotActionsTotal *prometheus.CounterVec

	// Engagement
	LikesTotal     *prometheus.CounterVec
	ReactionsTotal *prometheus.CounterVec
	CommentsTotal  prometheus.Counter
	MessagesTotal  prometheus.Counter
}

func newApplicationMetrics() *ApplicationMetrics {
	return &ApplicationMetrics{
		FeedReadsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "feed_reads_total",
				Help: "Geofenced feed reads by filter kind",
			},
			[]string{"filter"},
		),
		FeedReadDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "feed_read_duration_seconds",
				Help:    "Time to sweep, load and filter one feed page",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
		),
		FeedResultSize: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "feed_result_size",
				Help:    "Number of posts returned per feed page",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
			},
		),
		FeedCandidateCount: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "feed_candidates",
				Help:    "Rows loaded before exact distance filtering",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
		),
		PostsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "posts_created_total",
				Help: "Posts created by source",
			},
			[]string{"source"},
		),
		PostsDeleted: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "posts_deleted_total",
				Help: "Posts deleted by their author",
			},
		),
		PostsSwept: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "posts_swept_total",
				Help: "Expired posts removed by the sweeper",
			},
		),
		SweepRunsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sweep_runs_total",
				Help: "Background sweep runs by result",
			},
			[]string{"result"},
		),
		SweepDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sweep_duration_seconds",
				Help:    "Background sweep duration",
				Buckets: []float64{.005, .01, .05, .1, .5, 1, 5},
			},
		),
		ContentRejected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "content_rejected_total",
				Help: "Submissions rejected by the content filter",
			},
			[]string{"kind"},
		),
		ProfileUploads: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "profile_image_uploads_total",
				Help: "Profile image uploads by backend",
			},
			[]string{"backend"},
		),
		PasswordResets: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "password_resets_requested_total",
				Help: "Password reset tokens issued",
			},
		),
		AuthAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_attempts_total",
				Help: "Authentication attempts by method and result",
			},
			[]string{"method", "result"},
		),
		BotActionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "activity_bot_actions_total",
				Help: "Actions taken by the activity bot",
			},
			[]string{"action"},
		),
		LikesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "likes_total",
				Help: "Likes by target type",
			},
			[]string{"target"},
		),
		ReactionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reactions_total",
				Help: "Reaction changes by target and action",
			},
			[]string{"target", "action"},
		),
		CommentsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "comments_created_total",
				Help: "Comments created",
			},
		),
		MessagesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "messages_sent_total",
				Help: "Direct messages sent",
			},
		),
	}
}
