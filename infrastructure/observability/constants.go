package observability

// Metric name prefixes
const (
	MetricPrefix = "gamewin"
)

// Metric names
const (
	// Ledger metrics
	LedgerEntriesTotal = MetricPrefix + ".ledger.entries_total"

	// Tournament metrics
	TournamentsStartedTotal = MetricPrefix + ".tournaments.started_total"

	// HTTP metrics
	HTTPRequestsTotal   = MetricPrefix + ".http.requests_total"
	HTTPRequestDuration = MetricPrefix + ".http.request_duration"

	// NATS metrics
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"
	NATSPublishErrorsTotal     = MetricPrefix + ".nats.publish_errors_total"

	// Scheduler metrics
	SchedulerRunsTotal = MetricPrefix + ".scheduler.runs_total"
)

// Label keys
const (
	LabelType      = "type"
	LabelEventType = "event_type"

	LabelMethod = "method"
	LabelRoute  = "route"
	LabelStatus = "status"

	LabelJob    = "job"
	LabelResult = "result"
)

// Scheduler run results
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)
