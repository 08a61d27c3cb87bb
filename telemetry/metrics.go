package telemetry

// Histogram bucket definitions for the pipeline's latency profiles.
var (
	// DeliveryBuckets covers a single mutation's blocking publish-and-ack.
	DeliveryBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

	// SegmentBuckets covers the time to fully drain one commit-log segment.
	SegmentBuckets = []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 300}
)

// Delivery Metrics
var (
	// MutationsSentTotal counts mutations successfully published, by keyspace/table.
	MutationsSentTotal CounterVec = noopCounterVec{}

	// MutationsSkippedTotal counts mutations dropped because their table's
	// schema could not be derived (unsupported column type). Not broken
	// down by table: the publisher's skip callback fires once per skipped
	// mutation but carries no argument naming the table.
	MutationsSkippedTotal Counter = NoopStat{}

	// DeliveryErrorsTotal counts publish attempts that failed and were retried.
	DeliveryErrorsTotal Counter = NoopStat{}

	// DeliveryDurationSeconds measures time from send attempt to confirmed ack.
	DeliveryDurationSeconds Histogram = NoopStat{}

	// OffsetPosition tracks the last durably-marked commit-log position.
	OffsetPosition Gauge = NoopStat{}
)

// Segment Processing Metrics
var (
	// SegmentsProcessedTotal counts commit-log segments fully drained, by outcome.
	SegmentsProcessedTotal CounterVec = noopCounterVec{}

	// SegmentProcessingSeconds measures time to fully drain one segment.
	SegmentProcessingSeconds Histogram = NoopStat{}

	// SegmentsPendingGauge tracks segments discovered but not yet processed.
	SegmentsPendingGauge Gauge = NoopStat{}
)

// Bus Client Metrics
var (
	// BusSendErrorsTotal counts transport-level send failures by driver.
	BusSendErrorsTotal CounterVec = noopCounterVec{}
)

// InitMetrics initializes all Prometheus metrics.
// Must be called after InitializeTelemetry().
func InitMetrics() {
	MutationsSentTotal = NewCounterVec(
		"mutations_sent_total",
		"Mutations successfully published",
		[]string{"keyspace", "table"},
	)
	MutationsSkippedTotal = NewCounter(
		"mutations_skipped_total",
		"Mutations dropped due to unsupported table schema",
	)
	DeliveryErrorsTotal = NewCounter(
		"delivery_errors_total",
		"Publish attempts that failed and were retried",
	)
	DeliveryDurationSeconds = NewHistogramWithBuckets(
		"delivery_duration_seconds",
		"Time from send attempt to confirmed ack",
		DeliveryBuckets,
	)
	OffsetPosition = NewGauge(
		"offset_position",
		"Last durably marked commit log position within its segment",
	)

	SegmentsProcessedTotal = NewCounterVec(
		"segments_processed_total",
		"Commit log segments fully drained, by outcome",
		[]string{"outcome"},
	)
	SegmentProcessingSeconds = NewHistogramWithBuckets(
		"segment_processing_seconds",
		"Time to fully drain one commit log segment",
		SegmentBuckets,
	)
	SegmentsPendingGauge = NewGauge(
		"segments_pending",
		"Commit log segments discovered but not yet processed",
	)

	BusSendErrorsTotal = NewCounterVec(
		"bus_send_errors_total",
		"Transport level send failures by driver",
		[]string{"driver"},
	)
}
