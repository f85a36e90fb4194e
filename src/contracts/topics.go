package contracts

// Topic names for the live publish/subscribe channel. The replay protocol
// runs on its own request/response endpoints and never touches these.
const (
	// TopicEdgeEvents carries live telemetry from edge producers.
	// Key: {source}
	TopicEdgeEvents = "gridrelay.edge.events"

	// TopicCloudEvents carries telemetry republished toward downstream
	// consumers after the broker has seen it.
	// Key: {source}
	TopicCloudEvents = "gridrelay.cloud.events"
)
