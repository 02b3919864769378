package models

// These structs define the JSON payloads accepted and returned by the
// Cloud Functions entry points.

// ProcessPostsRequest is the optional body of a process-posts invocation.
// An empty body processes posts in the default consumable statuses.
type ProcessPostsRequest struct {
	Statuses    []string `json:"statuses,omitempty"`
	Limit       int      `json:"limit,omitempty"`
	ExecutionID string   `json:"executionId,omitempty"`
}

// ProcessPostsResponse reports the outcome of one pipeline pass.
type ProcessPostsResponse struct {
	Status    string         `json:"status"`
	RunID     string         `json:"runId"`
	Consumed  int            `json:"consumed"`
	Processed int            `json:"processed"`
	Counts    map[string]int `json:"counts"`
}

// PruneRequest is the JSON payload carried by the prune-posts Pub/Sub event.
// Zero values fall back to the configured defaults.
type PruneRequest struct {
	RetentionDays   int      `json:"retentionDays,omitempty"`
	CleanupStatuses []string `json:"cleanupStatuses,omitempty"`
}

// PubSubMessage is the CloudEvent data of a Pub/Sub push, as delivered to
// CloudEvent functions. Data is base64 in the wire format.
type PubSubMessage struct {
	Message struct {
		Data       []byte            `json:"data,omitempty"`
		Attributes map[string]string `json:"attributes,omitempty"`
		MessageID  string            `json:"messageId"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}
