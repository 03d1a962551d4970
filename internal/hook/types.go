package hook

// TargetResolver maps a repository full name to a deployment target tag.
type TargetResolver interface {
	Resolve(repoFullName string) (string, error)
}

// DeployDispatcher launches a deployment for a resolved target on a task
// detached from the request. It must return without waiting for the run.
type DeployDispatcher interface {
	Dispatch(target, deliveryID string)
}

// SkipNotifier reports that a closed-but-unmerged pull request produced
// no deployment.
type SkipNotifier interface {
	NotifySkip(repo, deliveryID string)
}

// Config holds webhook server configuration.
type Config struct {
	Listen string

	// Secret returns the shared webhook secret. Resolved per request so
	// an empty value surfaces as a config failure at verification time.
	Secret func() string

	// Recipients is echoed in the acknowledgement response.
	Recipients []string
}

// StatusResponse is the liveness body for GET /api/status.
type StatusResponse struct {
	Status string `json:"status"`
}

// AckResponse is the JSON response for accepted deliveries.
type AckResponse struct {
	Status     string   `json:"status"`
	DeliveryID string   `json:"delivery_id,omitempty"`
	Recipients []string `json:"recipients,omitempty"`
}

// ErrorResponse is the JSON response for rejected deliveries.
type ErrorResponse struct {
	Error string `json:"error"`
}

const (
	// SignatureHeader carries the HMAC digest of the body.
	SignatureHeader = "X-Hub-Signature-256"

	// MaxBodySize caps webhook delivery bodies at 16 KiB.
	MaxBodySize = 16384
)
