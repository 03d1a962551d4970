package hook

import "encoding/json"

// Event is the parsed view of a webhook delivery: just the fields the
// deployment decision needs.
type Event struct {
	// Action is the event action, e.g. "closed", "opened".
	Action string

	// Repo is the repository full name, e.g. "org/app".
	Repo string

	// Merged is nil when the pull_request object carries no merged
	// field. Treated as not merged.
	Merged *bool
}

// IsMerged reports whether the pull request was merged.
func (e Event) IsMerged() bool {
	return e.Merged != nil && *e.Merged
}

// payload mirrors the subset of the webhook JSON we read. Pointer fields
// distinguish absent objects from zero values.
type payload struct {
	Action     *string `json:"action"`
	Repository *struct {
		FullName *string `json:"full_name"`
	} `json:"repository"`
	PullRequest *struct {
		Merged *bool `json:"merged"`
	} `json:"pull_request"`
}

// ParseEvent interprets the raw body as a pull-request webhook payload.
// Only called after signature verification has passed.
func ParseEvent(body []byte) (Event, error) {
	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return Event{}, validationErr("unable to get body of request as json")
	}

	if p.Repository == nil || p.Repository.FullName == nil {
		return Event{}, validationErr("unable to get repository field from webhook")
	}
	if p.Action == nil {
		return Event{}, validationErr("unable to get action field from webhook")
	}
	if p.PullRequest == nil {
		return Event{}, validationErr("unable to get pull_request field from webhook")
	}

	return Event{
		Action: *p.Action,
		Repo:   *p.Repository.FullName,
		Merged: p.PullRequest.Merged,
	}, nil
}
