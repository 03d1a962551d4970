package deploy

import "errors"

// ErrNotConfigured means the repository has no deployment target mapped.
var ErrNotConfigured = errors.New("repository is not configured for automated deployment")

// Resolver maps repository full names to deployment target tags. The
// table is built once at startup and read-only afterwards, so concurrent
// lookups need no locking and never disturb other entries.
type Resolver struct {
	targets map[string]string
}

// NewResolver copies the mapping so later mutation of the source map
// cannot affect lookups.
func NewResolver(targets map[string]string) *Resolver {
	m := make(map[string]string, len(targets))
	for repo, target := range targets {
		m[repo] = target
	}
	return &Resolver{targets: m}
}

// Resolve returns the target tag for a repository full name.
func (r *Resolver) Resolve(repoFullName string) (string, error) {
	target, ok := r.targets[repoFullName]
	if !ok {
		return "", ErrNotConfigured
	}
	return target, nil
}
