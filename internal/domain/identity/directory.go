package identity

import "context"

// Profile is the minimal Slack user profile the resolver needs.
type Profile struct {
	ID    string
	Name  string
	Email string
}

// Directory resolves a Slack ID to a profile. Lookup failures are treated as
// soft authentication failures by the resolver, never propagated.
type Directory interface {
	Lookup(ctx context.Context, slackID string) (Profile, error)
}
