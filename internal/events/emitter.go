// Package events defines the outbound domain-event contract. Events are
// post-commit notifications; no caller observes delivery success or failure.
package events

import "context"

const (
	TeamsAdd                    = "teams_add"
	HacksAdd                    = "hacks_add"
	TeamsUpdateMembersAdd       = "teams_update_members_add"
	TeamsUpdateMembersDelete    = "teams_update_members_delete"
	TeamsUpdateEntriesAdd       = "teams_update_entries_add"
	TeamsUpdateEntriesDelete    = "teams_update_entries_delete"
	HacksUpdateChallengesAdd    = "hacks_update_challenges_add"
	HacksUpdateChallengesDelete = "hacks_update_challenges_delete"
)

type Emitter interface {
	Trigger(ctx context.Context, name string, payload any)
}

// NopEmitter discards every event. Used in tests and when no webhook is
// configured.
type NopEmitter struct{}

func (NopEmitter) Trigger(context.Context, string, any) {}
