// Package relation implements the guarded add/remove of child references on a
// parent entity. One engine serves every relationship endpoint; each call site
// supplies a Store bound to its parent/child tables, an exclusivity scope, and
// its event names.
package relation

import (
	"context"
	"fmt"

	"github.com/hacknight/server/internal/domain/identity"
	"github.com/rs/zerolog"
)

// Ref is the minimal identity of a parent or child record.
type Ref struct {
	ID   string
	Slug string
	Name string
}

// Parent is a parent record loaded with its current children (in stored
// order) and the already-evaluated authorization context for the actor.
type Parent struct {
	Ref
	Children      []Ref
	ActorIsMember bool
}

// Store is the persistence surface of one relationship call site.
//
// LinkedAnywhere answers the exclusivity question: which of the given child
// ids are referenced by any parent in this relationship's scope, the current
// parent included. Append and Remove are single-document updates; the engine
// never wraps them in a transaction with the reads.
type Store interface {
	FindParent(ctx context.Context, slug string, actorUserID string) (*Parent, error)
	ResolveChildren(ctx context.Context, slugs []string) ([]Ref, error)
	LinkedAnywhere(ctx context.Context, childIDs []string) ([]string, error)
	AppendChildren(ctx context.Context, parentID string, childIDs []string) error
	RemoveChildren(ctx context.Context, parentID string, childIDs []string) error
}

// Emitter delivers domain events after a committed mutation. Delivery is
// best-effort; Trigger never reports failure.
type Emitter interface {
	Trigger(ctx context.Context, name string, payload any)
}

// Messages are the rejection details for one call site.
type Messages struct {
	ParentNotFound  string
	Forbidden       string
	AlreadyLinked   string
	UnknownChildren string
	LinkedElsewhere string
	NotLinked       string
}

// Config binds the engine to one call site.
type Config struct {
	// Name tags log lines, e.g. "hack-challenges".
	Name        string
	AddEvent    string
	RemoveEvent string
	// ParentKey and ChildKey are the JSON keys naming the parent and child in
	// event payloads ("hackid", "challengeid", ...).
	ParentKey string
	ChildKey  string
	Messages  Messages
}

// Op is the signature shared by Add and Remove, so callers can treat the two
// mutations uniformly.
type Op func(ctx context.Context, parentSlug string, childSlugs []string, actor identity.Credentials) error

type Engine struct {
	store   Store
	emitter Emitter
	cfg     Config
	logger  zerolog.Logger
}

func NewEngine(store Store, emitter Emitter, cfg Config, logger zerolog.Logger) *Engine {
	return &Engine{
		store:   store,
		emitter: emitter,
		cfg:     cfg,
		logger:  logger.With().Str("component", "relation").Str("relationship", cfg.Name).Logger(),
	}
}

// Add links the requested children to the parent. The whole batch is
// validated before any write: a single unknown, duplicate, or
// already-linked-elsewhere child rejects the request with no mutation.
func (e *Engine) Add(ctx context.Context, parentSlug string, childSlugs []string, actor identity.Credentials) error {
	parent, err := e.loadAndAuthorize(ctx, parentSlug, actor)
	if err != nil {
		return err
	}

	current := make(map[string]bool, len(parent.Children))
	for _, child := range parent.Children {
		current[child.Slug] = true
	}
	for _, slug := range childSlugs {
		if current[slug] {
			return badRequest(e.cfg.Messages.AlreadyLinked)
		}
	}

	children, err := e.store.ResolveChildren(ctx, childSlugs)
	if err != nil {
		return fmt.Errorf("resolve children: %w", err)
	}
	if len(children) != len(childSlugs) {
		return badRequest(e.cfg.Messages.UnknownChildren)
	}

	childIDs := make([]string, len(children))
	for i, child := range children {
		childIDs[i] = child.ID
	}

	linked, err := e.store.LinkedAnywhere(ctx, childIDs)
	if err != nil {
		return fmt.Errorf("exclusivity scan: %w", err)
	}
	if len(linked) > 0 {
		return badRequest(e.cfg.Messages.LinkedElsewhere)
	}

	if err := e.store.AppendChildren(ctx, parent.ID, childIDs); err != nil {
		return fmt.Errorf("append children: %w", err)
	}

	for _, child := range children {
		e.emit(ctx, e.cfg.AddEvent, parent, child)
	}
	return nil
}

// Remove unlinks the requested children. Every requested slug must currently
// be linked; re-removing is an error, not a no-op. Events follow the parent's
// stored order, not the request's.
func (e *Engine) Remove(ctx context.Context, parentSlug string, childSlugs []string, actor identity.Credentials) error {
	parent, err := e.loadAndAuthorize(ctx, parentSlug, actor)
	if err != nil {
		return err
	}

	requested := make(map[string]bool, len(childSlugs))
	for _, slug := range childSlugs {
		requested[slug] = true
	}

	removed := make([]Ref, 0, len(childSlugs))
	for _, child := range parent.Children {
		if requested[child.Slug] {
			removed = append(removed, child)
		}
	}
	if len(removed) < len(childSlugs) {
		return badRequest(e.cfg.Messages.NotLinked)
	}

	childIDs := make([]string, len(removed))
	for i, child := range removed {
		childIDs[i] = child.ID
	}

	if err := e.store.RemoveChildren(ctx, parent.ID, childIDs); err != nil {
		return fmt.Errorf("remove children: %w", err)
	}

	for _, child := range removed {
		e.emit(ctx, e.cfg.RemoveEvent, parent, child)
	}
	return nil
}

func (e *Engine) loadAndAuthorize(ctx context.Context, parentSlug string, actor identity.Credentials) (*Parent, error) {
	parent, err := e.store.FindParent(ctx, parentSlug, actor.User.ID)
	if err != nil {
		return nil, fmt.Errorf("find parent %q: %w", parentSlug, err)
	}
	if parent == nil {
		return nil, notFound(e.cfg.Messages.ParentNotFound)
	}
	if !parent.ActorIsMember {
		return nil, forbidden(e.cfg.Messages.Forbidden)
	}
	return parent, nil
}

func (e *Engine) emit(ctx context.Context, event string, parent *Parent, child Ref) {
	e.logger.Debug().Str("event", event).Str("parent", parent.Slug).Str("child", child.Slug).Msg("emitting")
	e.emitter.Trigger(ctx, event, map[string]any{
		e.cfg.ParentKey: parent.Slug,
		"name":          parent.Name,
		"entry": map[string]any{
			e.cfg.ChildKey: child.Slug,
			"name":         child.Name,
		},
	})
}
