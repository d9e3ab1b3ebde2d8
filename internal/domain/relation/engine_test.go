package relation

import (
	"context"
	"errors"
	"testing"

	"github.com/hacknight/server/internal/domain/identity"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// fakeStore models one parent ("p") plus a catalogue of resolvable children
// and a set of child ids linked somewhere in the exclusivity scope.
type fakeStore struct {
	parent   *Parent
	children map[string]Ref // by slug
	linked   map[string]bool

	appended []string
	removed  []string
	failWith error
}

func (s *fakeStore) FindParent(_ context.Context, slug string, _ string) (*Parent, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	if s.parent == nil || s.parent.Slug != slug {
		return nil, nil
	}
	return s.parent, nil
}

func (s *fakeStore) ResolveChildren(_ context.Context, slugs []string) ([]Ref, error) {
	refs := make([]Ref, 0, len(slugs))
	seen := make(map[string]bool)
	for _, slug := range slugs {
		if ref, ok := s.children[slug]; ok && !seen[slug] {
			refs = append(refs, ref)
			seen[slug] = true
		}
	}
	return refs, nil
}

func (s *fakeStore) LinkedAnywhere(_ context.Context, childIDs []string) ([]string, error) {
	var hits []string
	for _, id := range childIDs {
		if s.linked[id] {
			hits = append(hits, id)
		}
	}
	return hits, nil
}

func (s *fakeStore) AppendChildren(_ context.Context, _ string, childIDs []string) error {
	s.appended = append(s.appended, childIDs...)
	return nil
}

func (s *fakeStore) RemoveChildren(_ context.Context, _ string, childIDs []string) error {
	s.removed = append(s.removed, childIDs...)
	return nil
}

type recordedEvent struct {
	name    string
	payload map[string]any
}

type recordingEmitter struct {
	events []recordedEvent
}

func (e *recordingEmitter) Trigger(_ context.Context, name string, payload any) {
	e.events = append(e.events, recordedEvent{name: name, payload: payload.(map[string]any)})
}

var testConfig = Config{
	Name:        "hack-challenges",
	AddEvent:    "hacks_update_challenges_add",
	RemoveEvent: "hacks_update_challenges_delete",
	ParentKey:   "hackid",
	ChildKey:    "challengeid",
	Messages: Messages{
		ParentNotFound:  "Hack not found",
		Forbidden:       "Only team members can modify a hack",
		AlreadyLinked:   "One or more challenges are already challenges of this hack",
		UnknownChildren: "One or more of the specified challenges could not be found",
		LinkedElsewhere: "One or more of the specified challenges are already in a hack",
		NotLinked:       "One or more of the specified challenges are not in this hack",
	},
}

var actor = identity.Credentials{
	User: identity.UserIdentity{ID: "u1", UserID: "U12345678", Name: "Otter"},
}

func ref(slug string) Ref {
	return Ref{ID: "id-" + slug, Slug: slug, Name: "Name " + slug}
}

func newStore(childSlugs []string, catalogue ...string) *fakeStore {
	children := make([]Ref, len(childSlugs))
	for i, slug := range childSlugs {
		children[i] = ref(slug)
	}
	store := &fakeStore{
		parent:   &Parent{Ref: Ref{ID: "p-id", Slug: "p", Name: "Parent"}, Children: children, ActorIsMember: true},
		children: make(map[string]Ref),
		linked:   make(map[string]bool),
	}
	for _, slug := range childSlugs {
		store.children[slug] = ref(slug)
		store.linked["id-"+slug] = true
	}
	for _, slug := range catalogue {
		store.children[slug] = ref(slug)
	}
	return store
}

func newEngine(store *fakeStore, emitter *recordingEmitter) *Engine {
	return NewEngine(store, emitter, testConfig, zerolog.Nop())
}

func requireKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	var relErr *Error
	require.ErrorAs(t, err, &relErr)
	require.Equal(t, kind, relErr.Kind)
}

func TestAddUnknownParent(t *testing.T) {
	store := newStore(nil)
	emitter := &recordingEmitter{}

	err := newEngine(store, emitter).Add(context.Background(), "ghost", []string{"x"}, actor)

	requireKind(t, err, KindNotFound)
	require.Empty(t, emitter.events)
}

func TestAddForbiddenForNonMembers(t *testing.T) {
	store := newStore(nil, "x")
	store.parent.ActorIsMember = false
	emitter := &recordingEmitter{}

	err := newEngine(store, emitter).Add(context.Background(), "p", []string{"x"}, actor)

	requireKind(t, err, KindForbidden)
	require.Empty(t, store.appended)
	require.Empty(t, emitter.events)
}

func TestAddSucceedsInRequestOrder(t *testing.T) {
	store := newStore(nil, "d", "e")
	emitter := &recordingEmitter{}

	err := newEngine(store, emitter).Add(context.Background(), "p", []string{"d", "e"}, actor)

	require.NoError(t, err)
	require.Equal(t, []string{"id-d", "id-e"}, store.appended)
	require.Len(t, emitter.events, 2)
	require.Equal(t, "hacks_update_challenges_add", emitter.events[0].name)
	require.Equal(t, "d", emitter.events[0].payload["entry"].(map[string]any)["challengeid"])
	require.Equal(t, "e", emitter.events[1].payload["entry"].(map[string]any)["challengeid"])
	require.Equal(t, "p", emitter.events[0].payload["hackid"])
	require.Equal(t, "Parent", emitter.events[0].payload["name"])
}

func TestAddRejectsChildrenAlreadyOnParent(t *testing.T) {
	store := newStore([]string{"a"}, "b")
	emitter := &recordingEmitter{}

	err := newEngine(store, emitter).Add(context.Background(), "p", []string{"a", "b"}, actor)

	requireKind(t, err, KindBadRequest)
	require.Empty(t, store.appended, "no partial write")
	require.Empty(t, emitter.events)
}

func TestAddRejectsUnknownChildren(t *testing.T) {
	store := newStore(nil, "x")
	emitter := &recordingEmitter{}

	err := newEngine(store, emitter).Add(context.Background(), "p", []string{"x", "ghost"}, actor)

	requireKind(t, err, KindBadRequest)
	require.EqualError(t, err, testConfig.Messages.UnknownChildren)
	require.Empty(t, store.appended)
	require.Empty(t, emitter.events)
}

func TestAddBatchAtomicityWhenOneChildLinkedElsewhere(t *testing.T) {
	store := newStore(nil, "x", "y")
	store.linked["id-y"] = true // y already belongs to another parent
	emitter := &recordingEmitter{}

	err := newEngine(store, emitter).Add(context.Background(), "p", []string{"x", "y"}, actor)

	requireKind(t, err, KindBadRequest)
	require.EqualError(t, err, testConfig.Messages.LinkedElsewhere)
	require.Empty(t, store.appended, "x must not be linked either")
	require.Empty(t, emitter.events)
}

func TestAddValidationPrecedence(t *testing.T) {
	// A request that is simultaneously forbidden and full of unknown children
	// must fail on the predicate first.
	store := newStore(nil)
	store.parent.ActorIsMember = false
	emitter := &recordingEmitter{}

	err := newEngine(store, emitter).Add(context.Background(), "p", []string{"ghost"}, actor)

	requireKind(t, err, KindForbidden)
}

func TestAddPropagatesStoreErrors(t *testing.T) {
	store := newStore(nil)
	store.failWith = errors.New("connection reset")
	emitter := &recordingEmitter{}

	err := newEngine(store, emitter).Add(context.Background(), "p", []string{"x"}, actor)

	require.ErrorContains(t, err, "connection reset")
	var relErr *Error
	require.False(t, errors.As(err, &relErr), "store errors are not mutation rejections")
}

func TestRemoveSucceedsInStoredOrder(t *testing.T) {
	store := newStore([]string{"a", "b", "c"})
	emitter := &recordingEmitter{}

	// Request order is reversed; events must follow stored order a, c.
	err := newEngine(store, emitter).Remove(context.Background(), "p", []string{"c", "a"}, actor)

	require.NoError(t, err)
	require.Equal(t, []string{"id-a", "id-c"}, store.removed)
	require.Len(t, emitter.events, 2)
	require.Equal(t, "hacks_update_challenges_delete", emitter.events[0].name)
	require.Equal(t, "a", emitter.events[0].payload["entry"].(map[string]any)["challengeid"])
	require.Equal(t, "c", emitter.events[1].payload["entry"].(map[string]any)["challengeid"])
}

func TestRemoveIsNotIdempotent(t *testing.T) {
	store := newStore([]string{"a", "b", "c"}, "z")
	emitter := &recordingEmitter{}

	err := newEngine(store, emitter).Remove(context.Background(), "p", []string{"a", "z"}, actor)

	requireKind(t, err, KindBadRequest)
	require.EqualError(t, err, testConfig.Messages.NotLinked)
	require.Empty(t, store.removed, "a must stay linked")
	require.Empty(t, emitter.events)
}

func TestRemoveUnknownParent(t *testing.T) {
	store := newStore(nil)
	emitter := &recordingEmitter{}

	err := newEngine(store, emitter).Remove(context.Background(), "ghost", []string{"a"}, actor)

	requireKind(t, err, KindNotFound)
}

func TestRemoveForbiddenForNonMembers(t *testing.T) {
	store := newStore([]string{"a"})
	store.parent.ActorIsMember = false
	emitter := &recordingEmitter{}

	err := newEngine(store, emitter).Remove(context.Background(), "p", []string{"a"}, actor)

	requireKind(t, err, KindForbidden)
	require.Empty(t, store.removed)
}
