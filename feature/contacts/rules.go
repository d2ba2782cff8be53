package contacts

import (
	"context"
	"fmt"
	"sync"

	"datasync/core/endpoint"
	"datasync/core/match"
	"datasync/core/resolve"
)

// Message keys of the results produced by the rules.
const (
	KeyLocalCreated   = "contacts.local.created"
	KeyLocalUpdated   = "contacts.local.updated"
	KeyRemoteCreated  = "contacts.remote.created"
	KeyRemoteNameless = "contacts.remote.nameless"
)

// Rules is the configuration shared by the contact resolvers.
type Rules struct {
	Local      endpoint.Store[LocalContact, int]
	Remote     endpoint.Store[RemoteContact, int]
	Translator endpoint.Translator[LocalContact, RemoteContact]
	TwoWay     bool

	ids remoteIDs
}

// remoteIDs hands out ids for new remote contacts. It loads the highest
// existing id once per run and counts up from there.
type remoteIDs struct {
	mu     sync.Mutex
	loaded bool
	last   int
}

func (r *remoteIDs) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaded = false
}

func (r *remoteIDs) next(ctx context.Context, store endpoint.Reader[RemoteContact, int]) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.loaded {
		items, err := store.ReadAll(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to allocate remote id: %w", err)
		}
		r.last = 0
		for _, item := range items {
			r.last = max(r.last, item.ID)
		}
		r.loaded = true
	}

	r.last++
	return r.last, nil
}

// Resolvers returns the contact rules in priority order.
func Resolvers() []resolve.Resolver[Match, *Rules] {
	return []resolve.Resolver[Match, *Rules]{
		UpdateLocalRule(),
		CreateLocalRule(),
		CreateRemoteRule(),
	}
}

// UpdateLocalRule copies a remote contact's name onto its linked local contact.
func UpdateLocalRule() resolve.Resolver[Match, *Rules] {
	return resolve.NewResolver("UpdateLocal",
		func(m Match, _ *Rules) (bool, error) {
			l, _ := m.Item1()
			r, _ := m.Item2()
			return m.IsComplete() && l.Name != r.Name, nil
		},
		func(ctx context.Context, m Match, rules *Rules) (resolve.Result, error) {
			l, _ := m.Item1()
			r, _ := m.Item2()
			rules.Translator.Backward(r, &l)
			if _, err := rules.Local.Update(ctx, l); err != nil {
				return resolve.Result{}, err
			}
			return resolve.Succeeded(fmt.Sprintf("Updated local contact %d", l.ID), KeyLocalUpdated), nil
		},
	)
}

// CreateLocalRule creates a linked local contact for a remote contact without one.
func CreateLocalRule() resolve.Resolver[Match, *Rules] {
	return resolve.NewResolver("CreateLocal",
		func(m Match, _ *Rules) (bool, error) {
			return !m.Has(match.First), nil
		},
		func(ctx context.Context, m Match, rules *Rules) (resolve.Result, error) {
			r, _ := m.Item2()
			if r.Name == "" {
				return resolve.Failed(fmt.Sprintf("Remote contact %d has no name", r.ID), KeyRemoteNameless), nil
			}

			var l LocalContact
			rules.Translator.Backward(r, &l)
			created, err := rules.Local.Create(ctx, l)
			if err != nil {
				return resolve.Result{}, err
			}
			return resolve.Succeeded(fmt.Sprintf("Created local contact %d", created.ID), KeyLocalCreated), nil
		},
	)
}

// CreateRemoteRule publishes an unlinked local contact and links it to the new remote contact.
// It only applies when two-way synchronization is enabled.
func CreateRemoteRule() resolve.Resolver[Match, *Rules] {
	return resolve.NewResolver("CreateRemote",
		func(m Match, rules *Rules) (bool, error) {
			return rules.TwoWay && !m.Has(match.Second), nil
		},
		func(ctx context.Context, m Match, rules *Rules) (resolve.Result, error) {
			l, _ := m.Item1()

			id, err := rules.ids.next(ctx, rules.Remote)
			if err != nil {
				return resolve.Result{}, err
			}

			r := RemoteContact{ID: id}
			rules.Translator.Forward(l, &r)
			r.ID = id
			if _, err := rules.Remote.Create(ctx, r); err != nil {
				return resolve.Result{}, err
			}

			l.RemoteID = &r.ID
			if _, err := rules.Local.Update(ctx, l); err != nil {
				return resolve.Result{}, err
			}
			return resolve.Succeeded(fmt.Sprintf("Created remote contact %d", r.ID), KeyRemoteCreated), nil
		},
	)
}
