package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"kennelbook.io/kennelbook/internal/cycle"
	"kennelbook.io/kennelbook/internal/domain"
	"kennelbook.io/kennelbook/internal/repository"
)

// fakeStorage is an in-memory Storage for service tests. Methods return
// copies so tests mimic row snapshots, not shared pointers.
type fakeStorage struct {
	mu            sync.Mutex
	dogs          map[string]domain.Dog
	clients       map[string]domain.Client
	litters       map[string]domain.Litter
	expenses      map[string]domain.Expense
	contracts     map[string]domain.Contract
	cycles        map[string]cycle.Record
	events        map[string][]cycle.Event
	notifications map[string]domain.Notification
	nextSeq       int64
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		dogs:          make(map[string]domain.Dog),
		clients:       make(map[string]domain.Client),
		litters:       make(map[string]domain.Litter),
		expenses:      make(map[string]domain.Expense),
		contracts:     make(map[string]domain.Contract),
		cycles:        make(map[string]cycle.Record),
		events:        make(map[string][]cycle.Event),
		notifications: make(map[string]domain.Notification),
	}
}

func (f *fakeStorage) WithTx(ctx context.Context, fn func(tx Storage) error) error {
	return fn(f)
}

func (f *fakeStorage) CreateDog(ctx context.Context, d *domain.Dog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dogs[d.ID] = *d
	return nil
}

func (f *fakeStorage) GetDog(ctx context.Context, id string) (*domain.Dog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.dogs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &d, nil
}

func (f *fakeStorage) ListDogs(ctx context.Context, filter domain.DogFilter) ([]*domain.Dog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Dog
	for _, d := range f.dogs {
		if filter.Sex != "" && d.Sex != filter.Sex {
			continue
		}
		if filter.ActiveOnly && !d.Active {
			continue
		}
		d := d
		out = append(out, &d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeStorage) UpdateDog(ctx context.Context, d *domain.Dog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.dogs[d.ID]; !ok {
		return repository.ErrNotFound
	}
	f.dogs[d.ID] = *d
	return nil
}

func (f *fakeStorage) DeleteDog(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.dogs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.dogs, id)
	return nil
}

func (f *fakeStorage) CreateClient(ctx context.Context, c *domain.Client) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clients[c.ID] = *c
	return nil
}

func (f *fakeStorage) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (f *fakeStorage) ListClients(ctx context.Context) ([]*domain.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Client
	for _, c := range f.clients {
		c := c
		out = append(out, &c)
	}
	return out, nil
}

func (f *fakeStorage) UpdateClient(ctx context.Context, c *domain.Client) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.clients[c.ID]; !ok {
		return repository.ErrNotFound
	}
	f.clients[c.ID] = *c
	return nil
}

func (f *fakeStorage) DeleteClient(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.clients[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.clients, id)
	return nil
}

func (f *fakeStorage) CreateLitter(ctx context.Context, l *domain.Litter) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.litters[l.ID] = *l
	return nil
}

func (f *fakeStorage) GetLitter(ctx context.Context, id string) (*domain.Litter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.litters[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &l, nil
}

func (f *fakeStorage) ListLitters(ctx context.Context, damID string) ([]*domain.Litter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Litter
	for _, l := range f.litters {
		if damID != "" && l.DamID != damID {
			continue
		}
		l := l
		out = append(out, &l)
	}
	return out, nil
}

func (f *fakeStorage) UpdateLitter(ctx context.Context, l *domain.Litter) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.litters[l.ID]; !ok {
		return repository.ErrNotFound
	}
	f.litters[l.ID] = *l
	return nil
}

func (f *fakeStorage) DeleteLitter(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.litters[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.litters, id)
	return nil
}

func (f *fakeStorage) CreateExpense(ctx context.Context, e *domain.Expense) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expenses[e.ID] = *e
	return nil
}

func (f *fakeStorage) GetExpense(ctx context.Context, id string) (*domain.Expense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.expenses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (f *fakeStorage) ListExpenses(ctx context.Context, filter domain.ExpenseFilter) ([]*domain.Expense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Expense
	for _, e := range f.expenses {
		if filter.DogID != "" && e.DogID != filter.DogID {
			continue
		}
		if filter.From != nil && e.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && e.Date.After(*filter.To) {
			continue
		}
		e := e
		out = append(out, &e)
	}
	return out, nil
}

func (f *fakeStorage) UpdateExpense(ctx context.Context, e *domain.Expense) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.expenses[e.ID]; !ok {
		return repository.ErrNotFound
	}
	f.expenses[e.ID] = *e
	return nil
}

func (f *fakeStorage) DeleteExpense(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.expenses[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.expenses, id)
	return nil
}

func (f *fakeStorage) CreateContract(ctx context.Context, c *domain.Contract) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contracts[c.ID] = *c
	return nil
}

func (f *fakeStorage) GetContract(ctx context.Context, id string) (*domain.Contract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.contracts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (f *fakeStorage) ListContracts(ctx context.Context, clientID string) ([]*domain.Contract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Contract
	for _, c := range f.contracts {
		if clientID != "" && c.ClientID != clientID {
			continue
		}
		c := c
		out = append(out, &c)
	}
	return out, nil
}

func (f *fakeStorage) UpdateContract(ctx context.Context, c *domain.Contract) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.contracts[c.ID]; !ok {
		return repository.ErrNotFound
	}
	f.contracts[c.ID] = *c
	return nil
}

func (f *fakeStorage) DeleteContract(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.contracts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.contracts, id)
	return nil
}

func (f *fakeStorage) CreateCycle(ctx context.Context, r *cycle.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cycles[r.ID] = *r
	return nil
}

func (f *fakeStorage) GetCycle(ctx context.Context, id string) (*cycle.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.cycles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (f *fakeStorage) GetCycleForUpdate(ctx context.Context, id string) (*cycle.Record, error) {
	return f.GetCycle(ctx, id)
}

func (f *fakeStorage) ListCyclesByDog(ctx context.Context, dogID string) ([]*cycle.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*cycle.Record
	for _, r := range f.cycles {
		if r.DogID != dogID {
			continue
		}
		r := r
		out = append(out, &r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	return out, nil
}

func (f *fakeStorage) FindActiveCycle(ctx context.Context, dogID string) (*cycle.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.cycles {
		if r.DogID == dogID && r.EndDate == nil {
			r := r
			return &r, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStorage) ListActiveCycles(ctx context.Context) ([]repository.ActiveCycle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []repository.ActiveCycle
	for _, r := range f.cycles {
		if r.EndDate != nil {
			continue
		}
		r := r
		out = append(out, repository.ActiveCycle{
			Record:  &r,
			DogName: f.dogs[r.DogID].Name,
		})
	}
	return out, nil
}

func (f *fakeStorage) UpdateCycleDerived(ctx context.Context, r *cycle.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.cycles[r.ID]; !ok {
		return repository.ErrNotFound
	}
	f.cycles[r.ID] = *r
	return nil
}

func (f *fakeStorage) DeleteCycle(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.cycles[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.cycles, id)
	delete(f.events, id)
	return nil
}

func (f *fakeStorage) InsertCycleEvent(ctx context.Context, ev *cycle.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextSeq++
	ev.Seq = f.nextSeq
	f.events[ev.CycleID] = append(f.events[ev.CycleID], *ev)
	return nil
}

func (f *fakeStorage) GetCycleEvent(ctx context.Context, cycleID, eventID string) (*cycle.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ev := range f.events[cycleID] {
		if ev.ID == eventID {
			ev := ev
			return &ev, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStorage) ListCycleEvents(ctx context.Context, cycleID string) ([]cycle.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]cycle.Event, len(f.events[cycleID]))
	copy(out, f.events[cycleID])
	return out, nil
}

func (f *fakeStorage) DeleteCycleEvent(ctx context.Context, cycleID, eventID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	events := f.events[cycleID]
	for i, ev := range events {
		if ev.ID == eventID {
			f.events[cycleID] = append(events[:i:i], events[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeStorage) InsertNotification(ctx context.Context, n *domain.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications[n.ID] = *n
	return nil
}

func (f *fakeStorage) ListNotifications(ctx context.Context, unreadOnly bool) ([]*domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Notification
	for _, n := range f.notifications {
		if unreadOnly && n.Read {
			continue
		}
		n := n
		out = append(out, &n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStorage) MarkNotificationRead(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.notifications[id]
	if !ok {
		return repository.ErrNotFound
	}
	n.Read = true
	f.notifications[id] = n
	return nil
}

func (f *fakeStorage) DeleteReadNotificationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	for id, n := range f.notifications {
		if n.Read && n.CreatedAt.Before(cutoff) {
			delete(f.notifications, id)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeStorage) HasNotificationSince(ctx context.Context, typ, resourceID string, since time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.notifications {
		if n.Type == typ && n.ResourceID == resourceID && !n.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}
