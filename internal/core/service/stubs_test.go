package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/eventsphere/campus-events/internal/core/domain"
	"github.com/eventsphere/campus-events/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Store stubs
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu      sync.Mutex
	users   map[string]domain.User
	findErr error
}

func newStubUserRepo(users ...domain.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[string]domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; ok {
		return domain.ErrUserExists
	}
	r.users[u.ID] = *u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubUserRepo) UpdateRole(_ context.Context, id string, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Role = role
	r.users[id] = u
	return nil
}

type stubSocietyRepo struct {
	mu        sync.Mutex
	societies map[string]domain.Society
}

func newStubSocietyRepo(societies ...domain.Society) *stubSocietyRepo {
	r := &stubSocietyRepo{societies: make(map[string]domain.Society)}
	for _, s := range societies {
		r.societies[s.ID] = s
	}
	return r
}

func (r *stubSocietyRepo) Create(_ context.Context, s *domain.Society) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.societies[s.ID] = *s
	return nil
}

func (r *stubSocietyRepo) List(_ context.Context, limit int) ([]domain.Society, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Society, 0, len(r.societies))
	for _, s := range r.societies {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubSocietyRepo) FindByContactEmail(_ context.Context, email string) (*domain.Society, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.societies {
		if s.ContactEmail == email {
			return &s, nil
		}
	}
	return nil, domain.ErrSocietyNotFound
}

func (r *stubSocietyRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.societies[id]; !ok {
		return domain.ErrSocietyNotFound
	}
	delete(r.societies, id)
	return nil
}

func (r *stubSocietyRepo) name(id string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.societies[id].Name
}

type stubEventRepo struct {
	mu        sync.Mutex
	events    map[string]domain.Event
	societies *stubSocietyRepo
	setErr    error
}

func newStubEventRepo(societies *stubSocietyRepo, events ...domain.Event) *stubEventRepo {
	if societies == nil {
		societies = newStubSocietyRepo()
	}
	r := &stubEventRepo{events: make(map[string]domain.Event), societies: societies}
	for _, e := range events {
		r.events[e.ID] = e
	}
	return r
}

func (r *stubEventRepo) Create(_ context.Context, e *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[e.ID] = *e
	return nil
}

func (r *stubEventRepo) FindByID(_ context.Context, id string) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	return &e, nil
}

func (r *stubEventRepo) List(_ context.Context, f ports.EventFilter, order ports.EventSort) ([]domain.EventWithSociety, error) {
	r.mu.Lock()
	var out []domain.EventWithSociety
	for _, e := range r.events {
		if f.Verified != nil && e.Verified != *f.Verified {
			continue
		}
		if f.SocietyID != "" && e.SocietyID != f.SocietyID {
			continue
		}
		out = append(out, domain.EventWithSociety{Event: e})
	}
	r.mu.Unlock()

	for i := range out {
		out[i].SocietyName = r.societies.name(out[i].SocietyID)
	}
	sort.Slice(out, func(i, j int) bool {
		switch order {
		case ports.SortEventDateAsc:
			return out[i].EventDate.Before(out[j].EventDate)
		case ports.SortEventDateDesc:
			return out[i].EventDate.After(out[j].EventDate)
		default:
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *stubEventRepo) SetVerified(_ context.Context, id string, verified bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.setErr != nil {
		return r.setErr
	}
	e, ok := r.events[id]
	if !ok {
		return domain.ErrEventNotFound
	}
	e.Verified = verified
	r.events[id] = e
	return nil
}

type stubRegistrationRepo struct {
	mu     sync.Mutex
	rows   []domain.Registration
	events *stubEventRepo
}

func newStubRegistrationRepo(events *stubEventRepo) *stubRegistrationRepo {
	return &stubRegistrationRepo{events: events}
}

func (r *stubRegistrationRepo) Create(_ context.Context, reg *domain.Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.UserID == reg.UserID && row.EventID == reg.EventID {
			return domain.ErrAlreadyRegistered
		}
	}
	r.rows = append(r.rows, *reg)
	return nil
}

func (r *stubRegistrationRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.RegistrationWithEvent, error) {
	r.mu.Lock()
	var mine []domain.Registration
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].UserID == userID {
			mine = append(mine, r.rows[i])
		}
	}
	r.mu.Unlock()

	if limit > 0 && len(mine) > limit {
		mine = mine[:limit]
	}
	out := make([]domain.RegistrationWithEvent, 0, len(mine))
	for _, reg := range mine {
		row := domain.RegistrationWithEvent{Registration: reg}
		if r.events != nil {
			if e, err := r.events.FindByID(ctx, reg.EventID); err == nil {
				row.Event = domain.EventWithSociety{Event: *e}
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func (r *stubRegistrationRepo) CountByEvents(_ context.Context, ids []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	var n int64
	for _, row := range r.rows {
		if _, ok := set[row.EventID]; ok {
			n++
		}
	}
	return n, nil
}

func (r *stubRegistrationRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type stubCredentialRepo struct {
	mu    sync.Mutex
	creds map[string]domain.Credential
}

func newStubCredentialRepo() *stubCredentialRepo {
	return &stubCredentialRepo{creds: make(map[string]domain.Credential)}
}

func (r *stubCredentialRepo) Create(_ context.Context, c *domain.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.creds {
		if existing.Email == c.Email {
			return domain.ErrUserExists
		}
	}
	r.creds[c.ID] = *c
	return nil
}

func (r *stubCredentialRepo) FindByEmail(_ context.Context, email string) (*domain.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.creds {
		if c.Email == email {
			return &c, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubCredentialRepo) FindByID(_ context.Context, id string) (*domain.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.creds[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &c, nil
}

func (r *stubCredentialRepo) Confirm(_ context.Context, token string) (*domain.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.creds {
		if c.ConfirmationToken != "" && c.ConfirmationToken == token {
			c.Confirmed = true
			c.ConfirmationToken = ""
			r.creds[id] = c
			return &c, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// ---------------------------------------------------------------------------
// Session-scoped stubs
// ---------------------------------------------------------------------------

type stubBypassStore struct {
	mu      sync.Mutex
	markers map[string]domain.Identity
	getErr  error
}

func newStubBypassStore() *stubBypassStore {
	return &stubBypassStore{markers: make(map[string]domain.Identity)}
}

func (b *stubBypassStore) Get(_ context.Context, sid string) (*domain.Identity, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.getErr != nil {
		return nil, b.getErr
	}
	id, ok := b.markers[sid]
	if !ok {
		return nil, nil
	}
	return &id, nil
}

func (b *stubBypassStore) Set(_ context.Context, sid string, id domain.Identity) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.markers[sid] = id
	return nil
}

func (b *stubBypassStore) Clear(_ context.Context, sid string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.markers, sid)
	return nil
}

func (b *stubBypassStore) has(sid string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.markers[sid]
	return ok
}

type stubRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func newStubRevocations() *stubRevocations {
	return &stubRevocations{revoked: make(map[string]time.Duration)}
}

func (r *stubRevocations) Revoke(_ context.Context, id string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[id] = ttl
	return nil
}

func (r *stubRevocations) IsRevoked(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.revoked[id]
	return ok, nil
}

type stubPublisher struct {
	mu      sync.Mutex
	changes []domain.AuthChange
}

func (p *stubPublisher) Publish(_ context.Context, c domain.AuthChange) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changes = append(p.changes, c)
	return nil
}

func (p *stubPublisher) kinds() []domain.AuthChangeKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.AuthChangeKind, 0, len(p.changes))
	for _, c := range p.changes {
		out = append(out, c.Kind)
	}
	return out
}

func (p *stubPublisher) last() domain.AuthChange {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.changes) == 0 {
		return domain.AuthChange{}
	}
	return p.changes[len(p.changes)-1]
}

// stubAuthProvider is a scripted auth provider that counts every call.
type stubAuthProvider struct {
	mu       sync.Mutex
	calls    int
	signIn   func(email, password string) (*domain.AuthResult, error)
	signUp   func(email, password string, md map[string]string) (*domain.AuthResult, error)
	sessions map[string]*domain.AuthSession
	getErr   error
	signOuts []string
}

func newStubAuthProvider() *stubAuthProvider {
	return &stubAuthProvider{sessions: make(map[string]*domain.AuthSession)}
}

func (p *stubAuthProvider) called() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func (p *stubAuthProvider) SignUp(_ context.Context, email, password string, md map[string]string) (*domain.AuthResult, error) {
	p.mu.Lock()
	p.calls++
	fn := p.signUp
	p.mu.Unlock()
	if fn == nil {
		return &domain.AuthResult{User: &domain.AuthUser{ID: "new-user", Email: email, Metadata: md}}, nil
	}
	return fn(email, password, md)
}

func (p *stubAuthProvider) SignInWithPassword(_ context.Context, email, password string) (*domain.AuthResult, error) {
	p.mu.Lock()
	p.calls++
	fn := p.signIn
	p.mu.Unlock()
	if fn == nil {
		return nil, domain.ErrInvalidCredentials
	}
	res, err := fn(email, password)
	if err == nil && res.Session != nil {
		p.mu.Lock()
		p.sessions[res.Session.AccessToken] = res.Session
		p.mu.Unlock()
	}
	return res, err
}

func (p *stubAuthProvider) GetSession(_ context.Context, token string) (*domain.AuthSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.getErr != nil {
		return nil, p.getErr
	}
	s, ok := p.sessions[token]
	if !ok {
		return nil, domain.ErrNoSession
	}
	return s, nil
}

func (p *stubAuthProvider) RefreshSession(_ context.Context, token string) (*domain.AuthSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	s, ok := p.sessions[token]
	if !ok {
		return nil, domain.ErrNoSession
	}
	next := *s
	next.AccessToken = token + "-refreshed"
	delete(p.sessions, token)
	p.sessions[next.AccessToken] = &next
	return &next, nil
}

func (p *stubAuthProvider) SignOut(_ context.Context, token string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.signOuts = append(p.signOuts, token)
	delete(p.sessions, token)
	return nil
}

func (p *stubAuthProvider) ConfirmEmail(_ context.Context, token string) (*domain.AuthUser, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if token != "good" {
		return nil, domain.ErrInvalidToken
	}
	return &domain.AuthUser{ID: "u1"}, nil
}

// ---------------------------------------------------------------------------
// Generator stub
// ---------------------------------------------------------------------------

type stubGenerator struct {
	description string
	recs        []ports.Recommendation
	err         error
	lastRecIn   ports.RecommendationInput
}

func (g *stubGenerator) GenerateEventDescription(_ context.Context, in ports.DescriptionInput) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.description, nil
}

func (g *stubGenerator) GenerateEventRecommendations(_ context.Context, in ports.RecommendationInput) ([]ports.Recommendation, error) {
	g.lastRecIn = in
	if g.err != nil {
		return nil, g.err
	}
	return g.recs, nil
}

// ---------------------------------------------------------------------------
// Identities
// ---------------------------------------------------------------------------

func studentActor(id string) domain.Identity {
	return domain.Identity{User: &domain.User{ID: id, Name: id, Email: id + "@kiit.ac.in", Role: domain.RoleStudent}}
}

func societyAdminActor(id, societyID string) domain.Identity {
	return domain.Identity{User: &domain.User{ID: id, Name: id, Role: domain.RoleSocietyAdmin, SocietyID: societyID}}
}

func superAdminActor() domain.Identity {
	return domain.Identity{User: &domain.User{ID: "root", Name: "Root", Role: domain.RoleSuperAdmin}}
}
