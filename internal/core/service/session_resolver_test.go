package service

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/eventsphere/campus-events/internal/core/domain"
)

var testOperator = OperatorCredentials{Enabled: true, Email: "admin@kiit", Password: "admin@kiit"}

type resolverFixture struct {
	auth     *stubAuthProvider
	users    *stubUserRepo
	bypass   *stubBypassStore
	resolver *SessionResolver
}

func newResolverFixture(op OperatorCredentials, users ...domain.User) *resolverFixture {
	f := &resolverFixture{
		auth:   newStubAuthProvider(),
		users:  newStubUserRepo(users...),
		bypass: newStubBypassStore(),
	}
	f.resolver = NewSessionResolver(f.auth, f.users, f.bypass, op, zerolog.Nop())
	return f
}

func signInAs(userID, email, name string) func(string, string) (*domain.AuthResult, error) {
	return func(e, _ string) (*domain.AuthResult, error) {
		u := domain.AuthUser{ID: userID, Email: email}
		if name != "" {
			u.Metadata = map[string]string{"name": name}
		}
		return &domain.AuthResult{
			User:    &u,
			Session: &domain.AuthSession{AccessToken: "tok-" + userID, ExpiresAt: time.Now().Add(time.Hour), User: u},
		}, nil
	}
}

func TestSessionResolver_OperatorSignIn_SkipsAuthProvider(t *testing.T) {
	f := newResolverFixture(testOperator)
	s := f.resolver.Session("tab-1")

	res, err := f.resolver.SignIn(context.Background(), s, "admin@kiit", "admin@kiit")
	if err != nil {
		t.Fatalf("SignIn returned error: %v", err)
	}
	if res.Identity.Role() != domain.RoleSuperAdmin {
		t.Fatalf("expected super_admin, got %q", res.Identity.Role())
	}
	if res.Route != "/dashboard/super-admin" {
		t.Fatalf("unexpected route %q", res.Route)
	}
	if f.auth.called() != 0 {
		t.Fatalf("auth provider was contacted %d times", f.auth.called())
	}
	if !f.bypass.has("tab-1") {
		t.Fatalf("expected operator marker for the session")
	}

	id, err := f.resolver.Resolve(context.Background(), s)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if id.Role() != domain.RoleSuperAdmin || !id.Bypass {
		t.Fatalf("expected operator identity after resolve, got %+v", id)
	}
	if f.auth.called() != 0 {
		t.Fatalf("auth provider contacted during operator resolve")
	}
}

func TestSessionResolver_OperatorSignIn_DisabledFallsThrough(t *testing.T) {
	op := testOperator
	op.Enabled = false
	f := newResolverFixture(op)

	_, err := f.resolver.SignIn(context.Background(), f.resolver.Session("tab-1"), "admin@kiit", "admin@kiit")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if f.auth.called() != 1 {
		t.Fatalf("expected the auth provider to handle the sign-in")
	}
}

func TestSessionResolver_OperatorSignIn_RequiresExactPair(t *testing.T) {
	f := newResolverFixture(testOperator)

	_, err := f.resolver.SignIn(context.Background(), f.resolver.Session("tab-1"), "admin@kiit", "wrong")
	if !errors.Is(err, domain.ErrAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if f.bypass.has("tab-1") {
		t.Fatalf("marker must not be set for a partial match")
	}
}

func TestSessionResolver_SignIn_MissingProfileFallsBackToStudent(t *testing.T) {
	f := newResolverFixture(testOperator)
	f.auth.signIn = signInAs("u1", "riya@kiit.ac.in", "Riya")
	s := f.resolver.Session("tab-1")

	res, err := f.resolver.SignIn(context.Background(), s, "riya@kiit.ac.in", "secret1")
	if err != nil {
		t.Fatalf("SignIn returned error: %v", err)
	}
	if res.Identity.Role() != domain.RoleStudent {
		t.Fatalf("expected student fallback, got %q", res.Identity.Role())
	}
	if res.Identity.User.Name != "Riya" {
		t.Fatalf("expected name from metadata, got %q", res.Identity.User.Name)
	}
	if res.Route != "/dashboard/student" {
		t.Fatalf("unexpected route %q", res.Route)
	}
	if s.State() != domain.SessionIdentified {
		t.Fatalf("expected identified state, got %s", s.State())
	}
}

func TestSessionResolver_Fallback_UsesEmailLocalPart(t *testing.T) {
	f := newResolverFixture(testOperator)
	f.auth.signIn = signInAs("u1", "riya@kiit.ac.in", "")
	f.users.findErr = errors.New("boom")

	res, err := f.resolver.SignIn(context.Background(), f.resolver.Session("tab-1"), "riya@kiit.ac.in", "secret1")
	if err != nil {
		t.Fatalf("profile failure must not fail sign-in: %v", err)
	}
	if res.Identity.User.Name != "riya" {
		t.Fatalf("expected email local part, got %q", res.Identity.User.Name)
	}
}

func TestSessionResolver_SignIn_UsesProfileRole(t *testing.T) {
	f := newResolverFixture(testOperator, domain.User{ID: "u2", Name: "Arjun", Role: domain.RoleSocietyAdmin, SocietyID: "soc-1"})
	f.auth.signIn = signInAs("u2", "arjun@kiit.ac.in", "Arjun")

	res, err := f.resolver.SignIn(context.Background(), f.resolver.Session("tab-1"), "arjun@kiit.ac.in", "secret1")
	if err != nil {
		t.Fatalf("SignIn returned error: %v", err)
	}
	if res.Route != "/dashboard/society-admin" {
		t.Fatalf("unexpected route %q", res.Route)
	}
}

func TestSessionResolver_SignIn_ConnectivityRemapped(t *testing.T) {
	f := newResolverFixture(testOperator)
	f.auth.signIn = func(string, string) (*domain.AuthResult, error) {
		return nil, &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	}

	_, err := f.resolver.SignIn(context.Background(), f.resolver.Session("tab-1"), "a@kiit.ac.in", "secret1")
	if !errors.Is(err, domain.ErrConnectivity) {
		t.Fatalf("expected ErrConnectivity, got %v", err)
	}
}

func TestSessionResolver_SignUp_NeedsVerification(t *testing.T) {
	f := newResolverFixture(testOperator)
	s := f.resolver.Session("tab-1")

	res, err := f.resolver.SignUp(context.Background(), s, "new@kiit.ac.in", "secret1", "New")
	if err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}
	if !res.NeedsVerification {
		t.Fatalf("identity without session must need verification")
	}
	if s.AccessToken() != "" {
		t.Fatalf("no token should be adopted")
	}
	if len(f.users.users) != 0 {
		t.Fatalf("sign-up must not create the profile row")
	}
}

func TestSessionResolver_SignUp_SessionIssued(t *testing.T) {
	f := newResolverFixture(testOperator)
	f.auth.signUp = func(email, _ string, md map[string]string) (*domain.AuthResult, error) {
		u := domain.AuthUser{ID: "u9", Email: email, Metadata: md}
		return &domain.AuthResult{User: &u, Session: &domain.AuthSession{AccessToken: "tok-u9", User: u}}, nil
	}
	s := f.resolver.Session("tab-1")

	res, err := f.resolver.SignUp(context.Background(), s, "new@kiit.ac.in", "secret1", "New")
	if err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}
	if res.NeedsVerification {
		t.Fatalf("a session was issued, no verification expected")
	}
	if s.AccessToken() != "tok-u9" {
		t.Fatalf("expected session to adopt the token, got %q", s.AccessToken())
	}
	if res.Identity.User == nil || res.Identity.User.Name != "New" {
		t.Fatalf("expected fallback identity named New, got %+v", res.Identity)
	}
}

func TestSessionResolver_SignUp_RequiresName(t *testing.T) {
	f := newResolverFixture(testOperator)
	_, err := f.resolver.SignUp(context.Background(), f.resolver.Session("tab-1"), "a@kiit.ac.in", "secret1", "  ")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSessionResolver_Resolve_Anonymous(t *testing.T) {
	f := newResolverFixture(testOperator)
	s := f.resolver.Session("tab-1")
	if s.State() != domain.SessionUninitialized {
		t.Fatalf("new session should be uninitialized")
	}

	id, err := f.resolver.Resolve(context.Background(), s)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if !id.IsAnonymous() || s.State() != domain.SessionAnonymous {
		t.Fatalf("expected anonymous, got %+v / %s", id, s.State())
	}
}

func TestSessionResolver_Resolve_ExpiredTokenIsAnonymous(t *testing.T) {
	f := newResolverFixture(testOperator)
	s := f.resolver.Session("tab-1")
	s.SetAccessToken("stale")

	id, err := f.resolver.Resolve(context.Background(), s)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if !id.IsAnonymous() || s.AccessToken() != "" {
		t.Fatalf("expected anonymous and cleared token")
	}
}

func TestSessionResolver_Resolve_ConnectivityKeepsIdentity(t *testing.T) {
	f := newResolverFixture(testOperator)
	f.auth.signIn = signInAs("u1", "riya@kiit.ac.in", "Riya")
	s := f.resolver.Session("tab-1")
	if _, err := f.resolver.SignIn(context.Background(), s, "riya@kiit.ac.in", "secret1"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	f.auth.getErr = context.DeadlineExceeded
	id, err := f.resolver.Resolve(context.Background(), s)
	if !errors.Is(err, domain.ErrConnectivity) {
		t.Fatalf("expected ErrConnectivity, got %v", err)
	}
	if id.UserID() != "u1" || s.State() != domain.SessionIdentified {
		t.Fatalf("prior identity should survive a connectivity failure")
	}
}

func TestSessionResolver_SignOut(t *testing.T) {
	f := newResolverFixture(testOperator)
	f.auth.signIn = signInAs("u1", "riya@kiit.ac.in", "Riya")
	s := f.resolver.Session("tab-1")
	if _, err := f.resolver.SignIn(context.Background(), s, "riya@kiit.ac.in", "secret1"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	if err := f.resolver.SignOut(context.Background(), s); err != nil {
		t.Fatalf("SignOut returned error: %v", err)
	}
	if !s.Identity().IsAnonymous() {
		t.Fatalf("expected anonymous identity after sign-out")
	}
	if s.Identity().HomeRoute() != "/" {
		t.Fatalf("expected root route")
	}
	if len(f.auth.signOuts) != 1 || f.auth.signOuts[0] != "tok-u1" {
		t.Fatalf("expected provider sign-out with the session token, got %v", f.auth.signOuts)
	}
	if f.resolver.Len() != 0 {
		t.Fatalf("session should be torn down")
	}
}

func TestSessionResolver_SignOut_ClearsOperatorMarker(t *testing.T) {
	f := newResolverFixture(testOperator)
	s := f.resolver.Session("tab-1")
	if _, err := f.resolver.SignIn(context.Background(), s, "admin@kiit", "admin@kiit"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if err := f.resolver.SignOut(context.Background(), s); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if f.bypass.has("tab-1") {
		t.Fatalf("marker should be cleared")
	}

	id, _ := f.resolver.Resolve(context.Background(), f.resolver.Session("tab-1"))
	if !id.IsAnonymous() {
		t.Fatalf("expected anonymous after operator sign-out, got %+v", id)
	}
}

func TestSessionResolver_RoleChangeRepublishes(t *testing.T) {
	f := newResolverFixture(testOperator, domain.User{ID: "u1", Name: "Riya", Email: "riya@kiit.ac.in", Role: domain.RoleStudent})
	f.auth.signIn = signInAs("u1", "riya@kiit.ac.in", "Riya")
	s := f.resolver.Session("tab-1")
	if _, err := f.resolver.SignIn(context.Background(), s, "riya@kiit.ac.in", "secret1"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	updates, cancel := s.Watch()
	defer cancel()

	_ = f.users.UpdateRole(context.Background(), "u1", domain.RoleSocietyAdmin)
	if err := f.resolver.HandleAuthChange(context.Background(), domain.AuthChange{Kind: domain.ChangeUserUpdated, UserID: "u1"}); err != nil {
		t.Fatalf("HandleAuthChange: %v", err)
	}

	select {
	case id := <-updates:
		if id.Role() != domain.RoleSocietyAdmin {
			t.Fatalf("expected society_admin, got %q", id.Role())
		}
		if id.HomeRoute() != "/dashboard/society-admin" {
			t.Fatalf("unexpected route %q", id.HomeRoute())
		}
	case <-time.After(time.Second):
		t.Fatalf("no identity republished")
	}
}

func TestSessionResolver_ResolveUnchangedIdentityIsQuiet(t *testing.T) {
	f := newResolverFixture(testOperator, domain.User{ID: "u1", Name: "Riya", Email: "riya@kiit.ac.in", Role: domain.RoleStudent})
	f.auth.signIn = signInAs("u1", "riya@kiit.ac.in", "Riya")
	s := f.resolver.Session("tab-1")
	if _, err := f.resolver.SignIn(context.Background(), s, "riya@kiit.ac.in", "secret1"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	updates, cancel := s.Watch()
	defer cancel()

	for i := 0; i < 3; i++ {
		id, err := f.resolver.Resolve(context.Background(), s)
		if err != nil || id.UserID() != "u1" {
			t.Fatalf("Resolve #%d: %+v %v", i, id.User, err)
		}
	}
	select {
	case id := <-updates:
		t.Fatalf("request-driven resolve republished an unchanged identity: %+v", id.User)
	default:
	}
	if s.State() != domain.SessionIdentified {
		t.Fatalf("expected identified, got %s", s.State())
	}
}

func TestSessionResolver_SignedOutElsewhere(t *testing.T) {
	f := newResolverFixture(testOperator)
	f.auth.signIn = signInAs("u1", "riya@kiit.ac.in", "Riya")
	s := f.resolver.Session("tab-1")
	if _, err := f.resolver.SignIn(context.Background(), s, "riya@kiit.ac.in", "secret1"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	_ = f.resolver.HandleAuthChange(context.Background(), domain.AuthChange{Kind: domain.ChangeSignedOut, UserID: "u1", AccessToken: "tok-u1"})
	if !s.Identity().IsAnonymous() {
		t.Fatalf("expected anonymous after external sign-out")
	}
}

func TestSessionResolver_OperatorIgnoresChanges(t *testing.T) {
	f := newResolverFixture(testOperator)
	s := f.resolver.Session("tab-1")
	if _, err := f.resolver.SignIn(context.Background(), s, "admin@kiit", "admin@kiit"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	_ = f.resolver.HandleAuthChange(context.Background(), domain.AuthChange{Kind: domain.ChangeSignedOut, UserID: s.Identity().UserID()})
	if s.Identity().Role() != domain.RoleSuperAdmin {
		t.Fatalf("operator identity must ignore external changes")
	}
}

func TestSessionResolver_TokenRefreshedSwapsToken(t *testing.T) {
	f := newResolverFixture(testOperator)
	f.auth.signIn = signInAs("u1", "riya@kiit.ac.in", "Riya")
	s := f.resolver.Session("tab-1")
	if _, err := f.resolver.SignIn(context.Background(), s, "riya@kiit.ac.in", "secret1"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	_ = f.resolver.HandleAuthChange(context.Background(), domain.AuthChange{
		Kind:          domain.ChangeTokenRefreshed,
		UserID:        "u1",
		AccessToken:   "tok-next",
		PreviousToken: "tok-u1",
	})
	if s.AccessToken() != "tok-next" {
		t.Fatalf("expected swapped token, got %q", s.AccessToken())
	}
}

func TestSessionResolver_Sweep(t *testing.T) {
	f := newResolverFixture(testOperator)
	f.resolver.Session("idle")
	f.resolver.Session("busy").Touch(time.Now().Add(time.Hour))

	if n := f.resolver.Sweep(time.Now().Add(time.Minute)); n != 1 {
		t.Fatalf("expected one swept session, got %d", n)
	}
	if f.resolver.Len() != 1 {
		t.Fatalf("expected one live session")
	}
}
