package auth

import (
	"context"
	"net/http"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/estate-service/internal/domain"
	apperrors "github.com/spec-kit/estate-service/pkg/util"
)

type recordingGate struct {
	name     string
	decision Decision
	calls    *[]string
}

func (g recordingGate) Name() string { return g.name }

func (g recordingGate) Authorize(context.Context, *Request) Decision {
	*g.calls = append(*g.calls, g.name)
	return g.decision
}

func newTestAccessControl(users UserLookup) (*AccessControl, *TokenManager) {
	tokens := NewTokenManager("test-secret", time.Hour)
	return NewAccessControl(tokens, NewPrincipalResolver(users), nil, nil), tokens
}

func bearer(t *testing.T, tm *TokenManager, email string) string {
	t.Helper()
	token, _, err := tm.Issue(email)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return "Bearer " + token
}

func TestEvaluate_PublicSkipsVerification(t *testing.T) {
	ac, _ := newTestAccessControl(newFakeUsers(nil))
	out := ac.Evaluate(context.Background(), Public(), ac.NewRequest("", nil))
	if out.Stage != StageAuthorized {
		t.Errorf("stage = %q, want authorized", out.Stage)
	}
}

func TestEvaluate_MissingAndInvalidCredentialLookIdentical(t *testing.T) {
	ac, _ := newTestAccessControl(newFakeUsers(nil))
	var calls []string
	policy := Authenticated(recordingGate{name: "g", decision: Allow(), calls: &calls})

	var messages []string
	for _, header := range []string{"", "Bearer nope", "Token abc"} {
		out := ac.Evaluate(context.Background(), policy, ac.NewRequest(header, nil))
		if out.Stage != StageRejected || out.Gate != "token" {
			t.Fatalf("header %q: outcome = %+v", header, out)
		}
		de := apperrors.ToDomainError(out.Err)
		if de.HTTPStatus != http.StatusUnauthorized {
			t.Errorf("header %q: status = %d, want 401", header, de.HTTPStatus)
		}
		messages = append(messages, de.Message)
	}
	for _, m := range messages {
		if m != messages[0] {
			t.Errorf("messages differ: %v", messages)
		}
	}
	if len(calls) != 0 {
		t.Errorf("gates ran on unauthenticated requests: %v", calls)
	}
}

func TestEvaluate_GatesRunInOrderAndShortCircuit(t *testing.T) {
	ac, tm := newTestAccessControl(newFakeUsers(nil))
	var calls []string
	policy := Authenticated(
		recordingGate{name: "first", decision: Allow(), calls: &calls},
		recordingGate{name: "second", decision: Deny(apperrors.NewForbidden("no")), calls: &calls},
		recordingGate{name: "third", decision: Allow(), calls: &calls},
	)

	out := ac.Evaluate(context.Background(), policy, ac.NewRequest(bearer(t, tm, "a@example.com"), nil))
	if out.Stage != StageRejected || out.Gate != "second" {
		t.Errorf("outcome = %+v", out)
	}
	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Errorf("calls = %v, want [first second]", calls)
	}
}

func TestEvaluate_RoleThenOwnerStopsAtOwner(t *testing.T) {
	users := newFakeUsers(map[string]domain.Role{"alice@example.com": domain.RoleAgent})
	ac, tm := newTestAccessControl(users)
	policy := Authenticated(RequireRole(domain.RoleAgent), RequireOwner("email"))

	req := ac.NewRequest(bearer(t, tm, "alice@example.com"), map[string]string{"email": "bob@example.com"})
	out := ac.Evaluate(context.Background(), policy, req)
	if out.Stage != StageRejected || out.Gate != "owner(:email)" {
		t.Fatalf("outcome = %+v", out)
	}
	if got := apperrors.StatusOf(out.Err); got != http.StatusForbidden {
		t.Errorf("status = %d, want 403", got)
	}

	req = ac.NewRequest(bearer(t, tm, "alice@example.com"), map[string]string{"email": "alice@example.com"})
	if out := ac.Evaluate(context.Background(), policy, req); out.Stage != StageAuthorized {
		t.Errorf("outcome = %+v, want authorized", out)
	}
}

func TestEvaluate_EmbeddedRoleClaimIgnored(t *testing.T) {
	users := newFakeUsers(map[string]domain.Role{"mallory@example.com": domain.RoleMember})
	ac, _ := newTestAccessControl(users)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "mallory@example.com",
		"role":  "admin",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	raw, err := forged.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	out := ac.Evaluate(context.Background(), Authenticated(RequireRole(domain.RoleAdmin)), ac.NewRequest("Bearer "+raw, nil))
	if got := apperrors.StatusOf(out.Err); out.Stage != StageRejected || got != http.StatusForbidden {
		t.Errorf("outcome = %+v status %d, want 403", out, got)
	}
}

func TestPolicy_String(t *testing.T) {
	if got := Public().String(); got != "public" {
		t.Errorf("Public() = %q", got)
	}
	p := Authenticated(RequireRole(domain.RoleAgent), RequireOwner("email"))
	if got, want := p.String(), "token > role(agent) > owner(:email)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestPolicy_GatesIsCopy(t *testing.T) {
	p := Authenticated(RequireRole(domain.RoleAdmin))
	gates := p.Gates()
	gates[0] = RequireRole(domain.RoleMember)
	if p.Gates()[0].Name() != "role(admin)" {
		t.Error("mutating Gates() result changed the policy")
	}
}
