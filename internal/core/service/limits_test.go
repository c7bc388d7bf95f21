package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/itamhq/itam-api/internal/core/domain"
)

func TestCheckLengths_CountsCharacters(t *testing.T) {
	// 64 two-byte characters fit a VARCHAR(64).
	name := strings.Repeat("é", maxUsernameLen)
	if err := checkLengths(rule("username", name, maxUsernameLen)); err != nil {
		t.Fatalf("expected %d characters to fit, got %v", maxUsernameLen, err)
	}
	err := checkLengths(rule("username", name+"x", maxUsernameLen))
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if !strings.Contains(err.Error(), "username must be at most 64 characters") {
		t.Fatalf("unexpected message: %v", err)
	}
	if err := checkLengths(ptrRule("email", nil, maxEmailLen), optRule("model", domain.Null[string](), 1)); err != nil {
		t.Fatalf("nil and null values must be skipped, got %v", err)
	}
}

func TestAssetService_RejectsOverlongFields(t *testing.T) {
	repo := newStubAssetRepo()
	svc := NewAssetService(repo, nil, zerolog.Nop())
	ctx := context.Background()
	long := strings.Repeat("a", maxHostnameLen+1)

	if _, err := svc.Create(ctx, alice, domain.NewAsset{Hostname: long}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for hostname, got %v", err)
	}
	if _, err := svc.Create(ctx, alice, domain.NewAsset{Hostname: "ws-01", Serial: strPtr(long)}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for serial, got %v", err)
	}
	if len(repo.assets) != 0 {
		t.Fatalf("expected nothing stored, got %d assets", len(repo.assets))
	}

	asset, err := svc.Create(ctx, alice, domain.NewAsset{Hostname: strings.Repeat("a", maxHostnameLen)})
	if err != nil {
		t.Fatalf("expected hostname at the limit to be accepted, got %v", err)
	}
	_, err = svc.Update(ctx, alice, asset.ID, domain.AssetPatch{Status: domain.Some(strings.Repeat("s", maxStatusLen+1))})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for status, got %v", err)
	}
}

func TestUserService_RejectsOverlongFields(t *testing.T) {
	svc, repo, _ := newUserFixture()
	ctx := context.Background()
	before := len(repo.users)

	cases := map[string]domain.NewUser{
		"username":   {Username: strings.Repeat("u", maxUsernameLen+1), Password: "pw"},
		"email":      {Username: "dave", Password: "pw", Email: strPtr(strings.Repeat("e", maxEmailLen+1))},
		"department": {Username: "dave", Password: "pw", Department: strPtr(strings.Repeat("d", maxDepartmentLen+1))},
		"password":   {Username: "dave", Password: strings.Repeat("p", maxPasswordBytes+1)},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.Create(ctx, nil, in); !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
	if len(repo.users) != before {
		t.Fatalf("expected no user stored")
	}

	if _, err := svc.Update(ctx, alice, 1, domain.UserPatch{Fullname: domain.Some(strings.Repeat("f", maxFullnameLen+1))}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for fullname, got %v", err)
	}
	if _, err := svc.Update(ctx, alice, 1, domain.UserPatch{Password: domain.Some(strings.Repeat("p", maxPasswordBytes+1))}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for password, got %v", err)
	}
}

func TestTicketService_RejectsOverlongFields(t *testing.T) {
	f := newTicketFixture()
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, alice, domain.NewTicket{Title: strings.Repeat("t", maxTitleLen+1)}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for title, got %v", err)
	}
	if _, err := f.svc.Create(ctx, alice, domain.NewTicket{Title: "x", Priority: strings.Repeat("p", maxPriorityLen+1)}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for priority, got %v", err)
	}
	if len(f.sink.actions()) != 0 {
		t.Fatalf("expected no audit records, got %v", f.sink.actions())
	}

	ticket, err := f.svc.Create(ctx, alice, domain.NewTicket{Title: "printer jam"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := f.svc.Update(ctx, alice, ticket.ID, domain.TicketPatch{Title: domain.Some(strings.Repeat("t", maxTitleLen+1))}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput on update, got %v", err)
	}
}
