package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/spec-kit/estate-service/internal/docstore"
	"github.com/spec-kit/estate-service/internal/domain"
)

func TestUserRepository_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(docstore.NewMemoryStore())

	user := &domain.User{Name: "Alice", Email: "alice@example.com", Role: domain.RoleMember}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.ID == "" {
		t.Fatal("Create should assign an ID")
	}

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("ID = %q, want %q", byEmail.ID, user.ID)
	}

	if _, err := repo.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByEmail(missing) err = %v, want ErrNotFound", err)
	}
	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID(missing) err = %v, want ErrNotFound", err)
	}
}

func TestUserRepository_SetRoleAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(docstore.NewMemoryStore())
	user := &domain.User{Name: "Bob", Email: "bob@example.com", Role: domain.RoleMember}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}

	res, err := repo.SetRole(ctx, user.ID, domain.RoleAgent)
	if err != nil {
		t.Fatalf("SetRole: %v", err)
	}
	if res.MatchedCount != 1 || res.ModifiedCount != 1 {
		t.Errorf("SetRole result = %+v", res)
	}
	got, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Role != domain.RoleAgent {
		t.Errorf("Role = %q, want agent", got.Role)
	}

	del, err := repo.Delete(ctx, user.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if del.DeletedCount != 1 {
		t.Errorf("DeletedCount = %d, want 1", del.DeletedCount)
	}
}

func TestOfferRepository_RejectPending(t *testing.T) {
	ctx := context.Background()
	repo := NewOfferRepository(docstore.NewMemoryStore())
	offers := []*domain.Offer{
		{PropertyID: "p1", BuyerEmail: "a@example.com", Status: domain.OfferStatusAccepted},
		{PropertyID: "p1", BuyerEmail: "b@example.com", Status: domain.OfferStatusPending},
		{PropertyID: "p2", BuyerEmail: "c@example.com", Status: domain.OfferStatusPending},
	}
	for _, o := range offers {
		if err := repo.Create(ctx, o); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	res, err := repo.RejectPending(ctx, "p1")
	if err != nil {
		t.Fatalf("RejectPending: %v", err)
	}
	if res.ModifiedCount != 1 {
		t.Errorf("ModifiedCount = %d, want 1", res.ModifiedCount)
	}
	accepted, _ := repo.GetByID(ctx, offers[0].ID)
	if accepted.Status != domain.OfferStatusAccepted {
		t.Errorf("accepted offer status = %q", accepted.Status)
	}
	other, _ := repo.GetByID(ctx, offers[2].ID)
	if other.Status != domain.OfferStatusPending {
		t.Errorf("other property's offer status = %q", other.Status)
	}
}

func TestPropertyRepository_ListFilter(t *testing.T) {
	ctx := context.Background()
	repo := NewPropertyRepository(docstore.NewMemoryStore())
	for _, p := range []*domain.Property{
		{PropertyTitle: "a", AgentEmail: "alice@example.com", Status: domain.PropertyStatusVerified},
		{PropertyTitle: "b", AgentEmail: "alice@example.com", Status: domain.PropertyStatusPending},
		{PropertyTitle: "c", AgentEmail: "bob@example.com", Status: domain.PropertyStatusVerified},
	} {
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	tests := []struct {
		name   string
		filter PropertyFilter
		want   int
	}{
		{"all", PropertyFilter{}, 3},
		{"agent", PropertyFilter{AgentEmail: "alice@example.com"}, 2},
		{"status", PropertyFilter{Status: domain.PropertyStatusVerified}, 2},
		{"both", PropertyFilter{AgentEmail: "bob@example.com", Status: domain.PropertyStatusPending}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("len = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestUserRepository_CreateRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(NewMemoryStore())

	if err := repo.Create(ctx, &domain.User{Email: "alice@example.com"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	dup := &domain.User{Email: "alice@example.com"}
	if err := repo.Create(ctx, dup); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("Create(duplicate) err = %v, want ErrDuplicate", err)
	}
	if dup.ID != "" {
		t.Errorf("rejected user was assigned ID %q", dup.ID)
	}
}

func TestOfferRepository_TransitionRequiresCurrentStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewOfferRepository(NewMemoryStore())
	offer := &domain.Offer{PropertyID: "p1", Status: domain.OfferStatusPending}
	if err := repo.Create(ctx, offer); err != nil {
		t.Fatalf("Create: %v", err)
	}

	res, err := repo.Transition(ctx, offer.ID, domain.OfferStatusPending, domain.OfferStatusAccepted)
	if err != nil || res.ModifiedCount != 1 {
		t.Fatalf("Transition = %+v, %v", res, err)
	}
	res, err = repo.Transition(ctx, offer.ID, domain.OfferStatusPending, domain.OfferStatusRejected)
	if err != nil || res.MatchedCount != 0 {
		t.Fatalf("stale Transition = %+v, %v; want no match", res, err)
	}
	got, _ := repo.GetByID(ctx, offer.ID)
	if got.Status != domain.OfferStatusAccepted {
		t.Errorf("status = %q, want accepted", got.Status)
	}
}

func TestOfferRepository_ClaimProperty(t *testing.T) {
	ctx := context.Background()
	repo := NewOfferRepository(NewMemoryStore())

	if err := repo.ClaimProperty(ctx, "p1", "o1"); err != nil {
		t.Fatalf("ClaimProperty: %v", err)
	}
	if err := repo.ClaimProperty(ctx, "p1", "o2"); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("second ClaimProperty err = %v, want ErrDuplicate", err)
	}
	// Only the holder can release.
	if err := repo.ReleaseProperty(ctx, "p1", "o2"); err != nil {
		t.Fatalf("ReleaseProperty: %v", err)
	}
	if err := repo.ClaimProperty(ctx, "p1", "o2"); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("claim survived a foreign release: err = %v", err)
	}
	if err := repo.ReleaseProperty(ctx, "p1", "o1"); err != nil {
		t.Fatalf("ReleaseProperty: %v", err)
	}
	if err := repo.ClaimProperty(ctx, "p1", "o2"); err != nil {
		t.Fatalf("ClaimProperty after release: %v", err)
	}
}

func TestPropertyRepository_OwnedWrites(t *testing.T) {
	ctx := context.Background()
	repo := NewPropertyRepository(NewMemoryStore())
	p := &domain.Property{PropertyTitle: "Loft", AgentEmail: "alice@example.com"}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}

	res, err := repo.UpdateOwned(ctx, p.ID, "bob@example.com", docstore.Set{"propertyTitle": "Stolen"})
	if err != nil || res.MatchedCount != 0 {
		t.Fatalf("UpdateOwned(other agent) = %+v, %v", res, err)
	}
	del, err := repo.DeleteOwned(ctx, p.ID, "bob@example.com")
	if err != nil || del.DeletedCount != 0 {
		t.Fatalf("DeleteOwned(other agent) = %+v, %v", del, err)
	}

	res, err = repo.UpdateOwned(ctx, p.ID, "alice@example.com", docstore.Set{"propertyTitle": "Sunny loft"})
	if err != nil || res.ModifiedCount != 1 {
		t.Fatalf("UpdateOwned = %+v, %v", res, err)
	}
	del, err = repo.DeleteOwned(ctx, p.ID, "alice@example.com")
	if err != nil || del.DeletedCount != 1 {
		t.Fatalf("DeleteOwned = %+v, %v", del, err)
	}
}

func TestWishlistRepository_DeleteScopedToOwner(t *testing.T) {
	ctx := context.Background()
	repo := NewWishlistRepository(NewMemoryStore())
	item := &domain.WishlistItem{PropertyID: "p1", Email: "carol@example.com"}
	if err := repo.Add(ctx, item); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if res, err := repo.Delete(ctx, item.ID, "dave@example.com"); err != nil || res.DeletedCount != 0 {
		t.Fatalf("Delete(other user) = %+v, %v", res, err)
	}
	if res, err := repo.Delete(ctx, item.ID, "carol@example.com"); err != nil || res.DeletedCount != 1 {
		t.Fatalf("Delete = %+v, %v", res, err)
	}
}
