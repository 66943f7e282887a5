package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/pawhub/pet-platform/internal/core/domain"
	"github.com/pawhub/pet-platform/internal/core/ports"
)

type stubPlatformOwnerRepo struct {
	owners map[string]*domain.PlatformOwner
}

func newStubPlatformOwnerRepo() *stubPlatformOwnerRepo {
	return &stubPlatformOwnerRepo{owners: make(map[string]*domain.PlatformOwner)}
}

func (r *stubPlatformOwnerRepo) Grant(_ context.Context, o *domain.PlatformOwner) error {
	clone := *o
	r.owners[o.UserID] = &clone
	return nil
}

func (r *stubPlatformOwnerRepo) Revoke(_ context.Context, userID string) error {
	delete(r.owners, userID)
	return nil
}

func (r *stubPlatformOwnerRepo) IsPlatformOwner(_ context.Context, userID string) (bool, error) {
	_, ok := r.owners[userID]
	return ok, nil
}

func (r *stubPlatformOwnerRepo) List(_ context.Context) ([]*domain.PlatformOwner, error) {
	var out []*domain.PlatformOwner
	for _, o := range r.owners {
		clone := *o
		out = append(out, &clone)
	}
	return out, nil
}

func newAdminFixture() (*stubPetRepo, *stubPlatformOwnerRepo, *AdminService) {
	pets := newStubPetRepo()
	owners := newStubPlatformOwnerRepo()
	return pets, owners, NewAdminService(pets, owners, discardLogger)
}

func TestAdminService_ListAllPets_Unscoped(t *testing.T) {
	pets, _, svc := newAdminFixture()
	seedPet(pets, "pet_1", "user_a", false)
	seedPet(pets, "pet_2", "user_b", false)
	seedPet(pets, "pet_3", "user_c", true)

	res, err := svc.ListAllPets(context.Background(), ports.ListPetsFilter{OwnerUserID: "user_a"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 3 {
		t.Errorf("admin listing must ignore the owner filter, got total %d", res.Total)
	}
}

func TestAdminService_ListAllPets_Pagination(t *testing.T) {
	pets, _, svc := newAdminFixture()
	for i := 1; i <= 25; i++ {
		seedPet(pets, fmt.Sprintf("pet_%02d", i), "user_a", false)
	}

	res, err := svc.ListAllPets(context.Background(), ports.ListPetsFilter{Page: 2, Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Items) != 10 {
		t.Errorf("expected 10 items on page 2, got %d", len(res.Items))
	}
	if res.Items[0].ID != "pet_11" {
		t.Errorf("expected page 2 to start at pet_11, got %s", res.Items[0].ID)
	}
	if res.TotalPages != 3 {
		t.Errorf("expected 3 pages for 25 pets at limit 10, got %d", res.TotalPages)
	}
}

func TestAdminService_ListAllPets_ClampsPaging(t *testing.T) {
	pets, _, svc := newAdminFixture()
	seedPet(pets, "pet_1", "user_a", false)

	res, err := svc.ListAllPets(context.Background(), ports.ListPetsFilter{Page: -3, Limit: 5000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Page != 1 {
		t.Errorf("page must clamp to 1, got %d", res.Page)
	}
	if res.Limit != 100 {
		t.Errorf("limit must clamp to 100, got %d", res.Limit)
	}

	res, err = svc.ListAllPets(context.Background(), ports.ListPetsFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Limit != 20 {
		t.Errorf("limit must default to 20, got %d", res.Limit)
	}
}

func TestAdminService_ListAllPets_Filters(t *testing.T) {
	pets, _, svc := newAdminFixture()
	seedPet(pets, "pet_1", "user_a", false)
	seedPet(pets, "pet_2", "user_a", false)
	pets.pets["pet_2"].Status = domain.StatusArchived
	pets.pets["pet_2"].Name = "Rocky"

	res, _ := svc.ListAllPets(context.Background(), ports.ListPetsFilter{Status: string(domain.StatusArchived)})
	if res.Total != 1 || res.Items[0].ID != "pet_2" {
		t.Errorf("status filter must apply, got %d items", res.Total)
	}

	res, _ = svc.ListAllPets(context.Background(), ports.ListPetsFilter{Search: "rock"})
	if res.Total != 1 || res.Items[0].ID != "pet_2" {
		t.Errorf("search filter must apply, got %d items", res.Total)
	}
}

func TestAdminService_GrantPlatformOwner(t *testing.T) {
	_, owners, svc := newAdminFixture()

	if err := svc.GrantPlatformOwner(context.Background(), "admin_1", "user_b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	o, ok := owners.owners["user_b"]
	if !ok {
		t.Fatal("grant must persist the owner row")
	}
	if o.GrantedBy != "admin_1" {
		t.Errorf("grantor must be recorded, got %q", o.GrantedBy)
	}

	if err := svc.GrantPlatformOwner(context.Background(), "admin_1", ""); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("empty target must be rejected, got %v", err)
	}
}

func TestAdminService_RevokePlatformOwner(t *testing.T) {
	_, owners, svc := newAdminFixture()
	_ = svc.GrantPlatformOwner(context.Background(), "admin_1", "user_b")

	if err := svc.RevokePlatformOwner(context.Background(), "admin_1", "admin_1"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("self-revoke must be rejected, got %v", err)
	}

	if err := svc.RevokePlatformOwner(context.Background(), "admin_1", "user_b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := owners.owners["user_b"]; ok {
		t.Error("revoke must remove the owner row")
	}
}

func TestAdminService_ListPlatformOwners(t *testing.T) {
	_, _, svc := newAdminFixture()
	_ = svc.GrantPlatformOwner(context.Background(), "admin_1", "user_b")
	_ = svc.GrantPlatformOwner(context.Background(), "admin_1", "user_c")

	out, err := svc.ListPlatformOwners(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Errorf("expected 2 owners, got %d", len(out))
	}
}
