package service

import (
	"context"
	"errors"
	"testing"

	"github.com/pawhub/pet-platform/internal/core/domain"
	"github.com/pawhub/pet-platform/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs for the pet service collaborators
// ---------------------------------------------------------------------------

type stubRecorder struct {
	events []domain.ActivityEvent
}

func (r *stubRecorder) Record(e domain.ActivityEvent) {
	r.events = append(r.events, e)
}

func (r *stubRecorder) kinds() []domain.ActivityKind {
	out := make([]domain.ActivityKind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

type stubCache struct {
	store       map[string]*ports.PublicPetProfile
	getErr      error
	invalidated []string
}

func newStubCache() *stubCache {
	return &stubCache{store: make(map[string]*ports.PublicPetProfile)}
}

func (c *stubCache) Get(_ context.Context, slug string) (*ports.PublicPetProfile, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.store[slug], nil
}

func (c *stubCache) Set(_ context.Context, slug string, p *ports.PublicPetProfile) error {
	c.store[slug] = p
	return nil
}

func (c *stubCache) Invalidate(_ context.Context, slug string) error {
	c.invalidated = append(c.invalidated, slug)
	delete(c.store, slug)
	return nil
}

type stubActivityRepo struct {
	events []*domain.ActivityEvent
}

func (r *stubActivityRepo) Insert(_ context.Context, e *domain.ActivityEvent) error {
	clone := *e
	r.events = append(r.events, &clone)
	return nil
}

func (r *stubActivityRepo) ListByPet(_ context.Context, petID string, limit int) ([]*domain.ActivityEvent, error) {
	var out []*domain.ActivityEvent
	for i := len(r.events) - 1; i >= 0 && len(out) < limit; i-- {
		if r.events[i].PetID == petID {
			out = append(out, r.events[i])
		}
	}
	return out, nil
}

type petFixture struct {
	pets     *stubPetRepo
	members  *stubMemberRepo
	recorder *stubRecorder
	cache    *stubCache
	activity *stubActivityRepo
	svc      *PetService
}

func newPetFixture() *petFixture {
	f := &petFixture{
		pets:     newStubPetRepo(),
		members:  newStubMemberRepo(),
		recorder: &stubRecorder{},
		cache:    newStubCache(),
		activity: &stubActivityRepo{},
	}
	access := NewAccessService(f.pets, f.members, discardLogger)
	alloc := seededAllocator(f.pets)
	f.svc = NewPetService(f.pets, f.members, access, alloc, f.activity, f.recorder, f.cache, discardLogger)
	return f
}

func createInput(userID, name string) ports.CreatePetInput {
	return ports.CreatePetInput{
		UserID:  userID,
		Name:    name,
		Species: "dog",
	}
}

// ---------------------------------------------------------------------------
// CreatePet
// ---------------------------------------------------------------------------

func TestPetService_Create_Success(t *testing.T) {
	f := newPetFixture()

	result, err := f.svc.CreatePet(context.Background(), createInput("user_a", "Bella"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ID == "" {
		t.Error("result must carry the new pet id")
	}
	if !slugShapeRe.MatchString(result.Slug) {
		t.Errorf("slug %q does not match expected shape", result.Slug)
	}
	if result.Status != string(domain.StatusActive) {
		t.Errorf("new pet must be active, got %q", result.Status)
	}

	stored := f.pets.pets[result.ID]
	if stored.OwnerUserID != "user_a" {
		t.Errorf("caller must become primary owner, got %q", stored.OwnerUserID)
	}
	if len(f.recorder.events) != 1 || f.recorder.events[0].Kind != domain.ActivityPetCreated {
		t.Errorf("expected one pet_created event, got %v", f.recorder.kinds())
	}
}

func TestPetService_Create_ValidatesName(t *testing.T) {
	f := newPetFixture()

	for _, name := range []string{"", "   ", string(make([]byte, 101))} {
		_, err := f.svc.CreatePet(context.Background(), createInput("user_a", name))
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("name %q: expected validation error, got %v", name, err)
		}
	}
}

func TestPetService_Create_ValidatesSpecies(t *testing.T) {
	f := newPetFixture()

	input := createInput("user_a", "Bella")
	input.Species = "dragon"
	_, err := f.svc.CreatePet(context.Background(), input)
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error for unknown species, got %v", err)
	}
}

func TestPetService_Create_RetriesLostSlugRace(t *testing.T) {
	f := newPetFixture()
	// Every slug the allocator proposes passes the index check, but the
	// first insert is rejected by the unique index (a lost race).
	raced := false
	f.svc.pets = &raceOncePetRepo{stubPetRepo: f.pets, raced: &raced}

	result, err := f.svc.CreatePet(context.Background(), createInput("user_a", "Bella"))
	if err != nil {
		t.Fatalf("creation must survive one lost race: %v", err)
	}
	if !raced {
		t.Fatal("test did not exercise the race path")
	}
	if result.Slug == "" {
		t.Error("re-allocated slug must be set")
	}
}

func TestPetService_Create_RepoError(t *testing.T) {
	f := newPetFixture()
	f.pets.createErr = errors.New("db unavailable")

	_, err := f.svc.CreatePet(context.Background(), createInput("user_a", "Bella"))
	if err == nil {
		t.Fatal("expected error when repo fails, got nil")
	}
	if len(f.recorder.events) != 0 {
		t.Error("failed creation must not record activity")
	}
}

type raceOncePetRepo struct {
	*stubPetRepo
	raced *bool
}

func (r *raceOncePetRepo) Create(ctx context.Context, p *domain.Pet) error {
	if !*r.raced {
		*r.raced = true
		return domain.ErrSlugTaken
	}
	return r.stubPetRepo.Create(ctx, p)
}

// ---------------------------------------------------------------------------
// GetPet / access policy
// ---------------------------------------------------------------------------

func TestPetService_Get_OwnerSeesFullProfile(t *testing.T) {
	f := newPetFixture()
	seedPet(f.pets, "pet_1", "user_a", false)

	pet, err := f.svc.GetPet(context.Background(), "pet_1", "user_a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pet.ID != "pet_1" {
		t.Errorf("expected pet_1, got %q", pet.ID)
	}
}

func TestPetService_Get_StrangerGetsNotFound(t *testing.T) {
	f := newPetFixture()
	seedPet(f.pets, "pet_1", "user_a", false)

	// A private pet the caller cannot view must be indistinguishable from
	// an absent one.
	_, err := f.svc.GetPet(context.Background(), "pet_1", "user_stranger")
	if !errors.Is(err, domain.ErrPetNotFound) {
		t.Errorf("expected ErrPetNotFound, got %v", err)
	}

	_, err = f.svc.GetPet(context.Background(), "missing", "user_stranger")
	if !errors.Is(err, domain.ErrPetNotFound) {
		t.Errorf("absent pet: expected ErrPetNotFound, got %v", err)
	}
}

func TestPetService_Get_PublicPetViewableByAnyone(t *testing.T) {
	f := newPetFixture()
	seedPet(f.pets, "pet_1", "user_a", true)

	if _, err := f.svc.GetPet(context.Background(), "pet_1", "user_stranger"); err != nil {
		t.Errorf("public pet must be viewable by any authenticated user, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// GetPublicProfile
// ---------------------------------------------------------------------------

func TestPetService_PublicProfile_ServesAndCaches(t *testing.T) {
	f := newPetFixture()
	p := seedPet(f.pets, "pet_1", "user_a", true)
	p.Microchip = "chip-123"

	profile, err := f.svc.GetPublicProfile(context.Background(), p.Slug)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Name != "Bella" || profile.Slug != p.Slug {
		t.Errorf("unexpected profile %+v", profile)
	}
	if f.cache.store[p.Slug] == nil {
		t.Error("profile must be written to the cache")
	}
}

func TestPetService_PublicProfile_CacheHitSkipsStore(t *testing.T) {
	f := newPetFixture()
	f.cache.store["bella-x"] = &ports.PublicPetProfile{Slug: "bella-x", Name: "Bella"}

	// No pet in the store at all: a cache hit must still serve.
	profile, err := f.svc.GetPublicProfile(context.Background(), "bella-x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Name != "Bella" {
		t.Errorf("expected cached profile, got %+v", profile)
	}
}

func TestPetService_PublicProfile_PrivatePetHidden(t *testing.T) {
	f := newPetFixture()
	p := seedPet(f.pets, "pet_1", "user_a", false)

	_, err := f.svc.GetPublicProfile(context.Background(), p.Slug)
	if !errors.Is(err, domain.ErrPetNotFound) {
		t.Errorf("private pet must 404 on the public path, got %v", err)
	}
}

func TestPetService_PublicProfile_ArchivedPetHidden(t *testing.T) {
	f := newPetFixture()
	p := seedPet(f.pets, "pet_1", "user_a", true)
	p.Status = domain.StatusArchived

	_, err := f.svc.GetPublicProfile(context.Background(), p.Slug)
	if !errors.Is(err, domain.ErrPetNotFound) {
		t.Errorf("archived pet must drop off the public path, got %v", err)
	}
}

func TestPetService_PublicProfile_CacheErrorFallsThrough(t *testing.T) {
	f := newPetFixture()
	p := seedPet(f.pets, "pet_1", "user_a", true)
	f.cache.getErr = errors.New("redis down")

	profile, err := f.svc.GetPublicProfile(context.Background(), p.Slug)
	if err != nil {
		t.Fatalf("cache failure must not break the read path: %v", err)
	}
	if profile.Name != "Bella" {
		t.Errorf("expected store-backed profile, got %+v", profile)
	}
}

// ---------------------------------------------------------------------------
// ListMyPets
// ---------------------------------------------------------------------------

func TestPetService_ListMyPets_SplitsOwnedAndShared(t *testing.T) {
	f := newPetFixture()
	seedPet(f.pets, "pet_own", "user_a", false)
	seedPet(f.pets, "pet_shared", "user_b", false)
	grantRole(f.members, "pet_shared", "user_a", domain.RoleViewer)

	result, err := f.svc.ListMyPets(context.Background(), "user_a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Owned) != 1 || result.Owned[0].ID != "pet_own" {
		t.Errorf("owned list wrong: %+v", result.Owned)
	}
	if len(result.Shared) != 1 || result.Shared[0].ID != "pet_shared" {
		t.Errorf("shared list wrong: %+v", result.Shared)
	}
}

// ---------------------------------------------------------------------------
// UpdatePet / tri-state merge
// ---------------------------------------------------------------------------

func TestPetService_Update_SetAndClear(t *testing.T) {
	f := newPetFixture()
	p := seedPet(f.pets, "pet_1", "user_a", false)
	p.Breed = "beagle"
	p.Color = "brown"

	updated, err := f.svc.UpdatePet(context.Background(), ports.UpdatePetInput{
		PetID:  "pet_1",
		UserID: "user_a",
		Name:   ports.PatchOf("Bella II"),
		Breed:  ports.PatchNull[string](), // explicit null clears
		// Color absent: must stay untouched
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != "Bella II" {
		t.Errorf("name not replaced: %q", updated.Name)
	}
	if updated.Breed != "" {
		t.Errorf("breed must be cleared, got %q", updated.Breed)
	}
	if updated.Color != "brown" {
		t.Errorf("absent field must stay unchanged, got %q", updated.Color)
	}
	if len(f.recorder.events) != 1 || f.recorder.events[0].Kind != domain.ActivityPetUpdated {
		t.Errorf("expected one pet_updated event, got %v", f.recorder.kinds())
	}
}

func TestPetService_Update_NullRejectedOnRequiredFields(t *testing.T) {
	f := newPetFixture()
	seedPet(f.pets, "pet_1", "user_a", false)

	cases := []ports.UpdatePetInput{
		{PetID: "pet_1", UserID: "user_a", Name: ports.PatchNull[string]()},
		{PetID: "pet_1", UserID: "user_a", Species: ports.PatchNull[string]()},
		{PetID: "pet_1", UserID: "user_a", Status: ports.PatchNull[string]()},
		{PetID: "pet_1", UserID: "user_a", AllowPublicProfile: ports.PatchNull[bool]()},
	}
	for i, input := range cases {
		if _, err := f.svc.UpdatePet(context.Background(), input); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestPetService_Update_ArchiveViaStatusRejected(t *testing.T) {
	f := newPetFixture()
	seedPet(f.pets, "pet_1", "user_a", false)

	_, err := f.svc.UpdatePet(context.Background(), ports.UpdatePetInput{
		PetID:  "pet_1",
		UserID: "user_a",
		Status: ports.PatchOf(string(domain.StatusArchived)),
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("archiving through PATCH must be rejected, got %v", err)
	}
}

func TestPetService_Update_ViewerGetsUnauthorized(t *testing.T) {
	f := newPetFixture()
	seedPet(f.pets, "pet_1", "user_a", false)
	grantRole(f.members, "pet_1", "user_v", domain.RoleViewer)

	_, err := f.svc.UpdatePet(context.Background(), ports.UpdatePetInput{
		PetID:  "pet_1",
		UserID: "user_v",
		Name:   ports.PatchOf("Nope"),
	})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("viewer must get Unauthorized, got %v", err)
	}
}

func TestPetService_Update_StrangerGetsNotFound(t *testing.T) {
	f := newPetFixture()
	seedPet(f.pets, "pet_1", "user_a", false)

	_, err := f.svc.UpdatePet(context.Background(), ports.UpdatePetInput{
		PetID:  "pet_1",
		UserID: "user_stranger",
		Name:   ports.PatchOf("Nope"),
	})
	if !errors.Is(err, domain.ErrPetNotFound) {
		t.Errorf("stranger must get NotFound, got %v", err)
	}
}

func TestPetService_Update_InvalidatesProfileCache(t *testing.T) {
	f := newPetFixture()
	p := seedPet(f.pets, "pet_1", "user_a", true)
	f.cache.store[p.Slug] = &ports.PublicPetProfile{Slug: p.Slug, Name: "stale"}

	_, err := f.svc.UpdatePet(context.Background(), ports.UpdatePetInput{
		PetID:  "pet_1",
		UserID: "user_a",
		Name:   ports.PatchOf("Fresh"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.cache.store[p.Slug] != nil {
		t.Error("stale cached profile must be invalidated on update")
	}
}

func TestPetService_Update_EmptyDeltaIsNoop(t *testing.T) {
	f := newPetFixture()
	seedPet(f.pets, "pet_1", "user_a", false)

	pet, err := f.svc.UpdatePet(context.Background(), ports.UpdatePetInput{
		PetID:  "pet_1",
		UserID: "user_a",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pet.Name != "Bella" {
		t.Errorf("noop update must return the unchanged pet, got %+v", pet)
	}
	if len(f.recorder.events) != 0 {
		t.Errorf("noop update must not record activity, got %v", f.recorder.kinds())
	}
}

// ---------------------------------------------------------------------------
// ArchivePet
// ---------------------------------------------------------------------------

func TestPetService_Archive_PrimaryOwnerOnly(t *testing.T) {
	f := newPetFixture()
	seedPet(f.pets, "pet_1", "user_a", false)
	grantRole(f.members, "pet_1", "user_owner", domain.RoleOwner)

	// Even owner-role members cannot archive.
	err := f.svc.ArchivePet(context.Background(), "pet_1", "user_owner")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("owner-role member must get Unauthorized, got %v", err)
	}

	err = f.svc.ArchivePet(context.Background(), "pet_1", "user_stranger")
	if !errors.Is(err, domain.ErrPetNotFound) {
		t.Errorf("stranger must get NotFound, got %v", err)
	}

	if err := f.svc.ArchivePet(context.Background(), "pet_1", "user_a"); err != nil {
		t.Fatalf("primary owner archive failed: %v", err)
	}
	if f.pets.pets["pet_1"].Status != domain.StatusArchived {
		t.Errorf("pet must be archived, got %q", f.pets.pets["pet_1"].Status)
	}
	if len(f.recorder.events) != 1 || f.recorder.events[0].Kind != domain.ActivityPetArchived {
		t.Errorf("expected one pet_archived event, got %v", f.recorder.kinds())
	}
}

func TestPetService_Archive_SlugStaysReserved(t *testing.T) {
	f := newPetFixture()
	p := seedPet(f.pets, "pet_1", "user_a", false)

	if err := f.svc.ArchivePet(context.Background(), "pet_1", "user_a"); err != nil {
		t.Fatalf("archive failed: %v", err)
	}

	// The archived pet's slug must still count as taken.
	exists, err := f.pets.SlugExists(context.Background(), p.Slug)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Error("archived pet's slug must never be recycled")
	}
}

// ---------------------------------------------------------------------------
// ListActivity
// ---------------------------------------------------------------------------

func TestPetService_ListActivity_ViewGated(t *testing.T) {
	f := newPetFixture()
	seedPet(f.pets, "pet_1", "user_a", true)
	_ = f.activity.Insert(context.Background(), &domain.ActivityEvent{PetID: "pet_1", Kind: domain.ActivityPetCreated})

	events, err := f.svc.ListActivity(context.Background(), "pet_1", "user_a", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("expected 1 event, got %d", len(events))
	}

	// The public flag does not expose activity to strangers.
	_, err = f.svc.ListActivity(context.Background(), "pet_1", "user_stranger", 0)
	if !errors.Is(err, domain.ErrPetNotFound) {
		t.Errorf("stranger must get NotFound on activity, got %v", err)
	}
}
