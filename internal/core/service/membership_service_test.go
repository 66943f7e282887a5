package service

import (
	"context"
	"errors"
	"testing"

	"github.com/pawhub/pet-platform/internal/core/domain"
	"github.com/pawhub/pet-platform/internal/core/ports"
)

type memberFixture struct {
	pets     *stubPetRepo
	members  *stubMemberRepo
	recorder *stubRecorder
	svc      *MembershipService
}

func newMemberFixture() *memberFixture {
	f := &memberFixture{
		pets:     newStubPetRepo(),
		members:  newStubMemberRepo(),
		recorder: &stubRecorder{},
	}
	access := NewAccessService(f.pets, f.members, discardLogger)
	f.svc = NewMembershipService(f.pets, f.members, access, f.recorder, discardLogger)
	return f
}

func shareInput(actor, target, role string) ports.ShareInput {
	return ports.ShareInput{PetID: "pet_1", ActorUserID: actor, TargetUserID: target, Role: role}
}

// ---------------------------------------------------------------------------
// Share
// ---------------------------------------------------------------------------

func TestMembershipService_Share_ByPrimaryOwner(t *testing.T) {
	f := newMemberFixture()
	seedPet(f.pets, "pet_1", "user_a", false)

	m, err := f.svc.Share(context.Background(), shareInput("user_a", "user_b", "guardian"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Role != domain.RoleGuardian {
		t.Errorf("expected guardian role, got %q", m.Role)
	}
	if len(f.recorder.events) != 1 || f.recorder.events[0].Kind != domain.ActivityMemberAdded {
		t.Errorf("expected one member_added event, got %v", f.recorder.kinds())
	}
}

func TestMembershipService_Share_ByOwnerRoleMember(t *testing.T) {
	f := newMemberFixture()
	seedPet(f.pets, "pet_1", "user_a", false)
	grantRole(f.members, "pet_1", "user_owner", domain.RoleOwner)

	if _, err := f.svc.Share(context.Background(), shareInput("user_owner", "user_c", "viewer")); err != nil {
		t.Errorf("owner-role member must be able to share, got %v", err)
	}
}

func TestMembershipService_Share_GuardianCannotShare(t *testing.T) {
	f := newMemberFixture()
	seedPet(f.pets, "pet_1", "user_a", false)
	grantRole(f.members, "pet_1", "user_g", domain.RoleGuardian)

	_, err := f.svc.Share(context.Background(), shareInput("user_g", "user_c", "viewer"))
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("guardian must not manage sharing, got %v", err)
	}
}

func TestMembershipService_Share_StrangerGetsNotFound(t *testing.T) {
	f := newMemberFixture()
	seedPet(f.pets, "pet_1", "user_a", false)

	_, err := f.svc.Share(context.Background(), shareInput("user_stranger", "user_c", "viewer"))
	if !errors.Is(err, domain.ErrPetNotFound) {
		t.Errorf("stranger must get NotFound, got %v", err)
	}
}

func TestMembershipService_Share_PrimaryOwnerNotAddable(t *testing.T) {
	f := newMemberFixture()
	seedPet(f.pets, "pet_1", "user_a", false)

	_, err := f.svc.Share(context.Background(), shareInput("user_a", "user_a", "viewer"))
	if !errors.Is(err, domain.ErrPrimaryOwnerImplicit) {
		t.Errorf("sharing with the primary owner must be rejected, got %v", err)
	}
}

func TestMembershipService_Share_RejectsBogusRole(t *testing.T) {
	f := newMemberFixture()
	seedPet(f.pets, "pet_1", "user_a", false)

	for _, role := range []string{"", "none", "admin"} {
		_, err := f.svc.Share(context.Background(), shareInput("user_a", "user_b", role))
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("role %q: expected validation error, got %v", role, err)
		}
	}
}

func TestMembershipService_Share_ReshareUpsertsSingleRow(t *testing.T) {
	f := newMemberFixture()
	seedPet(f.pets, "pet_1", "user_a", false)

	if _, err := f.svc.Share(context.Background(), shareInput("user_a", "user_b", "viewer")); err != nil {
		t.Fatalf("first share failed: %v", err)
	}
	if _, err := f.svc.Share(context.Background(), shareInput("user_a", "user_b", "guardian")); err != nil {
		t.Fatalf("re-share failed: %v", err)
	}

	rows, _ := f.members.ListByPet(context.Background(), "pet_1")
	if len(rows) != 1 {
		t.Fatalf("re-share must keep one row per (pet,user), got %d", len(rows))
	}
	if rows[0].Role != domain.RoleGuardian {
		t.Errorf("re-share must replace the role, got %q", rows[0].Role)
	}
}

// ---------------------------------------------------------------------------
// UpdateRole
// ---------------------------------------------------------------------------

func TestMembershipService_UpdateRole(t *testing.T) {
	f := newMemberFixture()
	seedPet(f.pets, "pet_1", "user_a", false)
	grantRole(f.members, "pet_1", "user_b", domain.RoleViewer)

	m, err := f.svc.UpdateRole(context.Background(), shareInput("user_a", "user_b", "guardian"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Role != domain.RoleGuardian {
		t.Errorf("expected guardian, got %q", m.Role)
	}
}

func TestMembershipService_UpdateRole_MissingMember(t *testing.T) {
	f := newMemberFixture()
	seedPet(f.pets, "pet_1", "user_a", false)

	_, err := f.svc.UpdateRole(context.Background(), shareInput("user_a", "user_ghost", "guardian"))
	if !errors.Is(err, domain.ErrMemberNotFound) {
		t.Errorf("expected ErrMemberNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Revoke
// ---------------------------------------------------------------------------

func TestMembershipService_Revoke_ByAuthority(t *testing.T) {
	f := newMemberFixture()
	seedPet(f.pets, "pet_1", "user_a", false)
	grantRole(f.members, "pet_1", "user_b", domain.RoleViewer)

	err := f.svc.Revoke(context.Background(), ports.RevokeInput{
		PetID: "pet_1", ActorUserID: "user_a", TargetUserID: "user_b",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.members.FindByPetAndUser(context.Background(), "pet_1", "user_b"); !errors.Is(err, domain.ErrMemberNotFound) {
		t.Error("membership row must be gone after revoke")
	}
}

func TestMembershipService_Revoke_SelfLeaveWithoutAuthority(t *testing.T) {
	f := newMemberFixture()
	seedPet(f.pets, "pet_1", "user_a", false)
	grantRole(f.members, "pet_1", "user_b", domain.RoleViewer)

	// A viewer has no sharing authority but may always remove themselves.
	err := f.svc.Revoke(context.Background(), ports.RevokeInput{
		PetID: "pet_1", ActorUserID: "user_b", TargetUserID: "user_b",
	})
	if err != nil {
		t.Errorf("self-leave must be allowed, got %v", err)
	}
}

func TestMembershipService_Revoke_ViewerCannotRevokeOthers(t *testing.T) {
	f := newMemberFixture()
	seedPet(f.pets, "pet_1", "user_a", false)
	grantRole(f.members, "pet_1", "user_b", domain.RoleViewer)
	grantRole(f.members, "pet_1", "user_c", domain.RoleViewer)

	err := f.svc.Revoke(context.Background(), ports.RevokeInput{
		PetID: "pet_1", ActorUserID: "user_b", TargetUserID: "user_c",
	})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("viewer must not revoke others, got %v", err)
	}
}

func TestMembershipService_Revoke_PrimaryOwnerNotRevocable(t *testing.T) {
	f := newMemberFixture()
	seedPet(f.pets, "pet_1", "user_a", false)

	err := f.svc.Revoke(context.Background(), ports.RevokeInput{
		PetID: "pet_1", ActorUserID: "user_a", TargetUserID: "user_a",
	})
	if !errors.Is(err, domain.ErrPrimaryOwnerImplicit) {
		t.Errorf("primary owner must never be revocable, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// ListMembers
// ---------------------------------------------------------------------------

func TestMembershipService_ListMembers_ViewGated(t *testing.T) {
	f := newMemberFixture()
	seedPet(f.pets, "pet_1", "user_a", true)
	grantRole(f.members, "pet_1", "user_b", domain.RoleViewer)

	members, err := f.svc.ListMembers(context.Background(), "pet_1", "user_b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(members) != 1 {
		t.Errorf("expected 1 member, got %d", len(members))
	}

	// Public flag does not expose the member list.
	_, err = f.svc.ListMembers(context.Background(), "pet_1", "user_stranger")
	if !errors.Is(err, domain.ErrPetNotFound) {
		t.Errorf("stranger must get NotFound, got %v", err)
	}
}
