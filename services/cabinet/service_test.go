package cabinet

import (
	"errors"
	"testing"
	"time"

	"neira/models"
	"neira/utils"

	"go.mongodb.org/mongo-driver/bson"
)

// memoryCabinetRepo is an in-memory CabinetRepository.
type memoryCabinetRepo struct {
	cabinets map[string]*models.Cabinet
	members  map[string]*models.CabinetMember
}

func newMemoryCabinetRepo() *memoryCabinetRepo {
	return &memoryCabinetRepo{
		cabinets: make(map[string]*models.Cabinet),
		members:  make(map[string]*models.CabinetMember),
	}
}

func (r *memoryCabinetRepo) Create(cab *models.Cabinet) error {
	cp := *cab
	r.cabinets[cab.ID] = &cp
	return nil
}

func (r *memoryCabinetRepo) GetByID(id string) (*models.Cabinet, error) {
	cab, ok := r.cabinets[id]
	if !ok {
		return nil, nil
	}
	cp := *cab
	return &cp, nil
}

func (r *memoryCabinetRepo) Update(cab *models.Cabinet) error {
	cp := *cab
	r.cabinets[cab.ID] = &cp
	return nil
}

func (r *memoryCabinetRepo) UpdateSetDocument(id string, updateDoc bson.M) error { return nil }

func (r *memoryCabinetRepo) Delete(id string) error {
	delete(r.cabinets, id)
	return nil
}

func (r *memoryCabinetRepo) AddMember(m *models.CabinetMember) error {
	cp := *m
	r.members[m.ID] = &cp
	return nil
}

func (r *memoryCabinetRepo) GetMember(cabinetID, userID string) (*models.CabinetMember, error) {
	for _, m := range r.members {
		if m.CabinetID == cabinetID && m.UserID == userID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memoryCabinetRepo) GetMemberByID(memberID string) (*models.CabinetMember, error) {
	m, ok := r.members[memberID]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *memoryCabinetRepo) GetMemberByInvitationToken(token string) (*models.CabinetMember, error) {
	for _, m := range r.members {
		if m.InvitationToken == token && token != "" {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memoryCabinetRepo) ListMembers(cabinetID string) ([]models.CabinetMember, error) {
	var out []models.CabinetMember
	for _, m := range r.members {
		if m.CabinetID == cabinetID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *memoryCabinetRepo) UpdateMember(m *models.CabinetMember) error {
	cp := *m
	r.members[m.ID] = &cp
	return nil
}

func (r *memoryCabinetRepo) RemoveMember(memberID string) error {
	delete(r.members, memberID)
	return nil
}

func (r *memoryCabinetRepo) CountActiveMembers(cabinetID string) (int64, error) {
	var n int64
	for _, m := range r.members {
		if m.CabinetID == cabinetID && m.Status == models.MemberStatusActive {
			n++
		}
	}
	return n, nil
}

// memoryUserRepo resolves users by ID and email only.
type memoryUserRepo struct {
	users map[string]*models.User
}

func (r *memoryUserRepo) Create(u *models.User) error                           { return nil }
func (r *memoryUserRepo) Update(u *models.User) error                           { return nil }
func (r *memoryUserRepo) Delete(id string) error                                { return nil }
func (r *memoryUserRepo) UpdateSetDocument(id string, updateDoc bson.M) error   { return nil }
func (r *memoryUserRepo) GetByTokenHash(hash string) (*models.User, error)      { return nil, nil }

func (r *memoryUserRepo) GetByIDWithProjection(id string, projection bson.M) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memoryUserRepo) GetByEmailWithProjection(email string, projection bson.M) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// recordingDispatcher captures dispatched invitations.
type recordingDispatcher struct {
	payloads []models.InvitePayload
}

func (d *recordingDispatcher) DispatchInvite(p models.InvitePayload) error {
	d.payloads = append(d.payloads, p)
	return nil
}

func newTestService() (*DefaultCabinetService, *memoryCabinetRepo, *recordingDispatcher) {
	repo := newMemoryCabinetRepo()
	users := &memoryUserRepo{users: map[string]*models.User{
		"u-founder": {ID: "u-founder", Email: "fondateur@example.fr"},
	}}
	dispatcher := &recordingDispatcher{}
	svc := &DefaultCabinetService{Repo: repo, Users: users, Invites: dispatcher}
	return svc, repo, dispatcher
}

func seedCabinet(t *testing.T, svc *DefaultCabinetService) *models.Cabinet {
	t.Helper()
	cab, err := svc.CreateCabinet("u-founder", models.CreateCabinetRequest{
		Name:       "Cabinet Martin",
		Profession: "avocat",
	})
	if err != nil {
		t.Fatalf("CreateCabinet: %v", err)
	}
	return cab
}

func TestCreateCabinetEnrollsFounder(t *testing.T) {
	svc, repo, _ := newTestService()
	cab := seedCabinet(t, svc)

	if cab.Plan != models.PlanEssentiel {
		t.Errorf("plan = %q, want %q", cab.Plan, models.PlanEssentiel)
	}
	member, err := repo.GetMember(cab.ID, "u-founder")
	if err != nil || member == nil {
		t.Fatalf("founder membership missing: %v", err)
	}
	if member.Role != string(RoleFondateur) {
		t.Errorf("founder role = %q, want %q", member.Role, RoleFondateur)
	}
	if member.Status != models.MemberStatusActive {
		t.Errorf("founder status = %q, want active", member.Status)
	}
	if member.SignaturesIncluded != models.SignatureQuotaForPlan(models.PlanEssentiel) {
		t.Errorf("quota = %d, want %d", member.SignaturesIncluded, models.SignatureQuotaForPlan(models.PlanEssentiel))
	}
}

func TestInviteMemberHashesToken(t *testing.T) {
	svc, repo, dispatcher := newTestService()
	cab := seedCabinet(t, svc)

	member, err := svc.InviteMember(cab.ID, "u-founder", models.InviteMemberRequest{
		Email: "claire@example.fr",
		Role:  "Collaborateur",
	})
	if err != nil {
		t.Fatalf("InviteMember: %v", err)
	}
	if member.Status != models.MemberStatusPending {
		t.Errorf("status = %q, want pending", member.Status)
	}
	if len(dispatcher.payloads) != 1 {
		t.Fatalf("dispatched payloads = %d, want 1", len(dispatcher.payloads))
	}

	// The raw token travels with the notification; only its hash is stored.
	raw := dispatcher.payloads[0].Token
	if raw == "" || raw == member.InvitationToken {
		t.Fatalf("raw token %q should differ from stored value %q", raw, member.InvitationToken)
	}
	stored, err := repo.GetMemberByInvitationToken(utils.HashToken(raw))
	if err != nil || stored == nil {
		t.Fatalf("stored invitation not found by hashed token: %v", err)
	}
	if stored.ID != member.ID {
		t.Errorf("looked-up member = %s, want %s", stored.ID, member.ID)
	}
}

func TestInviteMemberDeniedForCollaborateur(t *testing.T) {
	svc, repo, _ := newTestService()
	cab := seedCabinet(t, svc)

	repo.AddMember(&models.CabinetMember{
		ID:        "m-collab",
		CabinetID: cab.ID,
		UserID:    "u-collab",
		Role:      string(RoleCollaborateur),
		Status:    models.MemberStatusActive,
	})

	_, err := svc.InviteMember(cab.ID, "u-collab", models.InviteMemberRequest{
		Email: "x@example.fr",
		Role:  "Stagiaire",
	})
	var permErr *PermissionError
	if !errors.As(err, &permErr) {
		t.Fatalf("error = %v, want PermissionError", err)
	}
	if permErr.Role != RoleCollaborateur {
		t.Errorf("denied role = %q, want Collaborateur", permErr.Role)
	}
}

func TestInviteMemberCannotAssignHigherRole(t *testing.T) {
	svc, repo, _ := newTestService()
	cab := seedCabinet(t, svc)

	repo.AddMember(&models.CabinetMember{
		ID:        "m-assoc",
		CabinetID: cab.ID,
		UserID:    "u-assoc",
		Role:      string(RoleAssocie),
		Status:    models.MemberStatusActive,
	})

	// An Associé may invite, but not hand out Fondateur.
	_, err := svc.InviteMember(cab.ID, "u-assoc", models.InviteMemberRequest{
		Email: "x@example.fr",
		Role:  "Fondateur",
	})
	var permErr *PermissionError
	if !errors.As(err, &permErr) {
		t.Fatalf("error = %v, want PermissionError", err)
	}
}

func TestAcceptInvitationActivatesMembership(t *testing.T) {
	svc, _, dispatcher := newTestService()
	cab := seedCabinet(t, svc)

	if _, err := svc.InviteMember(cab.ID, "u-founder", models.InviteMemberRequest{
		Email: "claire@example.fr",
		Role:  "Collaborateur",
	}); err != nil {
		t.Fatalf("InviteMember: %v", err)
	}
	raw := dispatcher.payloads[0].Token

	member, err := svc.AcceptInvitation(raw, "u-claire")
	if err != nil {
		t.Fatalf("AcceptInvitation: %v", err)
	}
	if member.UserID != "u-claire" || member.Status != models.MemberStatusActive {
		t.Errorf("member = %+v, want active binding to u-claire", member)
	}
	if member.InvitationToken != "" {
		t.Errorf("invitation token should be cleared after acceptance")
	}

	// A second redemption must fail.
	if _, err := svc.AcceptInvitation(raw, "u-other"); !errors.Is(err, ErrInvitationNotFound) {
		t.Errorf("second redemption error = %v, want ErrInvitationNotFound", err)
	}
}

func TestAcceptInvitationUnknownToken(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.AcceptInvitation("nope", "u-x"); !errors.Is(err, ErrInvitationNotFound) {
		t.Errorf("error = %v, want ErrInvitationNotFound", err)
	}
}

func TestRemoveMemberCannotTouchFondateur(t *testing.T) {
	svc, repo, _ := newTestService()
	cab := seedCabinet(t, svc)

	repo.AddMember(&models.CabinetMember{
		ID:        "m-assoc",
		CabinetID: cab.ID,
		UserID:    "u-assoc",
		Role:      string(RoleAssocie),
		Status:    models.MemberStatusActive,
	})
	founder, _ := repo.GetMember(cab.ID, "u-founder")

	err := svc.RemoveMember(cab.ID, "u-assoc", founder.ID)
	var permErr *PermissionError
	if !errors.As(err, &permErr) {
		t.Fatalf("error = %v, want PermissionError", err)
	}
}

func TestChangeMemberRoleByFounder(t *testing.T) {
	svc, repo, _ := newTestService()
	cab := seedCabinet(t, svc)

	repo.AddMember(&models.CabinetMember{
		ID:        "m-stagiaire",
		CabinetID: cab.ID,
		UserID:    "u-stagiaire",
		Role:      string(RoleStagiaire),
		Status:    models.MemberStatusActive,
	})

	if err := svc.ChangeMemberRole(cab.ID, "u-founder", "m-stagiaire", "Collaborateur"); err != nil {
		t.Fatalf("ChangeMemberRole: %v", err)
	}
	updated, _ := repo.GetMemberByID("m-stagiaire")
	if updated.Role != string(RoleCollaborateur) {
		t.Errorf("role = %q, want Collaborateur", updated.Role)
	}
}

func TestActorMustBeActiveMember(t *testing.T) {
	svc, repo, _ := newTestService()
	cab := seedCabinet(t, svc)

	repo.AddMember(&models.CabinetMember{
		ID:        "m-pending",
		CabinetID: cab.ID,
		UserID:    "u-pending",
		Role:      string(RoleAssocie),
		Status:    models.MemberStatusPending,
	})

	_, err := svc.InviteMember(cab.ID, "u-pending", models.InviteMemberRequest{
		Email: "x@example.fr",
		Role:  "Stagiaire",
	})
	if !errors.Is(err, ErrNotAMember) {
		t.Errorf("error = %v, want ErrNotAMember", err)
	}
}

func TestConsumeSignatureCreditExhaustsQuota(t *testing.T) {
	svc, repo, _ := newTestService()
	cab := seedCabinet(t, svc)

	founder, _ := repo.GetMember(cab.ID, "u-founder")
	founder.SignaturesUsed = founder.SignaturesIncluded - 1
	if err := repo.UpdateMember(founder); err != nil {
		t.Fatalf("UpdateMember: %v", err)
	}

	member, err := svc.ConsumeSignatureCredit(cab.ID, "u-founder")
	if err != nil {
		t.Fatalf("ConsumeSignatureCredit: %v", err)
	}
	if member.SignaturesUsed != member.SignaturesIncluded {
		t.Errorf("used = %d, want %d", member.SignaturesUsed, member.SignaturesIncluded)
	}

	if _, err := svc.ConsumeSignatureCredit(cab.ID, "u-founder"); !errors.Is(err, ErrQuotaExhausted) {
		t.Errorf("error = %v, want ErrQuotaExhausted", err)
	}

	remaining, err := svc.RemainingSignatures(cab.ID, "u-founder")
	if err != nil {
		t.Fatalf("RemainingSignatures: %v", err)
	}
	if remaining != 0 {
		t.Errorf("remaining = %d, want 0", remaining)
	}
}

func TestQuotaRollsOverOnNewCycle(t *testing.T) {
	svc, repo, _ := newTestService()
	cab := seedCabinet(t, svc)

	founder, _ := repo.GetMember(cab.ID, "u-founder")
	founder.SignaturesUsed = founder.SignaturesIncluded
	founder.QuotaCycleStart = time.Now().AddDate(0, -2, 0)
	if err := repo.UpdateMember(founder); err != nil {
		t.Fatalf("UpdateMember: %v", err)
	}

	member, err := svc.ConsumeSignatureCredit(cab.ID, "u-founder")
	if err != nil {
		t.Fatalf("ConsumeSignatureCredit after rollover: %v", err)
	}
	if member.SignaturesUsed != 1 {
		t.Errorf("used = %d, want 1 after cycle reset", member.SignaturesUsed)
	}
	if member.SignaturesIncluded != models.SignatureQuotaForPlan(cab.Plan) {
		t.Errorf("included = %d, want plan quota", member.SignaturesIncluded)
	}
}
