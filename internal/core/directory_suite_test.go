package core

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"diocese/internal/platform/secrets"
	"diocese/pkg/domain"
)

type DirectorySuite struct {
	suite.Suite
	ctx   context.Context
	svc   *Service
	store *countingStore
}

func TestDirectorySuite(t *testing.T) {
	suite.Run(t, new(DirectorySuite))
}

func (s *DirectorySuite) SetupTest() {
	s.ctx = context.Background()
	s.svc, s.store = newTestService(s.T())
}

func (s *DirectorySuite) clergy(name string) domain.Clergy {
	c, err := s.svc.SaveClergy(s.ctx, domain.Clergy{Name: name, Type: domain.ClergyTypePriest, Role: "Pastor"})
	s.Require().NoError(err)
	return c
}

func (s *DirectorySuite) parish(name, deaneryID string, assigned ...string) domain.Parish {
	p, err := s.svc.SaveParish(s.ctx, domain.Parish{Name: name, DeaneryID: deaneryID, Address: validAddress()}, assigned)
	s.Require().NoError(err)
	return p
}

func (s *DirectorySuite) deanery(name string, parishes []string, deanID string) domain.Deanery {
	d, err := s.svc.SaveDeanery(s.ctx, domain.Deanery{Name: name}, parishes, deanID)
	s.Require().NoError(err)
	return d
}

func (s *DirectorySuite) resaveDeanery(d domain.Deanery, parishes []string, deanID string) domain.Deanery {
	d, err := s.svc.SaveDeanery(s.ctx, d, parishes, deanID)
	s.Require().NoError(err)
	return d
}

func (s *DirectorySuite) getClergy(id string) domain.Clergy {
	c, ok, err := s.svc.GetClergy(s.ctx, id)
	s.Require().NoError(err)
	s.Require().True(ok, "clergy %s missing", id)
	return c
}

func (s *DirectorySuite) getParish(id string) domain.Parish {
	p, ok, err := s.svc.GetParish(s.ctx, id)
	s.Require().NoError(err)
	s.Require().True(ok, "parish %s missing", id)
	return p
}

func (s *DirectorySuite) getDeanery(id string) domain.Deanery {
	d, ok, err := s.svc.GetDeanery(s.ctx, id)
	s.Require().NoError(err)
	s.Require().True(ok, "deanery %s missing", id)
	return d
}

func (s *DirectorySuite) requireClean() {
	res, err := s.svc.Check(s.ctx)
	s.Require().NoError(err)
	s.Require().Empty(res.Violations)
}

func (s *DirectorySuite) TestSaveDeaneryAppliesParishSelection() {
	a := s.parish("St. Ann", "")
	b := s.parish("St. Bede", "")
	c := s.parish("St. Clare", "")
	north := s.deanery("North", []string{a.ID, b.ID}, "")

	north = s.resaveDeanery(north, []string{b.ID, c.ID, "ghost"}, "")

	s.Empty(s.getParish(a.ID).DeaneryID, "deselected parish keeps a deanery reference")
	s.Equal(north.ID, s.getParish(b.ID).DeaneryID)
	s.Equal(north.ID, s.getParish(c.ID).DeaneryID)
	s.Equal("North", s.getParish(c.ID).DeaneryName)
	s.Equal([]string{b.ID, c.ID}, parishIDs(s.getDeanery(north.ID).Parishes))
	s.requireClean()
}

func (s *DirectorySuite) TestParishMovesBetweenDeaneries() {
	p := s.parish("St. Ann", "")
	north := s.deanery("North", []string{p.ID}, "")
	south := s.deanery("South", []string{p.ID}, "")

	s.Equal(south.ID, s.getParish(p.ID).DeaneryID)
	s.Empty(s.getDeanery(north.ID).Parishes)
	s.Equal([]string{p.ID}, parishIDs(s.getDeanery(south.ID).Parishes))
	s.requireClean()
}

func (s *DirectorySuite) TestCreateDeaneryThenAddParish() {
	north := s.deanery("North", nil, "")
	stMary := s.parish("St. Mary", "")

	north = s.resaveDeanery(north, []string{stMary.ID}, "")

	s.Equal(north.ID, s.getParish(stMary.ID).DeaneryID)
	s.Equal([]domain.ParishSummary{{ID: stMary.ID, Name: "St. Mary", Status: domain.StatusActive}}, s.getDeanery(north.ID).Parishes)
}

func (s *DirectorySuite) TestDeanReassignment() {
	smith := s.clergy("Fr. Smith")
	jones := s.clergy("Fr. Jones")
	north := s.deanery("North", nil, smith.ID)

	s.assertSingleDean(north.ID, smith.ID)
	s.Equal("Pastor, Dean", s.getClergy(smith.ID).Role)

	north = s.resaveDeanery(north, nil, jones.ID)

	s.assertSingleDean(north.ID, jones.ID)
	formerDean := s.getClergy(smith.ID)
	s.False(domain.HasDeanQualifier(formerDean.Role))
	s.Equal("Pastor", formerDean.Role)
	s.NotEqual(north.ID, formerDean.DeaneryID)
	s.True(domain.HasDeanQualifier(s.getClergy(jones.ID).Role))
	s.Equal(jones.ID, s.getDeanery(north.ID).DeanID)
	s.Equal("Fr. Jones", s.getDeanery(north.ID).DeanName)
	s.requireClean()
}

func (s *DirectorySuite) assertSingleDean(deaneryID, clergyID string) {
	all, err := s.svc.ListClergy(s.ctx)
	s.Require().NoError(err)
	var deans []string
	for _, c := range all {
		if c.DeaneryID == deaneryID && domain.HasDeanQualifier(c.Role) {
			deans = append(deans, c.ID)
		}
	}
	s.Equal([]string{clergyID}, deans)
}

func (s *DirectorySuite) TestDeanHeadsOneDeanery() {
	smith := s.clergy("Fr. Smith")
	north := s.deanery("North", nil, smith.ID)
	south := s.deanery("South", nil, smith.ID)

	s.Empty(s.getDeanery(north.ID).DeanID)
	s.Equal(smith.ID, s.getDeanery(south.ID).DeanID)
	s.Equal(south.ID, s.getClergy(smith.ID).DeaneryID)
	s.requireClean()
}

func (s *DirectorySuite) TestUnknownDeanIsFiltered() {
	north := s.deanery("North", nil, "ghost")
	s.Empty(north.DeanID)
	s.requireClean()
}

func (s *DirectorySuite) TestClearingDeanDemotes() {
	smith := s.clergy("Fr. Smith")
	north := s.deanery("North", nil, smith.ID)
	s.resaveDeanery(north, nil, "")

	demoted := s.getClergy(smith.ID)
	s.Equal("Pastor", demoted.Role)
	s.Empty(demoted.DeaneryID)
}

func (s *DirectorySuite) TestDeleteDeaneryIsIdempotent() {
	smith := s.clergy("Fr. Smith")
	p := s.parish("St. Ann", "")
	north := s.deanery("North", []string{p.ID}, smith.ID)

	s.Require().NoError(s.svc.DeleteDeanery(s.ctx, north.ID))
	once, err := s.svc.Snapshot(s.ctx)
	s.Require().NoError(err)
	writes := len(s.store.Writes())

	s.Require().NoError(s.svc.DeleteDeanery(s.ctx, north.ID))
	twice, err := s.svc.Snapshot(s.ctx)
	s.Require().NoError(err)

	s.Equal(once, twice)
	s.Len(s.store.Writes(), writes, "second delete wrote to the store")
	s.Empty(s.getParish(p.ID).DeaneryID)
	s.Empty(s.getClergy(smith.ID).DeaneryID)
	s.False(domain.HasDeanQualifier(s.getClergy(smith.ID).Role))
	s.requireClean()
}

func (s *DirectorySuite) TestSaveParishRoundTripResolvesExistingClergy() {
	a := s.clergy("Fr. A")
	b := s.clergy("Fr. B")

	saved := s.parish("St. Ann", "", a.ID, "ghost", b.ID, a.ID)

	parishes, err := s.svc.ListParishes(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(parishes, 1)
	s.Equal([]string{a.ID, b.ID}, clergyIDs(parishes[0].AssignedClergy))
	s.Equal(saved.AssignedClergy, parishes[0].AssignedClergy)
	s.Equal("St. Ann", s.getClergy(a.ID).CurrentAssignment)
	s.Equal("St. Ann", s.getClergy(b.ID).CurrentAssignment)
}

func (s *DirectorySuite) TestSaveParishAssignsDeaneryToClergyButNotDean() {
	dean := s.clergy("Fr. Dean")
	vicar := s.clergy("Fr. Vicar")
	north := s.deanery("North", nil, dean.ID)
	south := s.deanery("South", nil, "")

	s.parish("St. Ann", south.ID, dean.ID, vicar.ID)

	s.Equal(south.ID, s.getClergy(vicar.ID).DeaneryID)
	s.Equal(north.ID, s.getClergy(dean.ID).DeaneryID, "dean lost their deanery")
	s.requireClean()
}

func (s *DirectorySuite) TestSaveParishReleasesDroppedClergy() {
	a := s.clergy("Fr. A")
	b := s.clergy("Fr. B")
	p := s.parish("St. Ann", "", a.ID, b.ID)

	_, err := s.svc.SaveParish(s.ctx, p, []string{b.ID})
	s.Require().NoError(err)

	s.Empty(s.getClergy(a.ID).CurrentAssignment)
	s.Equal("St. Ann", s.getClergy(b.ID).CurrentAssignment)
}

func (s *DirectorySuite) TestSaveParishRejectsShortZipWithoutWriting() {
	before := len(s.store.Writes())
	addr := validAddress()
	addr.Zip = "1234"

	_, err := s.svc.SaveParish(s.ctx, domain.Parish{Name: "St. Ann", Address: addr}, nil)

	var verr *domain.ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Equal("address.zip", verr.Field)
	s.Len(s.store.Writes(), before)
}

func (s *DirectorySuite) TestSaveParishReportsEveryInvalidField() {
	_, err := s.svc.SaveParish(s.ctx, domain.Parish{
		Address: domain.Address{State: "ZZ", Zip: "abc"},
		Email:   "nope",
		Phone:   "555",
	}, nil)
	s.Require().Error(err)
	for _, field := range []string{"name", "address.street", "address.city", "address.state", "address.zip", "email", "phone"} {
		s.Contains(err.Error(), "invalid "+field)
	}
	s.Empty(s.store.Writes())
}

func (s *DirectorySuite) TestSaveParishUnknownDeanery() {
	before := len(s.store.Writes())
	_, err := s.svc.SaveParish(s.ctx, domain.Parish{Name: "St. Ann", DeaneryID: "ghost", Address: validAddress()}, nil)

	var nf *domain.ReferenceNotFoundError
	s.Require().ErrorAs(err, &nf)
	s.Equal(domain.EntityDeanery, nf.Entity)
	s.Len(s.store.Writes(), before)
}

func (s *DirectorySuite) TestDeleteParishCascades() {
	a := s.clergy("Fr. A")
	north := s.deanery("North", nil, "")
	p := s.parish("St. Ann", north.ID, a.ID)
	s.Require().Equal(north.ID, s.getClergy(a.ID).DeaneryID)
	s.Require().Equal([]string{p.ID}, parishIDs(s.getDeanery(north.ID).Parishes))

	s.Require().NoError(s.svc.DeleteParish(s.ctx, p.ID))
	s.Require().NoError(s.svc.DeleteParish(s.ctx, p.ID))

	s.Empty(s.getDeanery(north.ID).Parishes)
	released := s.getClergy(a.ID)
	s.Empty(released.CurrentAssignment)
	s.Empty(released.DeaneryID)
	s.requireClean()
}

func (s *DirectorySuite) TestSaveClergyRefreshesSummaries() {
	smith := s.clergy("Fr. Smith")
	p := s.parish("St. Ann", "", smith.ID)
	north := s.deanery("North", nil, smith.ID)

	smith.Name = "Msgr. Smith"
	smith.CurrentAssignment = "Somewhere Else"
	_, err := s.svc.SaveClergy(s.ctx, smith)
	s.Require().NoError(err)

	s.Equal("Msgr. Smith", s.getParish(p.ID).AssignedClergy[0].Name)
	s.Equal("Pastor, Dean", s.getParish(p.ID).AssignedClergy[0].Role)
	s.Equal("Msgr. Smith", s.getDeanery(north.ID).DeanName)
	s.Equal([]string{smith.ID}, clergyIDs(s.getParish(p.ID).AssignedClergy), "clergy form must not move parish lists")
}

func (s *DirectorySuite) TestSaveClergyDefaultsAndValidation() {
	c, err := s.svc.SaveClergy(s.ctx, domain.Clergy{FirstName: "John", LastName: "Doe", Type: "deacon"})
	s.Require().NoError(err)
	s.Equal("John Doe", c.Name)
	s.Equal(domain.ClergyTypeDeacon, c.Type)
	s.Equal(domain.ClergyStatusActive, c.Status)
	s.Equal(fixedNow, c.CreatedAt)

	_, err = s.svc.SaveClergy(s.ctx, domain.Clergy{Name: "Bad", Type: "Cardinal", Birthday: "05/01/1970"})
	s.Require().True(domain.IsValidation(err))
	s.Contains(err.Error(), "invalid type")
	s.Contains(err.Error(), "invalid birthday")
}

func (s *DirectorySuite) TestSaveClergyCannotSelfAppointDean() {
	c, err := s.svc.SaveClergy(s.ctx, domain.Clergy{Name: "Fr. Ambitious", Role: "Pastor, Dean"})
	s.Require().NoError(err)
	s.Equal("Pastor", c.Role)
	s.requireClean()
}

func (s *DirectorySuite) TestUpdateClergy() {
	c := s.clergy("Fr. A")
	updated, err := s.svc.UpdateClergy(s.ctx, c.ID, func(c *domain.Clergy) error {
		c.Phone = "(555) 123-4567"
		c.ID = "hijack"
		return nil
	})
	s.Require().NoError(err)
	s.Equal(c.ID, updated.ID)
	s.Equal("(555) 123-4567", updated.Phone)

	_, err = s.svc.UpdateClergy(s.ctx, "ghost", func(*domain.Clergy) error { return nil })
	s.True(domain.IsNotFound(err))

	boom := errors.New("boom")
	_, err = s.svc.UpdateClergy(s.ctx, c.ID, func(*domain.Clergy) error { return boom })
	s.ErrorIs(err, boom)
}

func (s *DirectorySuite) TestDeleteClergyLeavesReferencesUntilRepair() {
	smith := s.clergy("Fr. Smith")
	p := s.parish("St. Ann", "", smith.ID)
	north := s.deanery("North", []string{p.ID}, smith.ID)

	s.Require().NoError(s.svc.DeleteClergy(s.ctx, smith.ID))

	s.Equal([]string{smith.ID}, clergyIDs(s.getParish(p.ID).AssignedClergy))
	s.Equal(smith.ID, s.getDeanery(north.ID).DeanID)
	res, err := s.svc.Check(s.ctx)
	s.Require().NoError(err)
	s.False(res.HasBlocking())
	s.Equal(2, res.Count(domain.SeverityWarn))

	report, err := s.svc.RepairAll(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, report.PrunedClergySummaries)
	s.Equal(1, report.ClearedDeans)
	s.Empty(s.getParish(p.ID).AssignedClergy)
	s.Empty(s.getDeanery(north.ID).DeanID)
	s.requireClean()
}

func (s *DirectorySuite) TestCreateUserAccountCreatesClergyStub() {
	u, err := s.svc.CreateUserAccount(s.ctx, NewUserAccount{
		Email:    "john.smith@example.org",
		Password: "correct horse",
	})
	s.Require().NoError(err)
	s.Equal(domain.RoleUser, u.Role)
	s.Equal(domain.UserStatusActive, u.Status)
	s.Equal(u.ID, u.ClergyID)
	s.Equal("John Smith", u.Name)

	stub := s.getClergy(u.ClergyID)
	s.Equal("John", stub.FirstName)
	s.Equal("Smith", stub.LastName)
	s.Equal(domain.ClergyTypePriest, stub.Type)
	s.Equal("john.smith@example.org", stub.Email)
}

func (s *DirectorySuite) TestCreateUserAccountNeverOverwritesClergy() {
	existing := s.clergy("Fr. Existing")
	u, err := s.svc.CreateUserAccount(s.ctx, NewUserAccount{
		Email:    "someone@example.org",
		Password: "password1",
		ClergyID: existing.ID,
	})
	s.Require().NoError(err)
	s.Equal(existing.ID, u.ClergyID)
	s.Equal(existing, s.getClergy(existing.ID))
}

func (s *DirectorySuite) TestCreateUserAccountStaffHasNoStub() {
	u, err := s.svc.CreateUserAccount(s.ctx, NewUserAccount{Email: "staff@example.org", Password: "password1", Role: domain.RoleStaff})
	s.Require().NoError(err)
	s.Empty(u.ClergyID)
	all, err := s.svc.ListClergy(s.ctx)
	s.Require().NoError(err)
	s.Empty(all)
}

func (s *DirectorySuite) TestCreateUserAccountValidation() {
	_, err := s.svc.CreateUserAccount(s.ctx, NewUserAccount{Email: "a@example.org", Password: "password1"})
	s.Require().NoError(err)
	before := len(s.store.Writes())

	cases := []struct {
		name  string
		input NewUserAccount
		field string
	}{
		{"duplicate email", NewUserAccount{Email: "A@Example.org", Password: "password1"}, "invalid email"},
		{"short password", NewUserAccount{Email: "b@example.org", Password: "short"}, "invalid password"},
		{"missing email", NewUserAccount{Password: "password1"}, "invalid email"},
		{"bad role", NewUserAccount{Email: "c@example.org", Password: "password1", Role: "root"}, "invalid role"},
		{"bad status", NewUserAccount{Email: "d@example.org", Password: "password1", Status: "banned"}, "invalid status"},
	}
	for _, tc := range cases {
		_, err := s.svc.CreateUserAccount(s.ctx, tc.input)
		s.Require().Error(err, tc.name)
		s.True(domain.IsValidation(err), tc.name)
		s.Contains(err.Error(), tc.field, tc.name)
	}
	s.Len(s.store.Writes(), before)
}

func (s *DirectorySuite) TestCredentialsAreHashed() {
	u, err := s.svc.CreateUserAccount(s.ctx, NewUserAccount{Email: "Pat@Example.org", Password: "password1"})
	s.Require().NoError(err)

	raw, ok, err := s.store.Get(s.ctx, domain.CollectionCredentials)
	s.Require().NoError(err)
	s.Require().True(ok)
	var creds []domain.LoginCredential
	s.Require().NoError(json.Unmarshal(raw, &creds))
	s.Require().Len(creds, 1)
	s.Equal(u.ID, creds[0].UserID)
	s.Equal("pat@example.org", creds[0].Email)
	s.NotContains(string(raw), "password1")
	s.NoError(secrets.Verify("password1", creds[0].PasswordHash))

	snap, err := s.svc.Snapshot(s.ctx)
	s.Require().NoError(err)
	s.Nil(snap.Credentials)
}

func (s *DirectorySuite) TestDeleteUserAccountKeepsClergy() {
	u, err := s.svc.CreateUserAccount(s.ctx, NewUserAccount{Email: "jane.doe@example.org", Password: "password1"})
	s.Require().NoError(err)
	clergyBefore := s.getClergy(u.ClergyID)

	s.Require().NoError(s.svc.DeleteUserAccount(s.ctx, u.ID))
	s.Require().NoError(s.svc.DeleteUserAccount(s.ctx, u.ID))

	s.Equal(clergyBefore, s.getClergy(u.ClergyID))
	users, err := s.svc.ListUserAccounts(s.ctx)
	s.Require().NoError(err)
	s.Empty(users)
	raw, _, err := s.store.Get(s.ctx, domain.CollectionCredentials)
	s.Require().NoError(err)
	s.JSONEq(`[]`, string(raw))
}

func (s *DirectorySuite) TestUpdateUserAccount() {
	a, err := s.svc.CreateUserAccount(s.ctx, NewUserAccount{Email: "a@example.org", Password: "password1", Role: domain.RoleStaff})
	s.Require().NoError(err)
	_, err = s.svc.CreateUserAccount(s.ctx, NewUserAccount{Email: "b@example.org", Password: "password1", Role: domain.RoleStaff})
	s.Require().NoError(err)

	updated, err := s.svc.UpdateUserAccount(s.ctx, a.ID, func(u *domain.UserAccount) error {
		u.Email = "new@example.org"
		u.Role = domain.RoleAdmin
		u.Status = domain.UserStatusInactive
		return nil
	})
	s.Require().NoError(err)
	s.Equal(domain.RoleAdmin, updated.Role)
	s.True(a.CreatedAt.Equal(updated.CreatedAt))

	raw, _, err := s.store.Get(s.ctx, domain.CollectionCredentials)
	s.Require().NoError(err)
	s.Contains(string(raw), "new@example.org")

	_, err = s.svc.UpdateUserAccount(s.ctx, a.ID, func(u *domain.UserAccount) error {
		u.Email = "B@example.org"
		return nil
	})
	s.True(domain.IsValidation(err))

	_, err = s.svc.UpdateUserAccount(s.ctx, "ghost", func(*domain.UserAccount) error { return nil })
	s.True(domain.IsNotFound(err))
}

func (s *DirectorySuite) TestRepairAllReconcilesDrift() {
	s.store.putJSON(s.T(), domain.CollectionClergy, []map[string]any{
		{"id": "c1", "name": "Fr. A", "type": "Priest", "status": "Active", "role": "Pastor, Dean", "deaneryId": "d1"},
		{"id": "c2", "name": "Fr. B", "type": "Priest", "status": "Active", "currentAssignment": "Elsewhere"},
	})
	s.store.putJSON(s.T(), domain.CollectionDeaneries, []map[string]any{
		{"id": "d1", "name": "North", "status": "Active", "deanId": "missing", "parishes": []map[string]any{{"id": "ghost", "name": "Ghost"}}},
	})
	s.store.putJSON(s.T(), domain.CollectionParishes, []map[string]any{
		{"id": "p1", "name": "St. Ann", "status": "Active", "deaneryId": "d1", "address": validAddress(),
			"assignedClergy": []map[string]any{{"id": "c2", "name": "stale"}, {"id": "missing", "name": "Gone"}}},
	})

	res, err := s.svc.Check(s.ctx)
	s.Require().NoError(err)
	s.True(res.HasBlocking())
	s.Empty(s.store.Writes(), "check must not write")

	report, err := s.svc.RepairAll(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, report.PrunedClergySummaries)
	s.Equal(1, report.ClearedDeans)
	s.Equal(1, report.ReassignedClergy)
	s.Equal([]string{domain.CollectionParishes, domain.CollectionDeaneries, domain.CollectionClergy}, report.Written)
	s.Empty(report.RemainingViolations.Violations)

	s.Equal([]string{"p1"}, parishIDs(s.getDeanery("d1").Parishes))
	s.Equal("Fr. B", s.getParish("p1").AssignedClergy[0].Name)
	b := s.getClergy("c2")
	s.Equal("St. Ann", b.CurrentAssignment)
	s.Equal("d1", b.DeaneryID)
	a := s.getClergy("c1")
	s.Equal("Pastor", a.Role)
	s.Empty(a.DeaneryID)
	s.requireClean()

	again, err := s.svc.RepairAll(s.ctx)
	s.Require().NoError(err)
	s.Empty(again.Written)
}

func (s *DirectorySuite) TestEmptyStoreReadsAsEmptyCollections() {
	snap, err := s.svc.Snapshot(s.ctx)
	s.Require().NoError(err)
	s.Empty(snap.Clergy)
	s.Empty(snap.Parishes)

	report, err := s.svc.RepairAll(s.ctx)
	s.Require().NoError(err)
	s.Empty(report.Written)
	s.Empty(s.store.Keys())
}

func (s *DirectorySuite) TestWritesOnlyChangedCollectionsInOrder() {
	a := s.clergy("Fr. A")
	s.Equal([]string{domain.CollectionClergy}, s.store.Writes())

	s.parish("St. Ann", "", a.ID)
	s.Equal([]string{domain.CollectionClergy, domain.CollectionParishes, domain.CollectionClergy}, s.store.Writes())
}

func (s *DirectorySuite) TestClergyRolesAndSettings() {
	roles, err := s.svc.ClergyRoles(s.ctx)
	s.Require().NoError(err)
	s.Equal(DefaultClergyRoles, roles)

	saved, err := s.svc.SaveClergyRoles(s.ctx, []string{" Pastor ", "pastor", "", "Chaplain"})
	s.Require().NoError(err)
	s.Equal([]string{"Pastor", "Chaplain"}, saved)
	roles, err = s.svc.ClergyRoles(s.ctx)
	s.Require().NoError(err)
	s.Equal(saved, roles)

	settings, err := s.svc.Settings(s.ctx)
	s.Require().NoError(err)
	s.Empty(settings)
	s.Require().NoError(s.svc.SaveSettings(s.ctx, map[string]any{"dioceseName": "Springfield"}))
	settings, err = s.svc.Settings(s.ctx)
	s.Require().NoError(err)
	s.Equal("Springfield", settings["dioceseName"])
}
