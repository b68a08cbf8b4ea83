package core

import (
	"context"
	"fmt"

	"diocese/pkg/domain"
)

// DanglingReferencesRule warns about references to clergy that no longer
// exist. DeleteClergy leaves these behind; RepairAll prunes them.
func DanglingReferencesRule() domain.Rule {
	return danglingReferencesRule{}
}

type danglingReferencesRule struct{}

func (danglingReferencesRule) Name() string { return "dangling_references" }

func (r danglingReferencesRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	exists := func(id string) bool {
		_, ok := view.FindClergy(id)
		return ok
	}

	for _, p := range view.ListParishes() {
		for _, summary := range p.AssignedClergy {
			if !exists(summary.ID) {
				res.Violations = append(res.Violations, r.violation(domain.EntityParish, p.ID,
					fmt.Sprintf("parish %s lists missing clergy %s", p.ID, summary.ID)))
			}
		}
	}
	for _, d := range view.ListDeaneries() {
		if d.DeanID != "" && !exists(d.DeanID) {
			res.Violations = append(res.Violations, r.violation(domain.EntityDeanery, d.ID,
				fmt.Sprintf("deanery %s has missing dean %s", d.ID, d.DeanID)))
		}
	}
	for _, u := range view.ListUserAccounts() {
		if u.ClergyID != "" && !exists(u.ClergyID) {
			res.Violations = append(res.Violations, r.violation(domain.EntityUserAccount, u.ID,
				fmt.Sprintf("account %s links missing clergy %s", u.ID, u.ClergyID)))
		}
	}
	return res, nil
}

func (r danglingReferencesRule) violation(entity domain.EntityType, id, msg string) domain.Violation {
	return domain.Violation{
		Rule:     r.Name(),
		Severity: domain.SeverityWarn,
		Message:  msg,
		Entity:   entity,
		EntityID: id,
	}
}
