package core

import (
	"context"
	"fmt"

	"diocese/pkg/domain"
)

// DeanAssignmentRule blocks any state where a deanery's dean and that clergy
// member's deaneryId and role qualifier disagree, or where one clergy member
// heads two deaneries.
func DeanAssignmentRule() domain.Rule {
	return deanAssignmentRule{}
}

type deanAssignmentRule struct{}

func (deanAssignmentRule) Name() string { return "dean_assignment" }

func (r deanAssignmentRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}

	headed := make(map[string]string)
	for _, d := range view.ListDeaneries() {
		if d.DeanID == "" {
			continue
		}
		dean, ok := view.FindClergy(d.DeanID)
		if !ok {
			continue
		}
		if other, dup := headed[d.DeanID]; dup {
			res.Violations = append(res.Violations, r.violation(domain.EntityClergy, d.DeanID,
				fmt.Sprintf("clergy %s is dean of both %s and %s", d.DeanID, other, d.ID)))
			continue
		}
		headed[d.DeanID] = d.ID
		if dean.DeaneryID != d.ID {
			res.Violations = append(res.Violations, r.violation(domain.EntityClergy, dean.ID,
				fmt.Sprintf("dean %s of deanery %s has deaneryId %q", dean.ID, d.ID, dean.DeaneryID)))
		}
		if !domain.HasDeanQualifier(dean.Role) {
			res.Violations = append(res.Violations, r.violation(domain.EntityClergy, dean.ID,
				fmt.Sprintf("dean %s of deanery %s lacks the %s qualifier", dean.ID, d.ID, domain.DeanQualifier)))
		}
	}

	for _, c := range view.ListClergy() {
		if !domain.HasDeanQualifier(c.Role) {
			continue
		}
		if _, ok := headed[c.ID]; !ok {
			res.Violations = append(res.Violations, r.violation(domain.EntityClergy, c.ID,
				fmt.Sprintf("clergy %s carries the %s qualifier but heads no deanery", c.ID, domain.DeanQualifier)))
		}
	}
	return res, nil
}

func (r deanAssignmentRule) violation(entity domain.EntityType, id, msg string) domain.Violation {
	return domain.Violation{
		Rule:     r.Name(),
		Severity: domain.SeverityBlock,
		Message:  msg,
		Entity:   entity,
		EntityID: id,
	}
}
