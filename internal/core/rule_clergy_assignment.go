package core

import (
	"context"
	"fmt"

	"diocese/pkg/domain"
)

// ClergyAssignmentRule warns when a clergy member is listed by parishes but
// their currentAssignment names none of them. Parish lists are the
// authoritative side; RepairAll rewrites currentAssignment to match.
func ClergyAssignmentRule() domain.Rule {
	return clergyAssignmentRule{}
}

type clergyAssignmentRule struct{}

func (clergyAssignmentRule) Name() string { return "clergy_assignment" }

func (r clergyAssignmentRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}

	listing := make(map[string][]string)
	for _, p := range view.ListParishes() {
		for _, summary := range p.AssignedClergy {
			listing[summary.ID] = append(listing[summary.ID], p.Name)
		}
	}

	for _, c := range view.ListClergy() {
		names, ok := listing[c.ID]
		if !ok {
			continue
		}
		matched := false
		for _, name := range names {
			if name == c.CurrentAssignment {
				matched = true
				break
			}
		}
		if !matched {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     r.Name(),
				Severity: domain.SeverityWarn,
				Message:  fmt.Sprintf("clergy %s is listed by %v but assigned to %q", c.ID, names, c.CurrentAssignment),
				Entity:   domain.EntityClergy,
				EntityID: c.ID,
			})
		}
	}
	return res, nil
}
