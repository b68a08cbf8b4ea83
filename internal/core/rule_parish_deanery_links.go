package core

import (
	"context"
	"fmt"

	"diocese/pkg/domain"
)

// ParishDeaneryLinksRule blocks any state where a parish's deaneryId and its
// deanery's parish list disagree.
func ParishDeaneryLinksRule() domain.Rule {
	return parishDeaneryLinksRule{}
}

type parishDeaneryLinksRule struct{}

func (parishDeaneryLinksRule) Name() string { return "parish_deanery_links" }

func (r parishDeaneryLinksRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}

	listed := make(map[string]map[string]int)
	for _, d := range view.ListDeaneries() {
		counts := make(map[string]int, len(d.Parishes))
		for _, summary := range d.Parishes {
			counts[summary.ID]++
			parish, ok := view.FindParish(summary.ID)
			switch {
			case !ok:
				res.Violations = append(res.Violations, r.violation(domain.EntityDeanery, d.ID,
					fmt.Sprintf("deanery %s lists missing parish %s", d.ID, summary.ID)))
			case parish.DeaneryID != d.ID:
				res.Violations = append(res.Violations, r.violation(domain.EntityDeanery, d.ID,
					fmt.Sprintf("deanery %s lists parish %s which belongs to %q", d.ID, summary.ID, parish.DeaneryID)))
			}
		}
		listed[d.ID] = counts
	}

	for _, p := range view.ListParishes() {
		if p.DeaneryID == "" {
			continue
		}
		counts, ok := listed[p.DeaneryID]
		if !ok {
			res.Violations = append(res.Violations, r.violation(domain.EntityParish, p.ID,
				fmt.Sprintf("parish %s references missing deanery %s", p.ID, p.DeaneryID)))
			continue
		}
		if n := counts[p.ID]; n != 1 {
			res.Violations = append(res.Violations, r.violation(domain.EntityParish, p.ID,
				fmt.Sprintf("parish %s appears %d times in deanery %s", p.ID, n, p.DeaneryID)))
		}
	}
	return res, nil
}

func (r parishDeaneryLinksRule) violation(entity domain.EntityType, id, msg string) domain.Violation {
	return domain.Violation{
		Rule:     r.Name(),
		Severity: domain.SeverityBlock,
		Message:  msg,
		Entity:   entity,
		EntityID: id,
	}
}
