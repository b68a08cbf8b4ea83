package core

import "diocese/pkg/domain"

// synchronize rebuilds every derived copy from its canonical side:
//
//   - parish.deaneryId is canonical for parish membership. deanery.parishes
//     and parish.deaneryName are rebuilt from it.
//   - deanery.deanId is canonical for deanship. The dean's deaneryId, role
//     qualifier and the deanery's deanName follow it.
//   - clergy records are canonical for the summaries parishes embed.
//
// References to deleted clergy are left alone; RepairAll prunes them.
func synchronize(snap *domain.Snapshot) {
	syncParishMembership(snap)
	syncDeans(snap)
	syncClergySummaries(snap)
}

func syncParishMembership(snap *domain.Snapshot) {
	deaneries := make(map[string]int, len(snap.Deaneries))
	for i := range snap.Deaneries {
		deaneries[snap.Deaneries[i].ID] = i
		snap.Deaneries[i].Parishes = make([]domain.ParishSummary, 0)
	}
	for i := range snap.Parishes {
		p := &snap.Parishes[i]
		if p.AssignedClergy == nil {
			p.AssignedClergy = []domain.ClergySummary{}
		}
		if p.DeaneryID == "" {
			p.DeaneryName = ""
			continue
		}
		di, ok := deaneries[p.DeaneryID]
		if !ok {
			p.DeaneryID = ""
			p.DeaneryName = ""
			continue
		}
		d := &snap.Deaneries[di]
		p.DeaneryName = d.Name
		d.Parishes = append(d.Parishes, p.Summary())
	}
}

func syncDeans(snap *domain.Snapshot) {
	deanOf := make(map[string]int)
	for i := range snap.Deaneries {
		d := &snap.Deaneries[i]
		if d.DeanID == "" {
			d.DeanName = ""
			continue
		}
		ci := snap.ClergyIndex(d.DeanID)
		if ci < 0 {
			continue
		}
		if _, taken := deanOf[d.DeanID]; taken {
			d.DeanID = ""
			d.DeanName = ""
			continue
		}
		deanOf[d.DeanID] = i
		d.DeanName = snap.Clergy[ci].DisplayName()
	}

	for i := range snap.Clergy {
		c := &snap.Clergy[i]
		if di, ok := deanOf[c.ID]; ok {
			d := snap.Deaneries[di]
			c.DeaneryID = d.ID
			c.DeaneryName = d.Name
			c.Role = domain.WithDeanQualifier(c.Role)
			continue
		}
		if domain.HasDeanQualifier(c.Role) {
			c.Role = domain.WithoutDeanQualifier(c.Role)
			c.DeaneryID = ""
			c.DeaneryName = ""
			continue
		}
		if c.DeaneryID == "" {
			c.DeaneryName = ""
			continue
		}
		if d, ok := snap.FindDeanery(c.DeaneryID); ok {
			c.DeaneryName = d.Name
		} else {
			c.DeaneryID = ""
			c.DeaneryName = ""
		}
	}
}

func syncClergySummaries(snap *domain.Snapshot) {
	byID := make(map[string]int, len(snap.Clergy))
	for i := range snap.Clergy {
		byID[snap.Clergy[i].ID] = i
	}
	for i := range snap.Parishes {
		for j := range snap.Parishes[i].AssignedClergy {
			summary := &snap.Parishes[i].AssignedClergy[j]
			if ci, ok := byID[summary.ID]; ok {
				*summary = snap.Clergy[ci].Summary()
			}
		}
	}
}

// isDean reports whether clergyID heads any deanery.
func isDean(snap *domain.Snapshot, clergyID string) bool {
	for _, d := range snap.Deaneries {
		if d.DeanID == clergyID {
			return true
		}
	}
	return false
}

// staleClergyReferences counts parish summaries, deanships and account links
// that still name clergyID.
func staleClergyReferences(snap *domain.Snapshot, clergyID string) int {
	n := 0
	for _, p := range snap.Parishes {
		for _, summary := range p.AssignedClergy {
			if summary.ID == clergyID {
				n++
			}
		}
	}
	for _, d := range snap.Deaneries {
		if d.DeanID == clergyID {
			n++
		}
	}
	for _, u := range snap.Users {
		if u.ClergyID == clergyID {
			n++
		}
	}
	return n
}
