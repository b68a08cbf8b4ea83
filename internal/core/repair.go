package core

import (
	"context"
	"fmt"

	"diocese/internal/blob"
	"diocese/pkg/domain"
)

// RepairReport summarizes one RepairAll pass.
type RepairReport struct {
	// Written lists the collections that were rewritten, in write order.
	Written               []string      `json:"written" yaml:"written"`
	PrunedClergySummaries int           `json:"prunedClergySummaries" yaml:"prunedClergySummaries"`
	ClearedDeans          int           `json:"clearedDeans" yaml:"clearedDeans"`
	ReassignedClergy      int           `json:"reassignedClergy" yaml:"reassignedClergy"`
	PrunedProfileImages   int           `json:"prunedProfileImages" yaml:"prunedProfileImages"`
	RemainingViolations   domain.Result `json:"remaining" yaml:"remaining"`
}

// RepairAll reconciles every collection from its canonical side. Beyond the
// synchronization every mutation runs, it prunes references to deleted
// clergy, rewrites currentAssignment to a parish that actually lists the
// clergy member, and deletes portraits no clergy record points at. The
// report carries the violations left after the pass.
func (s *Service) RepairAll(ctx context.Context) (RepairReport, error) {
	var report RepairReport
	err := s.run(ctx, opRepairAll, func(ctx context.Context) (string, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		st, err := s.load(ctx)
		if err != nil {
			return "", err
		}
		snap := &st.snap
		report.PrunedClergySummaries = pruneClergySummaries(snap)
		report.ClearedDeans = clearMissingDeans(snap)
		synchronize(snap)
		report.ReassignedClergy = reconcileAssignments(snap)
		synchronize(snap)

		res, err := s.engine.Evaluate(ctx, snap, nil)
		if err != nil {
			return "", err
		}
		report.RemainingViolations = res
		if res.HasBlocking() {
			return "", domain.RuleViolationError{Result: res}
		}
		report.Written, err = s.commit(ctx, st)
		if err != nil {
			return "", err
		}

		if s.images != nil {
			n, err := s.pruneProfileImages(ctx, snap)
			if err != nil {
				return "", err
			}
			report.PrunedProfileImages = n
		}
		s.logger.Info("repair complete",
			"written", report.Written,
			"pruned_summaries", report.PrunedClergySummaries,
			"cleared_deans", report.ClearedDeans,
			"reassigned", report.ReassignedClergy,
			"pruned_images", report.PrunedProfileImages,
			"warnings", res.Count(domain.SeverityWarn))
		return "", nil
	})
	return report, err
}

// pruneClergySummaries drops parish summaries of missing clergy and
// duplicate entries.
func pruneClergySummaries(snap *domain.Snapshot) int {
	pruned := 0
	for i := range snap.Parishes {
		p := &snap.Parishes[i]
		seen := make(map[string]struct{}, len(p.AssignedClergy))
		kept := make([]domain.ClergySummary, 0, len(p.AssignedClergy))
		for _, summary := range p.AssignedClergy {
			_, dup := seen[summary.ID]
			if dup || snap.ClergyIndex(summary.ID) < 0 {
				pruned++
				continue
			}
			seen[summary.ID] = struct{}{}
			kept = append(kept, summary)
		}
		p.AssignedClergy = kept
	}
	return pruned
}

func clearMissingDeans(snap *domain.Snapshot) int {
	cleared := 0
	for i := range snap.Deaneries {
		d := &snap.Deaneries[i]
		if d.DeanID != "" && snap.ClergyIndex(d.DeanID) < 0 {
			d.DeanID = ""
			d.DeanName = ""
			cleared++
		}
	}
	return cleared
}

// reconcileAssignments makes currentAssignment name a parish listing the
// clergy member. When several parishes list them the last one in stored
// order wins. Clergy listed nowhere keep their free-text assignment.
func reconcileAssignments(snap *domain.Snapshot) int {
	listing := make(map[string][]domain.Parish)
	for _, p := range snap.Parishes {
		for _, summary := range p.AssignedClergy {
			listing[summary.ID] = append(listing[summary.ID], p)
		}
	}
	changed := 0
	for i := range snap.Clergy {
		c := &snap.Clergy[i]
		parishes, ok := listing[c.ID]
		if !ok {
			continue
		}
		matched := false
		for _, p := range parishes {
			if p.Name == c.CurrentAssignment {
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		last := parishes[len(parishes)-1]
		c.CurrentAssignment = last.Name
		if !isDean(snap, c.ID) {
			c.DeaneryID = last.DeaneryID
		}
		changed++
	}
	return changed
}

// pruneProfileImages deletes stored portraits that no clergy record
// references.
func (s *Service) pruneProfileImages(ctx context.Context, snap *domain.Snapshot) (int, error) {
	referenced := make(map[string]struct{}, len(snap.Clergy))
	for _, c := range snap.Clergy {
		if c.ProfileImage != "" {
			referenced[c.ProfileImage] = struct{}{}
		}
	}
	infos, err := s.images.List(ctx, blob.ProfileImagePrefix)
	if err != nil {
		return 0, fmt.Errorf("list profile images: %w", err)
	}
	pruned := 0
	for _, info := range infos {
		if _, ok := referenced[info.Key]; ok {
			continue
		}
		if _, ok := blob.ClergyIDFromKey(info.Key); !ok {
			continue
		}
		if _, err := s.images.Delete(ctx, info.Key); err != nil {
			return pruned, fmt.Errorf("delete profile image %s: %w", info.Key, err)
		}
		pruned++
	}
	return pruned, nil
}
