package core

import "diocese/pkg/domain"

// NewDefaultRulesEngine builds a rules engine with the built-in integrity rules.
func NewDefaultRulesEngine() *domain.RulesEngine {
	engine := domain.NewRulesEngine()
	engine.Register(ParishDeaneryLinksRule())
	engine.Register(DeanAssignmentRule())
	engine.Register(ClergyAssignmentRule())
	engine.Register(DanglingReferencesRule())
	return engine
}
