package service

import (
	"errors"

	"club-lodging/backend/internal/rules"
)

var ErrMemberTypeNotFound = errors.New("tipo de miembro desconocido")

// RuleService exposes the business-rule table read-only.
type RuleService interface {
	List() []rules.BusinessRule
	Get(memberType string) (*rules.BusinessRule, error)
}

type ruleService struct {
	table rules.Table
}

func NewRuleService(table rules.Table) RuleService {
	if table == nil {
		table = rules.Default()
	}
	return &ruleService{table: table}
}

func (s *ruleService) List() []rules.BusinessRule {
	return s.table.List()
}

func (s *ruleService) Get(memberType string) (*rules.BusinessRule, error) {
	m, err := rules.ParseMemberType(memberType)
	if err != nil {
		return nil, ErrMemberTypeNotFound
	}
	rule, err := s.table.RulesFor(m)
	if err != nil {
		return nil, ErrMemberTypeNotFound
	}
	return rule, nil
}
