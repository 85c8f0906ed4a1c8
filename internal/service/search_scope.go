package service

import (
	"strconv"

	"github.com/cloo-solutions/simsearch/internal/domain"
)

// FieldEquals is a single `field = value` condition on a logical record field.
type FieldEquals struct {
	Field string
	Value int64
}

type predicateKind int

const (
	predicateAll predicateKind = iota
	predicateNone
	predicateAnyOf
)

// Predicate restricts a base collection to the records a principal may see.
// The zero value is unrestricted.
type Predicate struct {
	kind  predicateKind
	anyOf []FieldEquals
}

// AllRecords returns a predicate that keeps every record.
func AllRecords() Predicate {
	return Predicate{kind: predicateAll}
}

// NoRecords returns a predicate that keeps nothing.
func NoRecords() Predicate {
	return Predicate{kind: predicateNone}
}

// AnyOf keeps records matching at least one condition. With no
// conditions it keeps nothing.
func AnyOf(conds ...FieldEquals) Predicate {
	if len(conds) == 0 {
		return NoRecords()
	}
	return Predicate{kind: predicateAnyOf, anyOf: append([]FieldEquals(nil), conds...)}
}

func (p Predicate) IsAll() bool  { return p.kind == predicateAll }
func (p Predicate) IsNone() bool { return p.kind == predicateNone }

// Conditions returns the OR'ed conditions of an AnyOf predicate.
func (p Predicate) Conditions() []FieldEquals {
	return p.anyOf
}

// matches evaluates the predicate against an in-memory record.
func (p Predicate) matches(r Record) bool {
	switch p.kind {
	case predicateAll:
		return true
	case predicateNone:
		return false
	}
	for _, c := range p.anyOf {
		if r.Field(c.Field) == strconv.FormatInt(c.Value, 10) {
			return true
		}
	}
	return false
}

// ScopeRule names the ownership fields of one entity type.
type ScopeRule struct {
	// TraineeFields hold the trainee-owner id.
	TraineeFields []string
	// SupervisorFields hold a supervisor id, either the record's own
	// supervisor or the trainee-owner's supervisor link.
	SupervisorFields []string
}

// Scope builds the visibility predicate for a principal on one entity type.
// Unrecognised roles get an empty scope rather than an error.
func Scope(p domain.Principal, rule ScopeRule) Predicate {
	switch {
	case p.IsAdministrator():
		return AllRecords()
	case p.IsSupervisor():
		return anyField(rule.SupervisorFields, p.ID)
	case p.IsTrainee():
		return anyField(rule.TraineeFields, p.ID)
	default:
		return NoRecords()
	}
}

func anyField(fields []string, id int64) Predicate {
	conds := make([]FieldEquals, 0, len(fields))
	for _, f := range fields {
		conds = append(conds, FieldEquals{Field: f, Value: id})
	}
	return AnyOf(conds...)
}
