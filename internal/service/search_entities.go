package service

import (
	"fmt"
	"strings"

	"github.com/cloo-solutions/simsearch/internal/domain"
)

// summaryCap bounds narrative summaries before snippet extraction.
const summaryCap = 160

// Entity describes one searchable record type. Everything that varies between
// record types lives here; the matching algorithm does not.
type Entity struct {
	Module domain.Module
	// Fields is the ordered field list, primary fields first.
	Fields []WeightedField
	// Filters maps request filter keys onto logical fields.
	Filters map[string]string
	Scope   ScopeRule
	// Route is the permalink route name resolved for each result.
	Route   string
	Title   func(Record) string
	Summary func(Record) string
}

// DefaultEntities returns the five searchable record types in invocation order.
func DefaultEntities() []Entity {
	return []Entity{
		AccountEntity(),
		RotationEntity(),
		LogbookEntity(),
		CertificateEntity(),
		CaseEntity(),
	}
}

// AccountEntity searches active accounts. Supervisors see themselves and
// their subordinates.
func AccountEntity() Entity {
	return Entity{
		Module: domain.ModuleAccounts,
		Fields: []WeightedField{
			{Field: "first_name", Weight: WeightA},
			{Field: "last_name", Weight: WeightA},
			{Field: "username", Weight: WeightB},
			{Field: "email", Weight: WeightB},
			{Field: "specialty", Weight: WeightC},
		},
		Filters: map[string]string{"role": "role"},
		Scope: ScopeRule{
			TraineeFields:    []string{"id"},
			SupervisorFields: []string{"supervisor_id", "id"},
		},
		Route: "accounts:profile_detail",
		Title: func(r Record) string {
			if name := fullName(r.Field("first_name"), r.Field("last_name")); name != "" {
				return name
			}
			return r.Field("username")
		},
		Summary: func(r Record) string {
			return fmt.Sprintf("Role: %s | Email: %s", domain.ParseRole(r.Field("role")).Display(), r.Field("email"))
		},
	}
}

func RotationEntity() Entity {
	return Entity{
		Module: domain.ModuleRotations,
		Fields: []WeightedField{
			{Field: "department", Weight: WeightA},
			{Field: "hospital", Weight: WeightB},
			{Field: "trainee_first_name", Weight: WeightB},
			{Field: "trainee_last_name", Weight: WeightB},
			{Field: "notes", Weight: WeightC},
		},
		Filters: map[string]string{"status": "status"},
		Scope: ScopeRule{
			TraineeFields:    []string{"trainee_id"},
			SupervisorFields: []string{"supervisor_id", "trainee_supervisor_id"},
		},
		Route: "rotations:detail",
		Title: func(r Record) string {
			return fmt.Sprintf("%s - %s", fullName(r.Field("trainee_first_name"), r.Field("trainee_last_name")), r.Field("department"))
		},
		Summary: func(r Record) string {
			return fmt.Sprintf("%s (%s - %s)", r.Field("hospital"), r.Field("start_date"), r.Field("end_date"))
		},
	}
}

func LogbookEntity() Entity {
	return Entity{
		Module: domain.ModuleLogbook,
		Fields: []WeightedField{
			{Field: "case_title", Weight: WeightA},
			{Field: "patient_history_summary", Weight: WeightB},
			{Field: "management_action", Weight: WeightC},
			{Field: "learning_points", Weight: WeightC},
		},
		Filters: map[string]string{"status": "status"},
		Scope: ScopeRule{
			TraineeFields:    []string{"trainee_id"},
			SupervisorFields: []string{"supervisor_id", "trainee_supervisor_id"},
		},
		Route: "logbook:detail",
		Title: func(r Record) string { return r.Field("case_title") },
		Summary: func(r Record) string {
			return truncateRunes(r.Field("patient_history_summary"), summaryCap)
		},
	}
}

func CertificateEntity() Entity {
	return Entity{
		Module: domain.ModuleCertificates,
		Fields: []WeightedField{
			{Field: "title", Weight: WeightA},
			{Field: "issuing_organization", Weight: WeightB},
			{Field: "certificate_number", Weight: WeightB},
			{Field: "description", Weight: WeightC},
		},
		Filters: map[string]string{"status": "status"},
		Scope: ScopeRule{
			TraineeFields:    []string{"trainee_id"},
			SupervisorFields: []string{"trainee_supervisor_id"},
		},
		Route: "certificates:detail",
		Title: func(r Record) string { return r.Field("title") },
		Summary: func(r Record) string {
			return fmt.Sprintf("%s - %s", r.Field("certificate_type"), fullName(r.Field("trainee_first_name"), r.Field("trainee_last_name")))
		},
	}
}

func CaseEntity() Entity {
	return Entity{
		Module: domain.ModuleCases,
		Fields: []WeightedField{
			{Field: "case_title", Weight: WeightA},
			{Field: "chief_complaint", Weight: WeightB},
			{Field: "clinical_reasoning", Weight: WeightC},
			{Field: "learning_points", Weight: WeightC},
		},
		Filters: map[string]string{"category": "category_id"},
		Scope: ScopeRule{
			TraineeFields:    []string{"trainee_id"},
			SupervisorFields: []string{"trainee_supervisor_id"},
		},
		Route: "cases:case_detail",
		Title: func(r Record) string { return r.Field("case_title") },
		Summary: func(r Record) string {
			return truncateRunes(r.Field("clinical_reasoning"), summaryCap)
		},
	}
}

func fullName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
