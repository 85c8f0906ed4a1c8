package repository

import (
	"fmt"

	"github.com/cloo-solutions/simsearch/internal/domain"
)

// column maps a logical record field onto a SQL expression.
type column struct {
	name string
	expr string
}

// source describes how one module's records are read from the record tables.
type source struct {
	module domain.Module
	idExpr string
	from   string
	// where is an always-applied base condition, empty for none.
	where   string
	columns []column
}

func (s source) expr(field string) (string, bool) {
	if field == "id" {
		return s.idExpr, true
	}
	for _, c := range s.columns {
		if c.name == field {
			return c.expr, true
		}
	}
	return "", false
}

func (s source) mustExpr(field string) (string, error) {
	expr, ok := s.expr(field)
	if !ok {
		return "", fmt.Errorf("%s: unknown field %q", s.module, field)
	}
	return expr, nil
}

// sources lists the record tables behind every module. Expressions are valid
// in both Postgres and SQLite.
func sources() map[domain.Module]source {
	trainee := []column{
		{name: "trainee_first_name", expr: "t.first_name"},
		{name: "trainee_last_name", expr: "t.last_name"},
		{name: "trainee_supervisor_id", expr: "t.supervisor_id"},
	}

	return map[domain.Module]source{
		domain.ModuleAccounts: {
			module: domain.ModuleAccounts,
			idExpr: "a.id",
			from:   "accounts a",
			where:  "a.is_active",
			columns: []column{
				{name: "username", expr: "a.username"},
				{name: "first_name", expr: "a.first_name"},
				{name: "last_name", expr: "a.last_name"},
				{name: "email", expr: "a.email"},
				{name: "role", expr: "a.role"},
				{name: "specialty", expr: "a.specialty"},
				{name: "supervisor_id", expr: "a.supervisor_id"},
			},
		},
		domain.ModuleRotations: {
			module: domain.ModuleRotations,
			idExpr: "r.id",
			from: `rotations r
			 JOIN accounts t ON t.id = r.trainee_id
			 LEFT JOIN departments d ON d.id = r.department_id
			 LEFT JOIN hospitals h ON h.id = r.hospital_id`,
			columns: append([]column{
				{name: "trainee_id", expr: "r.trainee_id"},
				{name: "supervisor_id", expr: "r.supervisor_id"},
				{name: "department", expr: "d.name"},
				{name: "hospital", expr: "h.name"},
				{name: "status", expr: "r.status"},
				{name: "start_date", expr: "r.start_date"},
				{name: "end_date", expr: "r.end_date"},
				{name: "notes", expr: "r.notes"},
			}, trainee...),
		},
		domain.ModuleLogbook: {
			module: domain.ModuleLogbook,
			idExpr: "l.id",
			from: `logbook_entries l
			 JOIN accounts t ON t.id = l.trainee_id`,
			columns: append([]column{
				{name: "trainee_id", expr: "l.trainee_id"},
				{name: "supervisor_id", expr: "l.supervisor_id"},
				{name: "case_title", expr: "l.case_title"},
				{name: "patient_history_summary", expr: "l.patient_history_summary"},
				{name: "management_action", expr: "l.management_action"},
				{name: "learning_points", expr: "l.learning_points"},
				{name: "status", expr: "l.status"},
			}, trainee...),
		},
		domain.ModuleCertificates: {
			module: domain.ModuleCertificates,
			idExpr: "c.id",
			from: `certificates c
			 JOIN accounts t ON t.id = c.trainee_id
			 LEFT JOIN certificate_types ct ON ct.id = c.certificate_type_id`,
			columns: append([]column{
				{name: "trainee_id", expr: "c.trainee_id"},
				{name: "title", expr: "c.title"},
				{name: "issuing_organization", expr: "c.issuing_organization"},
				{name: "certificate_number", expr: "c.certificate_number"},
				{name: "description", expr: "c.description"},
				{name: "certificate_type", expr: "ct.name"},
				{name: "status", expr: "c.status"},
			}, trainee...),
		},
		domain.ModuleCases: {
			module: domain.ModuleCases,
			idExpr: "cc.id",
			from: `clinical_cases cc
			 JOIN accounts t ON t.id = cc.trainee_id
			 LEFT JOIN case_categories cat ON cat.id = cc.category_id`,
			columns: append([]column{
				{name: "trainee_id", expr: "cc.trainee_id"},
				{name: "category_id", expr: "cc.category_id"},
				{name: "category", expr: "cat.name"},
				{name: "case_title", expr: "cc.case_title"},
				{name: "chief_complaint", expr: "cc.chief_complaint"},
				{name: "clinical_reasoning", expr: "cc.clinical_reasoning"},
				{name: "learning_points", expr: "cc.learning_points"},
				{name: "status", expr: "cc.status"},
			}, trainee...),
		},
	}
}
