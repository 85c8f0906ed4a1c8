package testutil

// Fixture account ids.
const (
	AdminID      int64 = 1
	SupervisorID int64 = 2
	AhmedID      int64 = 3
	SaraID       int64 = 4
	OtherID      int64 = 5
	InactiveID   int64 = 6
)

// seedStatements use literal values only so they run unchanged on both
// Postgres and SQLite.
var seedStatements = []string{
	`INSERT INTO accounts (id, username, first_name, last_name, email, role, specialty, supervisor_id, is_active, is_superuser) VALUES
	 (1, 'admin', 'Ada', 'Admin', 'admin@sims.test', 'admin', NULL, NULL, TRUE, TRUE),
	 (2, 'drkhan', 'Imran', 'Khan', 'khan@sims.test', 'supervisor', 'Surgery', NULL, TRUE, FALSE),
	 (3, 'ahmed', 'Ahmed', 'Raza', 'ahmed@sims.test', 'pg', 'Surgery', 2, TRUE, FALSE),
	 (4, 'sara', 'Sara', 'Malik', 'sara@sims.test', 'pg', 'Medicine', NULL, TRUE, FALSE),
	 (5, 'clerk', 'Omar', 'Clerk', 'clerk@sims.test', 'other', NULL, NULL, TRUE, FALSE),
	 (6, 'gone', 'Ahmed', 'Former', 'gone@sims.test', 'pg', NULL, 2, FALSE, FALSE)`,
	`INSERT INTO hospitals (id, name) VALUES (1, 'Mayo Hospital'), (2, 'Services Hospital')`,
	`INSERT INTO departments (id, hospital_id, name) VALUES (1, 1, 'General Surgery'), (2, 2, 'Internal Medicine')`,
	`INSERT INTO rotations (id, trainee_id, supervisor_id, department_id, hospital_id, start_date, end_date, status, notes) VALUES
	 (1, 3, 2, 1, 1, '2024-01-01', '2024-06-30', 'active', 'Night shifts in trauma'),
	 (2, 4, NULL, 2, 2, '2024-02-01', '2024-07-31', 'planned', 'Ward rounds')`,
	`INSERT INTO logbook_entries (id, trainee_id, rotation_id, supervisor_id, case_title, patient_history_summary, management_action, learning_points, status) VALUES
	 (1, 3, 1, 2, 'Appendicitis in young adult', 'Right iliac fossa pain for two days', 'Laparoscopic appendectomy', 'Early imaging', 'approved'),
	 (2, 4, 2, NULL, 'Diabetic ketoacidosis', 'Polyuria and vomiting', 'Fluids and insulin', 'Potassium monitoring', 'draft')`,
	`INSERT INTO certificate_types (id, name) VALUES (1, 'BLS')`,
	`INSERT INTO certificates (id, trainee_id, certificate_type_id, title, issuing_organization, certificate_number, description, status) VALUES
	 (1, 3, 1, 'Basic Life Support', 'Resuscitation Council', 'BLS-001', 'Adult and paediatric CPR', 'approved'),
	 (2, 4, 1, 'Basic Life Support', 'Resuscitation Council', 'BLS-002', 'Adult CPR', 'pending')`,
	`INSERT INTO case_categories (id, name) VALUES (1, 'Emergency'), (2, 'Elective')`,
	`INSERT INTO clinical_cases (id, trainee_id, category_id, case_title, chief_complaint, clinical_reasoning, learning_points, status) VALUES
	 (1, 3, 1, 'Acute abdomen', 'Severe abdominal pain', 'Peritonitis suspected after examination by Ahmed', 'Serial exams', 'submitted'),
	 (2, 4, 2, 'Hernia repair', 'Groin swelling', 'Reducible inguinal hernia', 'Mesh choice', 'draft')`,
}
