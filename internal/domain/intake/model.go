package intake

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the order lifecycle state. Orders are created as drafts and
// move to confirmed exactly once; confirmation gates care-plan generation.
type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "draft"
	OrderStatusConfirmed OrderStatus = "confirmed"
)

// Patient maps to the patients table. Patients are immutable after intake;
// corrections go through a new intake submission.
type Patient struct {
	ID                  uuid.UUID  `db:"id" json:"id"`
	FirstName           string     `db:"first_name" json:"first_name"`
	LastName            string     `db:"last_name" json:"last_name"`
	DateOfBirth         time.Time  `db:"date_of_birth" json:"date_of_birth"`
	MRN                 string     `db:"mrn" json:"mrn"`
	PrimaryDiagnosis    string     `db:"primary_diagnosis" json:"primary_diagnosis"`
	AdditionalDiagnoses []string   `db:"additional_diagnoses" json:"additional_diagnoses,omitempty"`
	MedicationHistory   []string   `db:"medication_history" json:"medication_history,omitempty"`
	Phone               *string    `db:"phone" json:"phone,omitempty"`
	Email               *string    `db:"email" json:"email,omitempty"`
	RecordsText         *string    `db:"records_text" json:"records_text,omitempty"`
	ProviderID          *uuid.UUID `db:"provider_id" json:"provider_id,omitempty"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
}

// Order maps to the orders table.
type Order struct {
	ID             uuid.UUID   `db:"id" json:"id"`
	PatientID      uuid.UUID   `db:"patient_id" json:"patient_id"`
	Status         OrderStatus `db:"status" json:"status"`
	MedicationName string      `db:"medication_name" json:"medication_name"`
	Notes          *string     `db:"notes" json:"notes,omitempty"`
	ExtractedText  *string     `db:"extracted_text" json:"extracted_text,omitempty"`
	CarePlan       *string     `db:"care_plan" json:"care_plan,omitempty"`
	CreatedAt      time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at" json:"updated_at"`
}
