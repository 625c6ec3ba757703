package intake

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lamar-health/intake-api/internal/domain/provider"
	"github.com/lamar-health/intake-api/internal/platform/db"
)

var mrnPattern = regexp.MustCompile(`^\d{6}$`)

const dateLayout = "2006-01-02"

// ProviderDirectory is the slice of the provider registry intake needs:
// existence checks when an intake names a referring provider.
type ProviderDirectory interface {
	Get(ctx context.Context, id uuid.UUID) (*provider.Provider, error)
}

// CreateOrderDetails is the order portion of an intake submission.
type CreateOrderDetails struct {
	MedicationName string  `json:"medication_name"`
	Notes          *string `json:"notes,omitempty"`
	ExtractedText  *string `json:"extracted_text,omitempty"`
}

// CreatePatientCommand is a full intake submission: a patient plus the draft
// order that brought them in.
type CreatePatientCommand struct {
	FirstName           string             `json:"first_name"`
	LastName            string             `json:"last_name"`
	DateOfBirth         string             `json:"date_of_birth"`
	MRN                 string             `json:"mrn"`
	PrimaryDiagnosis    string             `json:"primary_diagnosis"`
	AdditionalDiagnoses []string           `json:"additional_diagnoses,omitempty"`
	MedicationHistory   []string           `json:"medication_history,omitempty"`
	Phone               *string            `json:"phone,omitempty"`
	Email               *string            `json:"email,omitempty"`
	RecordsText         *string            `json:"records_text,omitempty"`
	ProviderID          *uuid.UUID         `json:"provider_id,omitempty"`
	Order               CreateOrderDetails `json:"order"`
}

// CreateOrderCommand adds a follow-up order for an existing patient.
type CreateOrderCommand struct {
	PatientID      uuid.UUID `json:"patient_id"`
	MedicationName string    `json:"medication_name"`
	Notes          *string   `json:"notes,omitempty"`
	ExtractedText  *string   `json:"extracted_text,omitempty"`
}

type Service struct {
	patients  PatientRepository
	orders    OrderRepository
	providers ProviderDirectory
	tx        db.TxRunner
}

func NewService(patients PatientRepository, orders OrderRepository, providers ProviderDirectory, tx db.TxRunner) *Service {
	return &Service{patients: patients, orders: orders, providers: providers, tx: tx}
}

// CreatePatientWithOrder validates the whole submission, then inserts the
// patient and their initial draft order in one transaction. All invalid
// fields are reported together rather than one at a time.
func (s *Service) CreatePatientWithOrder(ctx context.Context, cmd CreatePatientCommand) (*Patient, *Order, error) {
	cmd.FirstName = strings.TrimSpace(cmd.FirstName)
	cmd.LastName = strings.TrimSpace(cmd.LastName)
	cmd.MRN = strings.TrimSpace(cmd.MRN)
	cmd.PrimaryDiagnosis = strings.TrimSpace(cmd.PrimaryDiagnosis)
	cmd.Order.MedicationName = strings.TrimSpace(cmd.Order.MedicationName)

	var fields []string
	if cmd.FirstName == "" {
		fields = append(fields, "first_name")
	}
	if cmd.LastName == "" {
		fields = append(fields, "last_name")
	}
	dob, err := time.Parse(dateLayout, cmd.DateOfBirth)
	if err != nil {
		fields = append(fields, "date_of_birth")
	}
	if !mrnPattern.MatchString(cmd.MRN) {
		fields = append(fields, "mrn")
	}
	if cmd.PrimaryDiagnosis == "" {
		fields = append(fields, "primary_diagnosis")
	}
	if cmd.Order.MedicationName == "" {
		fields = append(fields, "order.medication_name")
	}
	if len(fields) > 0 {
		return nil, nil, &ValidationError{Fields: fields}
	}

	if cmd.ProviderID != nil {
		if _, err := s.providers.Get(ctx, *cmd.ProviderID); err != nil {
			if errors.Is(err, provider.ErrNotFound) {
				return nil, nil, ErrProviderNotFound
			}
			return nil, nil, err
		}
	}

	// Check the MRN up front for a clean conflict error; the unique index on
	// patients.mrn still backstops concurrent submissions.
	if _, err := s.patients.GetByMRN(ctx, cmd.MRN); err == nil {
		return nil, nil, ErrDuplicateMRN
	} else if !errors.Is(err, ErrPatientNotFound) {
		return nil, nil, err
	}

	// pgx encodes nil slices as SQL NULL and the array columns are NOT NULL.
	if cmd.AdditionalDiagnoses == nil {
		cmd.AdditionalDiagnoses = []string{}
	}
	if cmd.MedicationHistory == nil {
		cmd.MedicationHistory = []string{}
	}

	patient := &Patient{
		FirstName:           cmd.FirstName,
		LastName:            cmd.LastName,
		DateOfBirth:         dob,
		MRN:                 cmd.MRN,
		PrimaryDiagnosis:    cmd.PrimaryDiagnosis,
		AdditionalDiagnoses: cmd.AdditionalDiagnoses,
		MedicationHistory:   cmd.MedicationHistory,
		Phone:               cmd.Phone,
		Email:               cmd.Email,
		RecordsText:         cmd.RecordsText,
		ProviderID:          cmd.ProviderID,
	}
	order := &Order{
		Status:         OrderStatusDraft,
		MedicationName: cmd.Order.MedicationName,
		Notes:          cmd.Order.Notes,
		ExtractedText:  cmd.Order.ExtractedText,
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.patients.Create(ctx, patient); err != nil {
			return err
		}
		order.PatientID = patient.ID
		return s.orders.Create(ctx, order)
	})
	if err != nil {
		return nil, nil, err
	}
	return patient, order, nil
}

// CreateOrder adds a draft order for an existing patient. When the patient
// already has an order for the same medication the order is still created,
// but a warning is returned so intake staff can review for duplicates.
func (s *Service) CreateOrder(ctx context.Context, cmd CreateOrderCommand) (*Order, string, error) {
	cmd.MedicationName = strings.TrimSpace(cmd.MedicationName)
	if cmd.MedicationName == "" {
		return nil, "", &ValidationError{Fields: []string{"medication_name"}}
	}

	if _, err := s.patients.GetByID(ctx, cmd.PatientID); err != nil {
		return nil, "", err
	}

	existing, err := s.orders.ListByPatient(ctx, cmd.PatientID)
	if err != nil {
		return nil, "", err
	}
	warning := ""
	for _, o := range existing {
		if strings.EqualFold(o.MedicationName, cmd.MedicationName) {
			warning = "patient already has an order for " + o.MedicationName
			break
		}
	}

	order := &Order{
		PatientID:      cmd.PatientID,
		Status:         OrderStatusDraft,
		MedicationName: cmd.MedicationName,
		Notes:          cmd.Notes,
		ExtractedText:  cmd.ExtractedText,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, "", err
	}
	return order, warning, nil
}

// ConfirmOrder moves a draft order to confirmed. Confirming an already
// confirmed order is a no-op and returns the order unchanged.
func (s *Service) ConfirmOrder(ctx context.Context, id uuid.UUID) (*Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == OrderStatusConfirmed {
		return order, nil
	}
	return s.orders.UpdateStatus(ctx, id, OrderStatusConfirmed)
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) GetOrder(ctx context.Context, id uuid.UUID) (*Order, error) {
	return s.orders.GetByID(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, limit, offset)
}

func (s *Service) ListOrders(ctx context.Context, limit, offset int) ([]*Order, int, error) {
	return s.orders.List(ctx, limit, offset)
}

func (s *Service) ListOrdersForPatient(ctx context.Context, patientID uuid.UUID) ([]*Order, error) {
	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		return nil, err
	}
	return s.orders.ListByPatient(ctx, patientID)
}
