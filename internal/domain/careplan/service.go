package careplan

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/lamar-health/intake-api/internal/domain/intake"
	"github.com/lamar-health/intake-api/internal/domain/provider"
	"github.com/lamar-health/intake-api/internal/platform/llm"
)

const systemPrompt = "You are an experienced clinical pharmacist specializing in specialty medications and care plan development."

// PatientSource resolves intake patients for prompt assembly.
type PatientSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*intake.Patient, error)
}

// OrderStore reads orders and persists generated plans back onto them.
type OrderStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*intake.Order, error)
	SetCarePlan(ctx context.Context, id uuid.UUID, plan string) (*intake.Order, error)
}

type ProviderDirectory interface {
	Get(ctx context.Context, id uuid.UUID) (*provider.Provider, error)
}

type Service struct {
	patients  PatientSource
	orders    OrderStore
	providers ProviderDirectory
	gen       llm.Generator
}

func NewService(patients PatientSource, orders OrderStore, providers ProviderDirectory, gen llm.Generator) *Service {
	return &Service{patients: patients, orders: orders, providers: providers, gen: gen}
}

// Generate produces a care plan for a confirmed order, persists it on the
// order, and returns the header-formatted text ready for download. The
// generated plan replaces any previously stored one, so a repeat request
// yields a fresh plan.
func (s *Service) Generate(ctx context.Context, patientID, orderID uuid.UUID) (string, error) {
	patient, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return "", err
	}
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return "", err
	}
	if order.PatientID != patient.ID {
		return "", intake.ErrOrderNotFound
	}
	if order.Status != intake.OrderStatusConfirmed {
		return "", ErrOrderNotConfirmed
	}

	var prov *provider.Provider
	if patient.ProviderID != nil {
		prov, err = s.providers.Get(ctx, *patient.ProviderID)
		if err != nil {
			return "", err
		}
	}

	text, err := s.gen.Generate(ctx, llm.Request{
		System: systemPrompt,
		Prompt: buildPrompt(patient, prov, order),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: model returned an empty plan", ErrGeneration)
	}

	order, err = s.orders.SetCarePlan(ctx, order.ID, text)
	if err != nil {
		return "", err
	}
	return formatWithHeader(patient, prov, order, text), nil
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}

func buildPrompt(p *intake.Patient, prov *provider.Provider, o *intake.Order) string {
	providerLine := "Not specified"
	if prov != nil {
		providerLine = fmt.Sprintf("%s (NPI: %s)", prov.Name, prov.NPI)
	}

	records := "No additional patient records provided."
	var parts []string
	if p.RecordsText != nil && strings.TrimSpace(*p.RecordsText) != "" {
		parts = append(parts, *p.RecordsText)
	}
	if o.ExtractedText != nil && strings.TrimSpace(*o.ExtractedText) != "" {
		parts = append(parts, *o.ExtractedText)
	}
	if len(parts) > 0 {
		records = strings.Join(parts, "\n\n")
	}

	notes := ""
	if o.Notes != nil && strings.TrimSpace(*o.Notes) != "" {
		notes = "\nCLINICAL NOTES:\n" + *o.Notes + "\n"
	}

	return fmt.Sprintf(`You are a clinical pharmacist generating a comprehensive care plan for a patient.
Generate a detailed care plan following this exact structure:

**Problem list / Drug therapy problems (DTPs)**
[List the key problems and drug therapy issues]

**Goals (SMART)**
[Primary goals, Safety goals, Process goals - make them Specific, Measurable, Achievable, Relevant, Time-bound]

**Pharmacist interventions / plan**
Include detailed sections for:
- Dosing & Administration
- Premedication
- Infusion rates & titration
- Hydration & renal protection
- Thrombosis risk mitigation
- Concomitant medications
- Monitoring during infusion
- Adverse event management
- Documentation & communication

**Monitoring plan & lab schedule**
[Pre-infusion, during infusion, post-infusion monitoring requirements]

Use the following patient information:

PATIENT INFORMATION:
- Name: %s %s
- MRN: %s
- Primary Diagnosis: %s
- Additional Diagnoses: %s
- Medication: %s
- Medication History: %s
- Provider: %s

PATIENT RECORDS:
%s
%s
Generate a detailed, clinically appropriate care plan for this patient receiving %s.
Base your recommendations on standard clinical practice guidelines and the patient's specific information provided.
Make it comprehensive and actionable for clinical staff.`,
		p.FirstName, p.LastName, p.MRN, p.PrimaryDiagnosis,
		joinOrNone(p.AdditionalDiagnoses), o.MedicationName,
		joinOrNone(p.MedicationHistory), providerLine, records, notes,
		o.MedicationName)
}

const rule = "================================================================================"
const thinRule = "--------------------------------------------------------------------------------"

func formatWithHeader(p *intake.Patient, prov *provider.Provider, o *intake.Order, plan string) string {
	providerLine := "Not specified"
	if prov != nil {
		providerLine = fmt.Sprintf("%s (NPI: %s)", prov.Name, prov.NPI)
	}

	var b strings.Builder
	b.WriteString("\n" + rule + "\n")
	b.WriteString("                        CLINICAL CARE PLAN\n")
	b.WriteString(rule + "\n\n")
	b.WriteString("PATIENT INFORMATION\n")
	b.WriteString(thinRule + "\n")
	fmt.Fprintf(&b, "Patient Name:       %s %s\n", p.FirstName, p.LastName)
	fmt.Fprintf(&b, "MRN:                %s\n", p.MRN)
	fmt.Fprintf(&b, "Primary Diagnosis:  %s\n", p.PrimaryDiagnosis)
	fmt.Fprintf(&b, "Medication:         %s\n", o.MedicationName)
	fmt.Fprintf(&b, "Provider:           %s\n", providerLine)
	fmt.Fprintf(&b, "Order ID:           %s\n", o.ID)
	fmt.Fprintf(&b, "Date Generated:     %s\n", o.UpdatedAt.Format("January 2, 2006"))
	if len(p.AdditionalDiagnoses) > 0 {
		fmt.Fprintf(&b, "Additional Diagnoses:  %s\n", strings.Join(p.AdditionalDiagnoses, ", "))
	}
	if len(p.MedicationHistory) > 0 {
		fmt.Fprintf(&b, "Medication History:   %s\n", strings.Join(p.MedicationHistory, ", "))
	}
	b.WriteString("\n" + rule + "\n")
	b.WriteString("                           CARE PLAN\n")
	b.WriteString(rule + "\n\n")
	b.WriteString(plan)
	return b.String()
}
