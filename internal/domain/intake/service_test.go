package intake

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lamar-health/intake-api/internal/domain/provider"
)

type mockPatientRepo struct {
	store map[uuid.UUID]*Patient
	byMRN map[string]uuid.UUID
	order []uuid.UUID
}

func newMockPatientRepo() *mockPatientRepo {
	return &mockPatientRepo{store: make(map[uuid.UUID]*Patient), byMRN: make(map[string]uuid.UUID)}
}

func (m *mockPatientRepo) Create(_ context.Context, p *Patient) error {
	if _, ok := m.byMRN[p.MRN]; ok { return ErrDuplicateMRN }
	p.ID = uuid.New(); p.CreatedAt = time.Now()
	m.store[p.ID] = p; m.byMRN[p.MRN] = p.ID; m.order = append(m.order, p.ID); return nil
}
func (m *mockPatientRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.store[id]; if !ok { return nil, ErrPatientNotFound }; return p, nil
}
func (m *mockPatientRepo) GetByMRN(_ context.Context, mrn string) (*Patient, error) {
	id, ok := m.byMRN[mrn]; if !ok { return nil, ErrPatientNotFound }; return m.store[id], nil
}
func (m *mockPatientRepo) List(_ context.Context, limit, offset int) ([]*Patient, int, error) {
	var r []*Patient; for _, id := range m.order { r = append(r, m.store[id]) }; return r, len(r), nil
}

type mockOrderRepo struct {
	store    map[uuid.UUID]*Order
	order    []uuid.UUID
	failNext bool
}

func newMockOrderRepo() *mockOrderRepo { return &mockOrderRepo{store: make(map[uuid.UUID]*Order)} }

func (m *mockOrderRepo) Create(_ context.Context, o *Order) error {
	if m.failNext { m.failNext = false; return errors.New("insert failed") }
	o.ID = uuid.New(); o.CreatedAt = time.Now(); o.UpdatedAt = o.CreatedAt
	m.store[o.ID] = o; m.order = append(m.order, o.ID); return nil
}
func (m *mockOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*Order, error) {
	o, ok := m.store[id]; if !ok { return nil, ErrOrderNotFound }; return o, nil
}
func (m *mockOrderRepo) List(_ context.Context, limit, offset int) ([]*Order, int, error) {
	var r []*Order; for _, id := range m.order { r = append(r, m.store[id]) }; return r, len(r), nil
}
func (m *mockOrderRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*Order, error) {
	var r []*Order
	for _, id := range m.order { if m.store[id].PatientID == patientID { r = append(r, m.store[id]) } }
	return r, nil
}
func (m *mockOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status OrderStatus) (*Order, error) {
	o, ok := m.store[id]; if !ok { return nil, ErrOrderNotFound }
	o.Status = status; o.UpdatedAt = time.Now(); return o, nil
}
func (m *mockOrderRepo) SetCarePlan(_ context.Context, id uuid.UUID, plan string) (*Order, error) {
	o, ok := m.store[id]; if !ok { return nil, ErrOrderNotFound }
	o.CarePlan = &plan; o.UpdatedAt = time.Now(); return o, nil
}

type mockDirectory struct {
	known   map[uuid.UUID]*provider.Provider
	failErr error
}

func newMockDirectory() *mockDirectory { return &mockDirectory{known: make(map[uuid.UUID]*provider.Provider)} }

func (m *mockDirectory) Get(_ context.Context, id uuid.UUID) (*provider.Provider, error) {
	if m.failErr != nil { return nil, m.failErr }
	p, ok := m.known[id]; if !ok { return nil, provider.ErrNotFound }; return p, nil
}

// fakeTxRunner snapshots both stores before fn and restores them when fn
// fails, mimicking a transaction rollback.
type fakeTxRunner struct {
	patients *mockPatientRepo
	orders   *mockOrderRepo
}

func (f *fakeTxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	patientSnap := make(map[uuid.UUID]*Patient)
	for k, v := range f.patients.store { patientSnap[k] = v }
	patientOrder := append([]uuid.UUID(nil), f.patients.order...)
	mrnSnap := make(map[string]uuid.UUID)
	for k, v := range f.patients.byMRN { mrnSnap[k] = v }
	orderSnap := make(map[uuid.UUID]*Order)
	for k, v := range f.orders.store { orderSnap[k] = v }
	orderOrder := append([]uuid.UUID(nil), f.orders.order...)

	if err := fn(ctx); err != nil {
		f.patients.store = patientSnap; f.patients.order = patientOrder; f.patients.byMRN = mrnSnap
		f.orders.store = orderSnap; f.orders.order = orderOrder
		return err
	}
	return nil
}

type testEnv struct {
	svc       *Service
	patients  *mockPatientRepo
	orders    *mockOrderRepo
	directory *mockDirectory
}

func newTestEnv() *testEnv {
	patients := newMockPatientRepo()
	orders := newMockOrderRepo()
	directory := newMockDirectory()
	tx := &fakeTxRunner{patients: patients, orders: orders}
	return &testEnv{
		svc:       NewService(patients, orders, directory, tx),
		patients:  patients,
		orders:    orders,
		directory: directory,
	}
}

func validIntake() CreatePatientCommand {
	return CreatePatientCommand{
		FirstName:        "Maria",
		LastName:         "Santos",
		DateOfBirth:      "1962-04-17",
		MRN:              "104233",
		PrimaryDiagnosis: "G35 Multiple sclerosis",
		Order:            CreateOrderDetails{MedicationName: "Ocrevus"},
	}
}

func TestCreatePatientWithOrder(t *testing.T) {
	env := newTestEnv()
	patient, order, err := env.svc.CreatePatientWithOrder(context.Background(), validIntake())
	if err != nil { t.Fatalf("unexpected error: %v", err) }
	if patient.ID == uuid.Nil { t.Error("expected patient ID to be assigned") }
	if order.PatientID != patient.ID { t.Error("expected order linked to the new patient") }
	if order.Status != OrderStatusDraft { t.Errorf("expected draft order, got %q", order.Status) }
	if !patient.DateOfBirth.Equal(time.Date(1962, 4, 17, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected date of birth: %v", patient.DateOfBirth)
	}
}

func TestCreatePatientWithOrder_OmittedListFieldsStoredEmpty(t *testing.T) {
	env := newTestEnv()
	cmd := validIntake()
	cmd.AdditionalDiagnoses = nil
	cmd.MedicationHistory = nil

	patient, _, err := env.svc.CreatePatientWithOrder(context.Background(), cmd)
	if err != nil { t.Fatalf("unexpected error: %v", err) }
	if patient.AdditionalDiagnoses == nil {
		t.Error("expected additional_diagnoses normalized to an empty slice, got nil")
	}
	if patient.MedicationHistory == nil {
		t.Error("expected medication_history normalized to an empty slice, got nil")
	}
}

func TestCreatePatientWithOrder_CollectsAllInvalidFields(t *testing.T) {
	env := newTestEnv()
	cmd := CreatePatientCommand{
		FirstName:   "  ",
		LastName:    "Santos",
		DateOfBirth: "04/17/1962",
		MRN:         "10423",
	}
	_, _, err := env.svc.CreatePatientWithOrder(context.Background(), cmd)
	var vErr *ValidationError
	if !errors.As(err, &vErr) { t.Fatalf("expected ValidationError, got %v", err) }

	want := []string{"first_name", "date_of_birth", "mrn", "primary_diagnosis", "order.medication_name"}
	if len(vErr.Fields) != len(want) { t.Fatalf("expected %d invalid fields, got %v", len(want), vErr.Fields) }
	for i, f := range want {
		if vErr.Fields[i] != f { t.Errorf("field %d: expected %q, got %q", i, f, vErr.Fields[i]) }
	}
}

func TestCreatePatientWithOrder_InvalidMRNs(t *testing.T) {
	env := newTestEnv()
	for _, mrn := range []string{"", "12345", "1234567", "12345x", "12 456"} {
		cmd := validIntake()
		cmd.MRN = mrn
		_, _, err := env.svc.CreatePatientWithOrder(context.Background(), cmd)
		var vErr *ValidationError
		if !errors.As(err, &vErr) { t.Errorf("mrn %q: expected ValidationError, got %v", mrn, err); continue }
		if len(vErr.Fields) != 1 || vErr.Fields[0] != "mrn" {
			t.Errorf("mrn %q: expected only mrn flagged, got %v", mrn, vErr.Fields)
		}
	}
}

func TestCreatePatientWithOrder_DuplicateMRN(t *testing.T) {
	env := newTestEnv()
	if _, _, err := env.svc.CreatePatientWithOrder(context.Background(), validIntake()); err != nil {
		t.Fatalf("first intake failed: %v", err)
	}
	cmd := validIntake()
	cmd.FirstName = "Ana"
	if _, _, err := env.svc.CreatePatientWithOrder(context.Background(), cmd); !errors.Is(err, ErrDuplicateMRN) {
		t.Errorf("expected ErrDuplicateMRN, got %v", err)
	}
}

func TestCreatePatientWithOrder_UnknownProvider(t *testing.T) {
	env := newTestEnv()
	cmd := validIntake()
	unknown := uuid.New()
	cmd.ProviderID = &unknown
	if _, _, err := env.svc.CreatePatientWithOrder(context.Background(), cmd); !errors.Is(err, ErrProviderNotFound) {
		t.Errorf("expected ErrProviderNotFound, got %v", err)
	}
	if len(env.patients.order) != 0 { t.Error("expected no patient persisted") }
}

func TestCreatePatientWithOrder_DirectoryFailureIsNotNotFound(t *testing.T) {
	env := newTestEnv()
	env.directory.failErr = errors.New("connection reset")
	cmd := validIntake()
	id := uuid.New()
	cmd.ProviderID = &id

	_, _, err := env.svc.CreatePatientWithOrder(context.Background(), cmd)
	if err == nil { t.Fatal("expected error when directory lookup fails") }
	if errors.Is(err, ErrProviderNotFound) {
		t.Error("a directory lookup failure must not masquerade as a missing provider")
	}
}

func TestCreatePatientWithOrder_KnownProvider(t *testing.T) {
	env := newTestEnv()
	id := uuid.New()
	env.directory.known[id] = &provider.Provider{ID: id, NPI: "1234567890", Name: "Dr. Chen"}
	cmd := validIntake()
	cmd.ProviderID = &id
	patient, _, err := env.svc.CreatePatientWithOrder(context.Background(), cmd)
	if err != nil { t.Fatalf("unexpected error: %v", err) }
	if patient.ProviderID == nil || *patient.ProviderID != id { t.Error("expected provider linked to patient") }
}

func TestCreatePatientWithOrder_RollsBackPatientWhenOrderFails(t *testing.T) {
	env := newTestEnv()
	env.orders.failNext = true
	_, _, err := env.svc.CreatePatientWithOrder(context.Background(), validIntake())
	if err == nil { t.Fatal("expected error when order insert fails") }
	if len(env.patients.order) != 0 { t.Error("expected patient insert rolled back") }
	if len(env.orders.order) != 0 { t.Error("expected no orders persisted") }
}

func TestCreateOrder_ForExistingPatient(t *testing.T) {
	env := newTestEnv()
	patient, _, _ := env.svc.CreatePatientWithOrder(context.Background(), validIntake())

	order, warning, err := env.svc.CreateOrder(context.Background(), CreateOrderCommand{
		PatientID: patient.ID, MedicationName: "Tysabri",
	})
	if err != nil { t.Fatalf("unexpected error: %v", err) }
	if warning != "" { t.Errorf("expected no warning for a new medication, got %q", warning) }
	if order.Status != OrderStatusDraft { t.Errorf("expected draft, got %q", order.Status) }
}

func TestCreateOrder_DuplicateMedicationWarns(t *testing.T) {
	env := newTestEnv()
	patient, _, _ := env.svc.CreatePatientWithOrder(context.Background(), validIntake())

	order, warning, err := env.svc.CreateOrder(context.Background(), CreateOrderCommand{
		PatientID: patient.ID, MedicationName: "OCREVUS",
	})
	if err != nil { t.Fatalf("unexpected error: %v", err) }
	if order == nil { t.Fatal("expected order to be created despite the warning") }
	if !strings.Contains(warning, "Ocrevus") { t.Errorf("expected duplicate warning naming the medication, got %q", warning) }
}

func TestCreateOrder_UnknownPatient(t *testing.T) {
	env := newTestEnv()
	_, _, err := env.svc.CreateOrder(context.Background(), CreateOrderCommand{
		PatientID: uuid.New(), MedicationName: "Ocrevus",
	})
	if !errors.Is(err, ErrPatientNotFound) { t.Errorf("expected ErrPatientNotFound, got %v", err) }
}

func TestConfirmOrder(t *testing.T) {
	env := newTestEnv()
	_, order, _ := env.svc.CreatePatientWithOrder(context.Background(), validIntake())

	confirmed, err := env.svc.ConfirmOrder(context.Background(), order.ID)
	if err != nil { t.Fatalf("unexpected error: %v", err) }
	if confirmed.Status != OrderStatusConfirmed { t.Errorf("expected confirmed, got %q", confirmed.Status) }

	// confirming again is a no-op
	again, err := env.svc.ConfirmOrder(context.Background(), order.ID)
	if err != nil { t.Fatalf("unexpected error on repeat confirm: %v", err) }
	if again.Status != OrderStatusConfirmed { t.Errorf("expected confirmed, got %q", again.Status) }
}

func TestConfirmOrder_NotFound(t *testing.T) {
	env := newTestEnv()
	if _, err := env.svc.ConfirmOrder(context.Background(), uuid.New()); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestListPatients_CreationOrder(t *testing.T) {
	env := newTestEnv()
	first := validIntake()
	env.svc.CreatePatientWithOrder(context.Background(), first)
	second := validIntake()
	second.MRN = "104234"
	second.FirstName = "Ana"
	env.svc.CreatePatientWithOrder(context.Background(), second)

	items, total, err := env.svc.ListPatients(context.Background(), 0, 0)
	if err != nil { t.Fatalf("unexpected error: %v", err) }
	if total != 2 || len(items) != 2 { t.Fatalf("expected 2 patients, got %d", total) }
	if items[0].MRN != "104233" || items[1].MRN != "104234" { t.Error("expected patients in creation order") }
}
