package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/Clinic-AppointmentService/internal/domain"
	apptRepo "github.com/m04kA/Clinic-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/Clinic-AppointmentService/internal/service/appointments/models"
)

type memStore struct {
	items map[uuid.UUID]*domain.Appointment
}

func newMemStore(appointments ...*domain.Appointment) *memStore {
	s := &memStore{items: make(map[uuid.UUID]*domain.Appointment)}
	for _, a := range appointments {
		s.items[a.ID] = a
	}
	return s
}

func (s *memStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Appointment, error) {
	a, ok := s.items[id]
	if !ok {
		return nil, apptRepo.ErrAppointmentNotFound
	}
	copied := *a
	return &copied, nil
}

func (s *memStore) GetByPatientID(_ context.Context, patientID int64) ([]*domain.Appointment, error) {
	var result []*domain.Appointment
	for _, a := range s.items {
		if a.PatientID == patientID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (s *memStore) GetByDoctorID(_ context.Context, doctorID int64) ([]*domain.Appointment, error) {
	var result []*domain.Appointment
	for _, a := range s.items {
		if a.DoctorID == doctorID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (s *memStore) SetCancelled(_ context.Context, id uuid.UUID) error {
	a, ok := s.items[id]
	if !ok || a.Cancelled || a.IsCompleted {
		return apptRepo.ErrAppointmentNotFound
	}
	a.Cancelled = true
	return nil
}

func (s *memStore) SetCompleted(_ context.Context, id uuid.UUID) error {
	a, ok := s.items[id]
	if !ok || a.Cancelled || a.IsCompleted {
		return apptRepo.ErrAppointmentNotFound
	}
	a.IsCompleted = true
	return nil
}

func (s *memStore) SetPaid(_ context.Context, id uuid.UUID) error {
	a, ok := s.items[id]
	if !ok || a.Cancelled {
		return apptRepo.ErrAppointmentNotFound
	}
	a.Paid = true
	return nil
}

// releaseRecorder запоминает освобождённые слоты
type releaseRecorder struct {
	released []domain.NormalizedTime
}

func (r *releaseRecorder) Release(_ context.Context, _ int64, _ time.Time, normalized domain.NormalizedTime) error {
	r.released = append(r.released, normalized)
	return nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (passthroughTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

const (
	doctorID  = int64(7)
	patientID = int64(42)
	stranger  = int64(99)
)

func activeAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:          uuid.New(),
		DoctorID:    doctorID,
		PatientID:   patientID,
		BookingDate: time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC),
		SlotTime:    "09:00 AM",
		DoctorName:  "Dr. Adams",
		Amount:      50,
	}
}

func newTestService(store *memStore, ledger *releaseRecorder) *Service {
	return NewService(store, ledger, passthroughTxManager{}, nopLogger{})
}

func TestGetByID_VisibleToParticipants(t *testing.T) {
	appt := activeAppointment()
	svc := newTestService(newMemStore(appt), &releaseRecorder{})

	for _, userID := range []int64{patientID, doctorID} {
		resp, err := svc.GetByID(context.Background(), appt.ID, userID)
		require.NoError(t, err)
		assert.Equal(t, appt.ID.String(), resp.ID)
	}

	_, err := svc.GetByID(context.Background(), appt.ID, stranger)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_NotFound(t *testing.T) {
	svc := newTestService(newMemStore(), &releaseRecorder{})

	_, err := svc.GetByID(context.Background(), uuid.New(), patientID)

	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestCancel_ByPatientReleasesSlot(t *testing.T) {
	appt := activeAppointment()
	store := newMemStore(appt)
	ledger := &releaseRecorder{}
	svc := newTestService(store, ledger)

	err := svc.Cancel(context.Background(), appt.ID, &models.CancelAppointmentRequest{RequestingUserID: patientID})

	require.NoError(t, err)
	assert.True(t, store.items[appt.ID].Cancelled)
	require.Len(t, ledger.released, 1)
	assert.Equal(t, domain.NormalizedTime("9:00am"), ledger.released[0])
}

func TestCancel_ByDoctorAllowed(t *testing.T) {
	appt := activeAppointment()
	store := newMemStore(appt)
	svc := newTestService(store, &releaseRecorder{})

	err := svc.Cancel(context.Background(), appt.ID, &models.CancelAppointmentRequest{RequestingUserID: doctorID})

	require.NoError(t, err)
	assert.True(t, store.items[appt.ID].Cancelled)
}

func TestCancel_StrangerDenied(t *testing.T) {
	appt := activeAppointment()
	store := newMemStore(appt)
	ledger := &releaseRecorder{}
	svc := newTestService(store, ledger)

	err := svc.Cancel(context.Background(), appt.ID, &models.CancelAppointmentRequest{RequestingUserID: stranger})

	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.False(t, store.items[appt.ID].Cancelled)
	assert.Empty(t, ledger.released)
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	appt := activeAppointment()
	appt.Cancelled = true
	svc := newTestService(newMemStore(appt), &releaseRecorder{})

	err := svc.Cancel(context.Background(), appt.ID, &models.CancelAppointmentRequest{RequestingUserID: patientID})

	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestCancel_CompletedIsTerminal(t *testing.T) {
	appt := activeAppointment()
	appt.IsCompleted = true
	ledger := &releaseRecorder{}
	svc := newTestService(newMemStore(appt), ledger)

	err := svc.Cancel(context.Background(), appt.ID, &models.CancelAppointmentRequest{RequestingUserID: patientID})

	assert.ErrorIs(t, err, ErrAlreadyTerminal)
	assert.Empty(t, ledger.released)
}

func TestComplete_ByDoctorKeepsSlotTaken(t *testing.T) {
	appt := activeAppointment()
	store := newMemStore(appt)
	ledger := &releaseRecorder{}
	svc := newTestService(store, ledger)

	err := svc.Complete(context.Background(), appt.ID, &models.CompleteAppointmentRequest{DoctorID: doctorID})

	require.NoError(t, err)
	assert.True(t, store.items[appt.ID].IsCompleted)
	// завершение не освобождает слот — история остаётся занятой
	assert.Empty(t, ledger.released)
}

func TestComplete_PatientDenied(t *testing.T) {
	appt := activeAppointment()
	svc := newTestService(newMemStore(appt), &releaseRecorder{})

	err := svc.Complete(context.Background(), appt.ID, &models.CompleteAppointmentRequest{DoctorID: patientID})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestComplete_TerminalStates(t *testing.T) {
	cancelled := activeAppointment()
	cancelled.Cancelled = true
	completed := activeAppointment()
	completed.IsCompleted = true
	svc := newTestService(newMemStore(cancelled, completed), &releaseRecorder{})

	for _, appt := range []*domain.Appointment{cancelled, completed} {
		err := svc.Complete(context.Background(), appt.ID, &models.CompleteAppointmentRequest{DoctorID: doctorID})
		assert.ErrorIs(t, err, ErrAlreadyTerminal)
	}
}

func TestMarkPaid_Idempotent(t *testing.T) {
	appt := activeAppointment()
	store := newMemStore(appt)
	svc := newTestService(store, &releaseRecorder{})

	require.NoError(t, svc.MarkPaid(context.Background(), appt.ID, patientID))
	assert.True(t, store.items[appt.ID].Paid)

	// повторное подтверждение оплаты не ошибка
	require.NoError(t, svc.MarkPaid(context.Background(), appt.ID, patientID))
}

func TestMarkPaid_OnlyPatient(t *testing.T) {
	appt := activeAppointment()
	svc := newTestService(newMemStore(appt), &releaseRecorder{})

	err := svc.MarkPaid(context.Background(), appt.ID, doctorID)

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestMarkPaid_CancelledRejected(t *testing.T) {
	appt := activeAppointment()
	appt.Cancelled = true
	svc := newTestService(newMemStore(appt), &releaseRecorder{})

	err := svc.MarkPaid(context.Background(), appt.ID, patientID)

	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestGetDoctorDashboard_Aggregates(t *testing.T) {
	completed := activeAppointment()
	completed.IsCompleted = true
	completed.Amount = 100

	paid := activeAppointment()
	paid.Paid = true
	paid.Amount = 70
	paid.PatientID = 43

	pending := activeAppointment()
	pending.Amount = 50

	cancelled := activeAppointment()
	cancelled.Cancelled = true
	cancelled.Amount = 30
	cancelled.PatientID = 43

	svc := newTestService(newMemStore(completed, paid, pending, cancelled), &releaseRecorder{})

	dash, err := svc.GetDoctorDashboard(context.Background(), doctorID)

	require.NoError(t, err)
	// только завершённые или оплаченные приёмы приносят заработок
	assert.Equal(t, 170.0, dash.Earnings)
	assert.Equal(t, 4, dash.Appointments)
	assert.Equal(t, 2, dash.Patients)
	assert.Len(t, dash.LatestAppointments, 4)
}

func TestGetPatientAppointments(t *testing.T) {
	mine := activeAppointment()
	other := activeAppointment()
	other.PatientID = 43
	svc := newTestService(newMemStore(mine, other), &releaseRecorder{})

	result, err := svc.GetPatientAppointments(context.Background(), patientID)

	require.NoError(t, err)
	require.Equal(t, 1, result.Total)
	assert.Equal(t, mine.ID.String(), result.Appointments[0].ID)
}
