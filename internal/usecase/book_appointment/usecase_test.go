package book_appointment

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/Clinic-AppointmentService/internal/domain"
	apptRepo "github.com/m04kA/Clinic-AppointmentService/internal/infra/storage/appointment"
	ledgerRepo "github.com/m04kA/Clinic-AppointmentService/internal/infra/storage/slotledger"
	"github.com/m04kA/Clinic-AppointmentService/internal/integrations/doctorservice"
)

// memLedger потокобезопасный реестр в памяти с семантикой Reserve:
// из конкурентных вызовов на один ключ ровно один выигрывает.
type memLedger struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func newMemLedger() *memLedger {
	return &memLedger{keys: make(map[string]struct{})}
}

func ledgerKey(doctorID int64, slotDate time.Time, normalized domain.NormalizedTime) string {
	return fmt.Sprintf("%d|%s|%s", doctorID, slotDate.Format(domain.DateFormat), normalized)
}

func (l *memLedger) Reserve(_ context.Context, doctorID int64, slotDate time.Time, _ string, normalized domain.NormalizedTime) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := ledgerKey(doctorID, slotDate, normalized)
	if _, taken := l.keys[key]; taken {
		return ledgerRepo.ErrSlotTaken
	}
	l.keys[key] = struct{}{}
	return nil
}

func (l *memLedger) release(doctorID int64, slotDate time.Time, normalized domain.NormalizedTime) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.keys, ledgerKey(doctorID, slotDate, normalized))
}

type memAppointments struct {
	mu      sync.Mutex
	created []*domain.Appointment
}

func (m *memAppointments) FindActiveBySlot(_ context.Context, doctorID int64, bookingDate time.Time, normalized domain.NormalizedTime) (*domain.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.created {
		if a.DoctorID != doctorID || a.Cancelled {
			continue
		}
		n, err := domain.NormalizeTime(a.SlotTime)
		if err != nil {
			continue
		}
		if domain.IsSameDay(a.BookingDate, bookingDate) && n == normalized {
			return a, nil
		}
	}
	return nil, apptRepo.ErrAppointmentNotFound
}

func (m *memAppointments) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	created := *appt
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	m.created = append(m.created, &created)
	return &created, nil
}

type fakeDoctorClient struct {
	doctor *doctorservice.Doctor
	err    error
}

func (f *fakeDoctorClient) GetDoctor(_ context.Context, _ int64) (*doctorservice.Doctor, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.doctor, nil
}

// passthroughTxManager выполняет fn без реальной транзакции
type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixture struct {
	uc     *UseCase
	ledger *memLedger
	store  *memAppointments
	now    time.Time
}

func newFixture(client *fakeDoctorClient) *fixture {
	ledger := newMemLedger()
	store := &memAppointments{}
	uc := NewUseCase(ledger, store, client, passthroughTxManager{}, nopLogger{})

	now := time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC)
	uc.timeProvider = &fixedTime{now: now}

	return &fixture{uc: uc, ledger: ledger, store: store, now: now}
}

func availableDoctor() *fakeDoctorClient {
	return &fakeDoctorClient{doctor: &doctorservice.Doctor{ID: 7, Name: "Dr. Adams", Fees: 50, Available: true}}
}

func TestExecute_BooksSlot(t *testing.T) {
	f := newFixture(availableDoctor())
	tomorrow := f.now.AddDate(0, 0, 1)

	resp, err := f.uc.Execute(context.Background(), &Request{
		DoctorID:  7,
		PatientID: 42,
		Date:      tomorrow,
		SlotTime:  "09:00 AM",
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, resp.ID)
	assert.Equal(t, int64(7), resp.DoctorID)
	assert.Equal(t, int64(42), resp.PatientID)
	assert.Equal(t, "09:00 AM", resp.SlotTime)
	assert.Equal(t, "Dr. Adams", resp.DoctorName)
	assert.Equal(t, 50.0, resp.Amount)
	require.Len(t, f.store.created, 1)
}

func TestExecute_ValidationErrors(t *testing.T) {
	f := newFixture(availableDoctor())
	tomorrow := f.now.AddDate(0, 0, 1)

	tests := []struct {
		name string
		req  *Request
	}{
		{name: "zero doctor", req: &Request{DoctorID: 0, PatientID: 42, Date: tomorrow, SlotTime: "09:00 AM"}},
		{name: "zero patient", req: &Request{DoctorID: 7, PatientID: 0, Date: tomorrow, SlotTime: "09:00 AM"}},
		{name: "zero date", req: &Request{DoctorID: 7, PatientID: 42, SlotTime: "09:00 AM"}},
		{name: "empty time", req: &Request{DoctorID: 7, PatientID: 42, Date: tomorrow, SlotTime: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_InvalidSlots(t *testing.T) {
	f := newFixture(availableDoctor())
	tomorrow := f.now.AddDate(0, 0, 1)

	tests := []struct {
		name string
		req  *Request
	}{
		{name: "past date", req: &Request{DoctorID: 7, PatientID: 42, Date: f.now.AddDate(0, 0, -1), SlotTime: "11:00 AM"}},
		{name: "beyond window", req: &Request{DoctorID: 7, PatientID: 42, Date: f.now.AddDate(0, 0, 7), SlotTime: "11:00 AM"}},
		{name: "before opening", req: &Request{DoctorID: 7, PatientID: 42, Date: tomorrow, SlotTime: "08:00 AM"}},
		{name: "after closing", req: &Request{DoctorID: 7, PatientID: 42, Date: tomorrow, SlotTime: "09:00 PM"}},
		{name: "off lattice", req: &Request{DoctorID: 7, PatientID: 42, Date: tomorrow, SlotTime: "10:15 AM"}},
		{name: "no digits", req: &Request{DoctorID: 7, PatientID: 42, Date: tomorrow, SlotTime: "noon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidSlot)
		})
	}
}

// Cutoff того же дня: в 9:00 первый доступный слот сегодня — 10:00,
// а в 14:40 слот 15:00 уже недоступен.
func TestExecute_SameDayCutoff(t *testing.T) {
	f := newFixture(availableDoctor())

	_, err := f.uc.Execute(context.Background(), &Request{
		DoctorID: 7, PatientID: 42, Date: f.now, SlotTime: "10:00 AM",
	})
	require.NoError(t, err)

	f.uc.timeProvider = &fixedTime{now: time.Date(2025, 10, 15, 14, 40, 0, 0, time.UTC)}
	_, err = f.uc.Execute(context.Background(), &Request{
		DoctorID: 7, PatientID: 42, Date: f.now, SlotTime: "03:00 PM",
	})
	assert.ErrorIs(t, err, ErrInvalidSlot)
}

func TestExecute_DoctorNotFound(t *testing.T) {
	f := newFixture(&fakeDoctorClient{err: doctorservice.ErrDoctorNotFound})

	_, err := f.uc.Execute(context.Background(), &Request{
		DoctorID: 7, PatientID: 42, Date: f.now.AddDate(0, 0, 1), SlotTime: "09:00 AM",
	})

	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestExecute_DoctorUnavailable(t *testing.T) {
	f := newFixture(&fakeDoctorClient{doctor: &doctorservice.Doctor{ID: 7, Name: "Dr. Adams", Available: false}})

	_, err := f.uc.Execute(context.Background(), &Request{
		DoctorID: 7, PatientID: 42, Date: f.now.AddDate(0, 0, 1), SlotTime: "09:00 AM",
	})

	assert.ErrorIs(t, err, ErrDoctorUnavailable)
	assert.Empty(t, f.store.created)
}

// Разные написания одного времени претендуют на один слот.
func TestExecute_SecondSpellingLoses(t *testing.T) {
	f := newFixture(availableDoctor())
	tomorrow := f.now.AddDate(0, 0, 1)

	_, err := f.uc.Execute(context.Background(), &Request{
		DoctorID: 7, PatientID: 42, Date: tomorrow, SlotTime: "09:00 AM",
	})
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), &Request{
		DoctorID: 7, PatientID: 43, Date: tomorrow, SlotTime: "9:00 am",
	})
	assert.ErrorIs(t, err, ErrSlotAlreadyBooked)
	require.Len(t, f.store.created, 1)
}

func TestExecute_SameTimeDifferentDoctorsIndependent(t *testing.T) {
	f := newFixture(availableDoctor())
	tomorrow := f.now.AddDate(0, 0, 1)

	_, err := f.uc.Execute(context.Background(), &Request{
		DoctorID: 7, PatientID: 42, Date: tomorrow, SlotTime: "09:00 AM",
	})
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), &Request{
		DoctorID: 8, PatientID: 42, Date: tomorrow, SlotTime: "09:00 AM",
	})
	require.NoError(t, err)
	require.Len(t, f.store.created, 2)
}

// После отмены (флаг cancelled + освобождение слота в реестре) тот же
// SlotKey бронируется заново.
func TestExecute_CancelThenRebook(t *testing.T) {
	f := newFixture(availableDoctor())
	tomorrow := f.now.AddDate(0, 0, 1)

	first, err := f.uc.Execute(context.Background(), &Request{
		DoctorID: 7, PatientID: 42, Date: tomorrow, SlotTime: "09:00 AM",
	})
	require.NoError(t, err)

	// Отмена: запись помечается отменённой, слот уходит из реестра
	normalized, err := domain.NormalizeTime(first.SlotTime)
	require.NoError(t, err)
	f.store.mu.Lock()
	f.store.created[0].Cancelled = true
	f.store.mu.Unlock()
	f.ledger.release(7, tomorrow, normalized)

	second, err := f.uc.Execute(context.Background(), &Request{
		DoctorID: 7, PatientID: 43, Date: tomorrow, SlotTime: "9:00 am",
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

// Из N конкурентных запросов на один слот бронирование получает ровно один.
func TestExecute_ConcurrentBookingSingleWinner(t *testing.T) {
	f := newFixture(availableDoctor())
	tomorrow := f.now.AddDate(0, 0, 1)

	const attempts = 20

	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.Execute(context.Background(), &Request{
				DoctorID:  7,
				PatientID: int64(100 + i),
				Date:      tomorrow,
				SlotTime:  "11:30 AM",
			})
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, ErrSlotAlreadyBooked)
		}
	}

	assert.Equal(t, 1, won)
	require.Len(t, f.store.created, 1)
}
