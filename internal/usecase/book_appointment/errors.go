package book_appointment

import "errors"

var (
	// ErrDoctorNotFound возвращается, когда врач не найден в справочнике
	ErrDoctorNotFound = errors.New("book_appointment: doctor not found")

	// ErrDoctorUnavailable возвращается, когда врач не принимает новые записи
	ErrDoctorUnavailable = errors.New("book_appointment: doctor is not accepting appointments")

	// ErrSlotAlreadyBooked возвращается, когда слот уже занят.
	// Проигравший гонку получает именно эту ошибку — клиенту следует
	// перезапросить доступные слоты, а не повторять тот же запрос.
	ErrSlotAlreadyBooked = errors.New("book_appointment: slot already booked")

	// ErrInvalidSlot возвращается, когда (дата, время) не является валидным
	// слотом: дата вне окна бронирования, время вне рабочих часов, не на
	// решётке 30 минут или нарушает same-day cutoff
	ErrInvalidSlot = errors.New("book_appointment: invalid slot")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("book_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("book_appointment: internal error")
)
