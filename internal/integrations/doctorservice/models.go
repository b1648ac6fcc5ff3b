package doctorservice

// Doctor модель врача из справочника DoctorService
type Doctor struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Speciality string  `json:"speciality"`
	Fees       float64 `json:"fees"`
	Available  bool    `json:"available"` // врач принимает новые записи
}

// ErrorResponse модель ошибки от DoctorService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
