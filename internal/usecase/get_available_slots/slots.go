package get_available_slots

import (
	"github.com/m04kA/Clinic-AppointmentService/internal/domain"
)

// filterBookedSlots убирает из решётки кандидатов слоты, уже занятые в
// реестре врача. Чистая проекция: снимок реестра не изменяется, день без
// записей в снимке означает "нет бронирований". Сравнение — только по
// нормализованному времени. Дни, в которых после фильтрации не осталось
// ни одного слота, в результат не попадают.
func filterBookedSlots(candidates []domain.DaySlots, booked map[string][]domain.NormalizedTime) []domain.DaySlots {
	result := make([]domain.DaySlots, 0, len(candidates))

	for _, day := range candidates {
		bookedTimes := booked[day.Date.Format(domain.DateFormat)]

		if len(bookedTimes) == 0 {
			result = append(result, day)
			continue
		}

		bookedSet := make(map[domain.NormalizedTime]struct{}, len(bookedTimes))
		for _, t := range bookedTimes {
			bookedSet[t] = struct{}{}
		}

		free := make([]domain.Slot, 0, len(day.Slots))
		for _, slot := range day.Slots {
			if _, taken := bookedSet[slot.Normalized]; taken {
				continue
			}
			free = append(free, slot)
		}

		if len(free) == 0 {
			continue
		}

		result = append(result, domain.DaySlots{Date: day.Date, Slots: free})
	}

	return result
}
