package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на получение слотов
type Request struct {
	BusinessID    int64     // ID бизнеса
	ServiceID     int64     // ID услуги, определяет длительность
	Date          time.Time // Дата (без времени)
	OnlyAvailable bool      // Вернуть только свободные слоты
}

// Response модель ответа со списком слотов
type Response struct {
	Date               time.Time
	BusinessID         int64
	ServiceID          int64
	DurationMinutes    int    // Длительность услуги
	GranularityMinutes int    // Шаг сетки слотов
	IsClosed           bool   // Бизнес не работает в эту дату
	Slots              []Slot // Слоты в порядке возрастания времени начала
}

// Slot модель временного слота
type Slot struct {
	StartTime types.TimeString // Время начала (например, "10:00")
	EndTime   types.TimeString // Время окончания, пусто если услуга заканчивается после полуночи
	Available bool             // Можно ли записаться
	Reason    string           // Причина недоступности, пусто для свободных слотов
}
