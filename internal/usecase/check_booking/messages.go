package check_booking

import "github.com/m04kA/SMC-AppointmentService/internal/slotengine"

var reasonMessages = map[slotengine.RejectionReason]string{
	slotengine.ReasonClosedDay:       "В этот день запись не ведется",
	slotengine.ReasonOutsideHours:    "Выбранное время вне часов работы",
	slotengine.ReasonOverrunsClosing: "Услуга не успеет закончиться до закрытия",
	slotengine.ReasonDuringBreak:     "Выбранное время пересекается с перерывом",
	slotengine.ReasonConflict:        "Это время уже занято, выберите другое",
	slotengine.ReasonTooSoon:         "На это время уже слишком поздно записываться",
	slotengine.ReasonMisalignedStart: "Время начала должно совпадать с сеткой слотов",
}

// ReasonMessage возвращает сообщение для пользователя по коду причины отказа
func ReasonMessage(reason slotengine.RejectionReason) string {
	if msg, ok := reasonMessages[reason]; ok {
		return msg
	}
	return "Запись на это время невозможна"
}
