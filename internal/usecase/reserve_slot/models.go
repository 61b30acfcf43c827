package reserve_slot

import "time"

// Request модель запроса на временный резерв мест
// Слот задается либо SlotID, либо окном Start/End вхождения правила повторения
type Request struct {
	ExperienceID int64
	SlotID       int64          // 0 = слот определяется по Start/End
	Start        string         // ISO-8601, без смещения - в часовом поясе сайта
	End          string         // ISO-8601
	Tickets      map[string]int // Тип билета -> количество
	CustomerID   int64          // 0 = гость
}

// Response модель ответа с созданным холдом
type Response struct {
	ReservationID int64
	SlotID        int64
	HoldToken     string
	HoldExpiresAt time.Time
	Status        string
	Tickets       map[string]int
}
