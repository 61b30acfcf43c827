package get_availability

import "time"

// defaultWindow окно выборки, если конец не указан
const defaultWindow = 30 * 24 * time.Hour

// Request модель запроса доступности впечатления
type Request struct {
	ExperienceID int64  // ID впечатления
	From         string // Начало окна (ISO-8601, дата или unix), пусто = сейчас
	To           string // Конец окна, пусто = From + 30 дней
}

// Response модель ответа со слотами и остатками мест
type Response struct {
	ExperienceID int64
	Slots        []SlotAvailability
}

// SlotAvailability слот с остатком мест
type SlotAvailability struct {
	SlotID                   int64 // 0 для виртуального слота
	Start                    string
	End                      string
	Duration                 int // Минуты
	Status                   string
	CapacityTotal            int
	CapacityRemaining        int
	CapacityPerTypeRemaining map[string]int
	Virtual                  bool
	Bookable                 bool // open, есть места и проходит lead time
}
