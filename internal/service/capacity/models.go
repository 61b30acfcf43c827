package capacity

// CheckResult результат проверки запрошенных билетов
// Errors содержит все нарушенные ограничения, проверка не останавливается на первом
type CheckResult struct {
	Available bool           `json:"available"`
	Remaining map[string]int `json:"remaining"`
	Errors    []string       `json:"errors"`
}
