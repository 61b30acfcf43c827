package slot

import (
	"github.com/m04kA/SMC-ExperienceBooking/pkg/dbmetrics"
)

// Переиспользуем интерфейс из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Logger интерфейс для логирования пропущенных строк
type Logger interface {
	Warn(format string, v ...interface{})
}
