package invalidate_experience_cache

import "context"

type ExperienceCache interface {
	Invalidate(ctx context.Context, experienceID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
