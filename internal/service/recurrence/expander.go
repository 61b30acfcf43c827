package recurrence

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-ExperienceBooking/internal/domain"
)

// Expander раскрывает правило повторения в список вхождений в часовом поясе сайта
type Expander struct {
	loc *time.Location
}

// NewExpander создает новый экземпляр раскрывателя правил
func NewExpander(loc *time.Location) *Expander {
	if loc == nil {
		loc = time.UTC
	}
	return &Expander{loc: loc}
}

// Location часовой пояс сайта
func (e *Expander) Location() *time.Location {
	return e.loc
}

// Expand возвращает вхождения правила, начало которых попадает в окно (границы включительно)
// Время суток строится через time.Date в часовом поясе сайта, поэтому 10:00 остается 10:00 и после перехода на летнее время.
// Результат отсортирован по возрастанию начала
func (e *Expander) Expand(rule domain.RecurrenceRule, window domain.TimeRange) ([]domain.TimeRange, error) {
	if rule.IsEmpty() {
		return []domain.TimeRange{}, nil
	}

	clocks, err := parseClocks(rule.Times)
	if err != nil {
		return nil, err
	}

	match, err := e.dayMatcher(rule)
	if err != nil {
		return nil, err
	}

	lower, upper, err := e.dateBounds(rule)
	if err != nil {
		return nil, err
	}

	local := window.In(e.loc)
	first := dayStart(local.Start(), e.loc)
	last := dayStart(local.End(), e.loc)

	if last.Sub(first) > time.Duration(domain.MaxRangeDays+1)*24*time.Hour {
		return nil, fmt.Errorf("%w: %s", ErrWindowTooWide, window.String())
	}

	duration := rule.Duration()
	seen := make(map[string]struct{})
	occurrences := make([]domain.TimeRange, 0)

	// Итерируем по календарным дням, а не по 24h, чтобы не сбиваться на днях перехода
	for day := first; !day.After(last); day = time.Date(day.Year(), day.Month(), day.Day()+1, 0, 0, 0, 0, e.loc) {
		if !lower.IsZero() && day.Before(lower) {
			continue
		}
		if !upper.IsZero() && day.After(upper) {
			break
		}
		if !match(day) {
			continue
		}

		for _, c := range clocks {
			start := time.Date(day.Year(), day.Month(), day.Day(), c.hour, c.minute, 0, 0, e.loc)
			if !local.Contains(start) {
				continue
			}

			tr, err := domain.NewTimeRange(start, start.Add(duration))
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidRule, err)
			}
			if _, dup := seen[tr.Key()]; dup {
				continue
			}
			seen[tr.Key()] = struct{}{}
			occurrences = append(occurrences, tr)
		}
	}

	sort.SliceStable(occurrences, func(i, j int) bool {
		return occurrences[i].Start().Before(occurrences[j].Start())
	})

	return occurrences, nil
}

// Produces проверяет, что окно tr является вхождением правила
func (e *Expander) Produces(rule domain.RecurrenceRule, tr domain.TimeRange) (bool, error) {
	point, err := domain.NewTimeRange(tr.Start(), tr.Start())
	if err != nil {
		return false, err
	}

	occurrences, err := e.Expand(rule, point)
	if err != nil {
		return false, err
	}

	for _, o := range occurrences {
		if o.Equal(tr) {
			return true, nil
		}
	}
	return false, nil
}

func (e *Expander) dayMatcher(rule domain.RecurrenceRule) (func(time.Time) bool, error) {
	switch rule.Frequency {
	case domain.FrequencyDaily:
		return func(time.Time) bool { return true }, nil

	case domain.FrequencyWeekly:
		days := make(map[time.Weekday]bool, len(rule.Weekdays))
		for _, raw := range rule.Weekdays {
			wd, err := ParseWeekday(raw)
			if err != nil {
				return nil, err
			}
			days[wd] = true
		}
		// Без дней недели weekly ведет себя как daily
		if len(days) == 0 {
			return func(time.Time) bool { return true }, nil
		}
		return func(d time.Time) bool { return days[d.Weekday()] }, nil

	case domain.FrequencySpecific:
		dates := make(map[string]bool, len(rule.Dates))
		for _, raw := range rule.Dates {
			d, err := time.ParseInLocation(domain.DateFormat, strings.TrimSpace(raw), e.loc)
			if err != nil {
				return nil, fmt.Errorf("%w: date %q", ErrInvalidRule, raw)
			}
			dates[d.Format(domain.DateFormat)] = true
		}
		return func(d time.Time) bool { return dates[d.Format(domain.DateFormat)] }, nil

	default:
		return nil, fmt.Errorf("%w: frequency %q", ErrInvalidRule, rule.Frequency)
	}
}

func (e *Expander) dateBounds(rule domain.RecurrenceRule) (time.Time, time.Time, error) {
	var lower, upper time.Time
	var err error

	if s := strings.TrimSpace(rule.StartDate); s != "" {
		if lower, err = time.ParseInLocation(domain.DateFormat, s, e.loc); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: start_date %q", ErrInvalidRule, rule.StartDate)
		}
	}
	if s := strings.TrimSpace(rule.EndDate); s != "" {
		if upper, err = time.ParseInLocation(domain.DateFormat, s, e.loc); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: end_date %q", ErrInvalidRule, rule.EndDate)
		}
	}

	return lower, upper, nil
}

type clock struct {
	hour, minute int
}

func parseClocks(values []string) ([]clock, error) {
	clocks := make([]clock, 0, len(values))
	for _, raw := range values {
		v := strings.TrimSpace(raw)
		t, err := time.Parse(domain.TimeFormat, v)
		if err != nil {
			t, err = time.Parse("15:04:05", v)
		}
		if err != nil {
			t, err = time.Parse("3:04", v)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: time %q", ErrInvalidRule, raw)
		}
		clocks = append(clocks, clock{hour: t.Hour(), minute: t.Minute()})
	}
	return clocks, nil
}

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

// ParseWeekday разбирает день недели: имя ("monday", "mon") или номер ISO-8601 (1 = понедельник, 7 = воскресенье; 0 тоже воскресенье)
func ParseWeekday(raw string) (time.Weekday, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if wd, ok := weekdayNames[v]; ok {
		return wd, nil
	}
	if n, err := strconv.Atoi(v); err == nil && n >= 0 && n <= 7 {
		return time.Weekday(n % 7), nil
	}
	return time.Sunday, fmt.Errorf("%w: weekday %q", ErrInvalidRule, raw)
}

func dayStart(t time.Time, loc *time.Location) time.Time {
	l := t.In(loc)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, loc)
}
