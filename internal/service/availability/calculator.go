package availability

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-ExperienceBooking/internal/domain"
	slotRepo "github.com/m04kA/SMC-ExperienceBooking/internal/infra/storage/slot"
)

// Calculator рассчитывает доступные слоты: сохраненные и виртуальные (из правила повторения)
//
// Политика ошибок:
//   - GetSlotsInRange, HasBufferConflict - рекомендательные: плохой ввод чинится (now, clamp, false), а не возвращается ошибкой
//   - HasBufferConflictStrict - для путей, блокирующих запись: плохой ввод возвращает ошибку
//   - PassesLeadTime закрывается в false, если слот не найден
type Calculator struct {
	slots        SlotRepository
	experiences  ExperienceSource
	expander     RecurrenceExpander
	loc          *time.Location
	horizon      time.Duration
	timeProvider TimeProvider
	logger       Logger
}

// NewCalculator создает новый экземпляр калькулятора доступности
// loc - часовой пояс сайта, horizon - глубина выборки ближайших слотов (по умолчанию год)
func NewCalculator(
	slots SlotRepository,
	experiences ExperienceSource,
	expander RecurrenceExpander,
	loc *time.Location,
	horizon time.Duration,
	logger Logger,
) *Calculator {
	if loc == nil {
		loc = time.UTC
	}
	if horizon <= 0 {
		horizon = domain.DefaultHorizon
	}
	return &Calculator{
		slots:        slots,
		experiences:  experiences,
		expander:     expander,
		loc:          loc,
		horizon:      horizon,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Location часовой пояс сайта
func (c *Calculator) Location() *time.Location {
	return c.loc
}

// Now текущее время в часовом поясе сайта
func (c *Calculator) Now() time.Time {
	return c.timeProvider.Now().In(c.loc)
}

// GetUpcomingForExperience возвращает до limit ближайших открытых слотов впечатления в окне [now, now+horizon]
// Виртуальные вхождения правила повторения включаются наравне с сохраненными
func (c *Calculator) GetUpcomingForExperience(ctx context.Context, experienceID int64, limit int) ([]domain.SlotView, error) {
	if limit <= 0 {
		limit = domain.DefaultUpcomingLimit
	}

	now := c.Now()
	window, err := domain.NewTimeRange(now, now.Add(c.horizon))
	if err != nil {
		return nil, fmt.Errorf("%w: GetUpcomingForExperience - build window: %v", ErrInternal, err)
	}

	views, err := c.collect(ctx, window, RangeFilter{
		ExperienceID: experienceID,
		Statuses:     []domain.SlotStatus{domain.SlotStatusOpen},
	})
	if err != nil {
		c.logger.Error("GetUpcomingForExperience: experience_id=%d: %v", experienceID, err)
		return nil, err
	}

	upcoming := make([]domain.SlotView, 0, limit)
	for _, v := range views {
		tr, err := v.TimeRange()
		if err != nil || tr.Start().Before(now) {
			continue
		}
		upcoming = append(upcoming, v)
		if len(upcoming) == limit {
			break
		}
	}

	return upcoming, nil
}

// GetSlotsInRange возвращает слоты в окне [start, end] с полем duration (минуты)
//
// Окно разбирается мягко: неразбираемое начало или конец заменяются на now,
// конец в виде даты (YYYY-MM-DD) означает конец этого дня, end < start сжимается до start.
// Статусы по умолчанию - open и closed
func (c *Calculator) GetSlotsInRange(ctx context.Context, start, end string, filter RangeFilter) ([]domain.SlotView, error) {
	window := c.lenientWindow(start, end)

	views, err := c.collect(ctx, window, filter)
	if err != nil {
		c.logger.Error("GetSlotsInRange: window=%s: %v", window.String(), err)
		return nil, err
	}

	for i := range views {
		if tr, err := views[i].TimeRange(); err == nil {
			views[i] = views[i].WithDuration(tr.DurationMinutes())
		}
	}

	return views, nil
}

// PassesLeadTime проверяет, что до начала слота не меньше leadTimeHours часов
// Несуществующий слот не проходит проверку
func (c *Calculator) PassesLeadTime(ctx context.Context, slotID int64, leadTimeHours int) bool {
	if slotID <= 0 {
		return false
	}

	slot, err := c.slots.FindByID(ctx, slotID)
	if err != nil {
		if !errors.Is(err, slotRepo.ErrSlotNotFound) {
			c.logger.Error("PassesLeadTime: slot_id=%d: %v", slotID, err)
		}
		return false
	}

	return c.PassesLeadTimeAt(slot.TimeRange, leadTimeHours)
}

// PassesLeadTimeAt проверяет lead time для окна, у которого еще может не быть сохраненного слота
func (c *Calculator) PassesLeadTimeAt(tr domain.TimeRange, leadTimeHours int) bool {
	if leadTimeHours < 0 {
		leadTimeHours = 0
	}
	earliest := c.Now().Add(time.Duration(leadTimeHours) * time.Hour)
	return !tr.Start().Before(earliest)
}

// HasBufferConflict рекомендательная проверка буферов для админских сценариев
// Некорректные даты или ошибки хранилища дают false (конфликт не найден).
// Для путей, блокирующих бронирование, использовать HasBufferConflictStrict
func (c *Calculator) HasBufferConflict(
	ctx context.Context,
	experienceID int64,
	startUTC, endUTC string,
	bufferBeforeMinutes, bufferAfterMinutes int,
	excludeSlotID int64,
) bool {
	if bufferBeforeMinutes < 0 {
		bufferBeforeMinutes = 0
	}
	if bufferAfterMinutes < 0 {
		bufferAfterMinutes = 0
	}

	conflict, err := c.HasBufferConflictStrict(ctx, experienceID, startUTC, endUTC, bufferBeforeMinutes, bufferAfterMinutes, excludeSlotID)
	if err != nil {
		c.logger.Warn("HasBufferConflict: check skipped for experience_id=%d: %v", experienceID, err)
		return false
	}
	return conflict
}

// HasBufferConflictStrict проверяет, пересекается ли окно, расширенное на буферы, с другим слотом впечатления
// Отмененные слоты и слот excludeSlotID не учитываются. Касание границ не считается пересечением
func (c *Calculator) HasBufferConflictStrict(
	ctx context.Context,
	experienceID int64,
	startUTC, endUTC string,
	bufferBeforeMinutes, bufferAfterMinutes int,
	excludeSlotID int64,
) (bool, error) {
	tr, err := domain.TimeRangeFromUTCStrings(startUTC, endUTC)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidWindow, err)
	}
	if bufferBeforeMinutes < 0 || bufferAfterMinutes < 0 ||
		bufferBeforeMinutes > domain.MaxBufferMinutes || bufferAfterMinutes > domain.MaxBufferMinutes {
		return false, fmt.Errorf("%w: before=%d after=%d", ErrInvalidBuffer, bufferBeforeMinutes, bufferAfterMinutes)
	}

	return c.bufferConflict(ctx, experienceID, tr,
		time.Duration(bufferBeforeMinutes)*time.Minute,
		time.Duration(bufferAfterMinutes)*time.Minute,
		excludeSlotID)
}

func (c *Calculator) bufferConflict(
	ctx context.Context,
	experienceID int64,
	tr domain.TimeRange,
	before, after time.Duration,
	excludeSlotID int64,
) (bool, error) {
	expanded := tr.Expand(before, after)

	candidates, err := c.slots.FindByTimeRange(ctx, expanded, slotRepo.Filter{ExperienceID: experienceID})
	if err != nil {
		return false, fmt.Errorf("%w: bufferConflict - find slots: %v", ErrInternal, err)
	}

	for _, s := range candidates {
		if s.ID == excludeSlotID || s.Status == domain.SlotStatusCancelled {
			continue
		}
		if s.TimeRange.Overlaps(expanded) {
			return true, nil
		}
	}
	return false, nil
}

// collect объединяет сохраненные и виртуальные слоты окна, отсортированные по началу
// Сохраненный слот любого статуса затеняет виртуальное вхождение с тем же окном
func (c *Calculator) collect(ctx context.Context, window domain.TimeRange, filter RangeFilter) ([]domain.SlotView, error) {
	statuses := filter.statuses()

	persisted, err := c.slots.FindByTimeRange(ctx, window, slotRepo.Filter{ExperienceID: filter.ExperienceID})
	if err != nil {
		return nil, fmt.Errorf("%w: collect - find slots: %v", ErrInternal, err)
	}

	taken := make(map[string]struct{}, len(persisted))
	views := make([]domain.SlotView, 0, len(persisted))
	for _, s := range persisted {
		taken[s.TimeRange.Key()] = struct{}{}
		if statuses[s.Status] {
			views = append(views, s.ToView())
		}
	}

	if filter.ExperienceID > 0 && statuses[domain.SlotStatusOpen] {
		views = append(views, c.virtualViews(ctx, filter.ExperienceID, window, taken)...)
	}

	sort.SliceStable(views, func(i, j int) bool {
		if views[i].StartDatetime != views[j].StartDatetime {
			return views[i].StartDatetime < views[j].StartDatetime
		}
		return views[i].ID < views[j].ID
	})

	return views, nil
}

// virtualViews строит виртуальные слоты; любые ошибки приводят к пустому списку
func (c *Calculator) virtualViews(ctx context.Context, experienceID int64, window domain.TimeRange, taken map[string]struct{}) []domain.SlotView {
	meta, err := c.experiences.GetAvailability(ctx, experienceID)
	if err != nil {
		c.logger.Warn("virtualViews: availability meta unavailable for experience_id=%d: %v", experienceID, err)
		return nil
	}
	if meta.Recurrence.IsEmpty() {
		return nil
	}

	capacity, err := meta.DefaultCapacity()
	if err != nil {
		c.logger.Warn("virtualViews: invalid default capacity for experience_id=%d: %v", experienceID, err)
		return nil
	}

	occurrences, err := c.expander.Expand(meta.Recurrence, window)
	if err != nil {
		c.logger.Warn("virtualViews: cannot expand recurrence for experience_id=%d: %v", experienceID, err)
		return nil
	}

	views := make([]domain.SlotView, 0, len(occurrences))
	for _, o := range occurrences {
		if _, ok := taken[o.Key()]; ok {
			continue
		}
		views = append(views, domain.VirtualSlotView(experienceID, o, capacity))
	}
	return views
}

func (c *Calculator) lenientWindow(start, end string) domain.TimeRange {
	now := c.Now()

	from, err := domain.ParseFlexible(start, c.loc)
	if err != nil {
		from = now
	}

	to, err := domain.ParseFlexible(end, c.loc)
	if err != nil {
		to = now
	} else if domain.IsDateOnly(end) {
		to = time.Date(to.Year(), to.Month(), to.Day()+1, 0, 0, 0, 0, c.loc).Add(-time.Second)
	}

	if to.Before(from) {
		to = from
	}
	if maxTo := from.AddDate(0, 0, domain.MaxRangeDays); to.After(maxTo) {
		to = maxTo
	}

	window, _ := domain.NewTimeRange(from, to)
	return window
}
