package di

import (
	"time"

	"bazi_backend/internal/config"
	"bazi_backend/internal/feature/bazi/adapters/lunar"
	"bazi_backend/internal/feature/bazi/domain/entity"
	"bazi_backend/internal/feature/bazi/usecase"
)

// NewCalendar creates the perpetual calendar usecase from configuration.
func NewCalendar(cfg *config.Config) (*usecase.CalendarUsecase, error) {
	schedule, err := cfg.DrawSchedule()
	if err != nil {
		return nil, err
	}
	return usecase.NewCalendarUsecase(lunar.NewCalculator(), entity.Sect(cfg.Sect), schedule), nil
}

// NewClock returns a clock in the configured time zone.
// Draw dates and lucky-number cache keys are based on the local date it reports.
func NewClock(cfg *config.Config) (func() time.Time, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return func() time.Time { return time.Now().In(loc) }, nil
}
