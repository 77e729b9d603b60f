// Package main はAIを使わずに万年暦の計算だけを行うCLIです。
//
// 使い方:
//
//	bazi convert --date 2024-10-15 --time 12:00
//	bazi validate --date 2024-10-15 --pillar 壬子
//	bazi draw-dates --from 2026-10-19
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"bazi_backend/internal/feature/bazi/adapters/lunar"
	"bazi_backend/internal/feature/bazi/domain/entity"
	"bazi_backend/internal/feature/bazi/usecase"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var sect int

	root := &cobra.Command{
		Use:          "bazi",
		Short:        "Perpetual calendar tools for four-pillar charts",
		SilenceUsage: true,
	}
	root.PersistentFlags().IntVar(&sect, "sect", int(entity.DefaultSect), "late rat hour convention (1: next day, 2: same day)")

	calendar := func() (*usecase.CalendarUsecase, error) {
		if !entity.Sect(sect).Valid() {
			return nil, fmt.Errorf("--sect must be 1 or 2, got %d", sect)
		}
		return usecase.NewCalendarUsecase(lunar.NewCalculator(), entity.Sect(sect), entity.DefaultDrawSchedule()), nil
	}

	root.AddCommand(newConvertCmd(calendar), newValidateCmd(calendar), newDrawDatesCmd(calendar))
	return root
}

type calendarFactory func() (*usecase.CalendarUsecase, error)

func newConvertCmd(calendar calendarFactory) *cobra.Command {
	var date, clock string
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a solar date and time into four pillars",
		RunE: func(cmd *cobra.Command, args []string) error {
			cal, err := calendar()
			if err != nil {
				return err
			}
			conv, err := cal.ConvertSolar(date, clock)
			if err != nil {
				return err
			}
			p := conv.Pillars
			fmt.Fprintf(cmd.OutOrStdout(), "年柱 %s\n月柱 %s\n日柱 %s\n時柱 %s\n", p.Year, p.Month, p.Day, p.Hour)
			if conv.Degraded() {
				fmt.Fprintln(cmd.OutOrStdout(), "precision: degraded (noon fallback)")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "solar date (2006-01-02)")
	cmd.Flags().StringVar(&clock, "time", "12:00", "local time (15:04)")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func newValidateCmd(calendar calendarFactory) *cobra.Command {
	var date, pillar string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a day pillar against a solar date",
		RunE: func(cmd *cobra.Command, args []string) error {
			cal, err := calendar()
			if err != nil {
				return err
			}
			check, err := cal.ValidateDayPillarOn(date, entity.Pillar(pillar))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s", date, check.Claimed, check.Status)
			if check.Status == entity.CheckMismatch {
				fmt.Fprintf(cmd.OutOrStdout(), " (expected %s)", check.Expected)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "solar date (2006-01-02)")
	cmd.Flags().StringVar(&pillar, "pillar", "", "claimed day pillar, e.g. 壬子")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("pillar")
	return cmd
}

func newDrawDatesCmd(calendar calendarFactory) *cobra.Command {
	var from, tz string
	cmd := &cobra.Command{
		Use:   "draw-dates",
		Short: "List Mark Six draw dates in the next seven days with their day pillars",
		RunE: func(cmd *cobra.Command, args []string) error {
			cal, err := calendar()
			if err != nil {
				return err
			}
			loc, err := time.LoadLocation(tz)
			if err != nil {
				return fmt.Errorf("invalid --tz: %w", err)
			}
			today := time.Now().In(loc)
			if from != "" {
				d, err := entity.ParseSolarDate(from)
				if err != nil {
					return err
				}
				today = time.Date(d.Year, time.Month(d.Month), d.Day, 12, 0, 0, 0, loc)
			}
			cs, err := cal.UpcomingDrawDates(today)
			if err != nil {
				return err
			}
			for _, c := range cs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", c.Date, c.DayOfWeek, c.DayPillar)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "start date (default: today)")
	cmd.Flags().StringVar(&tz, "tz", "Asia/Hong_Kong", "time zone used for today")
	return cmd
}
