package service

import (
	"family_habit_backend/internal/model"
	"family_habit_backend/internal/util"
	"sort"
	"time"
)

// streakLookbackDays 连续打卡回溯窗口
const streakLookbackDays = 30

// completionRateCycleDays 完成率按 7 天观察周期估算（产品口径，不按习惯实际存在天数推导）
const completionRateCycleDays = 7

type OverviewCounters struct {
	TotalHabits         int `json:"totalHabits"`
	ActiveHabits        int `json:"activeHabits"`
	TotalPoints         int `json:"totalPoints"`
	TotalTasksCompleted int `json:"totalTasksCompleted"`
	TodayCompletions    int `json:"todayCompletions"`
	TodayPoints         int `json:"todayPoints"`
	WeekCompletions     int `json:"weekCompletions"`
	WeekPoints          int `json:"weekPoints"`
}

type HabitStat struct {
	HabitID          uint    `json:"habitId"`
	HabitName        string  `json:"habitName"`
	Category         string  `json:"category"`
	TotalCompletions int     `json:"totalCompletions"`
	WeekCompletions  int     `json:"weekCompletions"`
	CompletionRate   float64 `json:"completionRate"`
}

type DailyTrendEntry struct {
	Date        string `json:"date"`
	Completions int    `json:"completions"`
	Points      int    `json:"points"`
}

type CategoryStat struct {
	TotalHabits  int `json:"totalHabits"`
	ActiveHabits int `json:"activeHabits"`
	Completions  int `json:"completions"`
	Points       int `json:"points"`
}

type StreakStats struct {
	CurrentStreak   int `json:"currentStreak"`
	MaxStreak       int `json:"maxStreak"`
	TotalActiveDays int `json:"totalActiveDays"`
}

// OverviewStats 统计概览，可直接序列化为接口响应
type OverviewStats struct {
	Overview      OverviewCounters        `json:"overview"`
	HabitStats    []HabitStat             `json:"habitStats"`
	DailyTrend    []DailyTrendEntry       `json:"dailyTrend"`
	CategoryStats map[string]CategoryStat `json:"categoryStats"`
	StreakStats   StreakStats             `json:"streakStats"`
	TopHabits     []HabitStat             `json:"topHabits"`
}

// BuildOverview 对习惯列表、打卡流水快照做纯计算，生成统计概览。
// 不做任何 I/O，空输入返回零值结构；打卡记录引用已删除习惯时
// 只计入全局计数，不进入对应习惯分组（悬空引用是正常情况）。
func BuildOverview(habits []model.Habit, completions []model.TaskCompletion, balance int, today time.Time) *OverviewStats {
	todayStr := today.Format(util.DateFormat)
	weekStart := today.AddDate(0, 0, -(completionRateCycleDays - 1)).Format(util.DateFormat)

	totalByHabit := make(map[uint]int)
	weekByHabit := make(map[uint]int)
	pointsByHabit := make(map[uint]int)
	dateCount := make(map[string]int)
	datePoints := make(map[string]int)

	counters := OverviewCounters{
		TotalHabits:         len(habits),
		TotalPoints:         balance,
		TotalTasksCompleted: len(completions),
	}

	for _, c := range completions {
		totalByHabit[c.HabitID]++
		pointsByHabit[c.HabitID] += c.PointsEarned
		dateCount[c.Date]++
		datePoints[c.Date] += c.PointsEarned

		if c.Date == todayStr {
			counters.TodayCompletions++
			counters.TodayPoints += c.PointsEarned
		}
		// 字符串日期按 YYYY-MM-DD 字典序比较
		if c.Date >= weekStart {
			counters.WeekCompletions++
			counters.WeekPoints += c.PointsEarned
			weekByHabit[c.HabitID]++
		}
	}

	habitStats := make([]HabitStat, 0, len(habits))
	categoryStats := make(map[string]CategoryStat)
	for _, h := range habits {
		if h.Active {
			counters.ActiveHabits++
		}

		rate := 0.0
		if len(h.Tasks) > 0 {
			// 超过一周的累计会让比率超过 100，这是预期行为，不做截断
			rate = float64(totalByHabit[h.ID]) / float64(len(h.Tasks)*completionRateCycleDays) * 100
		}
		habitStats = append(habitStats, HabitStat{
			HabitID:          h.ID,
			HabitName:        h.Name,
			Category:         h.Category,
			TotalCompletions: totalByHabit[h.ID],
			WeekCompletions:  weekByHabit[h.ID],
			CompletionRate:   rate,
		})

		cs := categoryStats[h.Category]
		cs.TotalHabits++
		if h.Active {
			cs.ActiveHabits++
		}
		cs.Completions += totalByHabit[h.ID]
		cs.Points += pointsByHabit[h.ID]
		categoryStats[h.Category] = cs
	}

	dailyTrend := make([]DailyTrendEntry, 0, completionRateCycleDays)
	for i := completionRateCycleDays - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i).Format(util.DateFormat)
		dailyTrend = append(dailyTrend, DailyTrendEntry{
			Date:        date,
			Completions: dateCount[date],
			Points:      datePoints[date],
		})
	}

	topHabits := make([]HabitStat, len(habitStats))
	copy(topHabits, habitStats)
	// 稳定排序：完成数相同的习惯保持原有先后
	sort.SliceStable(topHabits, func(i, j int) bool {
		return topHabits[i].TotalCompletions > topHabits[j].TotalCompletions
	})
	if len(topHabits) > 5 {
		topHabits = topHabits[:5]
	}

	return &OverviewStats{
		Overview:      counters,
		HabitStats:    habitStats,
		DailyTrend:    dailyTrend,
		CategoryStats: categoryStats,
		StreakStats:   calculateStreaks(dateCount, today),
		TopHabits:     topHabits,
	}
}

// calculateStreaks 从今天起向前回溯最多 30 天统计连续打卡。
// 今天还没有打卡不立即断连（继续看昨天），但更早的空档直接终止回溯；
// 只有 i==0 或已处于连续状态时计数才会增长。TotalActiveDays 统计
// 全部历史中有打卡的天数，不受 30 天窗口限制。
func calculateStreaks(dateCount map[string]int, today time.Time) StreakStats {
	currentStreak := 0
	maxStreak := 0

	for i := 0; i < streakLookbackDays; i++ {
		date := today.AddDate(0, 0, -i).Format(util.DateFormat)
		if dateCount[date] > 0 {
			if i == 0 || currentStreak > 0 {
				currentStreak++
			}
			if currentStreak > maxStreak {
				maxStreak = currentStreak
			}
		} else if i != 0 {
			break
		}
	}

	return StreakStats{
		CurrentStreak:   currentStreak,
		MaxStreak:       maxStreak,
		TotalActiveDays: len(dateCount),
	}
}
