package service

import (
	"family_habit_backend/internal/model"
	"fmt"
	"math"
)

const (
	suggestionPositive    = "positive"
	suggestionImprovement = "improvement"
)

type ReportSuggestion struct {
	Type    string `json:"type"` // positive / improvement
	Title   string `json:"title"`
	Content string `json:"content"`
}

type ReportAchievement struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type HabitCompletion struct {
	HabitID    uint   `json:"habitId"`
	Name       string `json:"name"`
	Completion int    `json:"completion"`
	Completed  int    `json:"completed"`
	Total      int    `json:"total"`
}

// DailyReport 当日成长报告：总体完成率、各习惯完成情况、建议与成就
type DailyReport struct {
	Date              string             `json:"date"`
	OverallCompletion int                `json:"overallCompletion"`
	HabitCompletions  []HabitCompletion  `json:"habitCompletions"`
	Suggestions       []ReportSuggestion `json:"suggestions"`
	Achievement       ReportAchievement  `json:"achievement"`
}

// BuildDailyReport 基于当日任务实例做纯计算生成报告。
// habits 用于圈定启用中的习惯（无任务的习惯也出现在报告里，完成率记 0）；
// tasks 是今日任务清单，带完成标记。空输入产出零值报告，不报错。
func BuildDailyReport(habits []model.Habit, tasks []TodayTask) *DailyReport {
	completed := 0
	for _, t := range tasks {
		if t.Completed {
			completed++
		}
	}

	overall := 0
	if len(tasks) > 0 {
		overall = int(math.Round(float64(completed) / float64(len(tasks)) * 100))
	}

	completedByHabit := make(map[uint]int)
	totalByHabit := make(map[uint]int)
	for _, t := range tasks {
		totalByHabit[t.HabitID]++
		if t.Completed {
			completedByHabit[t.HabitID]++
		}
	}

	habitCompletions := make([]HabitCompletion, 0, len(habits))
	for _, h := range habits {
		if !h.Active {
			continue
		}
		total := totalByHabit[h.ID]
		done := completedByHabit[h.ID]
		completion := 0
		if total > 0 {
			completion = int(math.Round(float64(done) / float64(total) * 100))
		}
		habitCompletions = append(habitCompletions, HabitCompletion{
			HabitID:    h.ID,
			Name:       h.Name,
			Completion: completion,
			Completed:  done,
			Total:      total,
		})
	}

	suggestions := make([]ReportSuggestion, 0, 1+len(habitCompletions))
	switch {
	case overall >= 80:
		suggestions = append(suggestions, ReportSuggestion{
			Type:    suggestionPositive,
			Title:   "继续保持",
			Content: "你今天的完成度非常高，继续保持这样的好习惯！",
		})
	case overall >= 50:
		suggestions = append(suggestions, ReportSuggestion{
			Type:    suggestionImprovement,
			Title:   "还可以更好",
			Content: "虽然完成了一半以上的任务，但还有提升的空间。",
		})
	default:
		suggestions = append(suggestions, ReportSuggestion{
			Type:    suggestionImprovement,
			Title:   "需要加油",
			Content: "今天的完成度较低，建议制定更详细的计划来提高效率。",
		})
	}

	for _, hc := range habitCompletions {
		if hc.Completion < 50 {
			suggestions = append(suggestions, ReportSuggestion{
				Type:    suggestionImprovement,
				Title:   fmt.Sprintf("关于%s", hc.Name),
				Content: fmt.Sprintf("在%s方面的完成度较低，建议多关注这个习惯的培养。", hc.Name),
			})
		}
	}

	var achievement ReportAchievement
	switch {
	case overall == 100:
		// 100% 是独立档位，不落入 >=80 档
		achievement = ReportAchievement{Title: "完美达成", Description: "太棒了！今天所有任务都完成了！"}
	case overall >= 80:
		achievement = ReportAchievement{Title: "优秀表现", Description: "今天完成度很高，继续加油！"}
	case overall >= 50:
		achievement = ReportAchievement{Title: "稳步前进", Description: "完成了一半以上的任务，继续努力！"}
	default:
		achievement = ReportAchievement{Title: "开始起步", Description: "今天是新的开始，明天继续加油！"}
	}

	return &DailyReport{
		OverallCompletion: overall,
		HabitCompletions:  habitCompletions,
		Suggestions:       suggestions,
		Achievement:       achievement,
	}
}
