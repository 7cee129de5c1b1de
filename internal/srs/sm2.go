// Package srs 实现SM-2间隔重复调度算法
package srs

import (
	"math"
	"time"
)

const (
	// InitialInterval 新条目的初始间隔（天）
	InitialInterval = 1
	// InitialEaseFactor 新条目的初始难度系数
	InitialEaseFactor = 2.5
	// MinEaseFactor 难度系数下限
	MinEaseFactor = 1.3
	// PassThreshold 质量评分达到该值视为通过
	PassThreshold = 3
)

// Result 一次调度计算的输出，三个参数整体写回队列条目
type Result struct {
	Interval    int       `json:"interval"`
	EaseFactor  float64   `json:"easeFactor"`
	Repetitions int       `json:"repetitions"`
	NextReview  time.Time `json:"nextReview"`
}

// ComputeNextReview 根据当前调度参数和本次作答质量(0-5)计算下次复习参数。
// 通过(quality>=3)时连续次数+1，间隔依次为1天、6天、round(间隔×难度系数)；
// 失败时连续次数和间隔重置，难度系数不变。难度系数不低于1.3，间隔无上限。
func ComputeNextReview(currentInterval, repetitions int, easeFactor float64, quality int) Result {
	return computeNextReviewAt(currentInterval, repetitions, easeFactor, quality, time.Now())
}

func computeNextReviewAt(currentInterval, repetitions int, easeFactor float64, quality int, now time.Time) Result {
	if quality < 0 {
		quality = 0
	}
	if quality > 5 {
		quality = 5
	}

	newInterval := currentInterval
	newEaseFactor := easeFactor
	newRepetitions := repetitions

	if quality >= PassThreshold {
		newRepetitions++

		switch newRepetitions {
		case 1:
			newInterval = 1
		case 2:
			newInterval = 6
		default:
			newInterval = int(math.Round(float64(currentInterval) * easeFactor))
		}

		q := float64(quality)
		newEaseFactor = easeFactor + (0.1 - (5-q)*(0.08+(5-q)*0.02))
	} else {
		newRepetitions = 0
		newInterval = 1
	}

	if newEaseFactor < MinEaseFactor {
		newEaseFactor = MinEaseFactor
	}

	return Result{
		Interval:    newInterval,
		EaseFactor:  newEaseFactor,
		Repetitions: newRepetitions,
		NextReview:  now.AddDate(0, 0, newInterval),
	}
}
