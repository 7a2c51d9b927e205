package model

import (
	"time"
)

const (
	MaxPoints      = 10000
	PointsPerLevel = 500
	MaxLevel       = 20
)

type AchievementID string

const (
	AchievementFirstStreak  AchievementID = "first_streak"
	AchievementEagleEye     AchievementID = "eagle_eye"
	AchievementModuleMaster AchievementID = "module_master"
	AchievementBiohacker    AchievementID = "biohacker"
	AchievementFirstSale    AchievementID = "first_sale"
)

type Achievement struct {
	ID          AchievementID `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Unlocked    bool          `json:"unlocked"`
	Icon        string        `json:"icon"`
}

// DefaultAchievements returns a fresh copy of the catalog, all locked.
func DefaultAchievements() []Achievement {
	return []Achievement{
		{ID: AchievementFirstStreak, Title: "Constância Inicial", Description: "Mantenha o foco por 3 dias seguidos", Icon: "🔥"},
		{ID: AchievementEagleEye, Title: "Visão de Águia", Description: "Alcance 2.500 pontos", Icon: "🦅"},
		{ID: AchievementModuleMaster, Title: "Mestre da Execução", Description: "Alcance o nível máximo (10.000 pts)", Icon: "🏆"},
		{ID: AchievementBiohacker, Title: "Biohacker", Description: "Complete 5 sessões de Timer", Icon: "🧬"},
		{ID: AchievementFirstSale, Title: "A Lenda Viva", Description: "Realizou um Marco Extremo (Venda/Meta).", Icon: "💎"},
	}
}

type UserStats struct {
	Points         int           `json:"points"`
	Level          int           `json:"level"`
	CurrentStreak  int           `json:"currentStreak"`
	LastActiveDate time.Time     `json:"lastActiveDate"`
	Achievements   []Achievement `json:"achievements"`
}

// DefaultUserStats is the zero-state record. LastActiveDate is left zero so the first streak
// update of a new user counts as day one.
func DefaultUserStats() UserStats {
	return UserStats{
		Points:        0,
		Level:         1,
		CurrentStreak: 0,
		Achievements:  DefaultAchievements(),
	}
}

// LevelForPoints is min(floor(points/500)+1, 20).
func LevelForPoints(points int) int {
	if points < 0 {
		points = 0
	}
	level := points/PointsPerLevel + 1
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

func (s UserStats) Clone() UserStats {
	out := s
	out.Achievements = append([]Achievement(nil), s.Achievements...)
	return out
}

func (s UserStats) Achievement(id AchievementID) (Achievement, bool) {
	for _, a := range s.Achievements {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

func (s UserStats) IsUnlocked(id AchievementID) bool {
	a, ok := s.Achievement(id)
	return ok && a.Unlocked
}

func (s UserStats) UnlockedCount() int {
	n := 0
	for _, a := range s.Achievements {
		if a.Unlocked {
			n++
		}
	}
	return n
}

// Unlock flips the achievement to unlocked. It reports false for unknown ids and for
// achievements that were already unlocked.
func (s *UserStats) Unlock(id AchievementID) bool {
	for i := range s.Achievements {
		if s.Achievements[i].ID != id {
			continue
		}
		if s.Achievements[i].Unlocked {
			return false
		}
		s.Achievements[i].Unlocked = true
		return true
	}
	return false
}

// Normalize repairs a record read back from storage: points are clamped, level is re-derived
// from points and catalog entries missing from an older record are appended.
func (s *UserStats) Normalize() {
	if s.Points < 0 {
		s.Points = 0
	}
	if s.Points > MaxPoints {
		s.Points = MaxPoints
	}
	s.Level = LevelForPoints(s.Points)
	if s.CurrentStreak < 0 {
		s.CurrentStreak = 0
	}
	known := make(map[AchievementID]bool, len(s.Achievements))
	for _, a := range s.Achievements {
		known[a.ID] = true
	}
	for _, a := range DefaultAchievements() {
		if !known[a.ID] {
			s.Achievements = append(s.Achievements, a)
		}
	}
}
