package gamification

import "github.com/sandeepkv93/mentord/internal/model"

// SignalKind is the severity of an execution reported to the mentor.
type SignalKind string

const (
	SignalSimple  SignalKind = "SIMPLE"
	SignalHard    SignalKind = "HARD"
	SignalExtreme SignalKind = "EXTREME"
)

func (k SignalKind) IsValid() bool {
	_, ok := rewardTable[k]
	return ok
}

type Reward struct {
	Kind   SignalKind
	Points int
	Label  string
}

var rewardTable = map[SignalKind]Reward{
	SignalSimple:  {Kind: SignalSimple, Points: 50, Label: "EXECUÇÃO TÉCNICA"},
	SignalHard:    {Kind: SignalHard, Points: 100, Label: "DISCIPLINA DE FERRO"},
	SignalExtreme: {Kind: SignalExtreme, Points: 500, Label: "MARCO EXTREMO - LENDA"},
}

func RewardFor(kind SignalKind) (Reward, bool) {
	r, ok := rewardTable[kind]
	return r, ok
}

const (
	// TaskReward is credited when the user confirms a completed focus session.
	TaskReward = 50
	// InteractionReward is credited for every chat message the user sends.
	InteractionReward = 2
	// MindMapReward is credited for every mind map the mentor outlines.
	MindMapReward = 20

	eagleEyeThreshold   = 2500
	streakUnlockDays    = 3
	timerSessionsUnlock = 5
)

// applyPoints adds amount under the cap, raises the level and returns the threshold
// achievements it unlocked.
func applyPoints(stats *model.UserStats, amount int) []model.AchievementID {
	if stats.Points < model.MaxPoints {
		stats.Points = min(stats.Points+amount, model.MaxPoints)
	}
	if level := model.LevelForPoints(stats.Points); level > stats.Level {
		stats.Level = level
	}
	var unlocked []model.AchievementID
	if stats.Points >= eagleEyeThreshold && stats.Unlock(model.AchievementEagleEye) {
		unlocked = append(unlocked, model.AchievementEagleEye)
	}
	if stats.Points >= model.MaxPoints && stats.Unlock(model.AchievementModuleMaster) {
		unlocked = append(unlocked, model.AchievementModuleMaster)
	}
	return unlocked
}
