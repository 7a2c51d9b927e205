package model

import "testing"

func TestLevelForPoints(t *testing.T) {
	cases := []struct {
		points int
		want   int
	}{
		{points: -10, want: 1},
		{points: 0, want: 1},
		{points: 499, want: 1},
		{points: 500, want: 2},
		{points: 2500, want: 6},
		{points: 9499, want: 19},
		{points: 9500, want: 20},
		{points: 10000, want: 20},
		{points: 50000, want: 20},
	}
	for _, tc := range cases {
		if got := LevelForPoints(tc.points); got != tc.want {
			t.Fatalf("LevelForPoints(%d): expected %d, got %d", tc.points, tc.want, got)
		}
	}
}

func TestUnlockIsMonotoneAndIdempotent(t *testing.T) {
	stats := DefaultUserStats()
	if !stats.Unlock(AchievementEagleEye) {
		t.Fatal("expected first unlock to report a change")
	}
	if stats.Unlock(AchievementEagleEye) {
		t.Fatal("expected second unlock to be a no-op")
	}
	if !stats.IsUnlocked(AchievementEagleEye) {
		t.Fatal("expected eagle_eye unlocked")
	}
	if stats.Unlock(AchievementID("unknown")) {
		t.Fatal("expected unknown id to be ignored")
	}
	if stats.UnlockedCount() != 1 {
		t.Fatalf("expected 1 unlocked, got %d", stats.UnlockedCount())
	}
}

func TestCloneDoesNotShareAchievements(t *testing.T) {
	stats := DefaultUserStats()
	clone := stats.Clone()
	clone.Unlock(AchievementBiohacker)
	if stats.IsUnlocked(AchievementBiohacker) {
		t.Fatal("clone mutation leaked into original")
	}
}

func TestNormalizeRepairsStoredRecord(t *testing.T) {
	stats := UserStats{
		Points:        12000,
		Level:         3,
		CurrentStreak: -2,
		Achievements: []Achievement{
			{ID: AchievementEagleEye, Unlocked: true},
		},
	}
	stats.Normalize()
	if stats.Points != MaxPoints || stats.Level != MaxLevel {
		t.Fatalf("unexpected points/level after normalize: %+v", stats)
	}
	if stats.CurrentStreak != 0 {
		t.Fatalf("expected streak clamped to 0, got %d", stats.CurrentStreak)
	}
	if len(stats.Achievements) != len(DefaultAchievements()) {
		t.Fatalf("expected catalog backfilled, got %d entries", len(stats.Achievements))
	}
	if !stats.IsUnlocked(AchievementEagleEye) {
		t.Fatal("normalize must keep existing unlocks")
	}
}

func TestDefaultMilestonesStrictlyIncreasing(t *testing.T) {
	ms := DefaultMilestones()
	if len(ms) != 7 {
		t.Fatalf("expected 7 milestones, got %d", len(ms))
	}
	if ms[0].Points != 0 || ms[len(ms)-1].Points != MaxPoints {
		t.Fatalf("unexpected milestone bounds: %+v", ms)
	}
	for i := 1; i < len(ms); i++ {
		if ms[i].Points <= ms[i-1].Points {
			t.Fatalf("milestones not strictly increasing at %d: %+v", i, ms)
		}
	}
}
