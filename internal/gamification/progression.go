package gamification

import "github.com/sandeepkv93/mentord/internal/model"

// Progress is the milestone-track position derived from a point total.
type Progress struct {
	CurrentSegmentIndex int
	SegmentFraction     float64
	NextMilestone       *model.Milestone
	PointsToNext        int
	VisualPercentage    float64
}

// DeriveProgress places points on the milestone track. Segments are drawn equidistant,
// so the percentage is the segment index plus the fraction through it, over the segment count.
func DeriveProgress(points int, milestones []model.Milestone) Progress {
	n := len(milestones)
	if n == 0 {
		return Progress{}
	}

	var p Progress
	top := milestones[n-1].Points
	if points >= top {
		p.CurrentSegmentIndex = n - 1
		p.SegmentFraction = 1
	} else {
		for i := 0; i < n-1; i++ {
			if points >= milestones[i].Points && points < milestones[i+1].Points {
				p.CurrentSegmentIndex = i
				span := milestones[i+1].Points - milestones[i].Points
				p.SegmentFraction = float64(points-milestones[i].Points) / float64(span)
				break
			}
		}
	}

	if n == 1 {
		if points >= top {
			p.VisualPercentage = 100
		}
	} else {
		pct := (float64(p.CurrentSegmentIndex) + p.SegmentFraction) / float64(n-1) * 100
		p.VisualPercentage = max(0, min(100, pct))
	}

	for i := range milestones {
		if milestones[i].Points > points {
			next := milestones[i]
			p.NextMilestone = &next
			p.PointsToNext = next.Points - points
			break
		}
	}
	return p
}

var stageNames = []string{"INICIADO", "DESPERTO", "FOCADO", "DOMINANTE", "SOBERANO", "LENDA"}

// EagleStage buckets points into the six badge stages (0..5).
func EagleStage(points int) int {
	switch {
	case points >= 10000:
		return 5
	case points >= 7500:
		return 4
	case points >= 5000:
		return 3
	case points >= 2500:
		return 2
	case points >= 1000:
		return 1
	default:
		return 0
	}
}

func StageName(points int) string {
	return stageNames[EagleStage(points)]
}
