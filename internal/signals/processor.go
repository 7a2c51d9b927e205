package signals

import (
	"context"

	"github.com/sandeepkv93/mentord/internal/gamification"
)

// Rewarder credits a chat-derived signal.
type Rewarder interface {
	ProcessSignal(ctx context.Context, kind gamification.SignalKind) (gamification.Reward, error)
}

// Notice is what the UI shows as a transient toast after a reward.
type Notice struct {
	Points int
	Label  string
	Kind   gamification.SignalKind
}

type Outcome struct {
	Text   string
	Notice *Notice
}

type Processor struct {
	rewarder Rewarder
}

func NewProcessor(rewarder Rewarder) *Processor {
	return &Processor{rewarder: rewarder}
}

// Process hands the first marker in text to the rewarder and returns the text without it.
// Text with no marker comes back unchanged and nothing is credited. If the rewarder fails the
// marker is still stripped so it never reaches the user.
func (p *Processor) Process(ctx context.Context, text string) (Outcome, error) {
	sig, ok := Parse(text)
	if !ok {
		return Outcome{Text: text}, nil
	}
	clean := Strip(text, sig)
	reward, err := p.rewarder.ProcessSignal(ctx, sig.Kind)
	if err != nil {
		return Outcome{Text: clean}, err
	}
	return Outcome{
		Text:   clean,
		Notice: &Notice{Points: reward.Points, Label: reward.Label, Kind: sig.Kind},
	}, nil
}
