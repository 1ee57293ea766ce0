package demo

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

// Granularity selects how much text each reveal tick adds.
type Granularity string

const (
	GranularityChar Granularity = "char"
	GranularityWord Granularity = "word"
)

// TypewriterConfig controls the pacing of a reveal. Jitter perturbs tick
// timing only; the emitted prefixes and final string are unaffected.
type TypewriterConfig struct {
	CharDelay        time.Duration
	StartDelay       time.Duration
	Granularity      Granularity
	PunctuationPause map[rune]time.Duration
	JitterFraction   float64
}

// defaultPunctuationPause mimics a natural speaking cadence: longer holds on
// sentence breaks, shorter on clause breaks.
var defaultPunctuationPause = map[rune]time.Duration{
	'.': 300 * time.Millisecond,
	'!': 300 * time.Millisecond,
	'?': 300 * time.Millisecond,
	',': 150 * time.Millisecond,
	':': 200 * time.Millisecond,
	';': 200 * time.Millisecond,
}

// DefaultTypewriterConfig matches the marketing site's natural speaking pace
// (about 22 characters per second).
func DefaultTypewriterConfig() TypewriterConfig {
	return TypewriterConfig{
		CharDelay:   45 * time.Millisecond,
		Granularity: GranularityChar,
	}
}

// Typewriter reveals a string as a monotonically growing sequence of
// prefixes. At most one reveal is active per instance; starting a new reveal
// cancels the previous one, and Cancel is idempotent.
type Typewriter struct {
	mu    sync.Mutex
	epoch uint64
}

// Start begins revealing text. onTick receives each prefix in order; onDone
// fires exactly once after the final prefix (the full string) unless the
// reveal is cancelled first.
func (t *Typewriter) Start(text string, cfg TypewriterConfig, onTick func(prefix string), onDone func()) {
	t.mu.Lock()
	t.epoch++
	epoch := t.epoch
	t.mu.Unlock()

	if cfg.CharDelay <= 0 {
		cfg.CharDelay = 45 * time.Millisecond
	}
	if cfg.Granularity == "" {
		cfg.Granularity = GranularityChar
	}
	pauses := cfg.PunctuationPause
	if pauses == nil {
		pauses = defaultPunctuationPause
	}

	go t.run(epoch, text, cfg, pauses, onTick, onDone)
}

// Cancel stops the active reveal, discarding remaining ticks. Calling it
// with no active reveal is a no-op.
func (t *Typewriter) Cancel() {
	t.mu.Lock()
	t.epoch++
	t.mu.Unlock()
}

func (t *Typewriter) alive(epoch uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.epoch == epoch
}

func (t *Typewriter) run(epoch uint64, text string, cfg TypewriterConfig, pauses map[rune]time.Duration, onTick func(string), onDone func()) {
	if cfg.StartDelay > 0 {
		time.Sleep(cfg.StartDelay)
	}

	prefixes := buildPrefixes(text, cfg.Granularity)
	for _, step := range prefixes {
		if !t.alive(epoch) {
			return
		}
		if onTick != nil {
			onTick(step.prefix)
		}

		delay := cfg.CharDelay
		if pause, ok := pauses[step.last]; ok {
			delay += pause
		}
		if cfg.JitterFraction > 0 {
			spread := (rand.Float64()*2 - 1) * cfg.JitterFraction
			delay = time.Duration(float64(delay) * (1 + spread))
		}
		time.Sleep(delay)
	}

	if !t.alive(epoch) {
		return
	}
	if onDone != nil {
		onDone()
	}
}

type revealStep struct {
	prefix string
	last   rune
}

// buildPrefixes precomputes the deterministic prefix sequence so pacing
// jitter can never alter the revealed text.
func buildPrefixes(text string, granularity Granularity) []revealStep {
	if text == "" {
		return nil
	}

	if granularity == GranularityWord {
		var steps []revealStep
		rest := text
		consumed := 0
		for rest != "" {
			idx := strings.IndexFunc(rest, func(r rune) bool { return r == ' ' })
			if idx < 0 {
				consumed = len(text)
			} else {
				// Include the trailing space with the word.
				consumed += idx + 1
			}
			prefix := text[:consumed]
			last, _ := lastRune(strings.TrimRight(prefix, " "))
			steps = append(steps, revealStep{prefix: prefix, last: last})
			if consumed >= len(text) {
				break
			}
			rest = text[consumed:]
		}
		// The final prefix must be the exact full string.
		steps[len(steps)-1].prefix = text
		return steps
	}

	runes := []rune(text)
	steps := make([]revealStep, 0, len(runes))
	for i := range runes {
		steps = append(steps, revealStep{prefix: string(runes[:i+1]), last: runes[i]})
	}
	return steps
}

func lastRune(s string) (rune, bool) {
	var r rune
	found := false
	for _, c := range s {
		r = c
		found = true
	}
	return r, found
}
