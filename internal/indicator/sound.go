package indicator

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/jfreymuth/pulse"

	"github.com/openwhisper/openwhisper/internal/config"
)

type cueKind int

const (
	cueStart cueKind = iota + 1
	cueStop
	cueComplete
	cueCancel
)

// Cues share the capture sample rate so one pulse client config serves both.
const cueSampleRate = 16000

// interToneGap separates the notes of a multi-note cue.
const interToneGap = 25 * time.Millisecond

type toneSpec struct {
	frequencyHz float64
	duration    time.Duration
	volume      float64
}

// Each dictation phase gets a distinct voicing: rising for start, a flat
// mid-tone for stop, a rising third for delivered text, falling for cancel.
var cueMelodies = map[cueKind][]toneSpec{
	cueStart:    {{frequencyHz: 784, duration: 60 * time.Millisecond, volume: 0.16}, {frequencyHz: 1047, duration: 80 * time.Millisecond, volume: 0.16}},
	cueStop:     {{frequencyHz: 659, duration: 110 * time.Millisecond, volume: 0.16}},
	cueComplete: {{frequencyHz: 880, duration: 60 * time.Millisecond, volume: 0.16}, {frequencyHz: 1109, duration: 95 * time.Millisecond, volume: 0.16}},
	cueCancel:   {{frequencyHz: 523, duration: 70 * time.Millisecond, volume: 0.16}, {frequencyHz: 392, duration: 95 * time.Millisecond, volume: 0.16}},
}

var cuePCM = func() map[cueKind][]int16 {
	pcm := make(map[cueKind][]int16, len(cueMelodies))
	for kind, melody := range cueMelodies {
		pcm[kind] = synthesizeCue(melody)
	}
	return pcm
}()

// emitCue plays a user-configured cue file when one resolves, otherwise the
// built-in synthesized tone for that cue kind.
func emitCue(kind cueKind, cfg config.IndicatorConfig) error {
	if path := cuePath(kind, cfg); path != "" {
		if err := playCueFile(path); err == nil {
			return nil
		}
	}

	samples := cueSamples(kind)
	if len(samples) == 0 {
		return nil
	}

	return playSynthCue(samples)
}

func cueSamples(kind cueKind) []int16 {
	return cuePCM[kind]
}

func cuePath(kind cueKind, cfg config.IndicatorConfig) string {
	var raw string
	switch kind {
	case cueStart:
		raw = cfg.SoundStartFile
	case cueStop:
		raw = cfg.SoundStopFile
	case cueComplete:
		raw = cfg.SoundCompleteFile
	case cueCancel:
		raw = cfg.SoundCancelFile
	default:
		return ""
	}
	return expandUserPath(raw)
}

func expandUserPath(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if raw == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return raw
		}
		return home
	}
	if !strings.HasPrefix(raw, "~/") {
		return raw
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return raw
	}
	return filepath.Join(home, strings.TrimPrefix(raw, "~/"))
}

func playCueFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("stat cue file %q: %w", path, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "pw-play", "--media-role", "Notification", path)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("play cue file %q: %w", path, err)
	}
	return nil
}

func playSynthCue(samples []int16) error {
	client, err := pulse.NewClient(
		pulse.ClientApplicationName("openwhisper"),
		pulse.ClientApplicationIconName("audio-input-microphone"),
	)
	if err != nil {
		return fmt.Errorf("connect pulse server: %w", err)
	}
	defer client.Close()

	cursor := 0
	reader := pulse.Int16Reader(func(buf []int16) (int, error) {
		if cursor >= len(samples) {
			return 0, pulse.EndOfData
		}

		n := copy(buf, samples[cursor:])
		cursor += n
		if cursor >= len(samples) {
			return n, pulse.EndOfData
		}
		return n, nil
	})

	stream, err := client.NewPlayback(
		reader,
		pulse.PlaybackMono,
		pulse.PlaybackSampleRate(cueSampleRate),
		pulse.PlaybackLatency(0.02),
		pulse.PlaybackMediaName("openwhisper indicator cue"),
	)
	if err != nil {
		return fmt.Errorf("create pulse playback stream: %w", err)
	}
	defer stream.Close()

	stream.Start()
	stream.Drain()
	if err := stream.Error(); err != nil {
		return fmt.Errorf("play cue stream: %w", err)
	}

	return nil
}

func synthesizeCue(melody []toneSpec) []int16 {
	gap := make([]int16, samplesForDuration(interToneGap))

	var pcm []int16
	for i, tone := range melody {
		if i > 0 {
			pcm = append(pcm, gap...)
		}
		pcm = append(pcm, synthesizeTone(tone)...)
	}
	return pcm
}

// synthesizeTone renders a sine tone with a short linear ramp at both ends so
// the cue neither clicks on entry nor cuts off hard.
func synthesizeTone(spec toneSpec) []int16 {
	n := samplesForDuration(spec.duration)
	if n <= 0 || spec.frequencyHz <= 0 || spec.volume <= 0 {
		return nil
	}

	ramp := samplesForDuration(5 * time.Millisecond)
	if ramp > n/2 {
		ramp = n / 2
	}
	if ramp < 1 {
		ramp = 1
	}

	pcm := make([]int16, n)
	for i := range pcm {
		envelope := 1.0
		if i < ramp {
			envelope = float64(i) / float64(ramp)
		}
		if tail := n - 1 - i; tail < ramp {
			if fade := float64(tail) / float64(ramp); fade < envelope {
				envelope = fade
			}
		}
		phase := 2 * math.Pi * spec.frequencyHz * float64(i) / cueSampleRate
		pcm[i] = int16(math.Round(math.Sin(phase) * spec.volume * envelope * math.MaxInt16))
	}

	return pcm
}

func samplesForDuration(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Round(d.Seconds() * cueSampleRate))
}
