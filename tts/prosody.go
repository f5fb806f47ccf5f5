package tts

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidProsody is returned for rate or pitch strings that do not parse.
var ErrInvalidProsody = errors.New("invalid prosody")

var (
	rateRe  = regexp.MustCompile(`^([+-]?\d+(?:\.\d+)?)%$`)
	pitchRe = regexp.MustCompile(`(?i)^([+-]?\d+(?:\.\d+)?)hz$`)
)

const (
	minSpeakingRate = 0.25
	maxSpeakingRate = 4.0
	maxSemitones    = 20.0
	// Rough average speaking pitch used to turn a hertz offset into semitones.
	basePitchHz = 200.0
)

// SpeakingRate converts a signed percentage such as "+10%" into a speaking
// rate multiplier.
func SpeakingRate(rate string) (float64, error) {
	m := rateRe.FindStringSubmatch(strings.TrimSpace(rate))
	if m == nil {
		return 0, fmt.Errorf("%w: rate %q", ErrInvalidProsody, rate)
	}
	pct, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: rate %q", ErrInvalidProsody, rate)
	}
	return clamp(1+pct/100, minSpeakingRate, maxSpeakingRate), nil
}

// Semitones converts a signed hertz offset such as "-5Hz" into semitones.
func Semitones(pitch string) (float64, error) {
	m := pitchRe.FindStringSubmatch(strings.TrimSpace(pitch))
	if m == nil {
		return 0, fmt.Errorf("%w: pitch %q", ErrInvalidProsody, pitch)
	}
	hz, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: pitch %q", ErrInvalidProsody, pitch)
	}
	target := basePitchHz + hz
	if target <= 0 {
		return -maxSemitones, nil
	}
	return clamp(12*math.Log2(target/basePitchHz), -maxSemitones, maxSemitones), nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// voiceSelection splits a voice name into the language code and, for
// Google-style names like "en-US-Neural2-F", the exact voice. Names in the
// "en-US-AriaNeural" style only contribute their language.
func voiceSelection(name, fallbackLanguage string) (languageCode, voiceName string) {
	parts := strings.Split(name, "-")
	if len(parts) < 2 || len(parts[0]) < 2 || len(parts[1]) != 2 {
		return fallbackLanguage, ""
	}
	languageCode = parts[0] + "-" + parts[1]
	if len(parts) >= 4 {
		voiceName = name
	}
	return languageCode, voiceName
}
