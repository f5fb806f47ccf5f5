package tts

import (
	"context"
	"testing"

	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/EasterCompany/dex-voice-service/config"
	"github.com/EasterCompany/dex-voice-service/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpeakingRate(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"+0%", 1},
		{"+10%", 1.1},
		{"-50%", 0.5},
		{"25%", 1.25},
		{"-90%", 0.25},
		{"+500%", 4},
	}
	for _, tt := range tests {
		got, err := SpeakingRate(tt.in)
		require.NoError(t, err, tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, tt.in)
	}

	for _, bad := range []string{"", "fast", "+10", "10 %"} {
		_, err := SpeakingRate(bad)
		assert.ErrorIs(t, err, ErrInvalidProsody, bad)
	}
}

func TestSemitones(t *testing.T) {
	got, err := Semitones("+0Hz")
	require.NoError(t, err)
	assert.InDelta(t, 0, got, 1e-9)

	got, err = Semitones("+200Hz")
	require.NoError(t, err)
	assert.InDelta(t, 12, got, 1e-9, "doubling the frequency is one octave")

	got, err = Semitones("-100hz")
	require.NoError(t, err)
	assert.InDelta(t, -12, got, 1e-9)

	got, err = Semitones("-400Hz")
	require.NoError(t, err)
	assert.Equal(t, -20.0, got)

	_, err = Semitones("+5")
	assert.ErrorIs(t, err, ErrInvalidProsody)
}

func TestVoiceSelection(t *testing.T) {
	lang, name := voiceSelection("en-US-AriaNeural", "en-GB")
	assert.Equal(t, "en-US", lang)
	assert.Empty(t, name)

	lang, name = voiceSelection("de-DE-Neural2-B", "en-US")
	assert.Equal(t, "de-DE", lang)
	assert.Equal(t, "de-DE-Neural2-B", name)

	lang, name = voiceSelection("aria", "en-US")
	assert.Equal(t, "en-US", lang)
	assert.Empty(t, name)
}

func TestSynthesisRequest(t *testing.T) {
	req, err := synthesisRequest("Hello", services.Voice{Name: "en-US-Wavenet-D", Rate: "+20%", Pitch: "+0Hz"}, "en-US")
	require.NoError(t, err)

	assert.Equal(t, "Hello", req.GetInput().GetText())
	assert.Equal(t, "en-US-Wavenet-D", req.GetVoice().GetName())
	assert.Equal(t, texttospeechpb.AudioEncoding_MP3, req.GetAudioConfig().GetAudioEncoding())
	assert.InDelta(t, 1.2, req.GetAudioConfig().GetSpeakingRate(), 1e-9)

	_, err = synthesisRequest("Hello", services.Voice{Name: "x", Rate: "quick", Pitch: "+0Hz"}, "en-US")
	assert.ErrorIs(t, err, ErrInvalidProsody)
}

func TestWithDefaults(t *testing.T) {
	def := DefaultVoice(config.Defaults().TTS)
	assert.Equal(t, services.Voice{Name: "en-US-AriaNeural", Rate: "+0%", Pitch: "+0Hz"}, def)

	got := WithDefaults(services.Voice{Rate: "+5%"}, def)
	assert.Equal(t, services.Voice{Name: "en-US-AriaNeural", Rate: "+5%", Pitch: "+0Hz"}, got)
}

func TestNew_Stub(t *testing.T) {
	svc, err := New(context.Background(), config.TTSConfig{Backend: "stub"})
	require.NoError(t, err)
	audio, err := svc.Synthesize(context.Background(), "hi", services.Voice{})
	require.NoError(t, err)
	assert.NotEmpty(t, audio)

	_, err = New(context.Background(), config.TTSConfig{Backend: "espeak"})
	assert.Error(t, err)
}
