package stt

import (
	"context"
	"fmt"
	"strings"

	speech "cloud.google.com/go/speech/apiv1p1beta1"
	"cloud.google.com/go/speech/apiv1p1beta1/speechpb"
	"github.com/EasterCompany/dex-voice-service/services"
	"google.golang.org/api/option"
)

// GoogleTranscriber is the Google Cloud Speech client.
type GoogleTranscriber struct {
	speechClient *speech.Client
	languageCode string
}

var _ services.STTService = (*GoogleTranscriber)(nil)

// NewGoogle creates a new Google Cloud Speech client. Without a credentials
// file it relies on Application Default Credentials.
func NewGoogle(ctx context.Context, languageCode, credentialsFile string, opts ...option.ClientOption) (*GoogleTranscriber, error) {
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	speechClient, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}
	return &GoogleTranscriber{speechClient: speechClient, languageCode: languageCode}, nil
}

// Close cleans up the speech client connection.
func (g *GoogleTranscriber) Close() error {
	if g.speechClient != nil {
		return g.speechClient.Close()
	}
	return nil
}

// Transcribe runs a synchronous recognition over the whole clip.
func (g *GoogleTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	resp, err := g.speechClient.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: g.config(audio),
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return "", fmt.Errorf("speech recognize failed: %w", err)
	}

	var parts []string
	for _, result := range resp.Results {
		if len(result.Alternatives) > 0 {
			parts = append(parts, strings.TrimSpace(result.Alternatives[0].Transcript))
		}
	}
	return strings.TrimSpace(strings.Join(parts, " ")), nil
}

func (g *GoogleTranscriber) config(audio []byte) *speechpb.RecognitionConfig {
	format := Sniff(audio)
	cfg := recognitionConfig(format, g.languageCode)
	if format == FormatMP3 {
		cfg.SampleRateHertz = mp3SampleRate(audio)
	}
	return cfg
}

const defaultMP3SampleRate = 44100

// mp3SampleRates is indexed by MPEG version bits, then the sample rate index.
var mp3SampleRates = map[byte][3]int32{
	0x3: {44100, 48000, 32000}, // MPEG-1
	0x2: {22050, 24000, 16000}, // MPEG-2
	0x0: {11025, 12000, 8000},  // MPEG-2.5
}

// mp3SampleRate reads the sample rate from the first MPEG frame header,
// skipping a leading ID3v2 tag.
func mp3SampleRate(audio []byte) int32 {
	offset := 0
	if len(audio) >= 10 && string(audio[:3]) == "ID3" {
		size := int(audio[6]&0x7F)<<21 | int(audio[7]&0x7F)<<14 | int(audio[8]&0x7F)<<7 | int(audio[9]&0x7F)
		offset = 10 + size
	}
	for i := offset; i+2 < len(audio); i++ {
		if audio[i] != 0xFF || audio[i+1]&0xE0 != 0xE0 {
			continue
		}
		rates, ok := mp3SampleRates[(audio[i+1]>>3)&0x3]
		idx := (audio[i+2] >> 2) & 0x3
		if !ok || idx == 0x3 {
			continue
		}
		return rates[idx]
	}
	return defaultMP3SampleRate
}

func recognitionConfig(format Format, languageCode string) *speechpb.RecognitionConfig {
	cfg := &speechpb.RecognitionConfig{
		LanguageCode:               languageCode,
		EnableAutomaticPunctuation: true,
	}
	switch format {
	case FormatWebM:
		cfg.Encoding = speechpb.RecognitionConfig_WEBM_OPUS
		cfg.SampleRateHertz = 48000
	case FormatOgg:
		cfg.Encoding = speechpb.RecognitionConfig_OGG_OPUS
		cfg.SampleRateHertz = 48000
	case FormatFLAC:
		cfg.Encoding = speechpb.RecognitionConfig_FLAC
	case FormatWAV:
		// Sample rate comes from the WAV header.
		cfg.Encoding = speechpb.RecognitionConfig_LINEAR16
	case FormatMP3:
		// MP3 is only accepted by v1p1beta1 and needs the exact frame rate.
		cfg.Encoding = speechpb.RecognitionConfig_MP3
		cfg.SampleRateHertz = defaultMP3SampleRate
	default:
		cfg.Encoding = speechpb.RecognitionConfig_ENCODING_UNSPECIFIED
	}
	return cfg
}
