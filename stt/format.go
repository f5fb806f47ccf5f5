package stt

import "bytes"

// Format identifies an uploaded audio container.
type Format int

const (
	FormatUnknown Format = iota
	FormatWebM
	FormatOgg
	FormatWAV
	FormatFLAC
	FormatMP3
)

var formatNames = map[Format]string{
	FormatUnknown: "unknown",
	FormatWebM:    "webm",
	FormatOgg:     "ogg",
	FormatWAV:     "wav",
	FormatFLAC:    "flac",
	FormatMP3:     "mp3",
}

func (f Format) String() string { return formatNames[f] }

// Ext returns the usual file extension, used where an API wants a file name.
func (f Format) Ext() string {
	if f == FormatUnknown {
		return ".webm"
	}
	return "." + f.String()
}

// Sniff guesses the container from the leading magic bytes.
func Sniff(audio []byte) Format {
	switch {
	case bytes.HasPrefix(audio, []byte{0x1A, 0x45, 0xDF, 0xA3}):
		return FormatWebM
	case bytes.HasPrefix(audio, []byte("OggS")):
		return FormatOgg
	case len(audio) >= 12 && bytes.HasPrefix(audio, []byte("RIFF")) && bytes.Equal(audio[8:12], []byte("WAVE")):
		return FormatWAV
	case bytes.HasPrefix(audio, []byte("fLaC")):
		return FormatFLAC
	case bytes.HasPrefix(audio, []byte("ID3")),
		len(audio) >= 2 && audio[0] == 0xFF && audio[1]&0xE0 == 0xE0:
		return FormatMP3
	default:
		return FormatUnknown
	}
}
