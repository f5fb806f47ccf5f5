package endpoints

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	logger "github.com/EasterCompany/dex-voice-service/log"
	"github.com/EasterCompany/dex-voice-service/utils"
	"go.uber.org/zap"
)

const (
	// uploadField is the multipart field browser clients put the recording in.
	uploadField      = "file"
	emptyAudioDetail = "Empty audio upload"
)

var errEmptyAudio = errors.New("empty audio upload")

type asrResponse struct {
	Text string `json:"text"`
}

func (h *Handler) handleASR(w http.ResponseWriter, r *http.Request) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	audio, err := readAudio(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, errEmptyAudio):
			writeDetail(w, http.StatusBadRequest, emptyAudioDetail)
		case errors.As(err, &tooLarge):
			writeDetail(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Audio upload exceeds %d bytes", tooLarge.Limit))
		default:
			writeDetail(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	text, err := h.stt.Transcribe(r.Context(), audio)
	if err != nil {
		writeError(w, "transcription failed", err)
		return
	}
	utils.IncrementTranscriptions()
	logger.Debug("audio transcribed", zap.Int("bytes", len(audio)), zap.Int("chars", len(text)))

	writeJSON(w, http.StatusOK, asrResponse{Text: text})
}

// readAudio accepts either a multipart upload or the raw request body.
func readAudio(r *http.Request) ([]byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if strings.HasPrefix(mediaType, "multipart/") {
		file, _, err := r.FormFile(uploadField)
		if errors.Is(err, http.ErrMissingFile) {
			return nil, errEmptyAudio
		}
		if err != nil {
			return nil, fmt.Errorf("could not read upload: %w", err)
		}
		defer func() { _ = file.Close() }()
		return nonEmpty(io.ReadAll(file))
	}
	return nonEmpty(io.ReadAll(r.Body))
}

func nonEmpty(data []byte, err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errEmptyAudio
	}
	return data, nil
}
