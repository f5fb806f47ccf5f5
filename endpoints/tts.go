package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/EasterCompany/dex-voice-service/services"
	"github.com/EasterCompany/dex-voice-service/tts"
	"github.com/EasterCompany/dex-voice-service/utils"
)

// TTSRequest is the body of POST /tts. Blank voice fields use the configured defaults.
type TTSRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice,omitempty"`
	Rate  string `json:"rate,omitempty"`
	Pitch string `json:"pitch,omitempty"`
}

func (h *Handler) handleTTS(w http.ResponseWriter, r *http.Request) {
	var req TTSRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid JSON body: "+err.Error())
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		writeDetail(w, http.StatusBadRequest, "TTS text is empty.")
		return
	}

	voice := tts.WithDefaults(services.Voice{Name: req.Voice, Rate: req.Rate, Pitch: req.Pitch}, h.defaultVoice)
	if err := validateProsody(voice); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	audio, err := h.tts.Synthesize(r.Context(), text, voice)
	if err != nil {
		if errors.Is(err, tts.ErrInvalidProsody) {
			writeDetail(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, "speech synthesis failed", err)
		return
	}
	utils.IncrementSyntheses()

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Disposition", `inline; filename="tts.mp3"`)
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Length", strconv.Itoa(len(audio)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(audio)
}

func validateProsody(v services.Voice) error {
	if _, err := tts.SpeakingRate(v.Rate); err != nil {
		return err
	}
	_, err := tts.Semitones(v.Pitch)
	return err
}
