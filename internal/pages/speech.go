package pages

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/abhayas/halfdigit-web/internal/api"
	"github.com/abhayas/halfdigit-web/internal/failure"
	"github.com/abhayas/halfdigit-web/internal/form"
)

const (
	SpeechPath = "/speech-to-text"

	// MaxAudioSize is inclusive.
	MaxAudioSize = 25 << 20

	FieldAudio = api.AudioField

	InvalidAudioFormat = "Invalid file format. Please upload a .wav or .mp3 file."
	AudioTooLarge      = "File is too large. Please use a file smaller than 25MB for this demo."
)

var (
	audioTypes      = []string{"audio/wav", "audio/x-wav", "audio/mpeg", "audio/mp3"}
	audioExtensions = []string{".wav", ".mp3"}
)

type SpeechForm = form.Controller[api.AudioUpload, api.Transcript]

// NewSpeech returns the upload form. Files are checked when selected, not when submitted.
func NewSpeech(client *api.Client) (*SpeechForm, error) {
	return form.New(form.Config[api.AudioUpload, api.Transcript]{
		Name: "speech-to-text",
		Fields: []form.Field{
			{Name: FieldAudio, Kind: form.KindFile, Required: true},
		},
		Map:    mapSpeech,
		Send:   sendSpeech(client),
		Select: ValidateAudio,
		Messages: form.Messages{
			Transport: "An unexpected error occurred. Please try again.",
			Server:    "Failed to transcribe audio.",
		},
	})
}

// ValidateAudio accepts WAV and MP3 files up to MaxAudioSize. The type is
// taken from the declared MIME type or the extension; when the browser sent
// no useful type the content is sniffed instead. This is a convenience for
// the visitor only, the API makes the real decision.
func ValidateAudio(f form.File) error {
	if !isAudio(f) {
		return &failure.Validation{Field: FieldAudio, Reason: InvalidAudioFormat}
	}
	if f.Size > MaxAudioSize {
		return &failure.Validation{Field: FieldAudio, Reason: AudioTooLarge}
	}
	return nil
}

func isAudio(f form.File) bool {
	ext := strings.ToLower(filepath.Ext(f.Name))
	for _, allowed := range audioExtensions {
		if ext == allowed {
			return true
		}
	}

	declared := baseType(f.ContentType)
	if declared == "" || declared == "application/octet-stream" {
		if len(f.Data) == 0 {
			return false
		}
		sniffed := mimetype.Detect(f.Data)
		for _, t := range audioTypes {
			if sniffed.Is(t) {
				return true
			}
		}
		return false
	}

	for _, t := range audioTypes {
		if declared == t {
			return true
		}
	}
	return false
}

// contentType is the type sent to the API for f.
func contentType(f form.File) string {
	declared := baseType(f.ContentType)
	if declared != "" && declared != "application/octet-stream" {
		return f.ContentType
	}
	if len(f.Data) > 0 {
		return mimetype.Detect(f.Data).String()
	}
	return "application/octet-stream"
}

func baseType(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

func mapSpeech(v form.Values) (api.AudioUpload, error) {
	f, ok := v.File(FieldAudio)
	if !ok {
		return api.AudioUpload{}, &failure.Validation{Field: FieldAudio, Reason: "select a file first"}
	}
	return api.AudioUpload{
		Filename:    f.Name,
		ContentType: contentType(f),
		Data:        f.Data,
	}, nil
}

func sendSpeech(client *api.Client) func(context.Context, api.AudioUpload) (form.Reply[api.Transcript], error) {
	return func(ctx context.Context, upload api.AudioUpload) (form.Reply[api.Transcript], error) {
		out, status, err := client.Transcribe(ctx, upload)
		return form.Reply[api.Transcript]{StatusCode: status, Body: out}, err
	}
}
