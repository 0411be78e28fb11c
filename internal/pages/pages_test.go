package pages

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhayas/halfdigit-web/internal/api"
	"github.com/abhayas/halfdigit-web/internal/failure"
	"github.com/abhayas/halfdigit-web/internal/form"
)

// stubAPI serves one handler for every path and counts the calls it receives.
func stubAPI(t *testing.T, h http.HandlerFunc) (*api.Client, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return api.NewClient(srv.URL, srv.Client()), &calls
}

func fillTitanic(t *testing.T, c *Titanic, sex string) {
	t.Helper()
	for name, v := range map[string]any{
		FieldPclass:    "1",
		FieldAge:       "28",
		FieldSibSp:     "0",
		FieldParch:     "0",
		FieldAdultMale: true,
		FieldAlone:     true,
		FieldSex:       sex,
	} {
		require.NoError(t, c.UpdateField(name, v))
	}
}

func TestContactRequiresAllFields(t *testing.T) {
	client, calls := stubAPI(t, func(w http.ResponseWriter, r *http.Request) {})
	required := []string{FieldName, FieldEmail, FieldMessage}

	for _, missing := range required {
		t.Run(missing, func(t *testing.T) {
			c, err := NewContact(client)
			require.NoError(t, err)
			for _, f := range required {
				if f != missing {
					require.NoError(t, c.UpdateField(f, "value"))
				}
			}

			_, err = c.Submit(context.Background())

			var verr *failure.Validation
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, form.RequiredMessage, c.Snapshot().Notice)
		})
	}
	assert.Zero(t, atomic.LoadInt32(calls))
}

func TestContactSendsSourcePageAndResets(t *testing.T) {
	got := make(chan api.ContactRequest, 1)
	client, _ := stubAPI(t, func(w http.ResponseWriter, r *http.Request) {
		var req api.ContactRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		got <- req
	})
	c, err := NewContact(client)
	require.NoError(t, err)
	require.NoError(t, c.UpdateField(FieldName, "Ada"))
	require.NoError(t, c.UpdateField(FieldEmail, "ada@example.com"))
	require.NoError(t, c.UpdateField(FieldMessage, "Loved the Titanic demo"))

	res, err := c.Submit(context.Background())

	require.NoError(t, err)
	assert.Equal(t, form.OutcomeSuccess, res.Outcome)
	assert.Equal(t, api.ContactRequest{
		Name: "Ada", Email: "ada@example.com", Message: "Loved the Titanic demo", SourcePage: ContactPath,
	}, <-got)
	assert.Empty(t, c.Snapshot().Values)
}

func TestContactServerErrorIsFailure(t *testing.T) {
	client, _ := stubAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	c, err := NewContact(client)
	require.NoError(t, err)
	require.NoError(t, c.UpdateField(FieldName, "Ada"))
	require.NoError(t, c.UpdateField(FieldEmail, "ada@example.com"))
	require.NoError(t, c.UpdateField(FieldMessage, "hi"))
	require.NoError(t, c.UpdateField(FieldSourcePage, "/contact?ref=footer"))

	res, err := c.Submit(context.Background())

	require.Error(t, err)
	assert.Equal(t, form.OutcomeFailure, res.Outcome)
	assert.Equal(t, form.DefaultServerMessage, res.Message)
	assert.Equal(t, "Ada", c.Snapshot().Values.String(FieldName))
}

func TestMaleFlag(t *testing.T) {
	assert.Equal(t, 1, MaleFlag("male"))
	assert.Equal(t, 1, MaleFlag(" Male "))
	assert.Equal(t, 0, MaleFlag("female"))
	assert.Equal(t, 0, MaleFlag(""))
}

func TestTitanicMalePayloadIndependentOfOtherFields(t *testing.T) {
	for _, tc := range []struct {
		sex  string
		want int
	}{{"female", 0}, {"male", 1}} {
		for _, pclass := range []string{"1", "2", "3"} {
			for _, adult := range []bool{true, false} {
				req, err := mapTitanic(form.Values{
					FieldPclass: pclass, FieldAge: "40.5", FieldSibSp: "1", FieldParch: "2",
					FieldAdultMale: adult, FieldAlone: false, FieldSex: tc.sex,
				})
				require.NoError(t, err)
				assert.Equal(t, tc.want, req.Male, "sex=%s pclass=%s adult=%v", tc.sex, pclass, adult)
				assert.Equal(t, form.Flag(adult), req.AdultMale)
				assert.InDelta(t, 40.5, req.Age, 1e-9)
			}
		}
	}
}

func TestTitanicRejectsOutOfRangeClass(t *testing.T) {
	for _, pclass := range []string{"0", "4", "first"} {
		_, err := mapTitanic(form.Values{
			FieldPclass: pclass, FieldAge: "28", FieldSibSp: "0", FieldParch: "0",
			FieldAdultMale: true, FieldAlone: true, FieldSex: "male",
		})
		var verr *failure.Validation
		assert.ErrorAs(t, err, &verr, pclass)
	}
}

func TestTitanicNonFiniteAgeMakesNoCall(t *testing.T) {
	client, calls := stubAPI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"survived":true,"probability":0.5}`))
	})
	c, err := NewTitanic(client)
	require.NoError(t, err)

	for _, age := range []string{"NaN", "Inf", "-Inf"} {
		fillTitanic(t, c, "male")
		require.NoError(t, c.UpdateField(FieldAge, age))

		_, err := c.Submit(context.Background())

		var verr *failure.Validation
		require.ErrorAs(t, err, &verr, age)
		assert.Equal(t, FieldAge, verr.Field)
		assert.Equal(t, form.OutcomeIdle, c.Snapshot().Result.Outcome, age)
	}
	assert.Zero(t, atomic.LoadInt32(calls))
	assert.Zero(t, c.Log.Len())
}

func TestTitanicSuccessExposesBodyUnchanged(t *testing.T) {
	var sent api.TitanicRequest
	client, calls := stubAPI(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		_, _ = w.Write([]byte(`{"survived":true,"probability":0.83}`))
	})
	c, err := NewTitanic(client)
	require.NoError(t, err)
	fillTitanic(t, c, "female")

	res, err := c.Submit(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	assert.Equal(t, form.OutcomeSuccess, res.Outcome)
	assert.Equal(t, api.Prediction{Survived: true, Probability: 0.83}, res.Body)
	assert.Equal(t, api.TitanicRequest{Pclass: 1, Age: 28, AdultMale: 1, Alone: 1, Male: 0}, sent)
	assert.Equal(t, form.PhaseSucceeded, c.Snapshot().Phase)
}

func TestTitanicLogNewestFirstAcrossFailures(t *testing.T) {
	var n int32
	client, _ := stubAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&n, 1) {
		case 2:
			w.WriteHeader(http.StatusServiceUnavailable)
		case 3:
			_, _ = w.Write([]byte(`{"survived":false,"probability":0.12}`))
		default:
			_, _ = w.Write([]byte(`{"survived":true,"probability":0.9}`))
		}
	})
	c, err := NewTitanic(client)
	require.NoError(t, err)
	fillTitanic(t, c, "male")

	const submissions = 4
	for i := 0; i < submissions; i++ {
		_, _ = c.Submit(context.Background())
	}

	entries := c.Log.Entries()
	require.Len(t, entries, submissions)
	assert.Equal(t, []string{LabelSurvived, LabelDidNotSurvive, LabelError, LabelSurvived},
		[]string{entries[0].Outcome, entries[1].Outcome, entries[2].Outcome, entries[3].Outcome})
	assert.Equal(t, http.StatusServiceUnavailable, entries[2].Status)
	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].At.After(entries[i-1].At), "entries must be newest first")
	}

	entries[0].Outcome = "tampered"
	assert.Equal(t, LabelSurvived, c.Log.Entries()[0].Outcome, "Entries returns a copy")
}

func TestTitanicTransportFailureLogsStatusZero(t *testing.T) {
	c, err := NewTitanic(api.NewClient("http://127.0.0.1:1", nil))
	require.NoError(t, err)
	fillTitanic(t, c, "male")

	res, err := c.Submit(context.Background())

	require.Error(t, err)
	assert.Equal(t, form.OutcomeFailure, res.Outcome)
	assert.NotEmpty(t, res.Message)
	assert.False(t, c.Snapshot().Busy)
	require.Equal(t, 1, c.Log.Len())
	assert.Zero(t, c.Log.Entries()[0].Status)
	assert.Equal(t, LabelError, c.Log.Entries()[0].Outcome)
}

func TestValidateAudio(t *testing.T) {
	wav := []byte("RIFF\x24\x00\x00\x00WAVEfmt \x10\x00\x00\x00")

	cases := []struct {
		name string
		file form.File
		want string
	}{
		{"wav by type", form.File{Name: "clip", ContentType: "audio/wav", Size: 10}, ""},
		{"mp3 by extension", form.File{Name: "clip.MP3", Size: 10}, ""},
		{"mp3 type with params", form.File{Name: "clip", ContentType: "audio/mpeg; codecs=mp3", Size: 10}, ""},
		{"sniffed wav", form.File{Name: "recording", ContentType: "application/octet-stream", Size: int64(len(wav)), Data: wav}, ""},
		{"text file", form.File{Name: "notes.txt", ContentType: "text/plain", Size: 10}, InvalidAudioFormat},
		{"sniffed text", form.File{Name: "notes", Size: 5, Data: []byte("hello")}, InvalidAudioFormat},
		{"exactly at limit", form.File{Name: "long.wav", Size: MaxAudioSize}, ""},
		{"one byte over", form.File{Name: "long.wav", Size: MaxAudioSize + 1}, AudioTooLarge},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateAudio(tc.file)
			if tc.want == "" {
				assert.NoError(t, err)
				return
			}
			var verr *failure.Validation
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.want, verr.Reason)
		})
	}
}

func TestSpeechRejectsBeforeSubmit(t *testing.T) {
	client, calls := stubAPI(t, func(w http.ResponseWriter, r *http.Request) {})
	c, err := NewSpeech(client)
	require.NoError(t, err)

	err = c.Select(FieldAudio, form.File{Name: "notes.txt", ContentType: "text/plain", Size: 4, Data: []byte("text")})
	require.Error(t, err)
	assert.Equal(t, InvalidAudioFormat, c.Snapshot().Notice)

	_, err = c.Submit(context.Background())
	require.Error(t, err)
	assert.Zero(t, atomic.LoadInt32(calls))
}

func TestSpeechSurfacesServerError(t *testing.T) {
	client, _ := stubAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Audio too long for the free tier."}`))
	})
	c, err := NewSpeech(client)
	require.NoError(t, err)
	require.NoError(t, c.Select(FieldAudio, form.File{Name: "a.wav", ContentType: "audio/wav", Size: 3, Data: []byte("abc")}))

	res, err := c.Submit(context.Background())

	require.Error(t, err)
	assert.Equal(t, "Audio too long for the free tier.", res.Message)
}

func TestSpeechSuccess(t *testing.T) {
	client, calls := stubAPI(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, ok := r.MultipartForm.File[FieldAudio]
		assert.True(t, ok)
		_, _ = w.Write([]byte(`{"transcript":"four score and seven years ago"}`))
	})
	c, err := NewSpeech(client)
	require.NoError(t, err)
	require.NoError(t, c.UpdateField(FieldAudio, form.File{Name: "a.mp3", ContentType: "audio/mpeg", Size: 3, Data: []byte("abc")}))

	res, err := c.Submit(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	assert.Equal(t, "four score and seven years ago", res.Body.Transcript)
}
