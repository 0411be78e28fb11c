package main

import (
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/abhayas/halfdigit-web/internal/api"
	"github.com/abhayas/halfdigit-web/internal/config"
	"github.com/abhayas/halfdigit-web/internal/failure"
	"github.com/abhayas/halfdigit-web/internal/form"
	"github.com/abhayas/halfdigit-web/internal/pages"
	"github.com/abhayas/halfdigit-web/internal/telemetry"
)

// instanceField carries the page instance id in every form post.
const instanceField = "instance"

type site struct {
	client *api.Client
	sink   telemetry.Sink

	contacts *registry[*pages.ContactForm]
	titanics *registry[*pages.Titanic]
	speeches *registry[*pages.SpeechForm]
}

func newSite(client *api.Client, sink telemetry.Sink, srv config.Server) *site {
	return &site{
		client:   client,
		sink:     sink,
		contacts: newRegistry[*pages.ContactForm](srv.SessionTTL, srv.MaxInstances),
		titanics: newRegistry[*pages.Titanic](srv.SessionTTL, srv.MaxInstances),
		speeches: newRegistry[*pages.SpeechForm](srv.SessionTTL, srv.MaxUploads),
	}
}

type fieldUpdater interface {
	UpdateField(name string, value any) error
}

func updateFields(f fieldUpdater, c *gin.Context, names ...string) error {
	for _, name := range names {
		if err := f.UpdateField(name, c.PostForm(name)); err != nil {
			return err
		}
	}
	return nil
}

// submitStatus maps a submission error to the HTTP status of the rendered fragment.
// Validation and remote failures are part of the form state, so they render as 200.
func submitStatus(page string, err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, form.ErrInFlight) {
		return http.StatusConflict
	}
	var verr *failure.Validation
	if !errors.As(err, &verr) {
		log.Printf("%s submission failed: %v", page, err)
	}
	return http.StatusOK
}

// Error fragments keep their 4xx status; base.html tells htmx to swap them in.
func expired(c *gin.Context, path string) {
	c.HTML(http.StatusGone, "expired", gin.H{"path": path})
}

func badRequest(c *gin.Context, msg string) {
	c.HTML(http.StatusBadRequest, "error", gin.H{"error": msg})
}

// serverError renders a full error page for a page GET that failed.
func serverError(c *gin.Context, path string, err error) {
	log.Printf("Error creating form for %s: %v", path, err)
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{
		"title": "Something went wrong",
		"path":  path,
		"error": "Sorry, this page could not be loaded. Please try again later.",
	})
}

// sourcePage is the path the visitor submitted from, as reported by HTMX.
func sourcePage(c *gin.Context, fallback string) string {
	raw := c.GetHeader("HX-Current-URL")
	if raw == "" {
		return fallback
	}
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" {
		return fallback
	}
	return u.Path
}

func (s *site) showContact(c *gin.Context) {
	cf, err := pages.NewContact(s.client)
	if err != nil {
		serverError(c, pages.ContactPath, err)
		return
	}
	data := contactData(s.contacts.add(cf), cf)
	data["title"] = "Contact Me"
	data["path"] = pages.ContactPath
	c.HTML(http.StatusOK, "contact.html", data)
}

func (s *site) submitContact(c *gin.Context) {
	id := c.PostForm(instanceField)
	cf, ok := s.contacts.get(id)
	if !ok {
		expired(c, pages.ContactPath)
		return
	}

	if err := updateFields(cf, c, pages.FieldName, pages.FieldEmail, pages.FieldMessage); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := cf.UpdateField(pages.FieldSourcePage, sourcePage(c, pages.ContactPath)); err != nil {
		badRequest(c, err.Error())
		return
	}

	_, err := cf.Submit(c.Request.Context())
	c.HTML(submitStatus("contact", err), "contact-form", contactData(id, cf))
}

func (s *site) showTitanic(c *gin.Context) {
	t, err := pages.NewTitanic(s.client)
	if err != nil {
		serverError(c, pages.TitanicPath, err)
		return
	}
	data := titanicData(s.titanics.add(t), t)
	data["title"] = "Titanic Survival Prediction"
	data["path"] = pages.TitanicPath
	c.HTML(http.StatusOK, "titanic.html", data)
}

func (s *site) submitTitanic(c *gin.Context) {
	id := c.PostForm(instanceField)
	t, ok := s.titanics.get(id)
	if !ok {
		expired(c, pages.TitanicPath)
		return
	}

	err := updateFields(t, c,
		pages.FieldPclass, pages.FieldAge, pages.FieldSibSp, pages.FieldParch,
		pages.FieldAdultMale, pages.FieldAlone, pages.FieldSex)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	_, err = t.Submit(c.Request.Context())
	c.HTML(submitStatus("titanic", err), "titanic-form", titanicData(id, t))
}

func (s *site) showSpeech(c *gin.Context) {
	sf, err := pages.NewSpeech(s.client)
	if err != nil {
		serverError(c, pages.SpeechPath, err)
		return
	}
	data := speechData(s.speeches.add(sf), sf)
	data["title"] = "Audio Extraction Pipeline"
	data["path"] = pages.SpeechPath
	c.HTML(http.StatusOK, "speech.html", data)
}

func (s *site) selectAudio(c *gin.Context) {
	id := c.PostForm(instanceField)
	sf, ok := s.speeches.get(id)
	if !ok {
		expired(c, pages.SpeechPath)
		return
	}

	fh, err := c.FormFile(pages.FieldAudio)
	if errors.Is(err, http.ErrMissingFile) {
		c.HTML(http.StatusOK, "speech-form", speechData(id, sf))
		return
	}
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	file, err := readUpload(fh)
	if err != nil {
		log.Printf("Error reading upload %q: %v", fh.Filename, err)
		badRequest(c, "Could not read the uploaded file. Please try again.")
		return
	}

	status := http.StatusOK
	if err := sf.Select(pages.FieldAudio, file); errors.Is(err, form.ErrInFlight) {
		status = http.StatusConflict
	}
	c.HTML(status, "speech-form", speechData(id, sf))
}

func (s *site) submitSpeech(c *gin.Context) {
	id := c.PostForm(instanceField)
	sf, ok := s.speeches.get(id)
	if !ok {
		expired(c, pages.SpeechPath)
		return
	}

	_, err := sf.Submit(c.Request.Context())
	c.HTML(submitStatus("speech-to-text", err), "speech-form", speechData(id, sf))
}

// readUpload loads the file into memory unless it is already over the limit,
// in which case selection validation rejects it from the declared size alone.
func readUpload(fh *multipart.FileHeader) (form.File, error) {
	file := form.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
	}
	if fh.Size > pages.MaxAudioSize {
		return file, nil
	}

	f, err := fh.Open()
	if err != nil {
		return form.File{}, err
	}
	defer f.Close()

	file.Data, err = io.ReadAll(io.LimitReader(f, pages.MaxAudioSize+1))
	if err != nil {
		return form.File{}, err
	}
	return file, nil
}
