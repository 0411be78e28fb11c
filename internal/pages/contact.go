// Package pages configures the form controller for each page of the site.
package pages

import (
	"context"

	"github.com/abhayas/halfdigit-web/internal/api"
	"github.com/abhayas/halfdigit-web/internal/failure"
	"github.com/abhayas/halfdigit-web/internal/form"
)

const (
	ContactPath    = "/contact"
	ContactSuccess = "Message sent successfully. Thank you!"
)

// Contact form fields.
const (
	FieldName       = "name"
	FieldEmail      = "email"
	FieldMessage    = "message"
	FieldSourcePage = "source_page"
)

type ContactForm = form.Controller[api.ContactRequest, api.Ack]

// NewContact returns a contact form that forwards messages through client.
// Values are cleared after a successful send.
func NewContact(client *api.Client) (*ContactForm, error) {
	return form.New(form.Config[api.ContactRequest, api.Ack]{
		Name: "contact",
		Fields: []form.Field{
			{Name: FieldName, Kind: form.KindText, Required: true},
			{Name: FieldEmail, Kind: form.KindText, Required: true},
			{Name: FieldMessage, Kind: form.KindText, Required: true},
			{Name: FieldSourcePage, Kind: form.KindText},
		},
		Map:  mapContact,
		Send: sendContact(client),
		Messages: form.Messages{
			Transport: form.DefaultTransportMessage,
			Server:    form.DefaultServerMessage,
		},
		ResetOnSuccess: true,
	})
}

func mapContact(v form.Values) (api.ContactRequest, error) {
	req := api.ContactRequest{
		Name:       v.String(FieldName),
		Email:      v.String(FieldEmail),
		Message:    v.String(FieldMessage),
		SourcePage: v.String(FieldSourcePage),
	}
	if req.Name == "" || req.Email == "" || req.Message == "" {
		return api.ContactRequest{}, &failure.Validation{Reason: form.RequiredMessage}
	}
	if req.SourcePage == "" {
		req.SourcePage = ContactPath
	}
	return req, nil
}

func sendContact(client *api.Client) func(context.Context, api.ContactRequest) (form.Reply[api.Ack], error) {
	return func(ctx context.Context, req api.ContactRequest) (form.Reply[api.Ack], error) {
		ack, status, err := client.Contact(ctx, req)
		return form.Reply[api.Ack]{StatusCode: status, Body: ack}, err
	}
}
