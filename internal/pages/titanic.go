package pages

import (
	"context"
	"strings"

	"github.com/abhayas/halfdigit-web/internal/api"
	"github.com/abhayas/halfdigit-web/internal/failure"
	"github.com/abhayas/halfdigit-web/internal/form"
)

const TitanicPath = "/titanic"

// Titanic form fields.
const (
	FieldPclass    = "pclass"
	FieldAge       = "age"
	FieldSibSp     = "sibsp"
	FieldParch     = "parch"
	FieldAdultMale = "adult_male"
	FieldAlone     = "alone"
	FieldSex       = "sex"
)

// TitanicDefaults pre-fill a new page: a lone adult male in first class.
var TitanicDefaults = form.Values{
	FieldPclass:    "1",
	FieldAge:       "28",
	FieldSibSp:     "0",
	FieldParch:     "0",
	FieldAdultMale: true,
	FieldAlone:     true,
	FieldSex:       "male",
}

// Titanic is the prediction form plus the log of every prediction request
// made from this page instance.
type Titanic struct {
	*form.Controller[api.TitanicRequest, api.Prediction]
	Log *TransactionLog
}

func NewTitanic(client *api.Client) (*Titanic, error) {
	txlog := NewTransactionLog()
	c, err := form.New(form.Config[api.TitanicRequest, api.Prediction]{
		Name: "titanic",
		Fields: []form.Field{
			{Name: FieldPclass, Kind: form.KindNumber, Required: true},
			{Name: FieldAge, Kind: form.KindNumber, Required: true},
			{Name: FieldSibSp, Kind: form.KindNumber, Required: true},
			{Name: FieldParch, Kind: form.KindNumber, Required: true},
			{Name: FieldAdultMale, Kind: form.KindBool, Required: true},
			{Name: FieldAlone, Kind: form.KindBool, Required: true},
			{Name: FieldSex, Kind: form.KindText, Required: true},
		},
		Map:     mapTitanic,
		Send:    sendTitanic(client),
		Observe: txlog.Record,
		Messages: form.Messages{
			Transport: form.DefaultServerMessage,
			Server:    form.DefaultServerMessage,
		},
	})
	if err != nil {
		return nil, err
	}
	for name, v := range TitanicDefaults {
		if err := c.UpdateField(name, v); err != nil {
			return nil, err
		}
	}
	return &Titanic{Controller: c, Log: txlog}, nil
}

// MaleFlag derives the model's male feature from the sex selector.
func MaleFlag(sex string) int {
	return form.Flag(strings.EqualFold(strings.TrimSpace(sex), "male"))
}

func mapTitanic(v form.Values) (api.TitanicRequest, error) {
	var req api.TitanicRequest
	var err error

	if req.Pclass, err = v.Int(FieldPclass); err != nil {
		return api.TitanicRequest{}, err
	}
	if req.Pclass < 1 || req.Pclass > 3 {
		return api.TitanicRequest{}, &failure.Validation{Field: FieldPclass, Reason: "Passenger class must be 1, 2 or 3"}
	}
	if req.Age, err = v.Float(FieldAge); err != nil {
		return api.TitanicRequest{}, err
	}
	if req.Age < 0 {
		return api.TitanicRequest{}, &failure.Validation{Field: FieldAge, Reason: "Age cannot be negative"}
	}
	if req.SibSp, err = nonNegative(v, FieldSibSp); err != nil {
		return api.TitanicRequest{}, err
	}
	if req.Parch, err = nonNegative(v, FieldParch); err != nil {
		return api.TitanicRequest{}, err
	}

	adultMale, err := v.Bool(FieldAdultMale)
	if err != nil {
		return api.TitanicRequest{}, err
	}
	alone, err := v.Bool(FieldAlone)
	if err != nil {
		return api.TitanicRequest{}, err
	}
	req.AdultMale = form.Flag(adultMale)
	req.Alone = form.Flag(alone)
	req.Male = MaleFlag(v.String(FieldSex))
	return req, nil
}

func nonNegative(v form.Values, name string) (int, error) {
	n, err := v.Int(name)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, &failure.Validation{Field: name, Reason: "Counts cannot be negative"}
	}
	return n, nil
}

func sendTitanic(client *api.Client) func(context.Context, api.TitanicRequest) (form.Reply[api.Prediction], error) {
	return func(ctx context.Context, req api.TitanicRequest) (form.Reply[api.Prediction], error) {
		pred, status, err := client.PredictTitanic(ctx, req)
		return form.Reply[api.Prediction]{StatusCode: status, Body: pred}, err
	}
}
