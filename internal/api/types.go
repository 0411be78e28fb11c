package api

// ContactRequest is the body of POST /contact.
type ContactRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Message    string `json:"message"`
	SourcePage string `json:"source_page"`
}

// Ack is the (ignored) body of a successful contact submission.
type Ack struct{}

// TitanicRequest is the body of POST /predict-titanic. Flags are 0 or 1.
type TitanicRequest struct {
	Pclass    int     `json:"pclass"`
	Age       float64 `json:"age"`
	SibSp     int     `json:"sibsp"`
	Parch     int     `json:"parch"`
	AdultMale int     `json:"adult_male"`
	Alone     int     `json:"alone"`
	Male      int     `json:"male"`
}

// Prediction is the model's answer.
type Prediction struct {
	Survived    bool    `json:"survived"`
	Probability float64 `json:"probability"`
}

// AudioUpload is sent as the single multipart part "audio".
type AudioUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Transcript is the body of a successful POST /speech-to-text.
type Transcript struct {
	Transcript string `json:"transcript"`
}

// VisitRequest is the body of POST /log-visit.
type VisitRequest struct {
	PagePath  string `json:"page_path"`
	Referrer  string `json:"referrer"`
	UserAgent string `json:"user_agent"`
}

type errorBody struct {
	Error string `json:"error"`
}
