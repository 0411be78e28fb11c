package main

// Module is a project card on the home page.
type Module struct {
	Title       string
	Stack       []string
	Live        bool
	Link        string
	SpecsLink   string
	Description string
}

// StackCard describes one tier of the site's own architecture.
type StackCard struct {
	Title       string
	Description string
	Repo        string
}

var (
	Intro = `Bridging the gap between model training and user experience. Specializing in
	Go, Python and MLOps to deliver seamless, real-time machine learning applications.`

	Modules = []Module{
		{
			Title:       "01: Passenger Survival Engine",
			Stack:       []string{"Scikit-learn", "Flask", "REST API"},
			Live:        true,
			Link:        "/titanic",
			SpecsLink:   "https://github.com/abhayas/DataScience/blob/main/Titanic/Titanic.ipynb",
			Description: "Production-grade classification system. Features serverless cold-start handling, request logging, and real-time probability inference.",
		},
		{
			Title:       "02: Audio Extraction Pipeline",
			Stack:       []string{"Whisper v3", "Hugging Face", "Multipart Upload"},
			Live:        true,
			Link:        "/speech-to-text",
			Description: "Ingests raw WAV/MP3 audio and returns structured text transcripts from a hosted Whisper model.",
		},
		{
			Title:       "03: Deep Learning Risk Assessor",
			Stack:       []string{"TensorFlow/Keras", "Python", "Microservice"},
			SpecsLink:   "https://github.com/abhayas/DataScience/blob/main/DeepLearning/Loan_Eligibility.ipynb",
			Description: "Neural Network for financial risk assessment. Currently optimizing model weights for containerized deployment on Render free tier.",
		},
		{
			Title:       "04: Enterprise Doc Chat (RAG)",
			Stack:       []string{"OpenAI", "Vector DB", "LangChain"},
			Description: "Retrieval-Augmented Generation system allowing secure Q&A against uploaded PDF documentation. Simulating enterprise search.",
		},
	}

	Stack = []StackCard{
		{
			Title:       "Go Web Tier",
			Description: "Server-rendered pages with HTMX partials. Validates every form before it leaves the site.",
			Repo:        "https://github.com/abhayas/halfdigit-web",
		},
		{
			Title:       "Python Flask API",
			Description: "Model inference, contact delivery and visit logging behind a single REST surface.",
			Repo:        "https://github.com/abhayas/halfdigit-api",
		},
		{
			Title:       "Neon Serverless DB",
			Description: "Stores prediction logs and visits for the API. The web tier keeps nothing.",
		},
	}

	Links = map[string]string{
		"github":   "https://github.com/abhayas",
		"linkedin": "https://www.linkedin.com/in/abhaya-sahu/",
		"email":    "mailto:abhayas@zohomail.in",
	}
)
