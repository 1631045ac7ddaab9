package model

import "fmt"

// BookMetadata describes the book the stories are assembled into
type BookMetadata struct {
	Title               string `json:"title" yaml:"title"`
	Author              string `json:"author" yaml:"author"`
	Publisher           string `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	CopyrightYear       int    `json:"copyrightYear,omitempty" yaml:"copyright_year,omitempty"`
	PublicationLocation string `json:"publicationLocation,omitempty" yaml:"publication_location,omitempty"`
	Language            string `json:"language" yaml:"language"` // ISO 639-1 code, e.g. "es"
	Introduction        string `json:"introduction,omitempty" yaml:"introduction,omitempty"`
	HowToUse            string `json:"howToUse,omitempty" yaml:"how_to_use,omitempty"`
	Conclusion          string `json:"conclusion,omitempty" yaml:"conclusion,omitempty"`
}

// GenerationType selects which book section the generator writes
type GenerationType string

const (
	GenerateIntroduction GenerationType = "introduction"
	GenerateHowToUse     GenerationType = "howToUse"
	GenerateConclusion   GenerationType = "conclusion"
	GenerateDescription  GenerationType = "description" // HTML store-page blurb
)

// GenerationTypes lists every supported generation type
var GenerationTypes = []GenerationType{
	GenerateIntroduction,
	GenerateHowToUse,
	GenerateConclusion,
	GenerateDescription,
}

// ParseGenerationType validates a user-supplied generation type
func ParseGenerationType(s string) (GenerationType, error) {
	for _, t := range GenerationTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid generation type: %q (supported: introduction, howToUse, conclusion, description)", s)
}

// GeneratedSection is generated book content, kept separate from parsed stories
type GeneratedSection struct {
	Type     GenerationType `json:"type"`
	Content  string         `json:"content"`
	Provider string         `json:"provider,omitempty"`
	Model    string         `json:"model,omitempty"`
	Cached   bool           `json:"cached,omitempty"`
}
