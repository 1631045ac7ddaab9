package llm

import (
	"fmt"
	"strings"

	"github.com/ppiankov/storybook/internal/model"
)

// languageNames maps the ISO 639-1 codes offered in the metadata form
var languageNames = map[string]string{
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"it": "Italian",
	"pt": "Portuguese",
	"ru": "Russian",
	"ja": "Japanese",
	"ko": "Korean",
	"zh": "Chinese",
	"ar": "Arabic",
	"hi": "Hindi",
	"th": "Thai",
	"vi": "Vietnamese",
}

// LanguageName returns the English name of a language code, or the code itself when unknown
func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}

// DescriptionTags are the only HTML elements a generated description may use
var DescriptionTags = []string{"p", "b", "i", "br", "ul", "li"}

// BuildPrompt constructs the prompt for one book section
func BuildPrompt(genType model.GenerationType, meta model.BookMetadata, titles []string) (string, error) {
	var body string
	switch genType {
	case model.GenerateIntroduction:
		body = introductionPrompt(meta, len(titles))
	case model.GenerateHowToUse:
		body = howToUsePrompt(meta)
	case model.GenerateConclusion:
		body = conclusionPrompt(meta)
	case model.GenerateDescription:
		body = descriptionPrompt(meta, len(titles))
	default:
		return "", fmt.Errorf("unknown generation type: %s", genType)
	}

	var b strings.Builder
	b.WriteString(promptHeader(genType, meta, titles))
	b.WriteString("\n\n")
	b.WriteString(body)
	b.WriteString("\n\n")
	b.WriteString(promptRequirements(genType, meta))
	return b.String(), nil
}

var sectionNames = map[model.GenerationType]string{
	model.GenerateIntroduction: "an introduction",
	model.GenerateHowToUse:     `a "How to Use This Book" section`,
	model.GenerateConclusion:   "a conclusion",
	model.GenerateDescription:  "a book description",
}

func promptHeader(genType model.GenerationType, meta model.BookMetadata, titles []string) string {
	return fmt.Sprintf(`Write %s for a language learning book titled %q by %s.

CRITICAL INSTRUCTION: The book teaches the language named in the title %q. Write about learning that target language, NOT English. English is only used for the translations that support the reader.

The book contains %d stories in %s:
%s`,
		sectionNames[genType], meta.Title, meta.Author, meta.Title,
		len(titles), LanguageName(meta.Language), strings.Join(titles, ", "))
}

func introductionPrompt(meta model.BookMetadata, count int) string {
	return fmt.Sprintf(`Follow this structure exactly:

Open with "Welcome to %s!" and present the book as a friendly guide to the target language through short, repetitive beginner stories with English translations. Say who it is for and describe the themes of the stories.

**What's in This Book?**
· %d Short Stories: simple target-language stories followed by English translations.
· Vocabulary Lists: ten key words per story with pronunciation guides and English meanings.
· Comprehension Questions: multiple-choice questions in both languages, with an answer key.
· Illustration Prompts: drawing ideas that bring each story to life.

**Why This Book?**
· Perfect for Beginners
· Fun Themes drawn from the stories
· Progressive Learning through repetition
· No Grammar Stress

Close with "Perfect for beginners. Let's dive into the [theme] magic and start your [target language] journey!" with both placeholders filled in.`,
		meta.Title, count)
}

func howToUsePrompt(meta model.BookMetadata) string {
	return fmt.Sprintf(`Follow this structure exactly:

Open with "This book is crafted to make learning [target language] fun, simple, and effective for beginners. Here's how to get the most out of %s:"

**Main Instructions**
· Read the Stories: target-language version first, English translation afterwards.
· Learn Vocabulary: study the word list with its pronunciation guide and use the words in sentences.
· Answer Questions: check your answers against the answer key.
· Practice Regularly: one or two stories a day, read aloud.
· Get Creative with Illustrations: draw the scenes from the illustration prompts.

**Tips for Success:**
· Start Simple
· Take Your Time
· Use a Notebook
· Involve Others
· Enjoy the Story Vibe

Close with "With these steps, you'll find learning [target language] both fun and rewarding." followed by a target-language phrase meaning "Happy reading!".`,
		meta.Title)
}

func conclusionPrompt(meta model.BookMetadata) string {
	return fmt.Sprintf(`Follow this structure exactly:

Open with "Congratulations on completing %s!" and name the story themes that helped build the reader's skills.

Then ask for feedback: "Your feedback means the world to us! Please share your thoughts by leaving a review on our website or wherever you purchased this book."

Then "Keep Learning:" with ideas for using the new words, and close with a target-language phrase meaning "Thank you and happy learning!".`,
		meta.Title)
}

func descriptionPrompt(meta model.BookMetadata, count int) string {
	return fmt.Sprintf(`Follow this HTML structure exactly, using ONLY <%s> tags:

<p><b>Tired of struggling with complex grammar or boring textbooks?</b><br><br>
Learn [target language] in a delightful way!</p>
<p><i>%s</i> is crafted for A1-level beginners and builds skills through %d stories without heavy memorization.</p>
<p><b>Why This Book Is Perfect for You:</b></p>
<ul>
  <li><p><b>%d Whimsical Stories</b>: 2-3 adventures taken from the actual story titles.</p></li>
  <li><p><b>[target language]-English Translations</b>: read first, then check the translation.</p></li>
  <li><p><b>Expand Vocabulary Effortlessly</b>: 10 key words per story with pronunciation guides.</p></li>
  <li><p><b>Bonus Illustration Prompts</b>: doodle ideas for every story.</p></li>
</ul>
<p><b>Get Started Now</b>: Scroll up and grab your copy!</p>`,
		strings.Join(DescriptionTags, ">, <"), meta.Title, count, count)
}

func promptRequirements(genType model.GenerationType, meta model.BookMetadata) string {
	reqs := []string{
		"Be written in " + LanguageName(meta.Language),
		"Use the exact structure provided",
		"Refer to the actual stories and their themes",
		"Replace every [placeholder] with concrete content",
		"Do not add content outside this structure",
	}
	if genType == model.GenerateDescription {
		reqs = append(reqs, "Return valid HTML only. No markdown. No <html>, <head> or <body> wrapper")
	} else {
		reqs = append(reqs, "Format bullet points with the · symbol")
	}

	var b strings.Builder
	b.WriteString("Requirements:")
	for _, r := range reqs {
		b.WriteString("\n- ")
		b.WriteString(r)
	}
	return b.String()
}
