package parse

import (
	"strings"
)

// Golden inputs shared by the parser tests. Every fixture is a complete
// story block; storyInput joins them the way a user pastes several stories.

const fixtureVocabulary = `+Vocabulario / Vocabulary
casa → /ˈka.sa/ → KAH-sah → house
vieja → /ˈbje.xa/ → BYEH-hah → old
pueblo → /ˈpwe.βlo/ → PWEH-bloh → town
nadie → /ˈna.ðje/ → NAH-dyeh → nobody
niños → /ˈni.ɲos/ → NEE-nyohs → children
encantada → /en.kanˈta.ða/ → en-kahn-TAH-dah → haunted
noche → /ˈno.tʃe/ → NOH-cheh → night
luz → /lus/ → loos → light
ventana → /benˈta.na/ → behn-TAH-nah → window
miedo → /ˈmje.ðo/ → MYEH-doh → fear`

const fixtureQuestions = `+Preguntas de Comprensión / Comprehension Questions
¿Dónde estaba la casa? / Where was the house?
a) En el pueblo / In the town
b) En el bosque / In the forest
c) En la playa / On the beach
¿Quién decía que la casa estaba encantada? / Who said the house was haunted?
a) Los niños / The children
b) Los padres / The parents
c) El maestro / The teacher

+Respuestas Correctas / Correct Answers
a) En el pueblo / In the town
a) Los niños / The children`

const fixtureIllustration = `+Illustration Prompt
An old wooden house at the edge of a small village.
Watercolor style, soft evening light.`

// fixtureMarkedStory uses a marker line for the translated title
var fixtureMarkedStory = `Story 1: La Casa Encantada / The Haunted House
` + fixtureVocabulary + `

La Casa Encantada
Había una vez una casa vieja en el pueblo. Nadie vivía allí.
Los niños decían que la casa estaba encantada.

+The Haunted House
Once upon a time there was an old house in the town. Nobody lived there.
The children said that the house was haunted.

` + fixtureQuestions + `

` + fixtureIllustration + `
`

// fixturePlainTitleStory relies on the lookahead heuristic: the translated
// title has no marker and is followed by five lines of prose
var fixturePlainTitleStory = `Story 2: El Perro (The Dog)
` + fixtureVocabulary + `

Había un perro en el pueblo. Se llamaba Max.
Max corría todos los días.
The Dog
There was a dog in the town. His name was Max.
Max ran every day.
He liked the park.
He liked the river.
Everyone knew him.

` + fixtureQuestions + `
`

var fixtureDashStory = `Story 3: El Gato - The Cat
` + fixtureVocabulary + `

El gato dormía al sol. Era muy feliz.

+The Cat
The cat slept in the sun. It was very happy.

` + fixtureQuestions + `
`

var fixtureBareTitleStory = `Cuento 4: La Luna
` + fixtureVocabulary + `

La luna brillaba sobre el mar.

+The Moon
The moon shone over the sea.

` + fixtureQuestions + `
`

func storyInput(blocks ...string) string {
	return strings.Join(blocks, "\n")
}

// withNumber rewrites the header number of a fixture
func withNumber(fixture string, from, to string) string {
	return strings.Replace(fixture, from, to, 1)
}
