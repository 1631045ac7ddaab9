package parse

// Arrow separates the fields of a vocabulary entry
const Arrow = "→"

// lineRules are the compiled line classifiers shared by the sub-parsers
type lineRules struct {
	vocabularyMarker   linePredicate
	questionsMarker    linePredicate
	answersMarker      linePredicate
	illustrationMarker linePredicate

	// vocabularyStop ends the vocabulary list at a title-looking line
	vocabularyStop linePredicate

	// storyStart finds the first line of the original-language text
	storyStart linePredicate

	// redundantTitle marks a story start line that repeats the title
	redundantTitle linePredicate

	// markerTitle classifies the text of a marker line as a translated title
	markerTitle linePredicate

	// plainTitle classifies an unmarked line as a translated title candidate
	plainTitle linePredicate

	// lookaheadStop vetoes a plain title when a section opens nearby
	lookaheadStop linePredicate

	// bodyLike recognizes story prose following a title candidate
	bodyLike linePredicate
}

func newLineRules(kw *keywords) lineRules {
	noSentencePunct := not(containsAny(".", ","))

	return lineRules{
		vocabularyMarker:   allOf(isMarker, containsFold(kw.vocabulary)),
		questionsMarker:    allOf(isMarker, containsFold(kw.questions)),
		answersMarker:      allOf(isMarker, containsFold(kw.answers)),
		illustrationMarker: allOf(isMarker, containsFold(kw.illustration)),

		vocabularyStop: allOf(
			not(containsAny(Arrow)),
			longerThan(3),
			leadingUpper,
			not(numberedRe.MatchString),
		),

		storyStart: allOf(
			nonEmpty,
			leadingUpper,
			not(isMarker),
			not(containsFold(kw.textStartExclusions)),
			longerThan(3),
			not(containsAny(Arrow)),
		),

		redundantTitle: allOf(shorterThan(50), noSentencePunct),

		markerTitle: allOf(
			nonEmpty,
			leadingUpper,
			noSentencePunct,
			not(containsFold(kw.sectionWords)),
			lengthBetween(3, 100),
		),

		plainTitle: allOf(
			nonEmpty,
			leadingUpper,
			not(hasPrefix("—")),
			not(hasPrefix(`"`)),
			not(isMarker),
			not(containsAny(".", ",", ":")),
			lengthBetween(3, 100),
		),

		lookaheadStop: allOf(nonEmpty, anyOf(isMarker, containsFold(kw.questionWords))),

		bodyLike: allOf(nonEmpty, not(isMarker), containsAny(".", "—", `"`)),
	}
}
