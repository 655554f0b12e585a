package text

import (
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Contribution is one rule's share of a text answer's raw score.
type Contribution struct {
	Label  string  `json:"label"`
	Points float64 `json:"points"`
}

// input is the answer pre-digested once and shared by every rule.
type input struct {
	question      string
	questionLower string
	answer        string
	answerLower   string
	tokens        []string
	tokenSet      tokenSet
}

// rule is one named heuristic. Rules are independent of each other.
type rule struct {
	Name  string
	Apply func(in *input) float64
}

func capped(hits int, weight, limit float64) float64 {
	return math.Min(float64(hits)*weight, limit)
}

// LengthBand returns the length rule's contribution for n characters.
func LengthBand(n int) float64 {
	switch {
	case n < 10:
		return 0.3
	case n < 25:
		return 1
	case n < 50:
		return 2
	case n < 100:
		return 3.5
	case n < 200:
		return 5
	case n < 400:
		return 6.5
	case n < 800:
		return 8
	default:
		return 9
	}
}

func diversityBonus(distinct int) float64 {
	switch {
	case distinct >= 60:
		return 2.5
	case distinct >= 40:
		return 2
	case distinct >= 25:
		return 1.5
	case distinct >= 15:
		return 1
	case distinct >= 8:
		return 0.5
	default:
		return 0
	}
}

var (
	quantifiablePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b\d+(\.\d+)?\s*\+?\s*(years?|yrs?|months?|weeks?)\b`),
		regexp.MustCompile(`\b\d+(\.\d+)?\s*(%|percent\b)`),
		regexp.MustCompile(`[$€£]\s*\d[\d,]*(\.\d+)?\s*(k|m|million|billion)?\b|\b\d[\d,]*\s*(dollars|usd|eur)\b`),
		regexp.MustCompile(`\b(team|group|staff|department)\s+of\s+\d+\b|\b\d+\s+(people|engineers|developers|members|employees|clients|customers|users|reports)\b`),
	}
	examplePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\bfor (example|instance)\b`),
		regexp.MustCompile(`\bin my (previous|last|current) (role|job|position)\b`),
		regexp.MustCompile(`\bat (my|our) (previous|last|current) (company|employer|job)\b`),
		regexp.MustCompile(`\bwhen i (was|worked|joined|led)\b`),
		regexp.MustCompile(`\b(specifically|such as|i once|one time)\b`),
	}
	outcomePattern = regexp.MustCompile(`\b(result(ed|s)? in|led to|which (led|resulted)|as a result|outcome|achiev(ed|ing)|improv(ed|ing)|increas(ed|ing)|reduc(ed|ing)|sav(ed|ing)|delivered)\b`)
)

func countAll(patterns []*regexp.Regexp, s string) int {
	n := 0
	for _, p := range patterns {
		n += len(p.FindAllStringIndex(s, -1))
	}
	return n
}

// intent pairs a question pattern with the answer evidence that satisfies it.
type intent struct {
	name     string
	question *regexp.Regexp
	answer   *regexp.Regexp
}

// intents are checked in order; the first matching question pattern wins.
var intents = []intent{
	{
		name:     "experience",
		question: regexp.MustCompile(`\b(experience|worked|previous|past|background|history|a time)\b`),
		answer:   regexp.MustCompile(`\b(i (have|had|worked|was|led|managed|built)|years?|previously|at my|in my (previous|last|current))\b`),
	},
	{
		name:     "skill",
		question: regexp.MustCompile(`\b(skills?|proficien\w*|familiar|knowledge|expertise|abilit(y|ies)|tools?|technolog\w*)\b`),
		answer:   regexp.MustCompile(`\b(proficient|skilled|experienced|expert|familiar|knowledge|certified|trained|using|used|fluent)\b`),
	},
	{
		name:     "problem_solving",
		question: regexp.MustCompile(`\b(problem|challenge|issue|difficult|conflict|solve|handle|approach|situation)\b`),
		answer:   regexp.MustCompile(`\b(identified|analy[sz]ed|solved|resolved|approach|solution|root cause|fixed|addressed|steps?|first|then|finally)\b`),
	},
}

const (
	longAnswerChars     = 1000
	veryLongAnswerChars = 2000
	minLetterRatio      = 0.6
	maxDuplicateRatio   = 0.3
	minRepetitionTokens = 5
)

func buildRules(v Vocabulary) []rule {
	general := v.General
	professional := newTokenSet(v.Professional)
	leadership := newTokenSet(v.Leadership)
	stop := newTokenSet(v.Stopwords)

	domainKeywords := func(questionLower string) []string {
		for _, d := range v.Domains {
			for _, h := range d.Hints {
				if countTerm(questionLower, h) > 0 {
					return d.Keywords
				}
			}
		}
		return general
	}

	contentTokens := func(tokens []string) []string {
		out := make([]string, 0, len(tokens))
		for _, t := range tokens {
			if !stop.has(t) {
				out = append(out, t)
			}
		}
		return out
	}

	return []rule{
		{Name: "length", Apply: func(in *input) float64 {
			return LengthBand(utf8.RuneCountInString(in.answer))
		}},
		{Name: "keywords", Apply: func(in *input) float64 {
			points := diversityBonus(len(in.tokenSet))
			points += capped(overlap(in.tokenSet, domainKeywords(in.questionLower)), 0.4, 2)
			points += capped(overlap(in.tokenSet, v.ActionVerbs), 0.3, 1.5)
			points += capped(overlap(in.tokenSet, v.Technologies), 0.4, 2)
			return points
		}},
		{Name: "answer_strength", Apply: func(in *input) float64 {
			return capped(countAll(quantifiablePatterns, in.answerLower), 0.75, 3) +
				capped(countAll(examplePatterns, in.answerLower), 0.5, 2) +
				capped(len(outcomePattern.FindAllStringIndex(in.answerLower, -1)), 0.5, 1.5)
		}},
		{Name: "communication", Apply: func(in *input) float64 {
			return capped(occurrences(in.tokens, professional), 0.3, 1.5) +
				capped(occurrences(in.tokens, leadership), 0.3, 1.5)
		}},
		{Name: "relevance", Apply: func(in *input) float64 {
			keywords := uniqueStrings(contentTokens(Tokenize(in.question)))
			direct, fuzzy := 0, 0
			for _, k := range keywords {
				if utf8.RuneCountInString(k) < 3 {
					continue
				}
				if in.tokenSet.has(k) {
					direct++
					continue
				}
				for t := range in.tokenSet {
					if fuzzyMatch(k, t) {
						fuzzy++
						break
					}
				}
			}
			points := capped(direct, 0.5, 2) + capped(fuzzy, 0.3, 1.5)
			for _, it := range intents {
				if it.question.MatchString(in.questionLower) {
					points += capped(len(it.answer.FindAllStringIndex(in.answerLower, -1)), 0.25, 1)
					break
				}
			}
			return points
		}},
		{Name: "technical", Apply: func(in *input) float64 {
			terms, tools := 0, 0
			for _, t := range v.TechnicalTerms {
				terms += countTerm(in.answerLower, t)
			}
			for _, t := range v.Tools {
				tools += countTerm(in.answerLower, t)
			}
			return capped(terms, 0.4, 2) + capped(tools, 0.3, 1.5)
		}},
		{Name: "structure", Apply: func(in *input) float64 {
			points := 0.0
			if sents := sentences(in.answer); len(sents) > 0 {
				avg := float64(len(strings.Fields(in.answer))) / float64(len(sents))
				switch {
				case avg > 40:
					points -= 1
				case avg > 25:
					points -= 0.5
				case avg >= 12:
					points += 1
				case avg >= 8:
					points += 0.5
				}
			}
			if p := paragraphs(in.answer); p >= 2 && p <= 4 {
				points += 0.5
			}
			transitions := 0
			for _, t := range v.Transitions {
				transitions += countTerm(in.answerLower, t)
			}
			return points + capped(transitions, 0.1, 0.5)
		}},
		{Name: "quality", Apply: func(in *input) float64 {
			points := 0.0
			n := utf8.RuneCountInString(in.answer)
			switch {
			case n > veryLongAnswerChars:
				points -= 1
			case n > longAnswerChars:
				points -= 0.5
			}
			if strings.Contains(in.answer, "  ") {
				points -= 0.2
			}
			if !startsWithCapital(in.answer) {
				points -= 0.2
			}
			if letterRatio(in.answer) < minLetterRatio {
				points -= 1
			}
			if content := contentTokens(in.tokens); len(content) >= minRepetitionTokens {
				dup := 1 - float64(len(uniqueStrings(content)))/float64(len(content))
				if dup > maxDuplicateRatio {
					points -= 1
				}
			}
			if strings.Contains(in.answer, "\n") {
				points += 0.2
			}
			return points
		}},
	}
}

func startsWithCapital(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return unicode.IsUpper(r)
		}
	}
	return false
}

// letterRatio is the share of letters among non-space characters.
func letterRatio(s string) float64 {
	total, letters := 0, 0
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(letters) / float64(total)
}

func uniqueStrings(in []string) []string {
	seen := make(tokenSet, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen.has(s) {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}
