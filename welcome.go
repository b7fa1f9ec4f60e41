package tutorchat

import (
	"strings"

	"github.com/tutorchat/tutorchat/types"
)

// Subjects is the fixed subject catalog, in display order.
var Subjects = []string{
	"Programming", "Mathematics", "Science", "History",
	"Language Learning", "Economics", "Philosophy", "Art",
}

// SubjectStarters maps each catalog subject to starter questions shown in
// the welcome turn and exposed by the proxy's subjects endpoint.
var SubjectStarters = map[string][]string{
	"Programming": {
		"How do I create a responsive website?",
		"What's the difference between JavaScript and Python?",
		"Can you explain Object-Oriented Programming concepts?",
	},
	"Mathematics": {
		"How do I solve quadratic equations?",
		"Can you explain calculus derivatives?",
		"What are complex numbers used for?",
	},
	"Science": {
		"How does photosynthesis work?",
		"Explain quantum physics in simple terms",
		"What is the structure of DNA?",
	},
	"History": {
		"What caused World War I?",
		"Tell me about the Renaissance period",
		"How did ancient civilizations impact modern society?",
	},
	"Language Learning": {
		"What's the most effective way to learn vocabulary?",
		"How can I improve my pronunciation?",
		"What are some common grammar mistakes to avoid?",
	},
	"Economics": {
		"Explain supply and demand",
		"What causes inflation?",
		"How do stock markets work?",
	},
	"Philosophy": {
		"What is existentialism?",
		"Explain Plato's Theory of Forms",
		"How does ethics differ from morality?",
	},
	"Art": {
		"What are the key art movements in history?",
		"How do I analyze a painting?",
		"What techniques do artists use to create depth?",
	},
}

// defaultStarters is used when the profile names no catalog subject.
var defaultStarters = []string{
	"What topic should I start with as a beginner?",
	"Can you explain a concept I'm stuck on?",
	"How do I build a good study routine?",
}

// welcomeNarrative builds the greeting that seeds a new transcript. It
// embeds the learner's name and subject when present, plus subject-matched
// starter questions as bullet lines for the renderer.
func welcomeNarrative(profile types.UserProfile) string {
	var b strings.Builder

	if profile.DisplayName != "" {
		b.WriteString("Hi ")
		b.WriteString(profile.DisplayName)
		b.WriteString("! ")
	} else {
		b.WriteString("Hello! ")
	}

	if profile.Subject != "" {
		b.WriteString("I see you're interested in ")
		b.WriteString(profile.Subject)
		b.WriteString(". I'd be happy to help with any ")
		b.WriteString(profile.Subject)
		b.WriteString(" questions! ")
	} else {
		b.WriteString("I can help with any subject you're learning. ")
	}
	b.WriteString("I'm your AI Tutor, ready to assist with explanations, homework help, and learning resources.\n\n")

	starters, ok := SubjectStarters[profile.Subject]
	if !ok {
		starters = defaultStarters
	}
	if profile.Subject != "" && ok {
		b.WriteString("# Here are some ")
		b.WriteString(profile.Subject)
		b.WriteString(" questions to get started:\n")
	} else {
		b.WriteString("# Here are some suggestions to get started:\n")
	}
	for _, question := range starters {
		b.WriteString("- ")
		b.WriteString(question)
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}
