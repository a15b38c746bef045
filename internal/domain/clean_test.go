package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanContent(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases", "FEELING Hopeless", "feeling hopeless"},
		{"strips punctuation", "can't sleep!!! again...", "cant sleep"},
		{"strips markup", "**so** _tired_ [link](http://x)", "tired linkhttpx"},
		{"strips emoji", "relapsed again \U0001F62D\U0001F62D", "relapsed"},
		{"removes stopwords", "i am so very alone", "alone"},
		{"collapses whitespace", "panic   attack \n at  work", "panic attack work"},
		{"keeps digits", "988 lifeline helped", "988 lifeline helped"},
		{"empty input", "", ""},
		{"only stopwords", "and the of a", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanContent(tt.input))
		})
	}
}

func TestCleanContentIdempotent(t *testing.T) {
	inputs := []string{
		"I don't want to be here anymore :(",
		"Therapy helped me SO much!! r/mentalhealth",
		"relapsed after 90 days... feeling hopeless",
		"¿panic attack? \U0001F630 couldn't breathe",
		"",
	}

	for _, input := range inputs {
		once := CleanContent(input)
		twice := CleanContent(once)
		assert.Equal(t, once, twice, "cleaning %q twice changed the output", input)
	}
}

func TestIsStopword(t *testing.T) {
	assert.True(t, IsStopword("the"))
	assert.True(t, IsStopword("The"))
	assert.True(t, IsStopword("again"))
	assert.False(t, IsStopword("new"))
	assert.False(t, IsStopword("hopeless"))
	assert.False(t, IsStopword(""))
}

func TestCleanContentNoMarkup(t *testing.T) {
	cleaned := CleanContent("**bold** <b>html</b> & entities; #tag @user \U0001F612")

	for _, r := range cleaned {
		ok := r == ' ' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		assert.True(t, ok, "unexpected rune %q in cleaned output %q", r, cleaned)
	}
}
