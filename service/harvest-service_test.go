package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuessesFromText(t *testing.T) {
	winner, runnerUp, thirdPlace := guessesFromText("alpha\nbeta\ngamma")
	assert.Equal(t, "alpha", winner)
	assert.Equal(t, "beta", runnerUp)
	assert.Equal(t, "gamma", thirdPlace)
}

func TestGuessesFromTextSkipsBlankLines(t *testing.T) {
	winner, runnerUp, thirdPlace := guessesFromText("  alpha  \n\n\t\nbeta\ngamma\ndelta")
	assert.Equal(t, "alpha", winner)
	assert.Equal(t, "beta", runnerUp)
	assert.Equal(t, "gamma", thirdPlace)
}

func TestGuessesFromTextPartial(t *testing.T) {
	winner, runnerUp, thirdPlace := guessesFromText("alpha")
	assert.Equal(t, "alpha", winner)
	assert.Equal(t, "", runnerUp)
	assert.Equal(t, "", thirdPlace)
}

func TestGuessesFromTextEmpty(t *testing.T) {
	winner, runnerUp, thirdPlace := guessesFromText("   \n\n")
	assert.Equal(t, "", winner)
	assert.Equal(t, "", runnerUp)
	assert.Equal(t, "", thirdPlace)
}
