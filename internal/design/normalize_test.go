package design

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		testName string
		input    string
		expected string
	}{
		{testName: "обрезает пробелы и поднимает регистр", input: " ab12 ", expected: "AB12"},
		{testName: "пустая строка", input: "", expected: ""},
		{testName: "только пробелы", input: " \t ", expected: ""},
		{testName: "уже нормализован", input: "RNG-045", expected: "RNG-045"},
		{testName: "смешанный регистр", input: "rNg-045\n", expected: "RNG-045"},
	}

	for _, tc := range testCases {
		t.Run(tc.testName, func(t *testing.T) {
			assert.Equal(t, tc.expected, Normalize(tc.input))
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	for _, code := range []string{" ab12 ", "x", "", "  Ring 7 ", "ÿy"} {
		once := Normalize(code)
		assert.Equal(t, once, Normalize(once), code)
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(" br01", "BR01 "))
	assert.False(t, Equal("BR01", "BR02"))
}
