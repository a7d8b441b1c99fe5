package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
	}{
		{input: "json", expected: FormatJSON},
		{input: "JSON", expected: FormatJSON},
		{input: "text", expected: FormatText},
		{input: "auto", expected: FormatAuto},
		{input: "unknown", expected: FormatAuto},
		{input: "", expected: FormatAuto},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseFormat(tc.input))
		})
	}
}

func TestDetectFormat_ExplicitWins(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, FormatText, DetectFormat(&buf, FormatText))
	assert.Equal(t, FormatJSON, DetectFormat(&buf, FormatJSON))
}

func TestDetectFormat_NonTTYDefaultsToJSON(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, FormatJSON, DetectFormat(&buf, FormatAuto))
}

func TestFormatter_PrintJSON(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatJSON, &buf)
	assert.True(t, f.IsJSON())

	require.NoError(t, f.Print(map[string]string{"key": "value"}))

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "value", decoded["key"])
}

func TestFormatter_PrintText(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatText, &buf)
	assert.False(t, f.IsJSON())

	require.NoError(t, f.Print("hello"))
	assert.Equal(t, "hello\n", buf.String())
}

func TestFormatter_PrintTable_Text(t *testing.T) {
	table := NewTable("TOKEN", "AMOUNT")
	table.AddRow("WBTC", "0.5")

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatText, &buf).Print(table))

	assert.Contains(t, buf.String(), "TOKEN")
	assert.Contains(t, buf.String(), "WBTC")
	assert.Contains(t, buf.String(), "0.5")
}

func TestFormatter_PrintError_Text(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatText, &buf)

	require.NoError(t, f.Print(assert.AnError))
	assert.Equal(t, assert.AnError.Error()+"\n", buf.String())
}
