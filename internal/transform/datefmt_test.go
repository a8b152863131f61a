package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stage-reconciler/internal/mapping"
)

func TestLayout(t *testing.T) {
	tests := []struct {
		pattern  string
		expected string
	}{
		{"dd-MMM-yy", "02-Jan-06"},
		{"dd/MM/yy", "02/01/06"},
		{"yyyy-MM-dd", "2006-01-02"},
		{"d/M/yyyy", "2/1/2006"},
		{"dd MMMM yyyy", "02 January 2006"},
		{"EEE, dd MMM yyyy HH:mm:ss Z", "Mon, 02 Jan 2006 15:04:05 -0700"},
		{"yyyy-MM-dd'T'HH:mm:ss.SSSX", "2006-01-02T15:04:05.000Z07:00"},
		{"hh:mm a", "03:04 PM"},
		{"yyyy.DDD", "2006.002"},
		{"''yy''", "'06'"},
		{"yyyy_MM", "2006_01"},
		{"dd_yyyy", "02_2006"},
		{"'at' HH:mm", "at 15:04"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			layout, err := Layout(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, layout)
		})
	}
}

func TestLayout_Errors(t *testing.T) {
	patterns := []string{
		"", "dd-QQ", "'unterminated", "ss SSS", "dd'1'MM",
		"dd 'Mon' yy", "hh:mm 'PM'", "'Jan' yyyy", "'pm'", "MMM'uary'", "EEE'day'",
		"yyyy_d", "yyyy'_'d", "HH:mm 'P'z",
	}

	for _, pattern := range patterns {
		t.Run(pattern, func(t *testing.T) {
			_, err := Layout(pattern)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnsupportedPattern)
		})
	}
}

func TestReformat_UnderscoreLiteral(t *testing.T) {
	out, err := Reformat("2023_12_25", mapping.DateFormats{Input: "yyyy_MM_dd", Output: "dd/MM/yyyy"})
	require.NoError(t, err)
	assert.Equal(t, "25/12/2023", out)
}

func TestReformat(t *testing.T) {
	out, err := Reformat("25-Dec-23", mapping.DateFormats{Input: "dd-MMM-yy", Output: "dd/MM/yy"})
	require.NoError(t, err)
	assert.Equal(t, "25/12/23", out)

	out, err = Reformat(" 20231225 ", mapping.DateFormats{Input: "yyyyMMdd", Output: "yyyy-MM-dd"})
	require.NoError(t, err)
	assert.Equal(t, "2023-12-25", out)

	out, err = Reformat("2023-13-45", mapping.DateFormats{Input: "yyyy-MM-dd", Output: "dd/MM/yy"})
	require.ErrorIs(t, err, ErrUnparseableDate)
	assert.Equal(t, "2023-13-45", out)

	_, err = Reformat("25-Dec-23", mapping.DateFormats{Input: "dd-MMM-yy", Output: "QQ"})
	require.ErrorIs(t, err, ErrUnsupportedPattern)
}

func TestPad(t *testing.T) {
	_, err := Pad("1", mapping.Padding{PadChar: "0", PadDirection: "UP", TargetLength: 3})
	require.ErrorIs(t, err, ErrInvalidPadding)

	_, err = Pad("1", mapping.Padding{PadChar: "", PadDirection: mapping.PadLeft, TargetLength: 3})
	require.ErrorIs(t, err, ErrInvalidPadding)

	out, err := Pad("1", mapping.Padding{PadChar: "0", PadDirection: "right", TargetLength: 3})
	require.NoError(t, err)
	assert.Equal(t, "100", out)
}
