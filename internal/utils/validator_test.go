package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sanitizeSample struct {
	Plain    string `sanitize:"strict" validate:"required,content_validation"`
	Markup   string `sanitize:"ugc"`
	Verbatim string
	Count    int `sanitize:"strict"`
}

func TestSanitizeData(t *testing.T) {
	v := GetValidator()
	sample := &sanitizeSample{
		Plain:    "<b>Tom</b> & Jerry<script>alert(1)</script>",
		Markup:   `<p onclick="steal()">Hello <a href="javascript:alert(1)">there</a></p>`,
		Verbatim: "<i>kept</i>",
		Count:    3,
	}

	require.NoError(t, v.SanitizeData(sample))

	assert.Equal(t, "Tom & Jerry", sample.Plain)
	assert.NotContains(t, sample.Markup, "onclick")
	assert.NotContains(t, sample.Markup, "javascript:")
	assert.Contains(t, sample.Markup, "<p>Hello")
	assert.Equal(t, "<i>kept</i>", sample.Verbatim)
	assert.Equal(t, 3, sample.Count)
}

func TestSanitizeDataRejectsNonPointer(t *testing.T) {
	assert.ErrorIs(t, GetValidator().SanitizeData(sanitizeSample{}), errNotStructPointer)
}

func TestContentValidation(t *testing.T) {
	v := GetValidator()

	testCases := []struct {
		name  string
		value string
		valid bool
	}{
		{"Text", "Hello world", true},
		{"Unicode", "Grüße ✓", true},
		{"Blank", "   \n\t", false},
		{"Empty", "", false},
		{"InvalidUTF8", string([]byte{0xff, 0xfe}), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Validate.Struct(&sanitizeSample{Plain: tc.value})
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestPasswordLengthCountsBytes(t *testing.T) {
	type credentials struct {
		Password string `validate:"required,min=8,password_length"`
	}
	v := GetValidator()

	testCases := []struct {
		name     string
		password string
		valid    bool
	}{
		{"AsciiAtLimit", strings.Repeat("a", MaxPasswordBytes), true},
		{"AsciiOverLimit", strings.Repeat("a", MaxPasswordBytes+1), false},
		{"MultibyteAtLimit", strings.Repeat("é", MaxPasswordBytes/2), true},
		{"MultibyteOverLimit", strings.Repeat("é", 40), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Validate.Struct(&credentials{Password: tc.password})
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestGenerateVerificationToken(t *testing.T) {
	first, err := GenerateVerificationToken()
	require.NoError(t, err)
	second, err := GenerateVerificationToken()
	require.NoError(t, err)

	assert.Len(t, first, 64)
	assert.Regexp(t, "^[0-9a-f]{64}$", first)
	assert.NotEqual(t, first, second)
}
