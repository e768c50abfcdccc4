package stepxml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qemcp/internal/api"
)

func TestSerialize(t *testing.T) {
	steps := []api.TestStep{
		{StepNumber: 2, Action: "Click Login", ExpectedResult: "Dashboard is shown"},
		{StepNumber: 1, Action: "Open the login page", ExpectedResult: "Form is shown"},
	}

	expected := `<steps id="0" last="2">` +
		`<step id="1" type="ActionStep">` +
		`<parameterizedString isformatted="true">Open the login page</parameterizedString>` +
		`<parameterizedString isformatted="true">Form is shown</parameterizedString>` +
		`<description/></step>` +
		`<step id="2" type="ActionStep">` +
		`<parameterizedString isformatted="true">Click Login</parameterizedString>` +
		`<parameterizedString isformatted="true">Dashboard is shown</parameterizedString>` +
		`<description/></step>` +
		`</steps>`

	assert.Equal(t, expected, Serialize(steps))
	// Input order is left untouched.
	assert.Equal(t, 2, steps[0].StepNumber)
}

func TestSerialize_Empty(t *testing.T) {
	assert.Equal(t, `<steps id="0" last="0"></steps>`, Serialize(nil))
}

func TestSerialize_StableForEqualNumbers(t *testing.T) {
	steps := []api.TestStep{
		{StepNumber: 1, Action: "first"},
		{StepNumber: 1, Action: "second"},
	}
	parsed := Parse(Serialize(steps))
	require.Len(t, parsed, 2)
	assert.Equal(t, "first", parsed[0].Action)
	assert.Equal(t, "second", parsed[1].Action)
}

func TestSerialize_EscapesSpecialCharacters(t *testing.T) {
	out := Serialize([]api.TestStep{{StepNumber: 1, Action: `a & b < c > d "e" 'f'`}})
	assert.Contains(t, out, "a &amp;amp; b &amp;lt; c &amp;gt; d &quot;e&quot; &apos;f&apos;")
}

func TestSerialize_TextIsNotMarkup(t *testing.T) {
	out := Serialize([]api.TestStep{{StepNumber: 1, Action: "Enter <username>"}})
	assert.Contains(t, out, `<parameterizedString isformatted="true">Enter &amp;lt;username&amp;gt;</parameterizedString>`)
}

func TestRoundTrip(t *testing.T) {
	steps := []api.TestStep{
		{StepNumber: 1, Action: `Enter "admin" & 'secret'`, ExpectedResult: "Fields accept input"},
		{StepNumber: 2, Action: "Check that 1 < 2 && 3 > 2", ExpectedResult: `Result reads "ok" & nothing else`},
		{StepNumber: 3, Action: "Submit", ExpectedResult: ""},
		{StepNumber: 4, Action: "Enter <username> in the login field", ExpectedResult: "Field shows '<b>'"},
		{StepNumber: 5, Action: "  indented action", ExpectedResult: "two lines\n  second "},
		{StepNumber: 6, Action: "Type &lt; literally &amp;amp; &#39;", ExpectedResult: "<P>not a paragraph</P>"},
	}

	assert.Equal(t, steps, Parse(Serialize(steps)))
}

func TestRoundTrip_Renumbers(t *testing.T) {
	steps := []api.TestStep{
		{StepNumber: 10, Action: "b"},
		{StepNumber: 5, Action: "a"},
	}
	assert.Equal(t, []api.TestStep{
		{StepNumber: 1, Action: "a"},
		{StepNumber: 2, Action: "b"},
	}, Parse(Serialize(steps)))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []api.TestStep
	}{
		{
			name:     "blank input",
			input:    "   ",
			expected: []api.TestStep{},
		},
		{
			name:     "not a steps document",
			input:    "<html><body>nope</body></html>",
			expected: []api.TestStep{},
		},
		{
			name:     "steps without step elements",
			input:    `<steps id="0" last="0"></steps>`,
			expected: []api.TestStep{},
		},
		{
			name: "self-closing values",
			input: `<steps id="0" last="1"><step id="7" type="ActionStep">` +
				`<parameterizedString isformatted="true">Open app</parameterizedString>` +
				`<parameterizedString isformatted="true"/>` +
				`<description/></step></steps>`,
			expected: []api.TestStep{{StepNumber: 1, Action: "Open app"}},
		},
		{
			name: "html formatted values are stripped",
			input: `<steps id="0" last="2">` +
				`<step id="2" type="ValidateStep"><parameterizedString isformatted="true">&lt;DIV&gt;&lt;P&gt;Click &lt;B&gt;Save&lt;/B&gt;&lt;/P&gt;&lt;/DIV&gt;</parameterizedString>` +
				`<parameterizedString isformatted="true">&lt;P&gt;Saved&lt;BR/&gt;&lt;/P&gt;</parameterizedString><description/></step>` +
				`<step id="5" type="ActionStep"><parameterizedString isformatted="true">Value 1 &lt; 2</parameterizedString>` +
				`<parameterizedString isformatted="true"></parameterizedString><description/></step>` +
				`</steps>`,
			expected: []api.TestStep{
				{StepNumber: 1, Action: "Click Save", ExpectedResult: "Saved"},
				{StepNumber: 2, Action: "Value 1 < 2", ExpectedResult: ""},
			},
		},
		{
			name: "single pass unescape",
			input: `<steps id="0" last="1"><step id="1" type="ActionStep">` +
				`<parameterizedString isformatted="true">Type &amp;lt;tag&amp;gt;</parameterizedString>` +
				`<parameterizedString isformatted="true">ok</parameterizedString></step></steps>`,
			expected: []api.TestStep{{StepNumber: 1, Action: "Type <tag>", ExpectedResult: "ok"}},
		},
		{
			name: "numeric and named html entities",
			input: `<steps id="0" last="1"><step id="1" type="ActionStep">` +
				`<parameterizedString isformatted="true">&lt;P&gt;Click&amp;nbsp;&amp;#39;Save&amp;#39;&lt;/P&gt;</parameterizedString>` +
				`<parameterizedString isformatted="true">It&amp;#x27;s saved &amp;amp; closed</parameterizedString></step></steps>`,
			expected: []api.TestStep{{StepNumber: 1, Action: "Click\u00a0'Save'", ExpectedResult: "It's saved & closed"}},
		},
		{
			name: "multiline document",
			input: "<steps id=\"0\" last=\"1\">\n  <step id=\"1\" type=\"ActionStep\">\n" +
				"    <parameterizedString isformatted=\"true\">Line one\nline two</parameterizedString>\n" +
				"    <parameterizedString isformatted=\"true\">Done</parameterizedString>\n" +
				"    <description/>\n  </step>\n</steps>",
			expected: []api.TestStep{{StepNumber: 1, Action: "Line one\nline two", ExpectedResult: "Done"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Parse(tt.input))
		})
	}
}
