package template_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hal9000y/compose-mcp/internal/template"
)

func TestApply(t *testing.T) {
	greeting := template.EmailTemplate{
		ID:       "greeting",
		Template: "Hello {{name}}, regarding {{topic}}.",
		Subject:  "About {{topic}}",
	}

	cases := []struct {
		name     string
		tmpl     template.EmailTemplate
		data     template.Data
		expected template.Rendered
	}{
		{
			name: "missing key passes through",
			tmpl: greeting,
			data: template.Data{"name": "Sam"},
			expected: template.Rendered{
				Content: "Hello Sam, regarding {{topic}}.",
				Subject: "About {{topic}}",
			},
		},
		{
			name: "empty value renders bracketed key",
			tmpl: greeting,
			data: template.Data{"name": "", "topic": "Q3"},
			expected: template.Rendered{
				Content: "Hello [name], regarding Q3.",
				Subject: "About Q3",
			},
		},
		{
			name: "every occurrence replaced",
			tmpl: template.EmailTemplate{
				Template:  "{{x}}-{{x}}-{{x}}",
				Recipient: "{{x}}@example.com",
			},
			data: template.Data{"x": "a"},
			expected: template.Rendered{
				Content:   "a-a-a",
				Recipient: "a@example.com",
			},
		},
		{
			name: "regex metacharacters are literal",
			tmpl: template.EmailTemplate{Template: "{{a.b}} {{a+}} {{(x|y)}} {{$1}} {{axb}}"},
			data: template.Data{"a.b": "dot", "a+": "plus", "(x|y)": "alt", "$1": "dollar"},
			expected: template.Rendered{
				Content: "dot plus alt dollar {{axb}}",
			},
		},
		{
			name: "replaced text is not rescanned",
			tmpl: template.EmailTemplate{Template: "{{a}} {{b}}"},
			data: template.Data{"a": "{{b}}", "b": "B"},
			expected: template.Rendered{
				Content: "{{b}} B",
			},
		},
		{
			name:     "nil data",
			tmpl:     greeting,
			expected: template.Rendered{Content: greeting.Template, Subject: greeting.Subject},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, template.Apply(tc.tmpl, tc.data))
		})
	}
}

func TestApplyOrderIndependent(t *testing.T) {
	tmpl := template.EmailTemplate{
		Template: "{{first}} {{second}} {{third}} {{first}}",
		Subject:  "{{third}}/{{second}}",
	}
	full := template.Data{"first": "1", "second": "", "third": "3"}
	expected := template.Apply(tmpl, full)

	// Applying keys one at a time, in every order, matches the single pass.
	orders := [][]string{
		{"first", "second", "third"},
		{"first", "third", "second"},
		{"second", "first", "third"},
		{"second", "third", "first"},
		{"third", "first", "second"},
		{"third", "second", "first"},
	}
	for _, order := range orders {
		got := tmpl
		for _, k := range order {
			r := template.Apply(got, template.Data{k: full[k]})
			got.Template, got.Subject, got.Recipient = r.Content, r.Subject, r.Recipient
		}
		assert.Equal(t, expected, template.Rendered{Content: got.Template, Subject: got.Subject}, "order %v", order)
	}
}

func TestApplyBuiltinComplete(t *testing.T) {
	all, err := template.Builtin()
	require.NoError(t, err)

	for _, tmpl := range all {
		t.Run(tmpl.ID, func(t *testing.T) {
			data := template.Data{}
			for _, v := range tmpl.Variables {
				data[v.Key] = "value-" + v.Key
			}

			r := template.Apply(tmpl, data)

			for _, s := range []string{r.Content, r.Subject, r.Recipient} {
				assert.NotContains(t, s, "{{")
			}
			assert.Empty(t, template.Unresolved(r))
		})
	}
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t,
		[]string{"name", "topic"},
		template.Placeholders("Hi {{name}}, {{topic}} and {{name}} again, not {name} or {{}}"),
	)
	assert.Nil(t, template.Placeholders("no placeholders"))
}

func TestDefaultsAndMerge(t *testing.T) {
	tmpl := template.EmailTemplate{
		Template: "{{greeting}} {{name}}",
		Variables: []template.Variable{
			{Key: "greeting", Label: "Greeting", DefaultValue: "Hello"},
			{Key: "name", Label: "Name"},
		},
	}

	assert.Equal(t, template.Data{"greeting": "Hello"}, template.Defaults(tmpl))
	assert.Equal(t,
		template.Data{"greeting": "Hi", "name": "Ann"},
		template.Merge(tmpl, template.Data{"greeting": "Hi", "name": "Ann"}),
	)
	assert.Equal(t, "Hello {{name}}", template.Apply(tmpl, template.Merge(tmpl, nil)).Content)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name     string
		tmpl     template.EmailTemplate
		expected *template.KeyMismatchError
	}{
		{
			name: "well formed",
			tmpl: template.EmailTemplate{
				ID:        "ok",
				Template:  "{{a}}",
				Subject:   "{{b}}",
				Variables: []template.Variable{{Key: "a"}, {Key: "b"}},
			},
		},
		{
			name: "mismatched",
			tmpl: template.EmailTemplate{
				ID:        "bad",
				Template:  "{{a}} {{c}}",
				Recipient: "{{d}}",
				Variables: []template.Variable{{Key: "a"}, {Key: "b"}, {Key: "a"}},
			},
			expected: &template.KeyMismatchError{
				TemplateID: "bad",
				Undeclared: []string{"c", "d"},
				Unused:     []string{"b"},
				Duplicate:  []string{"a"},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := template.Validate(tc.tmpl)
			if tc.expected == nil {
				require.NoError(t, err)
				return
			}

			var mismatch *template.KeyMismatchError
			require.ErrorAs(t, err, &mismatch)
			assert.Equal(t, tc.expected, mismatch)
			assert.True(t, strings.HasPrefix(err.Error(), `template "bad" key mismatch`))
		})
	}
}

func TestBuiltin(t *testing.T) {
	all, err := template.Builtin()
	require.NoError(t, err)
	require.Len(t, all, 3)

	ids := make([]string, 0, len(all))
	for _, tmpl := range all {
		ids = append(ids, tmpl.ID)
		assert.NoError(t, template.Validate(tmpl), tmpl.ID)
	}
	assert.Equal(t, []string{"introduction", "follow-up", "request"}, ids)

	followUp, ok := template.FindBuiltin("follow-up")
	require.True(t, ok)
	assert.Equal(t, "{{recipientEmail}}", followUp.Recipient)
	assert.True(t, strings.HasPrefix(followUp.Template, "Hi {{receiverName}},\n\nThank you"))

	_, ok = template.FindBuiltin("missing")
	assert.False(t, ok)
}
