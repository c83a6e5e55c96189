package template

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() *Context {
	return &Context{
		PathParams:  map[string]string{"id": "123"},
		QueryParams: map[string]string{"page": "2"},
		Captures:    map[string]string{"1": "abc"},
		Headers:     map[string]string{"X-Request-Id": "req-1"},
		Method:      "GET",
		RequestPath: "/users/123",
		Body:        []byte(`{"name":"John"}`),
	}
}

func TestRender_FieldReferences(t *testing.T) {
	ctx := testContext()

	out, err := Render("id={{path.id}} page={{query.page}} method={{method}}", ctx)
	require.NoError(t, err)
	assert.Equal(t, "id=123 page=2 method=GET", out)
}

func TestRender_HeaderLookupIsCaseInsensitive(t *testing.T) {
	ctx := testContext()
	out, err := Render("{{headers.x-request-id}}", ctx)
	require.NoError(t, err)
	assert.Equal(t, "req-1", out)
}

func TestRender_UnresolvedFieldErrors(t *testing.T) {
	ctx := testContext()
	_, err := Render("{{path.missing}}", ctx)
	assert.Error(t, err)
}

func TestRender_UpperLower(t *testing.T) {
	ctx := testContext()
	out, err := Render(`{{upper "abc"}} {{lower "ABC"}}`, ctx)
	require.NoError(t, err)
	assert.Equal(t, "ABC abc", out)
}

func TestRender_DefaultHelper(t *testing.T) {
	ctx := testContext()

	out, err := Render(`{{default missing "d"}}`, ctx)
	require.NoError(t, err)
	assert.Equal(t, "d", out)

	out, err = Render(`{{default path.id "d"}}`, ctx)
	require.NoError(t, err)
	assert.Equal(t, "123", out)
}

func TestRender_UUID(t *testing.T) {
	ctx := testContext()
	out, err := Render("{{uuid}}", ctx)
	require.NoError(t, err)

	re := regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
	assert.Regexp(t, re, out)
}

func TestRender_Random(t *testing.T) {
	ctx := testContext()
	out, err := Render("{{random 5 5}}", ctx)
	require.NoError(t, err)
	assert.Equal(t, "5", out)
}

func TestRender_BodyField(t *testing.T) {
	ctx := testContext()
	out, err := Render("{{body}}", ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"John"}`, out)
}

func TestRender_JSONFieldBareAndDotted(t *testing.T) {
	ctx := testContext()

	out, err := Render("{{json.name}}", ctx)
	require.NoError(t, err)
	assert.Equal(t, "John", out)

	out, err = Render("hi {{json}}", ctx)
	require.NoError(t, err)
	assert.Equal(t, `hi {"name":"John"}`, out)
}

func TestRender_JSONFieldNestedAndArrayTraversal(t *testing.T) {
	ctx := testContext()
	ctx.Body = []byte(`{"user":{"id":42,"roles":["admin","editor"]}}`)

	out, err := Render("{{json.user.id}}", ctx)
	require.NoError(t, err)
	assert.Equal(t, "42", out)

	out, err = Render("{{json.user.roles.1}}", ctx)
	require.NoError(t, err)
	assert.Equal(t, "editor", out)

	_, err = Render("{{json.user.missing}}", ctx)
	assert.Error(t, err)
}

func TestRender_DefaultHelperWithQuotedEmptyString(t *testing.T) {
	ctx := testContext()
	out, err := Render(`{{default query.missing ""}}`, ctx)
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestRender_NowHelperTranslatesStrftimeFormat(t *testing.T) {
	ctx := testContext()
	out, err := Render(`{{now "%Y-%m-%d"}}`, ctx)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`), out)
}

func TestRender_JSONHelper(t *testing.T) {
	ctx := testContext()
	out, err := Render(`{{json "{\"a\":1}"}}`, ctx)
	require.NoError(t, err)
	assert.Contains(t, out, "\"a\": 1")
}

func TestRenderJSON_RecursesAndPreservesStringType(t *testing.T) {
	ctx := testContext()
	doc := map[string]any{
		"id":   "{{path.id}}",
		"name": "User {{path.id}}",
		"tags": []any{"static", "{{method}}"},
		"nested": map[string]any{
			"count": float64(3),
		},
	}

	out, err := RenderJSON(doc, ctx)
	require.NoError(t, err)

	m := out.(map[string]any)
	assert.Equal(t, "123", m["id"])
	assert.Equal(t, "User 123", m["name"])
	assert.Equal(t, []any{"static", "GET"}, m["tags"])
	assert.Equal(t, float64(3), m["nested"].(map[string]any)["count"])
}

func TestRenderJSON_NoTemplateMarkersPassesThroughUnchanged(t *testing.T) {
	ctx := testContext()
	doc := map[string]any{"a": "plain", "b": float64(1)}

	out, err := RenderJSON(doc, ctx)
	require.NoError(t, err)
	assert.Equal(t, doc, out)
}
