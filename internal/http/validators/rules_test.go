package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "task-manager.com/task-manager/internal/errors"
)

func newContext(method, target, body string) echo.Context {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	return e.NewContext(req, httptest.NewRecorder())
}

func fields(errs []apperrors.FieldError) []string {
	out := make([]string, 0, len(errs))
	for _, fe := range errs {
		out = append(out, fe.Field)
	}
	return out
}

func TestCreateTaskBody(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantFields []string
	}{
		{"title only", `{"title":"Buy milk"}`, nil},
		{"all fields", `{"title":"Buy milk","description":"2 litres","completed":true}`, nil},
		{"missing title", `{"description":"no title"}`, []string{"title"}},
		{"empty title", `{"title":""}`, []string{"title"}},
		{"null title", `{"title":null}`, []string{"title"}},
		{"blank title", `{"title":"   "}`, []string{"title"}},
		{"null description", `{"title":"t","description":null}`, []string{"description"}},
		{"title too long", `{"title":"` + strings.Repeat("a", 101) + `"}`, []string{"title"}},
		{"title at limit", `{"title":"` + strings.Repeat("é", 100) + `"}`, nil},
		{"description too long", `{"title":"t","description":"` + strings.Repeat("d", 501) + `"}`, []string{"description"}},
		{"title not a string", `{"title":42}`, []string{"title"}},
		{"completed not a boolean", `{"title":"t","completed":"yes"}`, []string{"completed"}},
		{"unknown field", `{"title":"t","priority":"high"}`, []string{"priority"}},
		{"malformed json", `{"title":`, []string{"body"}},
		{"array body", `[]`, []string{"body"}},
		{"empty body", ``, []string{"body"}},
		{"null body", `null`, []string{"body"}},
		{"trailing bracket", `{"title":"b"}}`, []string{"body"}},
		{"second object", `{"title":"b"}{"title":"c"}`, []string{"body"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newContext(http.MethodPost, "/api/tasks", tt.body)
			errs := CreateTaskBody(c)

			if tt.wantFields == nil {
				assert.Empty(t, errs)
				require.NotNil(t, CreateTaskRequestFrom(c))
				return
			}

			assert.Equal(t, tt.wantFields, fields(errs))
			assert.Nil(t, CreateTaskRequestFrom(c))
		})
	}
}

func TestCreateTaskBody_Messages(t *testing.T) {
	c := newContext(http.MethodPost, "/api/tasks", `{}`)
	errs := CreateTaskBody(c)

	require.Len(t, errs, 1)
	assert.Equal(t, apperrors.FieldError{Field: "title", Message: "title is required"}, errs[0])

	c = newContext(http.MethodPost, "/api/tasks", `{"title":"`+strings.Repeat("a", 101)+`"}`)
	errs = CreateTaskBody(c)

	require.Len(t, errs, 1)
	assert.Equal(t, "title must be at most 100 characters", errs[0].Message)
}

func TestUpdateTaskBody(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantFields []string
	}{
		{"empty object", `{}`, nil},
		{"completed only", `{"completed":true}`, nil},
		{"title and description", `{"title":"new","description":""}`, nil},
		{"empty title", `{"title":""}`, []string{"title"}},
		{"title too long", `{"title":"` + strings.Repeat("a", 101) + `"}`, []string{"title"}},
		{"completed as string", `{"completed":"true"}`, []string{"completed"}},
		{"immutable id", `{"id":"64fb6c7d6b72891548f3e97a"}`, []string{"id"}},
		{"immutable createdAt", `{"createdAt":"2024-01-01T00:00:00Z"}`, []string{"createdAt"}},
		{"blank title", `{"title":" \t "}`, []string{"title"}},
		{"null title", `{"title":null}`, []string{"title"}},
		{"null description", `{"description":null}`, []string{"description"}},
		{"null completed", `{"completed":null}`, []string{"completed"}},
		{"every field null", `{"title":null,"description":null,"completed":null}`, []string{"completed", "description", "title"}},
		{"null body", `null`, []string{"body"}},
		{"array body", `[]`, []string{"body"}},
		{"trailing bracket", `{"completed":true}]`, []string{"body"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newContext(http.MethodPut, "/api/tasks/x", tt.body)
			errs := UpdateTaskBody(c)

			if tt.wantFields == nil {
				assert.Empty(t, errs)
				assert.NotNil(t, UpdateTaskRequestFrom(c))
				return
			}
			assert.Equal(t, tt.wantFields, fields(errs))
			assert.Nil(t, UpdateTaskRequestFrom(c))
		})
	}
}

func TestUpdateTaskBody_Messages(t *testing.T) {
	tests := []struct {
		body string
		want apperrors.FieldError
	}{
		{`{"title":null}`, apperrors.FieldError{Field: "title", Message: "title must be a string"}},
		{`{"description":null}`, apperrors.FieldError{Field: "description", Message: "description must be a string"}},
		{`{"completed":null}`, apperrors.FieldError{Field: "completed", Message: "completed must be a boolean"}},
		{`{"title":"  "}`, apperrors.FieldError{Field: "title", Message: "title must not be empty"}},
		{`{"priority":1}`, apperrors.FieldError{Field: "priority", Message: "unknown field"}},
		{`null`, apperrors.FieldError{Field: "body", Message: "request body must be a JSON object"}},
		{`{"title":"b"}}`, apperrors.FieldError{Field: "body", Message: "invalid JSON payload"}},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			errs := UpdateTaskBody(newContext(http.MethodPut, "/api/tasks/x", tt.body))

			require.Len(t, errs, 1)
			assert.Equal(t, tt.want, errs[0])
		})
	}
}

func TestTaskIDParam(t *testing.T) {
	tests := []struct {
		name  string
		id    string
		valid bool
		want  string
	}{
		{"valid id", "64fb6c7d6b72891548f3e97a", true, "64fb6c7d6b72891548f3e97a"},
		{"uppercase id is canonicalised", "64FB6C7D6B72891548F3E97A", true, "64fb6c7d6b72891548f3e97a"},
		{"too short", "64fb6c7d", false, ""},
		{"not hex", "zzzzzzzzzzzzzzzzzzzzzzzz", false, ""},
		{"uuid", "1b4e28ba-2fa1-11d2-883f-0016d3cca427", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newContext(http.MethodGet, "/api/tasks/"+tt.id, "")
			c.SetParamNames("id")
			c.SetParamValues(tt.id)

			errs := TaskIDParam(c)
			if tt.valid {
				assert.Empty(t, errs)
				assert.Equal(t, tt.want, TaskIDFrom(c))
				return
			}
			assert.Equal(t, []string{"id"}, fields(errs))
		})
	}
}

func TestCompletedQuery(t *testing.T) {
	tests := []struct {
		query   string
		valid   bool
		present bool
		want    bool
	}{
		{"", true, false, false},
		{"?completed=true", true, true, true},
		{"?completed=false", true, true, false},
		{"?completed=1", true, true, true},
		{"?completed=0", true, true, false},
		{"?completed=yes", false, false, false},
		{"?completed=", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c := newContext(http.MethodGet, "/api/tasks"+tt.query, "")
			errs := CompletedQuery(c)

			if !tt.valid {
				assert.Equal(t, []string{"completed"}, fields(errs))
				return
			}

			assert.Empty(t, errs)
			q := ListTasksQueryFrom(c)
			if !tt.present {
				assert.Nil(t, q.Completed)
				return
			}
			require.NotNil(t, q.Completed)
			assert.Equal(t, tt.want, *q.Completed)
		})
	}
}

func TestChain_CollectsAllFailures(t *testing.T) {
	c := newContext(http.MethodPut, "/api/tasks/bad", `{"title":""}`)
	c.SetParamNames("id")
	c.SetParamValues("bad")

	called := false
	handler := UpdateTask(func(c echo.Context) error {
		called = true
		return nil
	})

	err := handler(c)

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"id", "title"}, fields(verr.Errors))
	assert.False(t, called, "handler must not run when validation fails")
}
