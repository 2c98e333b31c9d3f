package docs

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEndpoints() []Endpoint {
	idParam := Param{Name: "id", In: "path", Type: "objectId", Required: true}
	return []Endpoint{
		{
			Method:      http.MethodGet,
			Path:        "/api/tasks",
			OperationID: "listTasks",
			Params:      []Param{{Name: "completed", In: "query", Type: "boolean"}},
			Responses:   []Response{{Status: http.StatusOK, Description: "ok", Schema: SchemaTaskList}},
		},
		{
			Method:      http.MethodPost,
			Path:        "/api/tasks",
			OperationID: "createTask",
			RequestBody: SchemaCreateTask,
			Responses: []Response{
				{Status: http.StatusCreated, Description: "created", Schema: SchemaTask},
				{Status: http.StatusBadRequest, Description: "invalid", Schema: SchemaValidationErrors},
			},
		},
		{
			Method:      http.MethodDelete,
			Path:        "/api/tasks/:id",
			OperationID: "deleteTask",
			Params:      []Param{idParam},
			Responses:   []Response{{Status: http.StatusOK, Description: "deleted", Schema: SchemaMessage}},
		},
	}
}

func TestOpenAPIPath(t *testing.T) {
	assert.Equal(t, "/api/tasks/{id}", OpenAPIPath("/api/tasks/:id"))
	assert.Equal(t, "/api/tasks", OpenAPIPath("/api/tasks"))
}

func TestBuild(t *testing.T) {
	doc := Build(Info{Title: "Task Manager API", Version: "1.0.0", ServerURL: "http://localhost:5000"}, sampleEndpoints())

	collection := doc.Paths.Value("/api/tasks")
	require.NotNil(t, collection)
	require.NotNil(t, collection.Get)
	require.NotNil(t, collection.Post)
	assert.Equal(t, "createTask", collection.Post.OperationID)
	require.NotNil(t, collection.Post.RequestBody)

	item := doc.Paths.Value("/api/tasks/{id}")
	require.NotNil(t, item)
	require.NotNil(t, item.Delete)
	require.Len(t, item.Delete.Parameters, 1)
	assert.Equal(t, "id", item.Delete.Parameters[0].Value.Name)
	assert.True(t, item.Delete.Parameters[0].Value.Required)

	assert.Contains(t, doc.Components.Schemas, SchemaTask)
	assert.Equal(t, "http://localhost:5000", doc.Servers[0].URL)
}

func TestBuild_JSON(t *testing.T) {
	doc := Build(Info{Title: "Task Manager API", Version: "1.0.0"}, sampleEndpoints())

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Equal(t, "3.0.0", raw["openapi"])

	paths := raw["paths"].(map[string]interface{})
	assert.Contains(t, paths, "/api/tasks")
	assert.Contains(t, paths, "/api/tasks/{id}")

	schemas := raw["components"].(map[string]interface{})["schemas"].(map[string]interface{})
	task := schemas["Task"].(map[string]interface{})
	props := task["properties"].(map[string]interface{})
	for _, field := range []string{"id", "title", "description", "completed", "createdAt"} {
		assert.Contains(t, props, field)
	}

	assert.Contains(t, string(data), `"$ref":"#/components/schemas/Task"`)
}

func TestRegister(t *testing.T) {
	e := echo.New()
	Register(e, "/api-docs", Build(Info{Title: "Task Manager API", Version: "1.0.0"}, sampleEndpoints()))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api-docs", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `url: "/api-docs/openapi.json"`))

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api-docs/openapi.json", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"title":"Task Manager API"`)
}
