// Package docs builds the OpenAPI description of the task API from the
// route table and serves it together with a Swagger UI page.
package docs

import (
	"regexp"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Schema names registered under #/components/schemas.
const (
	SchemaTask             = "Task"
	SchemaTaskList         = "TaskList"
	SchemaCreateTask       = "CreateTaskRequest"
	SchemaUpdateTask       = "UpdateTaskRequest"
	SchemaMessage          = "Message"
	SchemaValidationErrors = "ValidationErrors"
)

const objectIDPattern = "^[0-9a-fA-F]{24}$"

type Info struct {
	Title       string
	Version     string
	Description string
	ServerURL   string
}

type Param struct {
	Name        string
	In          string
	Description string
	Type        string
	Required    bool
}

type Response struct {
	Status      int
	Description string
	Schema      string
}

// Endpoint is the documented half of a route. Path uses echo syntax
// (/tasks/:id).
type Endpoint struct {
	Method      string
	Path        string
	OperationID string
	Summary     string
	Params      []Param
	RequestBody string
	Responses   []Response
}

var echoParam = regexp.MustCompile(`:([A-Za-z0-9_]+)`)

// OpenAPIPath converts an echo path to OpenAPI template syntax.
func OpenAPIPath(path string) string {
	return echoParam.ReplaceAllString(path, "{$1}")
}

func Build(info Info, endpoints []Endpoint) *openapi3.T {
	components := openapi3.NewComponents()
	components.Schemas = schemas()

	doc := &openapi3.T{
		OpenAPI: "3.0.0",
		Info: &openapi3.Info{
			Title:       info.Title,
			Version:     info.Version,
			Description: info.Description,
		},
		Components: &components,
		Paths:      openapi3.NewPaths(),
		Tags:       openapi3.Tags{&openapi3.Tag{Name: "Tasks"}},
	}
	if info.ServerURL != "" {
		doc.Servers = openapi3.Servers{&openapi3.Server{URL: info.ServerURL}}
	}

	for _, ep := range endpoints {
		path := OpenAPIPath(ep.Path)

		item := doc.Paths.Value(path)
		if item == nil {
			item = &openapi3.PathItem{}
			doc.Paths.Set(path, item)
		}
		item.SetOperation(strings.ToUpper(ep.Method), operation(ep))
	}

	return doc
}

func operation(ep Endpoint) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = ep.OperationID
	op.Summary = ep.Summary
	op.Tags = []string{"Tasks"}

	for _, p := range ep.Params {
		op.Parameters = append(op.Parameters, &openapi3.ParameterRef{Value: parameter(p)})
	}

	if ep.RequestBody != "" {
		op.RequestBody = &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().
				WithRequired(true).
				WithJSONSchemaRef(schemaRef(ep.RequestBody)),
		}
	}

	opts := make([]openapi3.NewResponsesOption, 0, len(ep.Responses))
	for _, r := range ep.Responses {
		resp := openapi3.NewResponse().WithDescription(r.Description)
		if r.Schema != "" {
			resp = resp.WithJSONSchemaRef(schemaRef(r.Schema))
		}
		opts = append(opts, openapi3.WithStatus(r.Status, &openapi3.ResponseRef{Value: resp}))
	}
	op.Responses = openapi3.NewResponses(opts...)

	return op
}

func parameter(p Param) *openapi3.Parameter {
	var param *openapi3.Parameter
	if p.In == openapi3.ParameterInPath {
		param = openapi3.NewPathParameter(p.Name)
	} else {
		param = openapi3.NewQueryParameter(p.Name).WithRequired(p.Required)
	}

	var schema *openapi3.Schema
	switch p.Type {
	case "boolean":
		schema = openapi3.NewBoolSchema()
	case "objectId":
		schema = openapi3.NewStringSchema().WithPattern(objectIDPattern)
	default:
		schema = openapi3.NewStringSchema()
	}

	return param.WithDescription(p.Description).WithSchema(schema)
}

func schemaRef(name string) *openapi3.SchemaRef {
	return openapi3.NewSchemaRef("#/components/schemas/"+name, nil)
}

func schemas() openapi3.Schemas {
	task := openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewStringSchema().WithPattern(objectIDPattern)).
		WithProperty("title", openapi3.NewStringSchema().WithMaxLength(100)).
		WithProperty("description", openapi3.NewStringSchema().WithMaxLength(500).WithNullable()).
		WithProperty("completed", openapi3.NewBoolSchema()).
		WithProperty("createdAt", openapi3.NewDateTimeSchema())
	task.Required = []string{"id", "title", "completed", "createdAt"}
	task.Example = map[string]interface{}{
		"id":          "64fb6c7d6b72891548f3e97a",
		"title":       "Buy milk",
		"description": "Two litres from the corner shop",
		"completed":   false,
		"createdAt":   "2024-12-28T15:30:00.000Z",
	}

	taskList := openapi3.NewArraySchema()
	taskList.Items = schemaRef(SchemaTask)

	create := openapi3.NewObjectSchema().
		WithProperty("title", openapi3.NewStringSchema().WithMinLength(1).WithMaxLength(100)).
		WithProperty("description", openapi3.NewStringSchema().WithMaxLength(500)).
		WithProperty("completed", openapi3.NewBoolSchema())
	create.Required = []string{"title"}

	update := openapi3.NewObjectSchema().
		WithProperty("title", openapi3.NewStringSchema().WithMinLength(1).WithMaxLength(100)).
		WithProperty("description", openapi3.NewStringSchema().WithMaxLength(500)).
		WithProperty("completed", openapi3.NewBoolSchema())

	message := openapi3.NewObjectSchema().
		WithProperty("message", openapi3.NewStringSchema())
	message.Required = []string{"message"}

	fieldError := openapi3.NewObjectSchema().
		WithProperty("field", openapi3.NewStringSchema()).
		WithProperty("message", openapi3.NewStringSchema())
	validationErrors := openapi3.NewObjectSchema().
		WithProperty("errors", openapi3.NewArraySchema().WithItems(fieldError))
	validationErrors.Required = []string{"errors"}

	return openapi3.Schemas{
		SchemaTask:             openapi3.NewSchemaRef("", task),
		SchemaTaskList:         openapi3.NewSchemaRef("", taskList),
		SchemaCreateTask:       openapi3.NewSchemaRef("", create),
		SchemaUpdateTask:       openapi3.NewSchemaRef("", update),
		SchemaMessage:          openapi3.NewSchemaRef("", message),
		SchemaValidationErrors: openapi3.NewSchemaRef("", validationErrors),
	}
}
