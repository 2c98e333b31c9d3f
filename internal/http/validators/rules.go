package validators

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	dto "task-manager.com/task-manager/internal/data_models"
	apperrors "task-manager.com/task-manager/internal/errors"
)

const (
	taskIDKey        = "validated.task_id"
	createRequestKey = "validated.create_task"
	updateRequestKey = "validated.update_task"
	listQueryKey     = "validated.list_tasks"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", notBlank)
	return v
}

// notBlank fails strings made only of whitespace.
func notBlank(fl validator.FieldLevel) bool {
	return strings.IndexFunc(fl.Field().String(), func(r rune) bool { return !unicode.IsSpace(r) }) >= 0
}

// TaskIDParam requires the :id path parameter to be an ObjectID.
func TaskIDParam(c echo.Context) []apperrors.FieldError {
	oid, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return []apperrors.FieldError{{Field: "id", Message: "invalid task id"}}
	}

	c.Set(taskIDKey, oid.Hex())
	return nil
}

// CompletedQuery accepts an optional boolean completed query parameter.
func CompletedQuery(c echo.Context) []apperrors.FieldError {
	query := dto.ListTasksQuery{}

	values, ok := c.QueryParams()["completed"]
	if ok {
		raw := ""
		if len(values) > 0 {
			raw = values[0]
		}

		switch strings.ToLower(raw) {
		case "true", "1":
			completed := true
			query.Completed = &completed
		case "false", "0":
			completed := false
			query.Completed = &completed
		default:
			return []apperrors.FieldError{{Field: "completed", Message: "completed must be a boolean"}}
		}
	}

	c.Set(listQueryKey, query)
	return nil
}

func CreateTaskBody(c echo.Context) []apperrors.FieldError {
	var req dto.CreateTaskRequest
	if errs := decodeBody(c, &req); errs != nil {
		return errs
	}
	if errs := checkStruct(&req); errs != nil {
		return errs
	}

	c.Set(createRequestKey, &req)
	return nil
}

func UpdateTaskBody(c echo.Context) []apperrors.FieldError {
	var req dto.UpdateTaskRequest
	if errs := decodeBody(c, &req); errs != nil {
		return errs
	}
	if errs := checkStruct(&req); errs != nil {
		return errs
	}

	c.Set(updateRequestKey, &req)
	return nil
}

type fieldKind int

const (
	stringField fieldKind = iota
	boolField
)

// taskFields lists the body fields accepted on create and update.
var taskFields = map[string]fieldKind{
	"title":       stringField,
	"description": stringField,
	"completed":   boolField,
}

// matches reports whether raw holds a JSON value of the kind. null matches
// nothing.
func (k fieldKind) matches(raw json.RawMessage) bool {
	value := bytes.TrimSpace(raw)
	switch k {
	case boolField:
		return bytes.Equal(value, []byte("true")) || bytes.Equal(value, []byte("false"))
	default:
		return len(value) > 0 && value[0] == '"'
	}
}

func (k fieldKind) message(field string) string {
	if k == boolField {
		return field + " must be a boolean"
	}
	return field + " must be a string"
}

func bodyError(message string) []apperrors.FieldError {
	return []apperrors.FieldError{{Field: "body", Message: message}}
}

// decodeBody decodes a JSON object body into dst. Every present field is
// checked against taskFields first, so unknown keys and explicit nulls are
// reported per field instead of being dropped.
func decodeBody(c echo.Context, dst interface{}) []apperrors.FieldError {
	data, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return bodyError("invalid JSON payload")
	}

	raw, errs := decodeObject(data)
	if errs != nil {
		return errs
	}

	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		kind, ok := taskFields[key]
		if !ok {
			errs = append(errs, apperrors.FieldError{Field: key, Message: "unknown field"})
			continue
		}
		if !kind.matches(raw[key]) {
			errs = append(errs, apperrors.FieldError{Field: key, Message: kind.message(key)})
		}
	}
	if len(errs) > 0 {
		return errs
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return bodyError("invalid JSON payload")
	}
	return nil
}

// decodeObject parses exactly one top-level JSON object. Anything after it,
// stray closing brackets included, is rejected.
func decodeObject(data []byte) (map[string]json.RawMessage, []apperrors.FieldError) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, bodyError("request body must be a JSON object")
	}

	dec := json.NewDecoder(bytes.NewReader(data))

	var raw map[string]json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, bodyError("request body must be a JSON object")
		}
		return nil, bodyError("invalid JSON payload")
	}
	if raw == nil {
		return nil, bodyError("request body must be a JSON object")
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, bodyError("invalid JSON payload")
	}

	return raw, nil
}

func checkStruct(s interface{}) []apperrors.FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []apperrors.FieldError{{Field: "body", Message: err.Error()}}
	}

	out := make([]apperrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, apperrors.FieldError{Field: fe.Field(), Message: ruleMessage(fe)})
	}
	return out
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min", "notblank":
		return fe.Field() + " must not be empty"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fe.Field() + " is invalid"
	}
}

// TaskIDFrom returns the canonical task id stored by TaskIDParam.
func TaskIDFrom(c echo.Context) string {
	id, _ := c.Get(taskIDKey).(string)
	return id
}

func CreateTaskRequestFrom(c echo.Context) *dto.CreateTaskRequest {
	req, _ := c.Get(createRequestKey).(*dto.CreateTaskRequest)
	return req
}

func UpdateTaskRequestFrom(c echo.Context) *dto.UpdateTaskRequest {
	req, _ := c.Get(updateRequestKey).(*dto.UpdateTaskRequest)
	return req
}

func ListTasksQueryFrom(c echo.Context) dto.ListTasksQuery {
	query, _ := c.Get(listQueryKey).(dto.ListTasksQuery)
	return query
}
