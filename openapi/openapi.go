// Package openapi builds the OpenAPI 3 document served by the HTTP gateway.
// Schemas are derived from the request and response structs by reflection,
// honouring json tags plus optional doc and example tags.
package openapi

import (
	"context"
	"encoding/json"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"gopkg.in/yaml.v3"
)

type OpenAPI struct {
	spec    *openapi3.T
	mu      sync.RWMutex
	schemas map[reflect.Type]string
}

func New(title, version string) *OpenAPI {
	return &OpenAPI{
		spec: &openapi3.T{
			OpenAPI: "3.0.3",
			Info: &openapi3.Info{
				Title:   title,
				Version: version,
			},
			Paths:      openapi3.NewPaths(),
			Components: &openapi3.Components{Schemas: make(openapi3.Schemas)},
		},
		schemas: make(map[reflect.Type]string),
	}
}

func (o *OpenAPI) Description(desc string) *OpenAPI {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.spec.Info.Description = desc
	return o
}

func (o *OpenAPI) Server(url, description string) *OpenAPI {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.spec.Servers = append(o.spec.Servers, &openapi3.Server{URL: url, Description: description})
	return o
}

func (o *OpenAPI) Tag(name, description string) *OpenAPI {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.spec.Tags = append(o.spec.Tags, &openapi3.Tag{Name: name, Description: description})
	return o
}

func (o *OpenAPI) Spec() *openapi3.T {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.spec
}

// Validate checks the assembled document against the OpenAPI 3 rules.
func (o *OpenAPI) Validate(ctx context.Context) error {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.spec.Validate(ctx)
}

func (o *OpenAPI) JSON() ([]byte, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return json.MarshalIndent(o.spec, "", "  ")
}

func (o *OpenAPI) YAML() ([]byte, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	intermediate, err := o.spec.MarshalYAML()
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(intermediate)
}

func (o *OpenAPI) JSONHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		data, err := o.JSON()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.JSONBlob(http.StatusOK, data)
	}
}

func (o *OpenAPI) YAMLHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		data, err := o.YAML()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.Blob(http.StatusOK, "application/yaml", data)
	}
}

func (o *OpenAPI) Document(method, path string) *RouteBuilder {
	return &RouteBuilder{
		openapi:   o,
		method:    strings.ToUpper(method),
		path:      path,
		operation: &openapi3.Operation{Responses: openapi3.NewResponses()},
	}
}

func (o *OpenAPI) addOperation(method, path string, op *openapi3.Operation) {
	o.mu.Lock()
	defer o.mu.Unlock()

	item := o.spec.Paths.Find(path)
	if item == nil {
		item = &openapi3.PathItem{}
		o.spec.Paths.Set(path, item)
	}
	item.SetOperation(method, op)
}

func (o *OpenAPI) schemaFor(example any) *openapi3.SchemaRef {
	o.mu.Lock()
	defer o.mu.Unlock()

	if example == nil {
		return openapi3.NewObjectSchema().NewRef()
	}
	return o.schemaFromType(reflect.TypeOf(example))
}

func (o *OpenAPI) schemaFromType(t reflect.Type) *openapi3.SchemaRef {
	if t.Kind() == reflect.Pointer {
		ref := o.schemaFromType(t.Elem())
		if ref.Ref == "" && ref.Value != nil {
			ref.Value.Nullable = true
		}
		return ref
	}

	switch t.Kind() {
	case reflect.String:
		return openapi3.NewStringSchema().NewRef()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return openapi3.NewIntegerSchema().NewRef()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return openapi3.NewIntegerSchema().WithMin(0).NewRef()
	case reflect.Float32, reflect.Float64:
		return openapi3.NewFloat64Schema().NewRef()
	case reflect.Bool:
		return openapi3.NewBoolSchema().NewRef()
	case reflect.Slice, reflect.Array:
		return openapi3.NewArraySchema().WithItems(o.schemaFromType(t.Elem()).Value).NewRef()
	case reflect.Struct:
		return o.structRef(t)
	default:
		return openapi3.NewObjectSchema().NewRef()
	}
}

// structRef registers a named struct under components/schemas once and
// returns a resolved reference to it. Anonymous structs are inlined.
func (o *OpenAPI) structRef(t reflect.Type) *openapi3.SchemaRef {
	if t.Name() == "" {
		return o.structSchema(t).NewRef()
	}

	name, ok := o.schemas[t]
	if !ok {
		name = t.Name()
		o.schemas[t] = name
		o.spec.Components.Schemas[name] = o.structSchema(t).NewRef()
	}
	return openapi3.NewSchemaRef("#/components/schemas/"+name, o.spec.Components.Schemas[name].Value)
}

func (o *OpenAPI) structSchema(t reflect.Type) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("json")
		if tag == "-" {
			continue
		}

		name := field.Name
		parts := strings.Split(tag, ",")
		if parts[0] != "" {
			name = parts[0]
		}

		ref := o.schemaFromType(field.Type)
		if ref.Ref == "" && ref.Value != nil {
			if doc := field.Tag.Get("doc"); doc != "" {
				ref.Value.Description = doc
			}
			if ex := field.Tag.Get("example"); ex != "" {
				ref.Value.Example = ex
			}
		}
		schema.WithPropertyRef(name, ref)

		optional := false
		for _, opt := range parts[1:] {
			if opt == "omitempty" {
				optional = true
			}
		}
		if !optional {
			schema.Required = append(schema.Required, name)
		}
	}

	return schema
}
