package api

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"gopkg.in/yaml.v3"
)

// OpenAPIDoc is the subset of an OpenAPI document the tests inspect.
type OpenAPIDoc struct {
	OpenAPI    string              `yaml:"openapi"`
	Info       map[string]any      `yaml:"info"`
	Paths      map[string]PathItem `yaml:"paths"`
	Components Components          `yaml:"components"`
}

// PathItem maps HTTP methods to operations.
type PathItem map[string]Operation

// Operation represents an OpenAPI operation.
type Operation struct {
	OperationID string                `yaml:"operationId"`
	Parameters  []Parameter           `yaml:"parameters"`
	RequestBody *RequestBody          `yaml:"requestBody"`
	Responses   map[string]Response   `yaml:"responses"`
	Security    []map[string][]string `yaml:"security"`
}

// Parameter represents an OpenAPI parameter.
type Parameter struct {
	Name     string `yaml:"name"`
	In       string `yaml:"in"`
	Required bool   `yaml:"required"`
}

// RequestBody represents an OpenAPI request body.
type RequestBody struct {
	Required bool                 `yaml:"required"`
	Content  map[string]MediaType `yaml:"content"`
}

// MediaType represents an OpenAPI media type.
type MediaType struct {
	Schema map[string]any `yaml:"schema"`
}

// Response represents an OpenAPI response.
type Response struct {
	Description string               `yaml:"description"`
	Content     map[string]MediaType `yaml:"content"`
	Ref         string               `yaml:"$ref"`
}

// Components represents OpenAPI components.
type Components struct {
	Schemas         map[string]any `yaml:"schemas"`
	SecuritySchemes map[string]any `yaml:"securitySchemes"`
	Responses       map[string]any `yaml:"responses"`
}

func loadOpenAPIDoc(t *testing.T) *OpenAPIDoc {
	t.Helper()

	var doc OpenAPIDoc
	if err := yaml.Unmarshal(OpenAPISpec, &doc); err != nil {
		t.Fatalf("failed to parse OpenAPI document: %v", err)
	}
	return &doc
}

func TestPropertyOpenAPICompleteness(t *testing.T) {
	doc := loadOpenAPIDoc(t)

	type operationInfo struct {
		path      string
		method    string
		operation Operation
	}
	var operations []operationInfo
	for path, item := range doc.Paths {
		for method, op := range item {
			operations = append(operations, operationInfo{path: path, method: method, operation: op})
		}
	}
	if len(operations) == 0 {
		t.Fatal("no operations found in OpenAPI document")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("every operation has a 2xx response", prop.ForAll(
		func(idx int) bool {
			for code := range operations[idx].operation.Responses {
				if strings.HasPrefix(code, "2") {
					return true
				}
			}
			return false
		},
		gen.IntRange(0, len(operations)-1),
	))

	properties.Property("every secured operation documents 401", prop.ForAll(
		func(idx int) bool {
			op := operations[idx].operation
			if len(op.Security) == 0 {
				return true
			}
			_, ok := op.Responses["401"]
			return ok
		},
		gen.IntRange(0, len(operations)-1),
	))

	properties.TestingRun(t)
}

func TestOpenAPISigningLogResource(t *testing.T) {
	doc := loadOpenAPIDoc(t)

	if !strings.HasPrefix(doc.OpenAPI, "3.") {
		t.Errorf("expected OpenAPI 3.x, got %q", doc.OpenAPI)
	}

	list, ok := doc.Paths["/signinglog"]["get"]
	if !ok {
		t.Fatal("GET /signinglog is not documented")
	}
	if len(list.Parameters) != 1 || list.Parameters[0].Name != "fromID" || list.Parameters[0].Required {
		t.Errorf("expected a single optional fromID parameter, got %+v", list.Parameters)
	}

	del, ok := doc.Paths["/signinglog/{id}"]["delete"]
	if !ok {
		t.Fatal("DELETE /signinglog/{id} is not documented")
	}
	for _, code := range []string{"200", "400", "404"} {
		if _, ok := del.Responses[code]; !ok {
			t.Errorf("DELETE /signinglog/{id} is missing a %s response", code)
		}
	}

	if _, ok := doc.Components.Schemas["SigningLogResponse"]; !ok {
		t.Error("SigningLogResponse schema is not defined")
	}
	if _, ok := doc.Components.SecuritySchemes["bearerAuth"]; !ok {
		t.Error("bearerAuth security scheme is not defined")
	}
}
