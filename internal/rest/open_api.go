package rest

import (
	"encoding/json"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/ghodss/yaml"
	"github.com/go-chi/chi/v5"
)

// NewOpenAPI3 instantiates the OpenAPI document describing the endpoints of
// this service.
func NewOpenAPI3() openapi3.T {
	swagger := openapi3.T{
		OpenAPI: "3.0.0",
		Info: &openapi3.Info{
			Title:       "Agenda de Tarefas REST API",
			Description: "REST API para gerenciamento de tarefas",
			Version:     "1.0.0",
		},
		Servers: openapi3.Servers{
			&openapi3.Server{
				Description: "Local development",
				URL:         "http://0.0.0.0:8000",
			},
		},
	}

	swagger.Components.Schemas = openapi3.Schemas{
		"Task": openapi3.NewSchemaRef("",
			openapi3.NewObjectSchema().
				WithProperty("id", openapi3.NewInt64Schema()).
				WithProperty("title", openapi3.NewStringSchema()).
				WithProperty("description", openapi3.NewStringSchema()).
				WithProperty("status", openapi3.NewStringSchema().
					WithEnum("pendente", "concluída")).
				WithProperty("created_at", openapi3.NewStringSchema().
					WithFormat("date-time").
					WithNullable()).
				WithProperty("due_date", openapi3.NewStringSchema().
					WithFormat("date-time").
					WithNullable())),
	}

	swagger.Components.RequestBodies = openapi3.RequestBodies{
		"CreateTasksRequest": &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().
				WithDescription("Request used for creating a task.").
				WithRequired(true).
				WithJSONSchema(openapi3.NewObjectSchema().
					WithProperty("title", openapi3.NewStringSchema().WithMinLength(1)).
					WithProperty("description", openapi3.NewStringSchema()).
					WithProperty("status", openapi3.NewStringSchema().
						WithEnum("pendente", "concluída")).
					WithProperty("due_date", openapi3.NewStringSchema().
						WithFormat("date-time"))),
		},
		"UpdateTasksRequest": &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().
				WithDescription("Request used for updating a task, only mentioned fields change.").
				WithRequired(true).
				WithJSONSchema(openapi3.NewObjectSchema().
					WithProperty("title", openapi3.NewStringSchema()).
					WithProperty("description", openapi3.NewStringSchema()).
					WithProperty("status", openapi3.NewStringSchema().
						WithEnum("pendente", "concluída")).
					WithProperty("due_date", openapi3.NewStringSchema().
						WithFormat("date-time").
						WithNullable())),
		},
	}

	envelopeWith := func(data *openapi3.Schema) *openapi3.Schema {
		res := openapi3.NewObjectSchema().
			WithProperty("success", openapi3.NewBoolSchema()).
			WithProperty("message", openapi3.NewStringSchema())
		if data != nil {
			res = res.WithProperty("data", data)
		}

		return res
	}

	taskSchema := swagger.Components.Schemas["Task"].Value

	swagger.Components.Responses = openapi3.Responses{
		"ErrorResponse": &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription("Response when an operation fails.").
				WithJSONSchema(envelopeWith(nil)),
		},
		"ListTasksResponse": &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription("Response returned back after listing tasks.").
				WithJSONSchema(envelopeWith(openapi3.NewArraySchema().WithItems(taskSchema))),
		},
		"TaskResponse": &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription("Response returned back after operating on a single task.").
				WithJSONSchema(envelopeWith(taskSchema)),
		},
	}

	idParam := &openapi3.ParameterRef{
		Value: openapi3.NewPathParameter("id").
			WithRequired(true).
			WithSchema(openapi3.NewInt64Schema()),
	}

	swagger.Paths = openapi3.Paths{
		"/tasks": &openapi3.PathItem{
			Get: &openapi3.Operation{
				OperationID: "ListTasks",
				Responses: openapi3.Responses{
					"200": &openapi3.ResponseRef{Ref: "#/components/responses/ListTasksResponse"},
					"500": &openapi3.ResponseRef{Ref: "#/components/responses/ErrorResponse"},
				},
			},
			Post: &openapi3.Operation{
				OperationID: "CreateTask",
				RequestBody: &openapi3.RequestBodyRef{Ref: "#/components/requestBodies/CreateTasksRequest"},
				Responses: openapi3.Responses{
					"201": &openapi3.ResponseRef{Ref: "#/components/responses/TaskResponse"},
					"400": &openapi3.ResponseRef{Ref: "#/components/responses/ErrorResponse"},
					"500": &openapi3.ResponseRef{Ref: "#/components/responses/ErrorResponse"},
				},
			},
		},
		"/tasks/{id}": &openapi3.PathItem{
			Parameters: openapi3.Parameters{idParam},
			Get: &openapi3.Operation{
				OperationID: "ReadTask",
				Responses: openapi3.Responses{
					"200": &openapi3.ResponseRef{Ref: "#/components/responses/TaskResponse"},
					"404": &openapi3.ResponseRef{Ref: "#/components/responses/ErrorResponse"},
					"500": &openapi3.ResponseRef{Ref: "#/components/responses/ErrorResponse"},
				},
			},
			Put: &openapi3.Operation{
				OperationID: "UpdateTask",
				RequestBody: &openapi3.RequestBodyRef{Ref: "#/components/requestBodies/UpdateTasksRequest"},
				Responses: openapi3.Responses{
					"200": &openapi3.ResponseRef{Ref: "#/components/responses/TaskResponse"},
					"400": &openapi3.ResponseRef{Ref: "#/components/responses/ErrorResponse"},
					"404": &openapi3.ResponseRef{Ref: "#/components/responses/ErrorResponse"},
					"500": &openapi3.ResponseRef{Ref: "#/components/responses/ErrorResponse"},
				},
			},
			Delete: &openapi3.Operation{
				OperationID: "DeleteTask",
				Responses: openapi3.Responses{
					"200": &openapi3.ResponseRef{Ref: "#/components/responses/TaskResponse"},
					"404": &openapi3.ResponseRef{Ref: "#/components/responses/ErrorResponse"},
					"500": &openapi3.ResponseRef{Ref: "#/components/responses/ErrorResponse"},
				},
			},
		},
		"/tasks/{id}/complete": &openapi3.PathItem{
			Parameters: openapi3.Parameters{idParam},
			Patch: &openapi3.Operation{
				OperationID: "CompleteTask",
				Responses: openapi3.Responses{
					"200": &openapi3.ResponseRef{Ref: "#/components/responses/TaskResponse"},
					"404": &openapi3.ResponseRef{Ref: "#/components/responses/ErrorResponse"},
					"500": &openapi3.ResponseRef{Ref: "#/components/responses/ErrorResponse"},
				},
			},
		},
	}

	return swagger
}

// RegisterOpenAPI connects the OpenAPI document endpoints to the router.
func RegisterOpenAPI(r chi.Router) {
	swagger := NewOpenAPI3()

	r.Get("/openapi3.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		data, _ := json.Marshal(&swagger)
		_, _ = w.Write(data)
	})

	r.Get("/openapi3.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/x-yaml")

		data, _ := json.Marshal(&swagger)

		res, err := yaml.JSONToYAML(data)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		_, _ = w.Write(res)
	})
}
