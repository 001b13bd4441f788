// Package docs registers the OpenAPI spec that gin-swagger serves at
// /swagger/*any, built from the @Summary/@Router annotations on the
// handlers in internal/api/handlers.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/healthz": {
            "get": {
                "tags": ["health"],
                "summary": "Liveness check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/runs/logos": {
            "post": {
                "tags": ["runs"],
                "summary": "Start the logos phase",
                "responses": {
                    "202": {"description": "Accepted"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/runs/{id}": {
            "get": {
                "tags": ["runs"],
                "summary": "Run status snapshot",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/runs/{id}/events": {
            "get": {
                "tags": ["runs"],
                "summary": "Stream progress events",
                "produces": ["text/event-stream"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/runs/{id}/refine": {
            "post": {
                "tags": ["runs"],
                "summary": "Refine Phase-1 directions",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "202": {"description": "Accepted"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/runs/{id}/assets": {
            "post": {
                "tags": ["runs"],
                "summary": "Start the assets phase for a chosen direction",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "202": {"description": "Accepted"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/runs/{id}/stylescape": {
            "post": {
                "tags": ["runs"],
                "summary": "Generate a stylescape for a direction",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/runs/{id}/outputs": {
            "post": {
                "tags": ["runs"],
                "summary": "Upload a run's outputs to the output store",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"},
                    "501": {"description": "Not Implemented"}
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds the values templated into docTemplate. Host is left
// empty and is not set anywhere at runtime, so the served spec carries no
// host and clients resolve paths against the serving origin.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Brand Identity Generator API",
	Description:      "Multi-stage AI pipeline API turning a brand brief into four strategically distinct identity directions, then a full production asset kit for the chosen one.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName, SwaggerInfo)
}
