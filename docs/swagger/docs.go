// Package swagger registers the OpenAPI document served under /swagger.
//
// Regenerate after changing handler annotations:
//
//	swag init -g cmd/start.go -o docs/swagger
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/merge": {
            "post": {
                "description": "Merges items and rows supplied in the request. Nothing is written to the output target.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["merge"],
                "summary": "Merge Payload",
                "responses": {
                    "200": {"description": "Merge Result", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/merge/run": {
            "post": {
                "description": "Loads the primary and reference sets, merges them and writes merged.json and merge_report.json to the output target.",
                "produces": ["application/json"],
                "tags": ["merge"],
                "summary": "Run Merge",
                "parameters": [
                    {"type": "string", "description": "name or identifier", "name": "strategy", "in": "query"},
                    {"type": "number", "description": "Fuzzy threshold override", "name": "threshold", "in": "query"},
                    {"type": "boolean", "description": "Also write the loaded sets", "name": "dump", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Merge Report", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/merge/report": {
            "get": {
                "produces": ["application/json"],
                "tags": ["merge"],
                "summary": "Last Merge Report",
                "responses": {
                    "200": {"description": "Merge Report", "schema": {"type": "object"}},
                    "404": {"description": "No Run Yet", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/merge/lookup": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["merge"],
                "summary": "Lookup Item",
                "responses": {
                    "200": {"description": "Match Record", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/merge/refresh": {
            "post": {
                "tags": ["merge"],
                "summary": "Refresh Lookup Indices",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/merge/outputs": {
            "get": {
                "produces": ["application/json"],
                "tags": ["merge"],
                "summary": "List Outputs",
                "responses": {"200": {"description": "Output Files", "schema": {"type": "object"}}}
            }
        },
        "/prices/plan": {
            "post": {
                "description": "Matches owned items against the reference sheet and returns the planned price updates.",
                "produces": ["application/json"],
                "tags": ["prices"],
                "summary": "Plan Price Updates",
                "responses": {
                    "200": {"description": "Price Plan", "schema": {"type": "object"}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/prices/apply": {
            "post": {
                "description": "Plans and writes price updates to the database. Requires confirm=true unless dry_run=true.",
                "produces": ["application/json"],
                "tags": ["prices"],
                "summary": "Apply Price Updates",
                "parameters": [
                    {"type": "boolean", "description": "Confirm the database updates", "name": "confirm", "in": "query"},
                    {"type": "boolean", "description": "Plan only", "name": "dry_run", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Apply Result", "schema": {"type": "object"}},
                    "400": {"description": "Not Confirmed", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "No Database", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Collection Merge API",
	Description:      "API for merging a content database with a reference sheet and synchronising prices.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
