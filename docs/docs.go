// Package docs registers the OpenAPI document served under /swagger. It is
// maintained by hand in the layout swag emits; keep it in step with the
// handler annotations.
package docs

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
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {"description": "Login credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [
                    {"description": "User registration details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.registerRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/health": {
            "get": {"produces": ["application/json"], "tags": ["health"], "summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}
        },
        "/health/ready": {
            "get": {"produces": ["application/json"], "tags": ["health"], "summary": "Readiness probe", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}
        },
        "/v1/users/profile": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["users"], "summary": "Get own profile", "responses": {"200": {"description": "OK"}}},
            "put": {"security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["users"], "summary": "Update own profile", "parameters": [{"description": "Name and phone", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.profileRequest"}}], "responses": {"200": {"description": "OK"}}}
        },
        "/v1/contacts": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["contacts"], "summary": "List emergency contacts", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["contacts"], "summary": "Add an emergency contact", "responses": {"201": {"description": "Created"}}}
        },
        "/v1/contacts/{id}": {
            "delete": {"security": [{"BearerAuth": []}], "tags": ["contacts"], "summary": "Remove an emergency contact", "parameters": [{"type": "string", "description": "Contact id", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}
        },
        "/v1/incidents": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["incidents"], "summary": "List incident cases", "parameters": [{"type": "string", "name": "scope", "in": "query"}, {"type": "string", "name": "status", "in": "query"}], "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["incidents"], "summary": "File a new incident report", "parameters": [{"type": "string", "name": "Idempotency-Key", "in": "header"}], "responses": {"201": {"description": "Created"}, "200": {"description": "Replay of an earlier submission"}}}
        },
        "/v1/incidents/{id}": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["incidents"], "summary": "Get an incident case", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/v1/incidents/{id}/evidence": {
            "post": {"security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["incidents"], "summary": "Attach an evidence reference", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/v1/incidents/{id}/status": {
            "put": {"security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["incidents"], "summary": "Change an incident's status", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/v1/sos": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["sos"], "summary": "List SOS alerts", "parameters": [{"type": "string", "name": "scope", "in": "query"}, {"type": "boolean", "name": "active", "in": "query"}], "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["sos"], "summary": "Raise an SOS alert", "responses": {"201": {"description": "Created"}}}
        },
        "/v1/sos/{id}": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["sos"], "summary": "Get an SOS alert", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/v1/sos/{id}/deactivate": {
            "post": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["sos"], "summary": "Deactivate an SOS alert", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/v1/admin/hotspots": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["admin"], "summary": "Geographic hotspots", "parameters": [{"type": "string", "name": "type", "in": "query"}, {"type": "string", "name": "from", "in": "query"}, {"type": "string", "name": "to", "in": "query"}], "responses": {"200": {"description": "OK"}}}
        },
        "/v1/admin/stats": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["admin"], "summary": "Platform statistics", "responses": {"200": {"description": "OK"}}}
        }
    },
    "definitions": {
        "handler.errorResponse": {"type": "object", "properties": {"error": {"type": "string"}}},
        "handler.loginRequest": {"type": "object", "required": ["email", "password"], "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "handler.profileRequest": {"type": "object", "properties": {"name": {"type": "string", "maxLength": 100}, "phone": {"type": "string", "maxLength": 32}}},
        "handler.registerRequest": {"type": "object", "required": ["email", "name", "password"], "properties": {"email": {"type": "string"}, "name": {"type": "string"}, "password": {"type": "string", "minLength": 8}, "phone": {"type": "string"}}},
        "handler.authResponse": {"type": "object", "properties": {"token": {"type": "string"}, "user": {"type": "object"}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "SafeSpace API",
	Description:      "Incident reporting, SOS alerting and moderation backend.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
