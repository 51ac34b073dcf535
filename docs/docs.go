// Package docs holds the swagger document served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "schemes": {{ marshal .Schemes }},
    "paths": {
        "/professors": {
            "get": {
                "tags": ["professors"],
                "summary": "List professors",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Professor"}}},
                    "500": {"description": "Store unusable", "schema": {"$ref": "#/definitions/Message"}}
                }
            },
            "post": {
                "tags": ["professors"],
                "summary": "Create a new professor",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/CreateProfessorRequest"}}
                ],
                "responses": {
                    "200": {"description": "Created", "schema": {"$ref": "#/definitions/Professor"}},
                    "202": {"description": "Applied in memory, not committed", "schema": {"$ref": "#/definitions/Message"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/Message"}}
                }
            }
        },
        "/professors/{id}": {
            "parameters": [
                {"in": "path", "name": "id", "type": "integer", "required": true}
            ],
            "get": {
                "tags": ["professors"],
                "summary": "Get professor by ID",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Professor"}},
                    "404": {"description": "Professor not found", "schema": {"$ref": "#/definitions/Message"}}
                }
            },
            "patch": {
                "tags": ["professors"],
                "summary": "Update a professor",
                "description": "Overwrites name and dept, and desc when supplied. PUT behaves the same.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/UpdateProfessorRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated", "schema": {"$ref": "#/definitions/Professor"}},
                    "202": {"description": "Applied in memory, not committed", "schema": {"$ref": "#/definitions/Message"}},
                    "404": {"description": "Professor not found", "schema": {"$ref": "#/definitions/Message"}}
                }
            },
            "delete": {
                "tags": ["professors"],
                "summary": "Delete a professor",
                "responses": {
                    "204": {"description": "Deleted"},
                    "202": {"description": "Applied in memory, not committed", "schema": {"$ref": "#/definitions/Message"}},
                    "404": {"description": "Professor not found", "schema": {"$ref": "#/definitions/Message"}}
                }
            }
        },
        "/professors/{id}/description": {
            "get": {
                "tags": ["professors"],
                "summary": "Generate a professor description",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "id", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Description"}},
                    "202": {"description": "Applied in memory, not committed", "schema": {"$ref": "#/definitions/Message"}},
                    "404": {"description": "Professor not found", "schema": {"$ref": "#/definitions/Message"}},
                    "500": {"description": "Generation failed", "schema": {"$ref": "#/definitions/Message"}}
                }
            }
        },
        "/professors/{id}/papers": {
            "parameters": [
                {"in": "path", "name": "id", "type": "integer", "required": true}
            ],
            "get": {
                "tags": ["papers"],
                "summary": "List a professor's papers",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Paper"}}},
                    "404": {"description": "Professor not found", "schema": {"$ref": "#/definitions/Message"}}
                }
            },
            "post": {
                "tags": ["papers"],
                "summary": "Add a paper to a professor",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/PaperRequest"}}
                ],
                "responses": {
                    "200": {"description": "Created", "schema": {"$ref": "#/definitions/Paper"}},
                    "202": {"description": "Applied in memory, not committed", "schema": {"$ref": "#/definitions/Message"}},
                    "400": {"description": "Invalid request or professor not found", "schema": {"$ref": "#/definitions/Message"}}
                }
            }
        },
        "/professors/{id}/papers/{pid}": {
            "parameters": [
                {"in": "path", "name": "id", "type": "integer", "required": true},
                {"in": "path", "name": "pid", "type": "integer", "required": true}
            ],
            "put": {
                "tags": ["papers"],
                "summary": "Change a paper's title",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/PaperRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated", "schema": {"$ref": "#/definitions/Paper"}},
                    "202": {"description": "Applied in memory, not committed", "schema": {"$ref": "#/definitions/Message"}},
                    "404": {"description": "Professor or paper not found", "schema": {"$ref": "#/definitions/Message"}}
                }
            },
            "delete": {
                "tags": ["papers"],
                "summary": "Remove a paper",
                "responses": {
                    "204": {"description": "Deleted"},
                    "202": {"description": "Applied in memory, not committed", "schema": {"$ref": "#/definitions/Message"}},
                    "404": {"description": "Professor or paper not found", "schema": {"$ref": "#/definitions/Message"}}
                }
            }
        }
    },
    "definitions": {
        "Paper": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"}
            }
        },
        "Professor": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "dept": {"type": "string"},
                "desc": {"type": "string"},
                "papers": {"type": "array", "items": {"$ref": "#/definitions/Paper"}}
            }
        },
        "CreateProfessorRequest": {
            "type": "object",
            "required": ["name", "dept"],
            "properties": {
                "name": {"type": "string"},
                "dept": {"type": "string"},
                "desc": {"type": "string"}
            }
        },
        "UpdateProfessorRequest": {
            "type": "object",
            "required": ["name", "dept"],
            "properties": {
                "name": {"type": "string"},
                "dept": {"type": "string"},
                "desc": {"type": "string"}
            }
        },
        "PaperRequest": {
            "type": "object",
            "required": ["title"],
            "properties": {
                "title": {"type": "string"}
            }
        },
        "Description": {
            "type": "object",
            "properties": {
                "description": {"type": "string"}
            }
        },
        "Message": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{"http"},
	Title:            "ScholarSync API",
	Description:      "Professors and their papers, persisted to a single JSON data file",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
