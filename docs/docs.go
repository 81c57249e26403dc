// Package docs registers the OpenAPI specification served at /swagger/*.
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
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Type \"Bearer\" followed by a space and JWT token."
        }
    },
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Authenticate and obtain a bearer token",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/cards": {
            "get": {
                "tags": ["cards"],
                "security": [{"BearerAuth": []}],
                "summary": "List every card (admin only)",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["cards"],
                "security": [{"BearerAuth": []}],
                "summary": "Issue a new card (admin only)",
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}
            }
        },
        "/cards/my": {
            "get": {
                "tags": ["cards"],
                "security": [{"BearerAuth": []}],
                "summary": "List the caller's cards",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/cards/{id}": {
            "get": {
                "tags": ["cards"],
                "security": [{"BearerAuth": []}],
                "summary": "Get a card by id (owner or admin)",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "delete": {
                "tags": ["cards"],
                "security": [{"BearerAuth": []}],
                "summary": "Delete a card (admin only)",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/cards/{id}/status": {
            "patch": {
                "tags": ["cards"],
                "security": [{"BearerAuth": []}],
                "summary": "Update card status (owner or admin)",
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}
            }
        },
        "/transfers/own": {
            "post": {
                "tags": ["transfers"],
                "security": [{"BearerAuth": []}],
                "summary": "Transfer between the caller's own cards",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "403": {"description": "Forbidden"}}
            }
        },
        "/transfers/my": {
            "get": {
                "tags": ["transfers"],
                "security": [{"BearerAuth": []}],
                "summary": "List the caller's transactions",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/transfers/{transactionId}": {
            "get": {
                "tags": ["transfers"],
                "security": [{"BearerAuth": []}],
                "summary": "Get a transaction by its client-visible id",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/admin/users": {
            "get": {
                "tags": ["users"],
                "security": [{"BearerAuth": []}],
                "summary": "List all users (admin only)",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["users"],
                "security": [{"BearerAuth": []}],
                "summary": "Create a user (admin only)",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/users/{id}": {
            "get": {
                "tags": ["users"],
                "security": [{"BearerAuth": []}],
                "summary": "Get a user by id (admin only)",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "put": {
                "tags": ["users"],
                "security": [{"BearerAuth": []}],
                "summary": "Update a user (admin only)",
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["users"],
                "security": [{"BearerAuth": []}],
                "summary": "Delete a user (admin only)",
                "responses": {"204": {"description": "No Content"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{"http"},
	Title:            "Bank Card Management API",
	Description:      "Bank card management with encrypted card storage, own-card transfers and JWT authentication.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
