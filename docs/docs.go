// Package docs registers the OpenAPI document served at /swagger.
// Regenerate with: swag init -g cmd/api/main.go
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
        "/notifications": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["notifications"],
                "summary": "List notifications",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.NotificationListResponse"}},
                    "401": {"description": "Missing credential", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "403": {"description": "Invalid or expired credential", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Store unavailable", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/notifications/mark-all-read": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["notifications"],
                "summary": "Mark all notifications as read",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SuccessResponse"}},
                    "401": {"description": "Missing credential", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "403": {"description": "Invalid or expired credential", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Store unavailable", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/notifications/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["notifications"],
                "summary": "Archive notification",
                "parameters": [{"type": "integer", "description": "Notification ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SuccessResponse"}},
                    "400": {"description": "Invalid notification ID", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "401": {"description": "Missing credential", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "403": {"description": "Invalid or expired credential", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Store unavailable", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/notifications/{id}/read": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["notifications"],
                "summary": "Mark notification as read",
                "parameters": [{"type": "integer", "description": "Notification ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SuccessResponse"}},
                    "400": {"description": "Invalid notification ID", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "401": {"description": "Missing credential", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "403": {"description": "Invalid or expired credential", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Store unavailable", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/auth/signup": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Create a student account",
                "parameters": [{"description": "Account details", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.SignupRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "409": {"description": "Email already exists", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Student login",
                "parameters": [{"description": "Login credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/programs": {
            "get": {
                "produces": ["application/json"],
                "tags": ["programs"],
                "summary": "List programs",
                "parameters": [
                    {"type": "boolean", "description": "Filter by active flag", "name": "active", "in": "query"},
                    {"enum": ["SPRING", "SUMMER", "FALL", "WINTER"], "type": "string", "description": "Filter by term", "name": "term", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "400": {"description": "Invalid query", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/programs/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["programs"],
                "summary": "Get program by ID",
                "parameters": [{"type": "integer", "description": "Program ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "404": {"description": "Program not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/programs/{id}/register": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["programs"],
                "summary": "Register for a program",
                "parameters": [{"type": "integer", "description": "Program ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "404": {"description": "Program not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "409": {"description": "Already registered or program inactive", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["profile"],
                "summary": "Get my profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/profile/photo": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["profile"],
                "summary": "Upload profile photo",
                "parameters": [{"type": "file", "description": "Profile photo", "name": "photo", "in": "formData", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "400": {"description": "Missing or invalid file", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/testimonials": {
            "get": {
                "produces": ["application/json"],
                "tags": ["testimonials"],
                "summary": "List testimonials",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["testimonials"],
                "summary": "Submit a testimonial",
                "parameters": [{"description": "Rating and comment", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateTestimonialRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.APIResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "message": {"type": "string"},
                "data": {},
                "error": {"$ref": "#/definitions/dto.ErrorDetail"},
                "timestamp": {"type": "string"}
            }
        },
        "dto.ErrorDetail": {
            "type": "object",
            "properties": {
                "code": {"type": "string", "example": "AUTH_001"},
                "message": {"type": "string"},
                "field": {"type": "string"},
                "severity": {"type": "string", "example": "ERROR"},
                "details": {}
            }
        },
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/dto.ErrorDetail"},
                "timestamp": {"type": "string"}
            }
        },
        "dto.SuccessResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "Notification marked as read"}
            }
        },
        "dto.NotificationAction": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "enum": ["navigate", "open_modal"]},
                "label": {"type": "string"},
                "target": {"type": "string"}
            }
        },
        "dto.NotificationResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer", "example": 12},
                "type": {"type": "string", "enum": ["programme_registration", "security", "payment_reminder", "general"]},
                "title": {"type": "string"},
                "preview": {"type": "string"},
                "body": {"type": "string"},
                "read": {"type": "boolean"},
                "action": {"$ref": "#/definitions/dto.NotificationAction"},
                "createdAt": {"type": "string"}
            }
        },
        "dto.NotificationListResponse": {
            "type": "object",
            "properties": {
                "notifications": {"type": "array", "items": {"$ref": "#/definitions/dto.NotificationResponse"}},
                "unreadCount": {"type": "integer", "example": 2}
            }
        },
        "dto.SignupRequest": {
            "type": "object",
            "required": ["email", "name", "password"],
            "properties": {
                "name": {"type": "string", "maxLength": 150, "minLength": 2},
                "email": {"type": "string"},
                "password": {"type": "string", "maxLength": 72, "minLength": 8}
            }
        },
        "dto.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "dto.CreateTestimonialRequest": {
            "type": "object",
            "required": ["rating"],
            "properties": {
                "rating": {"type": "integer", "maximum": 5, "minimum": 1},
                "comment": {"type": "string", "maxLength": 1000}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the access token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "StudyHub API",
	Description:      "Tutoring center backend: programs, notifications and student accounts.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
