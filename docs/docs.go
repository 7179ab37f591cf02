// Package docs holds the OpenAPI description served at /swagger.
// Regenerate with: swag init -g server/main.go -o docs
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
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register an account",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/auth.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}},
                    "409": {"description": "Username or email taken", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log in with username and password",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/auth.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}},
                    "403": {"description": "Account not approved", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}}
                }
            }
        },
        "/flights/search": {
            "get": {
                "produces": ["application/json"],
                "tags": ["flights"],
                "summary": "Search flights",
                "parameters": [
                    {"type": "string", "name": "departure_airport", "in": "query"},
                    {"type": "string", "name": "arrival_airport", "in": "query"},
                    {"type": "string", "description": "YYYY-MM-DD", "name": "departure_date", "in": "query"},
                    {"type": "number", "name": "min_price", "in": "query"},
                    {"type": "number", "name": "max_price", "in": "query"},
                    {"type": "string", "description": "price | departure_time", "name": "sort_by", "in": "query"},
                    {"type": "string", "description": "asc | desc", "name": "sort_order", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}},
                    "400": {"description": "Malformed criteria", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}}
                }
            }
        },
        "/flights/{id}/occupied-seats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["seats"],
                "summary": "Occupied seat identifiers of a flight",
                "parameters": [
                    {"type": "string", "description": "Flight ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "string"}}},
                    "404": {"description": "Flight not found", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}}
                }
            }
        },
        "/bookings": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["bookings"],
                "summary": "Reserve seats on a flight",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/bookings.ReserveRequest"}}
                ],
                "responses": {
                    "201": {"description": "Claimed", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}},
                    "400": {"description": "invalid_seat_request", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}},
                    "401": {"description": "unauthorized", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}},
                    "409": {"description": "seat_conflict", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}},
                    "422": {"description": "flight_unavailable", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}},
                    "503": {"description": "reservation_unavailable", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}}
                }
            }
        },
        "/admin/users/pending": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "List accounts awaiting approval",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}}
                }
            }
        },
        "/admin/users/{id}/approve": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Approve a pending account",
                "parameters": [
                    {"type": "string", "description": "User ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}},
                    "409": {"description": "Invalid transition", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}}
                }
            }
        }
    },
    "definitions": {
        "auth.LoginRequest": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {
                "password": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "auth.RegisterRequest": {
            "type": "object",
            "required": ["email", "password", "username"],
            "properties": {
                "email": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "password": {"type": "string", "minLength": 6},
                "username": {"type": "string"}
            }
        },
        "bookings.ReserveRequest": {
            "type": "object",
            "required": ["flight_id", "seats_reserved"],
            "properties": {
                "flight_id": {"type": "string"},
                "payment_status": {"type": "string", "enum": ["pending", "paid", "failed"]},
                "seats_reserved": {"type": "array", "items": {"type": "string"}}
            }
        },
        "response.StandardApiResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "errors": {},
                "message": {"type": "string"},
                "status": {"type": "string"},
                "status_code": {"type": "integer"}
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

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "v1",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "AirBooking API",
	Description:      "Flight search, seat maps and atomic seat reservation.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
