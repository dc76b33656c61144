// Package docs registers the OpenAPI document of the OTP Messenger API with swag.
// Regenerate with: swag init -g main.go -o docs
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
        "/api/v1/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health Check",
                "responses": {
                    "200": {"description": "Service is healthy", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/api/v1/contacts": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Contacts"],
                "summary": "List contacts",
                "parameters": [
                    {"type": "string", "description": "Search term", "name": "search", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Contacts retrieved", "schema": {"$ref": "#/definitions/dto.ListContactsResponse"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/api/v1/contacts/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Contacts"],
                "summary": "Get contact",
                "parameters": [
                    {"type": "integer", "description": "Contact ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Contact retrieved", "schema": {"$ref": "#/definitions/dto.ContactDTO"}},
                    "404": {"description": "Contact not found", "schema": {"$ref": "#/definitions/dto.ContactNotFoundDetails"}}
                }
            }
        },
        "/api/v1/compose/{contactId}": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Compose"],
                "summary": "Start compose session",
                "parameters": [
                    {"type": "integer", "description": "Contact ID", "name": "contactId", "in": "path", "required": true}
                ],
                "responses": {
                    "201": {"description": "Session opened", "schema": {"$ref": "#/definitions/dto.ComposeSessionResponse"}},
                    "404": {"description": "Contact not found", "schema": {"$ref": "#/definitions/dto.ContactNotFoundDetails"}}
                }
            }
        },
        "/api/v1/compose/sessions/{sessionId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Compose"],
                "summary": "Get compose session",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "sessionId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Session retrieved", "schema": {"$ref": "#/definitions/dto.ComposeSessionResponse"}},
                    "404": {"description": "Session not found", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Compose"],
                "summary": "Edit message",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "sessionId", "in": "path", "required": true},
                    {"description": "New message body", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.UpdateComposeRequest"}}
                ],
                "responses": {
                    "200": {"description": "Message updated", "schema": {"$ref": "#/definitions/dto.ComposeSessionResponse"}},
                    "409": {"description": "Message is locked", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["Compose"],
                "summary": "Close compose session",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "sessionId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Session closed", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "404": {"description": "Session not found", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/api/v1/compose/sessions/{sessionId}/send": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Compose"],
                "summary": "Send message",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "sessionId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Message sent", "schema": {"$ref": "#/definitions/dto.ComposeSessionResponse"}},
                    "400": {"description": "Empty message or missing OTP", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "409": {"description": "Send in progress or already sent", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "422": {"description": "Recipient is not verified", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "502": {"description": "Gateway rejected the message", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "503": {"description": "Gateway credentials missing", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/api/v1/messages": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Messages"],
                "summary": "List messages",
                "parameters": [
                    {"type": "string", "description": "Search term", "name": "search", "in": "query"},
                    {"type": "integer", "description": "Only messages sent to this contact", "name": "contact_id", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Messages retrieved", "schema": {"$ref": "#/definitions/dto.ListMessagesResponse"}}
                }
            }
        },
        "/api/v1/messages/export": {
            "get": {
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["Messages"],
                "summary": "Export messages",
                "parameters": [
                    {"type": "string", "description": "Search term", "name": "search", "in": "query"},
                    {"type": "integer", "description": "Only messages sent to this contact", "name": "contact_id", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "XLSX workbook", "schema": {"type": "file"}}
                }
            }
        }
    },
    "definitions": {
        "dto.APIResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {},
                "error": {"$ref": "#/definitions/dto.ErrorDetail"}
            }
        },
        "dto.ErrorDetail": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "details": {}
            }
        },
        "dto.ContactDTO": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "full_name": {"type": "string"},
                "initials": {"type": "string"},
                "phone_number": {"type": "string"}
            }
        },
        "dto.ContactNotFoundDetails": {
            "type": "object",
            "properties": {
                "contact_id": {"type": "integer"},
                "back_to": {"type": "string"}
            }
        },
        "dto.ListContactsResponse": {
            "type": "object",
            "properties": {
                "contacts": {"type": "array", "items": {"$ref": "#/definitions/dto.ContactDTO"}},
                "total": {"type": "integer"},
                "matched": {"type": "integer"}
            }
        },
        "dto.MessageDTO": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "contact_id": {"type": "integer"},
                "contact_name": {"type": "string"},
                "phone_number": {"type": "string"},
                "message": {"type": "string"},
                "otp": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        },
        "dto.ListMessagesResponse": {
            "type": "object",
            "properties": {
                "messages": {"type": "array", "items": {"$ref": "#/definitions/dto.MessageDTO"}},
                "total": {"type": "integer"},
                "matched": {"type": "integer"}
            }
        },
        "dto.UpdateComposeRequest": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "maxLength": 1600}
            }
        },
        "dto.SMSResultDTO": {
            "type": "object",
            "properties": {
                "sid": {"type": "string"},
                "status": {"type": "string"},
                "to": {"type": "string"},
                "from": {"type": "string"},
                "date_created": {"type": "string"},
                "date_sent": {"type": "string"},
                "direction": {"type": "string"},
                "price": {"type": "string"},
                "price_unit": {"type": "string"}
            }
        },
        "dto.ComposeSessionResponse": {
            "type": "object",
            "properties": {
                "session_id": {"type": "string"},
                "contact": {"$ref": "#/definitions/dto.ContactDTO"},
                "otp": {"type": "string"},
                "message": {"type": "string"},
                "characters": {"type": "integer"},
                "state": {"type": "string", "enum": ["drafting", "sending", "succeeded", "failed"]},
                "error": {"type": "string"},
                "countdown": {"type": "integer"},
                "redirect_to": {"type": "string"},
                "sent_message": {"$ref": "#/definitions/dto.MessageDTO"},
                "sms_result": {"$ref": "#/definitions/dto.SMSResultDTO"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "OTP Messenger API",
	Description:      "Send one-time passcodes to contacts by SMS and browse the sent history.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
