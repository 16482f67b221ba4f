package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Edu Portal API",
        "description": "Course catalog, application intake and back-office API for the SBS A&T education portal",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Legacy", "description": "Sheet-compatible endpoints for existing clients"},
        {"name": "Catalog", "description": "Course rounds, FAQ and partner companies"},
        {"name": "Applications", "description": "Application intake and back-office workflow"},
        {"name": "Auth", "description": "Back-office authentication"}
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/exec": {
            "get": {
                "tags": ["Legacy"],
                "summary": "Sheet passthrough and CheckApplication lookup",
                "parameters": [
                    {"name": "type", "in": "query", "type": "string", "required": true, "description": "Sheet name or CheckApplication"},
                    {"name": "name", "in": "query", "type": "string", "description": "Applicant name (CheckApplication)"},
                    {"name": "email", "in": "query", "type": "string", "description": "Applicant email (CheckApplication)"}
                ],
                "responses": {
                    "200": {"description": "Sheet rows, matched applications, or an error object"}
                }
            },
            "post": {
                "tags": ["Legacy"],
                "summary": "Apply or Cancel with the legacy body",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LegacyPostRequest"}}
                ],
                "responses": {
                    "200": {"description": "Legacy result envelope", "schema": {"$ref": "#/definitions/LegacyResult"}}
                }
            }
        },
        "/api/v1/courses": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List course rounds",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/courses/groups": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List course groups",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/courses/groups/{id}": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Get one course group by round id",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown group"}
                }
            }
        },
        "/api/v1/faqs": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List FAQ entries",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/companies": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List partner companies",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/catalog/refresh": {
            "post": {
                "tags": ["Catalog"],
                "summary": "Drop memoized catalog data",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "Refreshed"}
                }
            }
        },
        "/api/v1/applications": {
            "post": {
                "tags": ["Applications"],
                "summary": "Submit an application",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitApplicationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate application"}
                }
            }
        },
        "/api/v1/applications/lookup": {
            "get": {
                "tags": ["Applications"],
                "summary": "Look up applications by name and email",
                "parameters": [
                    {"name": "name", "in": "query", "type": "string", "required": true},
                    {"name": "email", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/applications/{id}/cancel": {
            "post": {
                "tags": ["Applications"],
                "summary": "Cancel an application",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/CancelRequest"}}
                ],
                "responses": {
                    "200": {"description": "Cancelled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "No longer cancellable"}
                }
            }
        },
        "/api/v1/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Log in with email and password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/api/v1/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current account",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/admin/applications": {
            "get": {
                "tags": ["Applications"],
                "summary": "List applications",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "course", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/admin/applications/{id}": {
            "get": {
                "tags": ["Applications"],
                "summary": "Get one application",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/api/v1/admin/applications/{id}/status": {
            "patch": {
                "tags": ["Applications"],
                "summary": "Update application status",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/admin/applications/export": {
            "get": {
                "tags": ["Applications"],
                "summary": "Export the application roster as CSV or PDF",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "course", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        }
    },
    "definitions": {
        "LegacyPostRequest": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "enum": ["Apply", "Cancel"]},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "course": {"type": "string"},
                "startDate": {"type": "string"},
                "endDate": {"type": "string"},
                "employment": {"type": "string"},
                "company": {"type": "string"},
                "position": {"type": "string"},
                "agree": {"type": "boolean"},
                "formType": {"type": "string"},
                "cancelReason": {"type": "string"}
            }
        },
        "LegacyResult": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "SubmitApplicationRequest": {
            "type": "object",
            "required": ["name", "email", "phone", "course", "agree"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "course": {"type": "string"},
                "start_date": {"type": "string"},
                "end_date": {"type": "string"},
                "employment": {"type": "string"},
                "company": {"type": "string"},
                "position": {"type": "string"},
                "agree": {"type": "boolean"},
                "form_type": {"type": "string"}
            }
        },
        "CancelRequest": {
            "type": "object",
            "properties": {
                "reason": {"type": "string"}
            }
        },
        "UpdateStatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["대기", "승인", "반려"]}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
