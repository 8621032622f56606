// Package petget holds the OpenAPI document served at /swagger/.
// Regenerate with: swag init -g internal/petget/http/router.go -o api/petget
package petget

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "AussieBroadWAN Team",
            "url": "https://github.com/aussiebroadwan/petget"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Log in",
                "parameters": [
                    {"description": "Identity and secret", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/authsdk.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/authsdk.LoginResponse"}},
                    "400": {"description": "Malformed body", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}},
                    "401": {"description": "invalid_credentials", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}},
                    "403": {"description": "account_disabled", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}},
                    "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Refresh an access token",
                "parameters": [
                    {"description": "Refresh token", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/authsdk.RefreshRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/authsdk.RefreshResponse"}},
                    "401": {"description": "invalid_token", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}},
                    "403": {"description": "account_disabled", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Log out",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/authsdk.MessageResponse"}}
                }
            }
        },
        "/auth/validate": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Validate a token",
                "responses": {
                    "200": {"description": "valid: true", "schema": {"$ref": "#/definitions/authsdk.ValidateResponse"}},
                    "400": {"description": "valid: false", "schema": {"$ref": "#/definitions/authsdk.ValidateResponse"}}
                }
            }
        },
        "/v1/tenants": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Tenants"],
                "summary": "Provision a tenant",
                "parameters": [
                    {"type": "string", "description": "Bootstrap token", "name": "X-Bootstrap-Token", "in": "header", "required": true},
                    {"description": "Tenant and administrator", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/authsdk.ProvisionTenantRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/authsdk.ProvisionTenantResponse"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/authsdk.ValidationErrorResponse"}},
                    "401": {"description": "Missing or invalid bootstrap token", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}},
                    "404": {"description": "Provisioning not enabled", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}},
                    "409": {"description": "Tenant or identity already exists", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}}
                }
            }
        },
        "/v1/customers": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Customers"],
                "summary": "List customers",
                "parameters": [
                    {"type": "string", "description": "Tenant", "name": "X-Tenant-ID", "in": "header", "required": true},
                    {"type": "string", "description": "Case-insensitive name filter", "name": "name", "in": "query"},
                    {"type": "boolean", "description": "Only active customers", "name": "active", "in": "query"},
                    {"type": "integer", "description": "Page size (default 50, max 200)", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Page offset", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/authsdk.CustomerListResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Customers"],
                "summary": "Create a customer",
                "parameters": [
                    {"type": "string", "description": "Tenant", "name": "X-Tenant-ID", "in": "header", "required": true},
                    {"description": "Customer", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/authsdk.CustomerRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/authsdk.CustomerResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}},
                    "409": {"description": "Email or document already registered", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}}
                }
            }
        },
        "/v1/customers/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Customers"],
                "summary": "Get a customer",
                "parameters": [
                    {"type": "string", "description": "Tenant", "name": "X-Tenant-ID", "in": "header", "required": true},
                    {"type": "string", "description": "Customer ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/authsdk.CustomerResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Customers"],
                "summary": "Update a customer",
                "parameters": [
                    {"type": "string", "description": "Tenant", "name": "X-Tenant-ID", "in": "header", "required": true},
                    {"type": "string", "description": "Customer ID", "name": "id", "in": "path", "required": true},
                    {"description": "Customer", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/authsdk.CustomerRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/authsdk.CustomerResponse"}},
                    "403": {"description": "security_violation", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Customers"],
                "summary": "Delete a customer",
                "parameters": [
                    {"type": "string", "description": "Tenant", "name": "X-Tenant-ID", "in": "header", "required": true},
                    {"type": "string", "description": "Customer ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}}
                }
            }
        },
        "/v1/customers/{id}/overview": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Customers"],
                "summary": "Customer with pets",
                "parameters": [
                    {"type": "string", "description": "Tenant", "name": "X-Tenant-ID", "in": "header", "required": true},
                    {"type": "string", "description": "Customer ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/authsdk.CustomerOverviewResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}}
                }
            }
        },
        "/v1/customers/{id}/pets": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Pets"],
                "summary": "List a customer's pets",
                "parameters": [
                    {"type": "string", "description": "Tenant", "name": "X-Tenant-ID", "in": "header", "required": true},
                    {"type": "string", "description": "Customer ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/authsdk.PetListResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}}
                }
            }
        },
        "/v1/pets": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Pets"],
                "summary": "Create a pet",
                "parameters": [
                    {"type": "string", "description": "Tenant", "name": "X-Tenant-ID", "in": "header", "required": true},
                    {"description": "Pet", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/authsdk.PetRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/authsdk.PetResponse"}},
                    "400": {"description": "Unknown species or sex, bad date", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}},
                    "404": {"description": "Owner customer not found in tenant", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}}
                }
            }
        },
        "/v1/pets/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Pets"],
                "summary": "Get a pet",
                "parameters": [
                    {"type": "string", "description": "Tenant", "name": "X-Tenant-ID", "in": "header", "required": true},
                    {"type": "string", "description": "Pet ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/authsdk.PetResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Pets"],
                "summary": "Update a pet",
                "parameters": [
                    {"type": "string", "description": "Tenant", "name": "X-Tenant-ID", "in": "header", "required": true},
                    {"type": "string", "description": "Pet ID", "name": "id", "in": "path", "required": true},
                    {"description": "Pet", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/authsdk.PetRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/authsdk.PetResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Pets"],
                "summary": "Delete a pet",
                "parameters": [
                    {"type": "string", "description": "Tenant", "name": "X-Tenant-ID", "in": "header", "required": true},
                    {"type": "string", "description": "Pet ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/authsdk.ErrorResponse"}}
                }
            }
        },
        "/livez": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "status, uptime, version", "schema": {"$ref": "#/definitions/authsdk.HealthResponse"}}
                }
            }
        },
        "/readyz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "status, uptime, version, checks", "schema": {"$ref": "#/definitions/authsdk.HealthResponse"}},
                    "503": {"description": "service not ready", "schema": {"$ref": "#/definitions/authsdk.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "authsdk.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "error_description": {"type": "string"}
            }
        },
        "authsdk.ValidationErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "authsdk.LoginRequest": {
            "type": "object",
            "properties": {
                "identity": {"type": "string"},
                "secret": {"type": "string"}
            }
        },
        "authsdk.UserSummary": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "identity": {"type": "string"},
                "role": {"type": "string"},
                "tenantId": {"type": "string"},
                "companyName": {"type": "string"},
                "lastLogin": {"type": "string"}
            }
        },
        "authsdk.LoginResponse": {
            "type": "object",
            "properties": {
                "accessToken": {"type": "string"},
                "refreshToken": {"type": "string"},
                "tokenType": {"type": "string"},
                "expiresIn": {"type": "integer"},
                "user": {"$ref": "#/definitions/authsdk.UserSummary"}
            }
        },
        "authsdk.RefreshRequest": {
            "type": "object",
            "properties": {
                "refreshToken": {"type": "string"}
            }
        },
        "authsdk.RefreshResponse": {
            "type": "object",
            "properties": {
                "accessToken": {"type": "string"},
                "tokenType": {"type": "string"},
                "expiresIn": {"type": "integer"}
            }
        },
        "authsdk.MessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "authsdk.ValidateResponse": {
            "type": "object",
            "properties": {
                "valid": {"type": "boolean"}
            }
        },
        "authsdk.ProvisionTenantRequest": {
            "type": "object",
            "properties": {
                "tenantId": {"type": "string"},
                "companyName": {"type": "string"},
                "companyTaxId": {"type": "string"},
                "adminName": {"type": "string"},
                "adminIdentity": {"type": "string"},
                "adminPassword": {"type": "string"}
            }
        },
        "authsdk.ProvisionTenantResponse": {
            "type": "object",
            "properties": {
                "companyId": {"type": "string"},
                "tenantId": {"type": "string"},
                "adminUserId": {"type": "string"},
                "generatedPassword": {"type": "string"}
            }
        },
        "authsdk.CustomerRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "document": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "mobile": {"type": "string"},
                "address": {"type": "string"},
                "district": {"type": "string"},
                "city": {"type": "string"},
                "state": {"type": "string"},
                "postalCode": {"type": "string"},
                "notes": {"type": "string"},
                "active": {"type": "boolean"}
            }
        },
        "authsdk.CustomerResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "tenantId": {"type": "string"},
                "name": {"type": "string"},
                "document": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "mobile": {"type": "string"},
                "address": {"type": "string"},
                "district": {"type": "string"},
                "city": {"type": "string"},
                "state": {"type": "string"},
                "postalCode": {"type": "string"},
                "notes": {"type": "string"},
                "active": {"type": "boolean"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "authsdk.CustomerListResponse": {
            "type": "object",
            "properties": {
                "customers": {"type": "array", "items": {"$ref": "#/definitions/authsdk.CustomerResponse"}},
                "limit": {"type": "integer"},
                "offset": {"type": "integer"}
            }
        },
        "authsdk.CustomerOverviewResponse": {
            "type": "object",
            "properties": {
                "customer": {"$ref": "#/definitions/authsdk.CustomerResponse"},
                "pets": {"type": "array", "items": {"$ref": "#/definitions/authsdk.PetResponse"}}
            }
        },
        "authsdk.PetRequest": {
            "type": "object",
            "properties": {
                "customerId": {"type": "string"},
                "name": {"type": "string"},
                "species": {"type": "string"},
                "breed": {"type": "string"},
                "sex": {"type": "string"},
                "birthDate": {"type": "string"},
                "weightKg": {"type": "number"},
                "color": {"type": "string"},
                "microchip": {"type": "string"},
                "pedigree": {"type": "boolean"},
                "notes": {"type": "string"},
                "active": {"type": "boolean"}
            }
        },
        "authsdk.PetResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "tenantId": {"type": "string"},
                "customerId": {"type": "string"},
                "name": {"type": "string"},
                "species": {"type": "string"},
                "breed": {"type": "string"},
                "sex": {"type": "string"},
                "birthDate": {"type": "string"},
                "weightKg": {"type": "number"},
                "color": {"type": "string"},
                "microchip": {"type": "string"},
                "pedigree": {"type": "boolean"},
                "notes": {"type": "string"},
                "active": {"type": "boolean"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "authsdk.PetListResponse": {
            "type": "object",
            "properties": {
                "pets": {"type": "array", "items": {"$ref": "#/definitions/authsdk.PetResponse"}}
            }
        },
        "authsdk.HealthChecks": {
            "type": "object",
            "properties": {
                "database": {"type": "string"},
                "signer": {"type": "string"}
            }
        },
        "authsdk.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "uptime": {"type": "string"},
                "version": {"type": "string"},
                "checks": {"$ref": "#/definitions/authsdk.HealthChecks"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "HS256 access token. Format: \"Bearer {token}\".",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "petget API",
	Description:      "Multi-tenant clinic backend: session tokens, tenant-scoped customers and pets.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
