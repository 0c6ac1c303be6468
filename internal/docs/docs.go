// Package docs holds the OpenAPI document registered with swag and
// served by gin-swagger. Maintained by hand; keep it in sync with the
// handler annotations when routes change.
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
                "summary": "Register a new user",
                "responses": {
                    "201": {"description": "User registered and token generated"},
                    "400": {"description": "Invalid input"},
                    "409": {"description": "Username already taken"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login user",
                "responses": {
                    "200": {"description": "User authenticated and token generated"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["user"],
                "summary": "Get user profile",
                "responses": {
                    "200": {"description": "User profile"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/quote": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["quotes"],
                "summary": "Get stock quote",
                "parameters": [
                    {"type": "string", "name": "symbol", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "Current quote"},
                    "400": {"description": "Invalid or unknown symbol"},
                    "502": {"description": "Quote provider unavailable"}
                }
            }
        },
        "/orders/buy": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Buy shares",
                "responses": {
                    "201": {"description": "Order executed"},
                    "400": {"description": "Invalid amount, invalid symbol, or insufficient funds"},
                    "502": {"description": "Quote provider unavailable"}
                }
            }
        },
        "/orders/sell": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Sell shares",
                "responses": {
                    "201": {"description": "Order executed"},
                    "400": {"description": "Invalid amount, invalid symbol, or insufficient shares"},
                    "502": {"description": "Quote provider unavailable"}
                }
            }
        },
        "/cash/deposit": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["cash"],
                "summary": "Deposit cash",
                "responses": {
                    "200": {"description": "New cash balance"},
                    "400": {"description": "Invalid amount"}
                }
            }
        },
        "/portfolio": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["portfolio"],
                "summary": "Get portfolio",
                "responses": {
                    "200": {"description": "Portfolio valuation"},
                    "502": {"description": "Quote provider unavailable"}
                }
            }
        },
        "/transactions": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Get transaction history",
                "parameters": [
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "page_size", "in": "query"},
                    {"type": "string", "name": "type", "in": "query"},
                    {"type": "string", "name": "symbol", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Paginated transactions"},
                    "400": {"description": "Invalid input"}
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
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
	Title:            "Papertrade API",
	Description:      "Papertrade is a stock-trading simulator: register, get simulated cash, look up real-time quotes, and buy/sell simulated shares with a full transaction history and portfolio valuation.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
