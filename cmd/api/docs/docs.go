// Package docs registers the swagger document served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support"
        },
        "license": {
            "name": "MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/generate": {
            "post": {
                "description": "Scrapes the article, asks the LLM for a quiz and stores the result. Repeated requests within the cache TTL are served from cache.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["quiz"],
                "summary": "Generate a quiz from a Wikipedia article",
                "parameters": [
                    {
                        "description": "Article URL",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.GenerateRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.QuizResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/history": {
            "get": {
                "description": "Returns every generated quiz, newest first",
                "produces": ["application/json"],
                "tags": ["quiz"],
                "summary": "List generated quizzes",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.HistoryItemResponse"}}
                    },
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/quiz/{url}": {
            "get": {
                "description": "Returns the quiz generated for an article URL. The URL goes in the path, percent-encoded or raw, or in the url query parameter.",
                "produces": ["application/json"],
                "tags": ["quiz"],
                "summary": "Get a stored quiz",
                "parameters": [
                    {"type": "string", "description": "Article URL", "name": "url", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.QuizResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Pings the database and the cache",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/dto.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "detail": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "dto.GenerateRequest": {
            "description": "Request body for generating a quiz",
            "type": "object",
            "properties": {
                "url": {"type": "string", "example": "https://en.wikipedia.org/wiki/Alan_Turing"}
            }
        },
        "dto.HealthResponse": {
            "type": "object",
            "properties": {
                "cache": {"type": "string"},
                "database": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "dto.HistoryItemResponse": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "title": {"type": "string"},
                "url": {"type": "string"}
            }
        },
        "dto.QuestionResponse": {
            "type": "object",
            "properties": {
                "correct_answer": {"type": "integer"},
                "difficulty": {"type": "string"},
                "explanation": {"type": "string"},
                "options": {"type": "array", "items": {"type": "string"}},
                "question": {"type": "string"}
            }
        },
        "dto.QuizResponse": {
            "description": "Generated quiz for one article",
            "type": "object",
            "properties": {
                "quiz": {"type": "array", "items": {"$ref": "#/definitions/dto.QuestionResponse"}},
                "related_topics": {"type": "object", "additionalProperties": {"type": "string"}},
                "summary": {"type": "string"},
                "title": {"type": "string"},
                "url": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:5000",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "Wiki Quiz API",
	Description:      "Generates multiple-choice quizzes from Wikipedia articles.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
