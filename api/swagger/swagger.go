package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Hurricane Gradebook API",
        "description": "Gradebook, prediction, study schedule and AI practice for Vietnamese high-school students.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "tags": [
        {"name": "Session", "description": "Student profile and bearer token"},
        {"name": "Subjects", "description": "Subject selection, scores and summaries"},
        {"name": "Prediction", "description": "Required scores for a rank goal"},
        {"name": "Rewards", "description": "Energy bars earned from perfect scores"},
        {"name": "Schedule", "description": "Weekly study planner"},
        {"name": "Practice", "description": "AI exercise suggestions and quizzes"},
        {"name": "Exports", "description": "Report card downloads"}
    ],
    "paths": {
        "/session": {
            "post": {
                "tags": ["Session"],
                "summary": "Start a session",
                "security": [],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "get": {
                "tags": ["Session"],
                "summary": "Current session",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "428": {"description": "Profile missing", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Session"],
                "summary": "End the session and clear stored data",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/catalog": {
            "get": {
                "tags": ["Session"],
                "summary": "Subject catalog",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/subjects": {
            "get": {
                "tags": ["Subjects"],
                "summary": "List subjects",
                "parameters": [{"$ref": "#/parameters/period"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Subjects"],
                "summary": "Choose subjects",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SelectSubjectsRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Subjects"],
                "summary": "Remove all subjects",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/subjects/{id}/scores": {
            "put": {
                "tags": ["Subjects"],
                "summary": "Write one score slot",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetScoreRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Subject not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects/{id}/scores/toggle": {
            "post": {
                "tags": ["Subjects"],
                "summary": "Toggle a pass-fail assessment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ToggleAssessmentRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/summary": {
            "get": {
                "tags": ["Subjects"],
                "summary": "GPA, rank and chart",
                "parameters": [{"$ref": "#/parameters/period"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/prediction": {
            "get": {
                "tags": ["Prediction"],
                "summary": "Required scores per subject",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/prediction/goal": {
            "put": {
                "tags": ["Prediction"],
                "summary": "Change the rank goal",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object", "properties": {"goal": {"type": "string", "enum": ["excellent", "good"]}}}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/prediction/strong": {
            "post": {
                "tags": ["Prediction"],
                "summary": "Flag or unflag a strong subject",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object", "properties": {"subject": {"type": "string"}}}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/rewards": {
            "get": {
                "tags": ["Rewards"],
                "summary": "Reward progress",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/rewards/claim": {
            "post": {
                "tags": ["Rewards"],
                "summary": "Redeem a full cycle of bars",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Not enough bars", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedule": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Week containing a date",
                "parameters": [{"$ref": "#/parameters/date"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/schedule/{date}": {
            "put": {
                "tags": ["Schedule"],
                "summary": "Edit one session",
                "parameters": [
                    {"name": "date", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object", "properties": {"session": {"type": "string", "enum": ["morning", "afternoon", "evening"]}, "value": {"type": "string"}}}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/schedule/ics": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Export the week as iCalendar",
                "produces": ["text/calendar"],
                "parameters": [{"$ref": "#/parameters/date"}],
                "responses": {"200": {"description": "iCalendar file"}}
            }
        },
        "/practice/suggestions": {
            "post": {
                "tags": ["Practice"],
                "summary": "Exercise suggestions",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object", "properties": {"query": {"type": "string"}, "subject": {"type": "string"}, "score": {"type": "number"}, "period": {"type": "string"}}}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/practice/quiz": {
            "post": {
                "tags": ["Practice"],
                "summary": "Generate a topic quiz",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object", "properties": {"topic": {"type": "string"}}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Assistant unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/practice/quiz/document": {
            "post": {
                "tags": ["Practice"],
                "summary": "Generate a quiz from a document",
                "consumes": ["multipart/form-data"],
                "parameters": [{"name": "file", "in": "formData", "required": true, "type": "file"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "413": {"description": "Document too large", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/practice/quiz/grade": {
            "post": {
                "tags": ["Practice"],
                "summary": "Score submitted answers",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object", "properties": {"quiz": {"$ref": "#/definitions/Quiz"}, "answers": {"type": "array", "items": {"type": "integer"}}}}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/practice/quiz/sheet": {
            "post": {
                "tags": ["Practice"],
                "summary": "Download a quiz as a text sheet",
                "produces": ["text/plain"],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Quiz"}}],
                "responses": {"200": {"description": "Text file"}}
            }
        },
        "/exports/report": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download the report card",
                "produces": ["text/csv", "application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "parameters": [
                    {"$ref": "#/parameters/period"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf", "xlsx"]}
                ],
                "responses": {"200": {"description": "Report file"}}
            }
        }
    },
    "parameters": {
        "period": {"name": "period", "in": "query", "type": "string", "enum": ["hk1", "hk2", "yearly"]},
        "date": {"name": "date", "in": "query", "type": "string", "description": "YYYY-MM-DD, defaults to today"}
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["name", "className"],
            "properties": {
                "name": {"type": "string"},
                "className": {"type": "string"}
            }
        },
        "SelectSubjectsRequest": {
            "type": "object",
            "required": ["subjects"],
            "properties": {
                "subjects": {"type": "array", "items": {"type": "string"}}
            }
        },
        "SetScoreRequest": {
            "type": "object",
            "required": ["semester", "field"],
            "properties": {
                "semester": {"type": "string", "enum": ["hk1", "hk2"]},
                "field": {"type": "string", "enum": ["tx1", "tx2", "tx3", "tx4", "tx5", "gk", "ck"]},
                "value": {"type": "number"}
            }
        },
        "ToggleAssessmentRequest": {
            "type": "object",
            "required": ["semester", "field", "pass"],
            "properties": {
                "semester": {"type": "string", "enum": ["hk1", "hk2"]},
                "field": {"type": "string", "enum": ["tx1", "tx2", "tx3", "gk", "ck"]},
                "pass": {"type": "boolean"}
            }
        },
        "Quiz": {
            "type": "object",
            "properties": {
                "topic": {"type": "string"},
                "questions": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "id": {"type": "integer"},
                            "question": {"type": "string"},
                            "options": {"type": "array", "items": {"type": "string"}},
                            "correctAnswer": {"type": "integer"},
                            "explanation": {"type": "string"}
                        }
                    }
                }
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
                "meta": {"type": "object"}
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
