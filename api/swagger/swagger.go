package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Seating Charter API",
        "description": "Constraint-aware classroom seating chart generator",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Seating", "description": "Chart generation and history"},
        {"name": "Exports", "description": "Asynchronous chart exports"},
        {"name": "Metrics", "description": "Observability"}
    ],
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
                    "200": {"description": "Ready"},
                    "503": {"description": "Database unreachable"}
                }
            }
        },
        "/api/v1/seating/charts": {
            "get": {
                "tags": ["Seating"],
                "summary": "List saved seating charts",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "strategy", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "sort", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Seating"],
                "summary": "Generate a seating chart",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateChartRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Invalid classroom or placement exhausted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/seating/charts/preview": {
            "post": {
                "tags": ["Seating"],
                "summary": "Generate a seating chart without saving it",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateChartRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Invalid classroom or placement exhausted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/seating/charts/{id}": {
            "get": {
                "tags": ["Seating"],
                "summary": "Get a saved seating chart",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Seating"],
                "summary": "Delete a saved seating chart",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/seating/charts/{id}/text": {
            "get": {
                "tags": ["Seating"],
                "summary": "Render a saved seating chart as plain text",
                "produces": ["text/plain"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/seating/charts/{id}/exports": {
            "post": {
                "tags": ["Exports"],
                "summary": "Queue an export of a saved seating chart",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateExportRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/seating/exports/{jobId}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Get export job status",
                "parameters": [
                    {"name": "jobId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/export/{token}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download an exported chart via signed token",
                "produces": ["application/octet-stream"],
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File stream"},
                    "400": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/stats": {
            "get": {
                "tags": ["Metrics"],
                "summary": "Application statistics snapshot",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "CapacityRequest": {
            "type": "object",
            "properties": {
                "min": {"type": "integer"},
                "max": {"type": "integer"}
            }
        },
        "DeskRequest": {
            "type": "object",
            "properties": {
                "row": {"type": "integer"},
                "column": {"type": "integer"}
            },
            "required": ["row", "column"]
        },
        "CapacityOverrideRequest": {
            "type": "object",
            "properties": {
                "row": {"type": "integer"},
                "column": {"type": "integer"},
                "min": {"type": "integer"},
                "max": {"type": "integer"}
            },
            "required": ["row", "column"]
        },
        "ClassroomRequest": {
            "type": "object",
            "properties": {
                "rows": {"type": "integer"},
                "columns": {"type": "integer"},
                "defaultCapacity": {"$ref": "#/definitions/CapacityRequest"},
                "blockedDesks": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/DeskRequest"}
                },
                "capacityOverrides": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/CapacityOverrideRequest"}
                }
            },
            "required": ["rows", "columns"]
        },
        "RowRequirementRequest": {
            "type": "object",
            "properties": {
                "student": {"type": "string"},
                "row": {"type": "integer"}
            },
            "required": ["student", "row"]
        },
        "ColumnRequirementRequest": {
            "type": "object",
            "properties": {
                "student": {"type": "string"},
                "column": {"type": "integer"}
            },
            "required": ["student", "column"]
        },
        "ConstraintsRequest": {
            "type": "object",
            "properties": {
                "cannotSitTogether": {
                    "type": "array",
                    "items": {"type": "array", "items": {"type": "string"}}
                },
                "largeStudents": {
                    "type": "array",
                    "items": {"type": "string"}
                },
                "rowRequirements": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/RowRequirementRequest"}
                },
                "columnRequirements": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/ColumnRequirementRequest"}
                }
            }
        },
        "GenerateChartRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "classroom": {"$ref": "#/definitions/ClassroomRequest"},
                "students": {
                    "type": "array",
                    "items": {"type": "string"}
                },
                "constraints": {"$ref": "#/definitions/ConstraintsRequest"},
                "strategy": {"type": "string", "enum": ["cluster", "spread", "single"]},
                "seed": {"type": "integer"},
                "maxAttempts": {"type": "integer"}
            },
            "required": ["classroom"]
        },
        "ChartCell": {
            "type": "object",
            "properties": {
                "row": {"type": "integer"},
                "column": {"type": "integer"},
                "blocked": {"type": "boolean"},
                "students": {
                    "type": "array",
                    "items": {"type": "string"}
                }
            }
        },
        "ChartResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "rows": {"type": "integer"},
                "columns": {"type": "integer"},
                "strategy": {"type": "string"},
                "seed": {"type": "integer"},
                "attemptsUsed": {"type": "integer"},
                "studentCount": {"type": "integer"},
                "cells": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/ChartCell"}
                },
                "warnings": {
                    "type": "array",
                    "items": {"type": "string"}
                },
                "createdAt": {"type": "string"}
            }
        },
        "ChartSummary": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "rows": {"type": "integer"},
                "columns": {"type": "integer"},
                "strategy": {"type": "string"},
                "studentCount": {"type": "integer"},
                "createdAt": {"type": "string"}
            }
        },
        "CreateExportRequest": {
            "type": "object",
            "properties": {
                "format": {"type": "string", "enum": ["csv", "pdf"]},
                "floorPlan": {"type": "boolean"}
            },
            "required": ["format"]
        },
        "ExportJobResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "chartId": {"type": "string"},
                "format": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "ExportStatusResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "chartId": {"type": "string"},
                "format": {"type": "string"},
                "status": {"type": "string"},
                "resultUrl": {"type": "string"},
                "expiresAt": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "SystemMetrics": {
            "type": "object",
            "properties": {
                "cache_hit_ratio": {"type": "number"},
                "cache_hits": {"type": "integer"},
                "cache_misses": {"type": "integer"},
                "requests_total": {"type": "integer"},
                "average_request_duration_ms": {"type": "number"},
                "charts_generated": {"type": "integer"},
                "generation_failures": {"type": "integer"},
                "average_attempts": {"type": "number"},
                "export_backlog": {"type": "integer"},
                "goroutines": {"type": "integer"},
                "generated_at": {"type": "string"}
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
                "pagination": {"$ref": "#/definitions/Pagination"},
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
