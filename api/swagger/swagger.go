package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "HxAT Annotation API",
        "description": "LTI annotation tool backend proxying an external annotation store",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Annotations", "description": "Annotation store proxy, transfer and export"},
        {"name": "Grading", "description": "Grade passback checks"},
        {"name": "Targets", "description": "Assignment target resolution"}
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
                    "200": {"description": "Ready"}
                }
            }
        },
        "/api/v1/store/search": {
            "get": {
                "tags": ["Annotations"],
                "summary": "Search annotations in the launch context's store",
                "responses": {
                    "200": {"description": "Store search envelope, possibly permission-filtered"}
                }
            }
        },
        "/api/v1/store/create": {
            "post": {
                "tags": ["Annotations"],
                "summary": "Create an annotation and trigger grade passback on success",
                "responses": {
                    "200": {"description": "Upstream store response"}
                }
            }
        },
        "/api/v1/store/update/{id}": {
            "put": {
                "tags": ["Annotations"],
                "summary": "Update an annotation (POST also accepted)",
                "responses": {
                    "200": {"description": "Upstream store response"}
                }
            }
        },
        "/api/v1/store/delete/{id}": {
            "delete": {
                "tags": ["Annotations"],
                "summary": "Delete an annotation",
                "responses": {
                    "200": {"description": "Upstream store response"}
                }
            }
        },
        "/api/v1/transfer/{instructor_only}": {
            "post": {
                "tags": ["Annotations"],
                "summary": "Copy annotations between course/assignment contexts",
                "responses": {
                    "200": {"description": "Empty JSON object on completion"}
                }
            }
        },
        "/api/v1/grade_me": {
            "get": {
                "tags": ["Grading"],
                "summary": "Trigger grade passback when qualifying annotations exist",
                "responses": {
                    "200": {"description": "grade_request_sent flag"}
                }
            }
        },
        "/api/v1/assignments/{id}/targets/{object_id}": {
            "get": {
                "tags": ["Targets"],
                "summary": "Resolve one assignment target's options, canvas and neighbors",
                "responses": {
                    "200": {"description": "Target detail"}
                }
            }
        },
        "/api/v1/export/annotations": {
            "get": {
                "tags": ["Annotations"],
                "summary": "Download the launch context's annotations as CSV or PDF",
                "responses": {
                    "200": {"description": "Rendered file"}
                }
            }
        }
    },
    "definitions": {
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
