package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Records API",
        "description": "Academic records management for departments, programs, courses, terms, students and staff accounts",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "Auth", "description": "Registration, login and token lifecycle"},
        {"name": "Users", "description": "Account administration and approval"},
        {"name": "Departments", "description": "Department catalog"},
        {"name": "Programs", "description": "Degree program catalog"},
        {"name": "Specializations", "description": "Program specialization catalog"},
        {"name": "Courses", "description": "Course catalog"},
        {"name": "SchoolTerms", "description": "School year and semester windows"},
        {"name": "Students", "description": "Student roster"},
        {"name": "Exports", "description": "CSV and PDF snapshots"}
    ],
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["Auth"],
                "summary": "Register a staff account pending approval",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created, pending admin approval"},
                    "400": {"description": "Validation failure or duplicate email"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Exchange credentials for a token pair",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token pair issued"},
                    "401": {"description": "Invalid credentials or unapproved account"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Auth"],
                "summary": "Rotate a refresh token",
                "responses": {
                    "200": {"description": "New token pair"},
                    "401": {"description": "Revoked or expired refresh token"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Auth"],
                "summary": "Revoke the caller's refresh token",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Token revoked"}
                }
            }
        },
        "/users": {
            "get": {
                "tags": ["Users"],
                "summary": "List users",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Paginated users"}
                }
            }
        },
        "/users/{id}/approve": {
            "patch": {
                "tags": ["Users"],
                "summary": "Approve a pending account",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Account approved"},
                    "404": {"description": "User not found"}
                }
            }
        },
        "/users/reset-passwords": {
            "post": {
                "tags": ["Users"],
                "summary": "Reset every account password to a single value",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Count of updated accounts"}
                }
            }
        },
        "/departments": {
            "get": {
                "tags": ["Departments"],
                "summary": "List departments",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Paginated departments"}}
            },
            "post": {
                "tags": ["Departments"],
                "summary": "Create department",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Duplicate name or abbreviation"}
                }
            }
        },
        "/programs": {
            "get": {
                "tags": ["Programs"],
                "summary": "List programs, optionally by department",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Paginated programs"}}
            },
            "post": {
                "tags": ["Programs"],
                "summary": "Create program",
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/program-specializations": {
            "get": {
                "tags": ["Specializations"],
                "summary": "List specializations, optionally by program",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Paginated specializations"}}
            }
        },
        "/courses": {
            "get": {
                "tags": ["Courses"],
                "summary": "List courses by program, specialization or term",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Paginated courses"}}
            }
        },
        "/courses/export": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export the course catalog as CSV or PDF",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "File attachment"}}
            }
        },
        "/school-terms": {
            "get": {
                "tags": ["SchoolTerms"],
                "summary": "List school terms",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Paginated terms"}}
            },
            "post": {
                "tags": ["SchoolTerms"],
                "summary": "Create school term",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Duplicate year and semester or inverted dates"}
                }
            }
        },
        "/school-terms/{id}/toggle-status": {
            "patch": {
                "tags": ["SchoolTerms"],
                "summary": "Flip a school term's active flag",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Updated term"},
                    "404": {"description": "Term not found"}
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "Search the student roster",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Paginated students"}}
            },
            "post": {
                "tags": ["Students"],
                "summary": "Create student",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Duplicate number or email"}
                }
            }
        },
        "/students/export": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export the student roster as CSV or PDF",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "File attachment"}}
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "required": ["first_name", "last_name", "email", "password", "department", "school_term"],
            "properties": {
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 6},
                "department": {"type": "integer"},
                "school_term": {"type": "integer"},
                "profile_type": {"type": "string", "enum": ["FACULTY", "DEAN", "STAFF", "PROGRAM_CHAIR"]},
                "designation": {"type": "string"}
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
                "limit": {"type": "integer"},
                "total_count": {"type": "integer"},
                "total_pages": {"type": "integer"}
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
