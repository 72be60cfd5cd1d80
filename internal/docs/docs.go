// Package docs registers the OpenAPI description served at /swagger.
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
    "tags": [
        {"name": "library", "description": "Authors, books and members"},
        {"name": "loans", "description": "Checkout, renewal and return"},
        {"name": "library-reports", "description": "Overdue and borrowing reports"},
        {"name": "finance", "description": "Users and expense categories"},
        {"name": "ledger", "description": "Incomes, expenses and month closing"},
        {"name": "finance-reports", "description": "Budget and spending reports"}
    ],
    "paths": {
        "/library/authors": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["library"], "summary": "List authors", "responses": {"200": {"description": "Paginated authors"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["library"], "summary": "Create an author", "responses": {"201": {"description": "Author created"}, "400": {"description": "Invalid input"}}}
        },
        "/library/books": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["library"], "summary": "List books", "responses": {"200": {"description": "Paginated books"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["library"], "summary": "Create a book", "responses": {"201": {"description": "Book created"}, "404": {"description": "Author not found"}}}
        },
        "/library/books/{id}/availability": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["loans"], "summary": "Book availability", "responses": {"200": {"description": "Availability"}, "404": {"description": "Book not found"}}}
        },
        "/library/members": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["library"], "summary": "List members", "responses": {"200": {"description": "Paginated members"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["library"], "summary": "Register a member", "responses": {"201": {"description": "Member created"}, "409": {"description": "Email already registered"}}}
        },
        "/library/loans": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["loans"], "summary": "Check out a book", "responses": {"201": {"description": "Loan created"}, "409": {"description": "Book is on loan"}}}
        },
        "/library/loans/{id}/renew": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["loans"], "summary": "Renew a loan", "responses": {"200": {"description": "Renewed loan"}, "409": {"description": "Loan overdue or returned"}}}
        },
        "/library/loans/{id}/return": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["loans"], "summary": "Return a book", "responses": {"200": {"description": "Returned loan"}, "409": {"description": "Loan already returned"}}}
        },
        "/library/reports/overdue": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["library-reports"], "summary": "Overdue loans", "responses": {"200": {"description": "Overdue loans"}}}
        },
        "/library/reports/overdue/weekly": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["library-reports"], "summary": "Weekly overdue summary", "responses": {"200": {"description": "Counts by member and ISO week"}}}
        },
        "/library/reports/top-members": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["library-reports"], "summary": "Top borrowers", "responses": {"200": {"description": "Members by loan count"}}}
        },
        "/library/reports/running-totals": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["library-reports"], "summary": "Running loan totals", "responses": {"200": {"description": "Loans with running counts"}}}
        },
        "/finance/users": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["finance"], "summary": "List users", "responses": {"200": {"description": "Paginated users"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["finance"], "summary": "Create a user", "responses": {"201": {"description": "User created"}, "409": {"description": "Email already registered"}}}
        },
        "/finance/categories": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["finance"], "summary": "List categories", "responses": {"200": {"description": "Paginated categories"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["finance"], "summary": "Create a category", "responses": {"201": {"description": "Category created"}, "409": {"description": "Duplicate name"}}}
        },
        "/finance/users/{id}/expenses": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["ledger"], "summary": "List expenses", "responses": {"200": {"description": "Paginated expenses"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["ledger"], "summary": "Record an expense", "responses": {"201": {"description": "Expense recorded"}, "422": {"description": "Budget exceeded"}}}
        },
        "/finance/users/{id}/incomes": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["ledger"], "summary": "List incomes", "responses": {"200": {"description": "Paginated incomes"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["ledger"], "summary": "Add monthly income", "responses": {"201": {"description": "Income recorded"}}}
        },
        "/finance/users/{id}/close-month": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["ledger"], "summary": "Close a month", "responses": {"201": {"description": "Closing log entry"}}}
        },
        "/finance/users/{id}/logs": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["ledger"], "summary": "Transaction log", "responses": {"200": {"description": "Paginated log entries"}}}
        },
        "/finance/users/{id}/budget-status": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["finance-reports"], "summary": "User budget status", "responses": {"200": {"description": "Budget status"}}}
        },
        "/finance/users/{id}/spend-ratio": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["finance-reports"], "summary": "Spend ratio", "responses": {"200": {"description": "Spend ratio"}, "422": {"description": "No income that month"}}}
        },
        "/finance/reports/budget-status": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["finance-reports"], "summary": "Budget status", "responses": {"200": {"description": "Budget status by user"}}}
        },
        "/finance/reports/category-totals": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["finance-reports"], "summary": "Category totals", "responses": {"200": {"description": "Totals by category"}}}
        },
        "/finance/reports/spend-ratios": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["finance-reports"], "summary": "Spend ratios", "responses": {"200": {"description": "Ratios by user"}}}
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
	Title:            "Bookkeeper API",
	Description:      "Library lending and household budgeting over one relational store.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
