// Package docs содержит описание API для swagger UI.
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
            "post": {"tags": ["auth"], "summary": "Регистрация организатора", "responses": {"201": {"description": "Created"}, "409": {"description": "Email уже занят"}}}
        },
        "/auth/login": {
            "post": {"tags": ["auth"], "summary": "Вход, выдаёт JWT", "responses": {"200": {"description": "OK"}, "401": {"description": "Неверный email или пароль"}}}
        },
        "/tournaments": {
            "get": {"tags": ["tournaments"], "summary": "Список турниров", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["tournaments"], "summary": "Создать турнир вместе с сеткой", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/tournaments/{tournamentID}": {
            "get": {"tags": ["tournaments"], "summary": "Турнир по ID", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/tournaments/{tournamentID}/bracket": {
            "get": {"tags": ["brackets"], "summary": "Текущая сетка турнира", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/tournaments/{tournamentID}/bracket/versions/{version}": {
            "get": {"tags": ["brackets"], "summary": "Архивная версия сетки", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/tournaments/{tournamentID}/matches/{matchID}/result": {
            "post": {"tags": ["brackets"], "summary": "Записать победителя матча", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}},
            "delete": {"tags": ["brackets"], "summary": "Отменить результат матча", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}
        },
        "/tournaments/{tournamentID}/reset": {
            "post": {"tags": ["brackets"], "summary": "Пересобрать сетку", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Tournament Brackets API",
	Description:      "Сетки single и double elimination: создание, запись результатов, live-обновления.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
