// Package docs registra a documentação OpenAPI servida em /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "Reativa Imóveis"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/imoveis/busca": {
            "get": {
                "description": "Interpreta o texto livre, aplica os filtros e devolve a página de resultados com filtros ativos e sugestões",
                "produces": ["application/json"],
                "tags": ["imoveis"],
                "summary": "Busca de imóveis em linguagem natural",
                "parameters": [
                    {"maxLength": 200, "type": "string", "description": "Texto da busca", "name": "q", "in": "query"},
                    {"type": "integer", "default": 1, "description": "Página", "name": "page", "in": "query"},
                    {"enum": ["relevance", "price_asc", "price_desc", "recent"], "type": "string", "description": "Ordenação", "name": "sort", "in": "query"},
                    {"type": "boolean", "description": "Desabilita sugestões", "name": "no_suggestions", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SearchResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/imoveis/pills": {
            "get": {
                "description": "Lista os filtros reconhecidos no texto, prontos para exibição",
                "produces": ["application/json"],
                "tags": ["imoveis"],
                "summary": "Filtros ativos da busca",
                "parameters": [
                    {"maxLength": 200, "type": "string", "description": "Texto da busca", "name": "q", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.PillsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/imoveis/sugestoes": {
            "get": {
                "description": "Propõe até 5 filtros complementares com a contagem de imóveis de cada um",
                "produces": ["application/json"],
                "tags": ["imoveis"],
                "summary": "Sugestões de refinamento",
                "parameters": [
                    {"maxLength": 200, "type": "string", "description": "Texto da busca", "name": "q", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.SuggestionsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/imoveis/interpretar": {
            "get": {
                "description": "Mostra o texto expandido, os predicados e os metadados extraídos (depuração)",
                "produces": ["application/json"],
                "tags": ["imoveis"],
                "summary": "Interpretação da busca",
                "parameters": [
                    {"maxLength": 200, "type": "string", "description": "Texto da busca", "name": "q", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/imovel/{slug}": {
            "get": {
                "description": "Busca o imóvel pelo id no fim do slug. Slugs desatualizados recebem 301 para o slug canônico",
                "produces": ["application/json"],
                "tags": ["imoveis"],
                "summary": "Detalhe do imóvel",
                "parameters": [
                    {"type": "string", "description": "Slug do imóvel", "name": "slug", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "301": {"description": "Redireciona para o slug canônico"},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/liveness": {
            "get": {
                "description": "Verifica se a aplicação está viva (sem checagem de dependências externas)",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe endpoint",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.HealthResponse"}}
                }
            }
        },
        "/readiness": {
            "get": {
                "description": "Verifica as dependências em paralelo (catálogo, cache de contagens, Typesense)",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe endpoint",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handlers.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "components": {"type": "object"},
                "timestamp": {"type": "integer"}
            }
        },
        "handlers.PillsResponse": {
            "type": "object",
            "properties": {
                "query": {"type": "string"},
                "filters": {"type": "array", "items": {"$ref": "#/definitions/models.ActiveFilterPill"}}
            }
        },
        "handlers.SuggestionsResponse": {
            "type": "object",
            "properties": {
                "query": {"type": "string"},
                "suggestions": {"type": "array", "items": {"$ref": "#/definitions/models.Suggestion"}}
            }
        },
        "models.ActiveFilterPill": {
            "type": "object",
            "properties": {
                "category": {"type": "string"},
                "label": {"type": "string"},
                "display_value": {"type": "string"},
                "remove_query": {"type": "string"}
            }
        },
        "models.Suggestion": {
            "type": "object",
            "properties": {
                "category": {"type": "string"},
                "value": {"type": "string"},
                "label": {"type": "string"},
                "match_count": {"type": "integer"},
                "add_query": {"type": "string"}
            }
        },
        "models.SearchResponse": {
            "type": "object",
            "properties": {
                "results": {"type": "array", "items": {"type": "object"}},
                "pagination": {"type": "object"},
                "query": {"type": "object"},
                "active_filters": {"type": "array", "items": {"$ref": "#/definitions/models.ActiveFilterPill"}},
                "suggestions": {"type": "array", "items": {"$ref": "#/definitions/models.Suggestion"}},
                "timing": {"type": "object"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Portal de Busca de Imóveis API",
	Description:      "Busca de imóveis em linguagem natural: interpretação da query, filtros ativos e sugestões com contagem",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
