package studio

import "github.com/Lumos-Labs-HQ/qsynth/internal/seeder"

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type ModelInfo struct {
	Name    string       `json:"name"`
	Seed    int64        `json:"seed"`
	Schemas []SchemaInfo `json:"schemas"`
}

type SchemaInfo struct {
	Name     string `json:"name"`
	RowCount int    `json:"row_count"`
}

type ColumnInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type TableData struct {
	Model   string       `json:"model"`
	Schema  string       `json:"schema"`
	Columns []ColumnInfo `json:"columns"`
	Rows    []seeder.Row `json:"rows"`
	Total   int          `json:"total"`
	Limit   int          `json:"limit"`
}

type PlanInfo struct {
	Model string   `json:"model"`
	Order []string `json:"order"`
}

type RegenerateRequest struct {
	// Seed of the new run; nil or zero picks a random one.
	Seed *int64 `json:"seed"`
}
