package api

import (
	"github.com/ssargent/fortrec/pkg/dtype"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the inspection server
type ServerConfig struct {
	Listen      string      // listen address, e.g. "127.0.0.1:8080"
	DataDir     string      // directory the served record files live in
	MarkerWidth int         // marker width used to read files
	Order       dtype.Order // byte order used to read files
}

// FileStat summarizes one record file
type FileStat struct {
	Name      string `json:"name"`
	Records   int64  `json:"records"`
	BodyBytes int64  `json:"body_bytes"`
	FileBytes int64  `json:"file_bytes"`
}

// RecordView is one record rendered for the JSON surface
type RecordView struct {
	Ordinal int64       `json:"ordinal"`
	Length  int64       `json:"length"`
	Value   interface{} `json:"value"`
}
