// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

// Package health reports process liveness and memory usage.
package health

import (
	"net/http"
	"runtime"
	"time"

	"github.com/mahabubx7/terry/internal/route"
	"github.com/mahabubx7/terry/internal/schema"
)

// Name is the module name and mount segment.
const Name = "health"

const mib = 1024 * 1024

var started = time.Now()

// Memory is reported in MiB.
type Memory struct {
	Used  uint64 `json:"used"`
	Total uint64 `json:"total"`
}

// Status is the health check response.
type Status struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	Version   string  `json:"version"`
	Uptime    float64 `json:"uptime"`
	Memory    Memory  `json:"memory"`
}

var ResponseSchema = schema.Object(
	schema.Prop("status", schema.Enum("ok", "error")),
	schema.Prop("timestamp", schema.String().DateTime()),
	schema.Prop("version", schema.String()),
	schema.Prop("uptime", schema.Number().Positive()),
	schema.Prop("memory", schema.Object(
		schema.Prop("used", schema.Integer().Positive()),
		schema.Prop("total", schema.Integer().Positive()),
	)),
).Named("HealthCheckResponse")

// Routes returns the health check route reporting version.
func Routes(version string) []route.Route {
	return []route.Route{
		{
			Method: http.MethodGet,
			Path:   "/",
			Handler: func(*route.Context) (any, error) {
				return Check(version), nil
			},
			Schema:      &route.Schemas{Response: ResponseSchema},
			Summary:     "Health Check",
			Description: "Get application health status",
			Tags:        []string{"Health"},
		},
	}
}

// Check samples the current process state.
func Check(version string) Status {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	return Status{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Version:   version,
		Uptime:    time.Since(started).Seconds(),
		Memory: Memory{
			Used:  toMiB(ms.HeapAlloc),
			Total: toMiB(ms.Sys),
		},
	}
}

// toMiB rounds up so that a non-zero byte count never reports zero.
func toMiB(b uint64) uint64 {
	return (b + mib - 1) / mib
}
