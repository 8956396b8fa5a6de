package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"quizadmin/internal/utils"
)

const readinessTimeout = 2 * time.Second

// Pinger is anything the readiness probe can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

type ReadinessCheck struct {
	Status  string `json:"status"` // "ok" | "failed"
	Message string `json:"message,omitempty"`
}

type ReadinessResponse struct {
	Status string                    `json:"status"` // "ready" | "not_ready"
	Checks map[string]ReadinessCheck `json:"checks"`
}

type HealthHandler struct {
	deps map[string]Pinger
}

func NewHealthHandler(deps map[string]Pinger) *HealthHandler {
	return &HealthHandler{deps: deps}
}

func (handler *HealthHandler) HealthzHandler(writer http.ResponseWriter, request *http.Request) {
	writer.WriteHeader(http.StatusOK)
	writer.Write([]byte("ok"))
}

func (handler *HealthHandler) ReadyzHandler(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), readinessTimeout)
	defer cancel()

	names := make([]string, 0, len(handler.deps))
	for name := range handler.deps {
		names = append(names, name)
	}
	sort.Strings(names)

	response := ReadinessResponse{Status: "ready", Checks: make(map[string]ReadinessCheck, len(names))}
	for _, name := range names {
		if err := handler.deps[name].Ping(ctx); err != nil {
			response.Checks[name] = ReadinessCheck{Status: "failed", Message: err.Error()}
			response.Status = "not_ready"
			continue
		}
		response.Checks[name] = ReadinessCheck{Status: "ok"}
	}

	if response.Status != "ready" {
		utils.JSON(writer, http.StatusServiceUnavailable, response)
		return
	}
	utils.JSON(writer, http.StatusOK, response)
}
