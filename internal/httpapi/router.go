package httpapi

import (
	"net/http"

	"github.com/charmbracelet/log"

	"tasks-manager-backend/internal/tasks"
)

type Deps struct {
	Tasks  *tasks.Service
	State  ConnState
	Driver string
	Logger *log.Logger

	AllowedOrigins []string
	BodyLimit      int64
}

// NewRouter mounts the API and wraps it in the middleware chain:
// CORS, request id, access log, JSON body.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", HealthHandler(d.State, d.Driver))

	// ----- TASKS API -----
	mux.HandleFunc("GET /api/tasks", tasks.ListTasksHandler(d.Tasks, d.Logger))
	mux.HandleFunc("POST /api/tasks", tasks.CreateTaskHandler(d.Tasks, d.Logger))
	mux.HandleFunc("PUT /api/tasks/{id}", tasks.UpdateTaskHandler(d.Tasks, d.Logger))
	mux.HandleFunc("DELETE /api/tasks/{id}", tasks.DeleteTaskHandler(d.Tasks, d.Logger))
	mux.HandleFunc("PATCH /api/tasks/{id}/toggle", tasks.ToggleTaskHandler(d.Tasks, d.Logger))

	var h http.Handler = mux
	h = JSONBody(d.BodyLimit)(h)
	h = Logging(d.Logger)(h)
	h = WithRequestID(h)
	h = CORS(d.AllowedOrigins)(h)
	return h
}
