// Copyright (c) 2026 Tasktrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package task

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/tasktrack/internal/platform/middleware"
	requestutil "github.com/taibuivan/tasktrack/internal/platform/request"
	"github.com/taibuivan/tasktrack/internal/platform/respond"
)

// # Definitions & Constructors

// Handler implements the task HTTP surface.
type Handler struct {
	taskService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{taskService: service}
}

// Routes returns a [chi.Router] with the task endpoints. Every route requires an
// admitted session and only ever sees the caller's own tasks.
//
// # Endpoints
//   - GET    /     : Lists the caller's tasks.
//   - POST   /     : Creates a task.
//   - GET    /{id} : Returns one task.
//   - PUT    /{id} : Partially updates one task.
//   - DELETE /{id} : Deletes one task.
func (handler *Handler) Routes(gate middleware.Admitter) chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.Authenticate(gate))
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{id}", handler.get)
	router.Put("/{id}", handler.update)
	router.Delete("/{id}", handler.delete)

	return router
}

// # Request Payloads

type createRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// updateRequest uses pointers so an absent field is distinguishable from a zero value.
type updateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

type deleteResponse struct {
	Message string `json:"message"`
	Task    *Task  `json:"task"`
}

/*
List returns the caller's tasks as a JSON array, newest first.

GET /api/tasks
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	tasks, err := handler.taskService.List(request.Context(), ownerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, tasks)
}

/*
Get returns one task.

GET /api/tasks/{id}

Response:
  - 200: task
  - 404: Unknown id or owned by someone else
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	task, err := handler.taskService.Get(request.Context(), requestutil.Param(request, "id"), ownerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, task)
}

/*
Create adds a task for the caller.

POST /api/tasks

Response:
  - 201: task with completed=false
  - 400: Missing or oversized title
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	task, err := handler.taskService.Create(request.Context(), ownerID, CreateInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, task)
}

/*
Update applies the fields present in the body.

PUT /api/tasks/{id}

Response:
  - 200: task
  - 400: Empty title
  - 404: Unknown id or owned by someone else
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	task, err := handler.taskService.Update(request.Context(), requestutil.Param(request, "id"), ownerID, UpdateInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, task)
}

/*
Delete removes a task and echoes it back.

DELETE /api/tasks/{id}
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	task, err := handler.taskService.Delete(request.Context(), requestutil.Param(request, "id"), ownerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, deleteResponse{Message: "Task deleted successfully", Task: task})
}
