package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"taskly/internal/auth"
	"taskly/internal/domain"
	"taskly/internal/service"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	auth   service.AuthService
	tasks  service.TaskService
	tokens *auth.TokenIssuer
	logger *logrus.Logger
}

func NewHandler(authSvc service.AuthService, tasks service.TaskService, tokens *auth.TokenIssuer, logger *logrus.Logger) *Handler {
	return &Handler{
		auth:   authSvc,
		tasks:  tasks,
		tokens: tokens,
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization"},
	}))

	api := router.Group("/api")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})
		api.POST("/auth/register", h.register)
		api.POST("/auth/login", h.login)
	}

	protected := api.Group("", h.requireAuth())
	{
		protected.POST("/auth/logout", h.logout)
		protected.POST("/tasks", h.createTask)
		protected.GET("/tasks", h.listTasks)
		protected.PUT("/tasks/:id", h.updateTask)
		protected.DELETE("/tasks/:id", h.deleteTask)
		protected.POST("/tasks/:id/toggle", h.toggleTask)
	}
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail" binding:"required"`
	Password        string `json:"password" binding:"required"`
}

type taskRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	DueDate     *string `json:"dueDate"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	result, err := h.auth.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, authToResponse(result))
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.UsernameOrEmail, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, authToResponse(result))
}

// logout is a stateless no-op: token validity ends at natural expiry and the
// client simply discards its copy.
func (h *Handler) logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "logged out, discard the token"})
}

func (h *Handler) createTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		h.writeError(c, err)
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), callerID(c), req.Name, req.Description, dueDate)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskToResponse(task))
}

func (h *Handler) listTasks(c *gin.Context) {
	var completed *bool
	if raw := c.Query("completed"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			h.writeError(c, &domain.ValidationError{Fields: map[string]string{"completed": "must be true or false"}})
			return
		}
		completed = &v
	}

	var dueOnOrBefore *time.Time
	if raw := c.Query("dueOnOrBefore"); raw != "" {
		t, err := parseTimestamp(raw)
		if err != nil {
			h.writeError(c, &domain.ValidationError{Fields: map[string]string{"dueOnOrBefore": "must be an RFC 3339 timestamp"}})
			return
		}
		dueOnOrBefore = &t
	}

	page, pageSize, err := parsePaging(c)
	if err != nil {
		h.writeError(c, err)
		return
	}

	result, err := h.tasks.List(c.Request.Context(), callerID(c), completed, dueOnOrBefore, page, pageSize)
	if err != nil {
		h.writeError(c, err)
		return
	}

	items := make([]TaskResponse, len(result.Items))
	for i := range result.Items {
		items[i] = taskToResponse(&result.Items[i])
	}
	c.JSON(http.StatusOK, PagedTasksResponse{
		Items:           items,
		TotalCount:      result.TotalCount,
		Page:            result.Page,
		PageSize:        result.PageSize,
		TotalPages:      result.TotalPages,
		HasNextPage:     result.HasNextPage,
		HasPreviousPage: result.HasPreviousPage,
	})
}

func (h *Handler) updateTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		h.writeError(c, err)
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), callerID(c), c.Param("id"), req.Name, req.Description, dueDate)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskToResponse(task))
}

func (h *Handler) deleteTask(c *gin.Context) {
	if err := h.tasks.Delete(c.Request.Context(), callerID(c), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) toggleTask(c *gin.Context) {
	task, err := h.tasks.Toggle(c.Request.Context(), callerID(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskToResponse(task))
}

// parsePaging clamps page and pageSize to sane bounds before they reach the
// query builder: page >= 1, 1 <= pageSize <= 100.
func parsePaging(c *gin.Context) (int, int, error) {
	page := 1
	if raw := c.Query("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, &domain.ValidationError{Fields: map[string]string{"page": "must be an integer"}}
		}
		page = v
	}
	pageSize := defaultPageSize
	if raw := c.Query("pageSize"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, &domain.ValidationError{Fields: map[string]string{"pageSize": "must be an integer"}}
		}
		pageSize = v
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize, nil
}

func parseDueDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := parseTimestamp(*raw)
	if err != nil {
		return nil, &domain.ValidationError{Fields: map[string]string{"dueDate": "must be an RFC 3339 timestamp"}}
	}
	return &t, nil
}

// parseTimestamp accepts RFC 3339; a timestamp without an explicit offset is
// treated as already UTC.
func parseTimestamp(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04:05", raw, time.UTC)
}

type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type AuthResponse struct {
	AccessToken  string       `json:"accessToken"`
	ExpiresAtUtc string       `json:"expiresAtUtc"`
	User         UserResponse `json:"user"`
}

type TaskResponse struct {
	ID          string  `json:"id"`
	OwnerID     string  `json:"ownerId"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	DueDate     *string `json:"dueDate,omitempty"`
	IsCompleted bool    `json:"isCompleted"`
	CompletedAt *string `json:"completedAt,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

type PagedTasksResponse struct {
	Items           []TaskResponse `json:"items"`
	TotalCount      int            `json:"totalCount"`
	Page            int            `json:"page"`
	PageSize        int            `json:"pageSize"`
	TotalPages      int            `json:"totalPages"`
	HasNextPage     bool           `json:"hasNextPage"`
	HasPreviousPage bool           `json:"hasPreviousPage"`
}

func authToResponse(result *service.AuthResult) AuthResponse {
	return AuthResponse{
		AccessToken:  result.Token,
		ExpiresAtUtc: result.ExpiresAt.UTC().Format(time.RFC3339),
		User: UserResponse{
			ID:       result.User.ID,
			Username: result.User.Username,
			Email:    result.User.Email,
		},
	}
}

func taskToResponse(task *domain.Task) TaskResponse {
	resp := TaskResponse{
		ID:          task.ID,
		OwnerID:     task.OwnerID,
		Name:        task.Name,
		Description: task.Description,
		IsCompleted: task.IsCompleted,
		CreatedAt:   task.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   task.UpdatedAt.Format(time.RFC3339),
	}
	if task.DueDate != nil {
		v := task.DueDate.Format(time.RFC3339)
		resp.DueDate = &v
	}
	if task.CompletedAt != nil {
		v := task.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &v
	}
	return resp
}
