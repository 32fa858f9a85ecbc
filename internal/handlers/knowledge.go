package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/learnpath-backend/internal/platform/logger"
	"github.com/yungbote/learnpath-backend/internal/services"
)

const defaultRecommendationLimit = 5

type KnowledgeHandler struct {
	log *logger.Logger
	svc services.KnowledgeGraphService
}

func NewKnowledgeHandler(log *logger.Logger, svc services.KnowledgeGraphService) *KnowledgeHandler {
	return &KnowledgeHandler{
		log: log.With("handler", "KnowledgeHandler"),
		svc: svc,
	}
}

func userIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return uuid.Nil, false
	}
	return id, true
}

// POST /api/graph/rebuild
func (h *KnowledgeHandler) RebuildGraph(c *gin.Context) {
	out, err := h.svc.RebuildGraph(c.Request.Context())
	if err != nil {
		if !errors.Is(err, services.ErrRebuildInProgress) {
			h.log.Error("graph rebuild failed", "error", err)
		}
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"graph": out})
}

// GET /api/users/:userId/recommendations?limit=N
func (h *KnowledgeHandler) RecommendNext(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	limit := defaultRecommendationLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			RespondError(c, http.StatusBadRequest, "invalid_limit", errors.New("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	recs, err := h.svc.RecommendNext(c.Request.Context(), userID, limit)
	if err != nil {
		h.log.Error("recommendations failed", "error", err, "user_id", userID)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"recommendations": recs})
}

// GET /api/users/:userId/learning-path/:courseId
func (h *KnowledgeHandler) GenerateLearningPath(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	courseID := c.Param("courseId")

	path, err := h.svc.GenerateLearningPath(c.Request.Context(), userID, courseID)
	if err != nil {
		h.log.Error("learning path failed", "error", err, "user_id", userID, "course_id", courseID)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"learning_path": path})
}

// GET /api/users/:userId/skill-gaps
func (h *KnowledgeHandler) FindSkillGaps(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	report, err := h.svc.FindSkillGaps(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("skill gaps failed", "error", err, "user_id", userID)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, report)
}

// GET /api/users/:userId/career-path/:role
func (h *KnowledgeHandler) AnalyzeCareerPath(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	role := c.Param("role")

	plan, err := h.svc.AnalyzeCareerPath(c.Request.Context(), userID, role)
	if err != nil {
		h.log.Error("career path failed", "error", err, "user_id", userID, "role", role)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, plan)
}
