package chat

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/fredke/backend/internal/model/chat"
	"github.com/zhouzirui/fredke/backend/internal/service/ai"
	chatService "github.com/zhouzirui/fredke/backend/internal/service/chat"
	"github.com/zhouzirui/fredke/backend/pkg/utils"
)

const maxBodyBytes = 1 << 20

const generationFailedMessage = "Failed to generate website. Please try again."

// Handler 聊天服务的HTTP处理器
type Handler struct {
	chatSvc *chatService.Service
}

// New 创建聊天处理器
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/generate", h.handleGenerate)
	r.Get("/messages/{sessionID}", h.handleListMessages)
	r.Delete("/messages/{sessionID}", h.handleClearMessages)
	r.Get("/messages/{sessionID}/{messageID}/preview", h.handlePreview)
	r.Get("/messages/{sessionID}/{messageID}/files/{kind}", h.handleDownload)
}

// handleGenerate 生成网站并写入会话记录
func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var payload chatService.GenerateRequest

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondValidation(w, []chatService.FieldError{{Field: "body", Message: "Request body must be a JSON object"}})
		return
	}

	result, err := h.chatSvc.Generate(r.Context(), payload)
	if err != nil {
		h.respondGenerateError(w, r, payload.SessionID, err)
		return
	}

	log.Printf("[generate] session=%s user=%d assistant=%d title=%q", payload.SessionID, result.UserMessage.ID, result.AIMessage.ID, result.GeneratedCode.Title)
	utils.RespondJSON(w, http.StatusOK, result)
}

// respondInvalid 将校验错误写为 400，返回是否已响应
func respondInvalid(w http.ResponseWriter, err error) bool {
	var verr *chatService.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	utils.RespondValidation(w, verr.Fields)
	return true
}

func (h *Handler) respondGenerateError(w http.ResponseWriter, r *http.Request, sessionID string, err error) {
	if respondInvalid(w, err) {
		return
	}

	log.Printf("[generate] request_id=%s session=%s failed: %v", middleware.GetReqID(r.Context()), sessionID, err)

	switch {
	case errors.Is(err, ai.ErrNotConfigured):
		utils.RespondError(w, http.StatusInternalServerError, "generation unavailable")
	case errors.Is(err, ai.ErrGeneration):
		utils.RespondError(w, http.StatusInternalServerError, generationFailedMessage)
	default:
		utils.RespondError(w, http.StatusInternalServerError, "Failed to save messages")
	}
}

// handleListMessages 按时间顺序返回会话消息
func (h *Handler) handleListMessages(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	messages, err := h.chatSvc.History(r.Context(), sessionID)
	if respondInvalid(w, err) {
		return
	}
	if err != nil {
		log.Printf("[messages] request_id=%s session=%s list failed: %v", middleware.GetReqID(r.Context()), sessionID, err)
		utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch messages")
		return
	}

	utils.RespondJSON(w, http.StatusOK, messages)
}

// handleClearMessages 清空会话记录
func (h *Handler) handleClearMessages(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	err := h.chatSvc.Clear(r.Context(), sessionID)
	if respondInvalid(w, err) {
		return
	}
	if err != nil {
		log.Printf("[messages] request_id=%s session=%s clear failed: %v", middleware.GetReqID(r.Context()), sessionID, err)
		utils.RespondError(w, http.StatusInternalServerError, "Failed to clear messages")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Chat history cleared"})
}

// handlePreview 以隔离文档的形式返回生成的网站
func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	site, ok := h.lookupWebsite(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Security-Policy", "sandbox allow-scripts")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(site.PreviewDocument())); err != nil {
		log.Printf("[preview] write failed: %v", err)
	}
}

// handleDownload 以附件形式下载单个代码文件
func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	site, ok := h.lookupWebsite(w, r)
	if !ok {
		return
	}

	file, ok := site.FileByKind(chi.URLParam(r, "kind"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "unknown file kind")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+file.Name+`"`)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(file.Content)); err != nil {
		log.Printf("[download] write failed: %v", err)
	}
}

func (h *Handler) lookupWebsite(w http.ResponseWriter, r *http.Request) (chat.GeneratedWebsite, bool) {
	sessionID := chi.URLParam(r, "sessionID")
	id, err := strconv.ParseInt(chi.URLParam(r, "messageID"), 10, 64)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "message not found")
		return chat.GeneratedWebsite{}, false
	}

	msg, found, err := h.chatSvc.Message(r.Context(), sessionID, id)
	if err != nil {
		log.Printf("[messages] request_id=%s session=%s lookup failed: %v", middleware.GetReqID(r.Context()), sessionID, err)
		utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch messages")
		return chat.GeneratedWebsite{}, false
	}
	if !found || msg.GeneratedCode == nil {
		utils.RespondError(w, http.StatusNotFound, "message not found")
		return chat.GeneratedWebsite{}, false
	}
	return *msg.GeneratedCode, true
}
